package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Sternrassler/catalog-pager/internal/session"
	"github.com/Sternrassler/catalog-pager/pkg/metrics"
	"github.com/Sternrassler/catalog-pager/pkg/pagination"
	"github.com/Sternrassler/catalog-pager/pkg/view"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// server exposes sessions over HTTP.
type server struct {
	store  *session.Store
	redis  *redis.Client
	logger zerolog.Logger
}

func newServer(store *session.Store, redisClient *redis.Client, logger zerolog.Logger) *server {
	return &server{store: store, redis: redisClient, logger: logger}
}

// sessionResponse is returned by every session endpoint.
type sessionResponse struct {
	ID       string        `json:"id"`
	Snapshot view.Snapshot `json:"snapshot"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.logRequests)

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/ready", s.handleReady).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api/sessions").Subrouter()
	api.HandleFunc("", s.handleCreate).Methods(http.MethodPost)
	api.HandleFunc("/{id}", s.handleGet).Methods(http.MethodGet)
	api.HandleFunc("/{id}", s.handleDelete).Methods(http.MethodDelete)
	api.HandleFunc("/{id}/page/{n}", s.withSession(goToPage)).Methods(http.MethodPost)
	api.HandleFunc("/{id}/size/{n}", s.withSession(setPageSize)).Methods(http.MethodPost)
	api.HandleFunc("/{id}/next", s.withSession(nextPage)).Methods(http.MethodPost)
	api.HandleFunc("/{id}/prev", s.withSession(previousPage)).Methods(http.MethodPost)
	api.HandleFunc("/{id}/refresh", s.withSession(refreshPage)).Methods(http.MethodPost)

	return r
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.redis != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.redis.Ping(ctx).Err(); err != nil {
			s.logger.Warn().Err(err).Msg("Readiness check failed")
			s.writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "redis unavailable"})
			return
		}
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *server) handleCreate(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Create()
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to create session")
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	err = sess.View.Load(r.Context())
	s.respond(w, sess, err, http.StatusCreated)
}

func (s *server) handleGet(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	s.respond(w, sess, nil, http.StatusOK)
}

func (s *server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(mux.Vars(r)["id"]); err != nil {
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// sessionAction mutates a session view from a request.
type sessionAction func(r *http.Request, v *view.ListView) error

func (s *server) withSession(action sessionAction) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := s.lookup(w, r)
		if !ok {
			return
		}
		s.respond(w, sess, action(r, sess.View), http.StatusOK)
	}
}

func goToPage(r *http.Request, v *view.ListView) error {
	n, err := pagination.ParsePageNumber(mux.Vars(r)["n"])
	if err != nil {
		return err
	}
	return v.GoToPage(r.Context(), n)
}

func setPageSize(r *http.Request, v *view.ListView) error {
	n, err := pagination.ParsePageSize(mux.Vars(r)["n"])
	if err != nil {
		return err
	}
	return v.SetPageSize(r.Context(), n)
}

func nextPage(r *http.Request, v *view.ListView) error { return v.Next(r.Context()) }
func previousPage(r *http.Request, v *view.ListView) error { return v.Previous(r.Context()) }
func refreshPage(r *http.Request, v *view.ListView) error { return v.Load(r.Context()) }

func (s *server) lookup(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := s.store.Get(mux.Vars(r)["id"])
	if err != nil {
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
		return nil, false
	}
	return sess, true
}

// respond maps an action error to a status. Fetch failures still carry the
// snapshot so the client can render the previous page and a retry control.
func (s *server) respond(w http.ResponseWriter, sess *session.Session, err error, okStatus int) {
	switch {
	case err == nil:
		s.writeJSON(w, okStatus, sessionResponse{ID: sess.ID, Snapshot: sess.View.Snapshot()})
	case errors.Is(err, view.ErrFetchFailed):
		s.writeJSON(w, http.StatusBadGateway, sessionResponse{ID: sess.ID, Snapshot: sess.View.Snapshot()})
	case errors.Is(err, pagination.ErrInvalidPageNumber),
		errors.Is(err, pagination.ErrInvalidPageSize):
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		s.logger.Error().Err(err).Str("session", sess.ID).Msg("Session action failed")
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
}

func (s *server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("Handled request")
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// writeJSON writes body with status. The status line is already sent when
// encoding fails, so the error is only logged.
func (s *server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Debug().Err(err).Int("status", status).Msg("Failed to write JSON response")
	}
}
