// Package view owns the paginated product listing: it holds the pagination
// state, drives fetches from a catalog.DataSource whenever the page query
// changes, and exposes a Snapshot for renderers.
//
// At most one fetch is outstanding per view. Starting a fetch cancels the
// previous one, and a response that arrives after a newer fetch started is
// dropped.
package view

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/Sternrassler/catalog-pager/pkg/catalog"
	"github.com/Sternrassler/catalog-pager/pkg/pagination"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	viewFetchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_view_fetches_total",
		Help: "Page fetches issued by list views by result",
	}, []string{"result"})

	viewStaleResponsesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_view_stale_responses_total",
		Help: "Responses discarded because a newer fetch superseded them",
	})
)

// ListView is a paginated product list bound to a data source.
// Its methods are safe for concurrent use.
type ListView struct {
	source     catalog.DataSource
	logger     zerolog.Logger
	maxVisible int

	mu      sync.Mutex
	state   *pagination.State
	items   []catalog.Product
	loading bool
	lastErr error
	seq     uint64
	cancel  context.CancelFunc
}

// Option configures a ListView.
type Option func(*options)

type options struct {
	logger     zerolog.Logger
	pageSize   int
	maxVisible int
}

// WithLogger sets the view logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithPageSize sets the initial page size. It must be an allowed size.
func WithPageSize(size int) Option {
	return func(o *options) { o.pageSize = size }
}

// WithMaxVisible sets how many consecutive page numbers the window shows.
func WithMaxVisible(n int) Option {
	return func(o *options) { o.maxVisible = n }
}

// New creates a view on page 1 with no items. Call Load to fetch the first page.
func New(source catalog.DataSource, opts ...Option) (*ListView, error) {
	if source == nil {
		return nil, errors.New("data source is required")
	}

	o := options{
		logger:     log.With().Str("component", "list-view").Logger(),
		pageSize:   pagination.DefaultPageSize,
		maxVisible: pagination.DefaultMaxVisible,
	}
	for _, opt := range opts {
		opt(&o)
	}

	if o.maxVisible < 1 {
		return nil, pagination.ErrInvalidWindow
	}
	state, err := pagination.NewStateWithPageSize(o.pageSize)
	if err != nil {
		return nil, err
	}

	return &ListView{
		source:     source,
		logger:     o.logger,
		maxVisible: o.maxVisible,
		state:      state,
	}, nil
}

// Load fetches the current page unconditionally. It serves both the initial
// load and a user-triggered refresh after a failure.
func (v *ListView) Load(ctx context.Context) error {
	return v.refetch(ctx)
}

// SetPageSize switches to an allowed page size and returns to page 1.
func (v *ListView) SetPageSize(ctx context.Context, size int) error {
	v.mu.Lock()
	changed, err := v.state.SetPageSize(size)
	v.mu.Unlock()

	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	return v.refetch(ctx)
}

// GoToPage moves to page n, clamped into the valid range.
func (v *ListView) GoToPage(ctx context.Context, n int) error {
	v.mu.Lock()
	changed := v.state.GoToPage(n)
	v.mu.Unlock()

	if !changed {
		return nil
	}
	return v.refetch(ctx)
}

// Next moves one page forward. It is a no-op on the last page.
func (v *ListView) Next(ctx context.Context) error {
	v.mu.Lock()
	changed := v.state.HasNext() && v.state.GoToPage(v.state.CurrentPage()+1)
	v.mu.Unlock()

	if !changed {
		return nil
	}
	return v.refetch(ctx)
}

// Previous moves one page back. It is a no-op on page 1.
func (v *ListView) Previous(ctx context.Context) error {
	v.mu.Lock()
	changed := v.state.HasPrevious() && v.state.GoToPage(v.state.CurrentPage()-1)
	v.mu.Unlock()

	if !changed {
		return nil
	}
	return v.refetch(ctx)
}

// refetch fetches the current query. When the response shrinks the total so
// far that the current page is clamped, one follow-up fetch loads the
// clamped page. A follow-up that is clamped again is reported as
// ErrTotalChanged instead of fetching without bound.
func (v *ListView) refetch(ctx context.Context) error {
	clamped, _, err := v.fetch(ctx)
	if errors.Is(err, ErrStaleResponse) {
		return nil
	}
	if err != nil || !clamped {
		return err
	}
	v.logger.Debug().Msg("Page clamped after fetch, loading clamped page")

	clamped, seq, err := v.fetch(ctx)
	if errors.Is(err, ErrStaleResponse) {
		return nil
	}
	if err != nil || !clamped {
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if seq != v.seq {
		return nil
	}
	v.loading = false
	return v.failLocked(v.state.Query(), ErrTotalChanged)
}

// fetch runs one fetch and reports whether applying its total moved the page,
// along with the sequence number it ran under.
func (v *ListView) fetch(ctx context.Context) (bool, uint64, error) {
	v.mu.Lock()
	if v.cancel != nil {
		v.cancel()
	}
	v.seq++
	seq := v.seq
	query := v.state.Query()
	fetchCtx, cancel := context.WithCancel(ctx)
	v.cancel = cancel
	v.loading = true
	v.mu.Unlock()
	defer cancel()

	v.logger.Debug().
		Uint64("seq", seq).
		Int("offset", query.Offset).
		Int("limit", query.Limit).
		Msg("Fetching page")

	page, err := v.source.FetchPage(fetchCtx, query.Offset, query.Limit)

	v.mu.Lock()
	defer v.mu.Unlock()

	if seq != v.seq {
		viewStaleResponsesTotal.Inc()
		v.logger.Debug().
			Uint64("seq", seq).
			Uint64("latest", v.seq).
			Msg("Discarding stale response")
		return false, seq, ErrStaleResponse
	}

	v.cancel = nil
	v.loading = false

	if err != nil {
		return false, seq, v.failLocked(query, err)
	}

	clamped, err := v.state.ApplyFetchResult(page.Total)
	if err != nil {
		return false, seq, v.failLocked(query, err)
	}

	v.items = page.Items
	v.lastErr = nil
	viewFetchesTotal.WithLabelValues("success").Inc()

	v.logger.Debug().
		Uint64("seq", seq).
		Int("items", len(page.Items)).
		Int("total", page.Total).
		Int("page", v.state.CurrentPage()).
		Msg("Page loaded")

	if clamped {
		v.loading = true
	}
	return clamped, seq, nil
}

func (v *ListView) failLocked(query pagination.Query, err error) error {
	fetchErr := &FetchError{Offset: query.Offset, Limit: query.Limit, Err: err}
	v.lastErr = fetchErr
	viewFetchesTotal.WithLabelValues("error").Inc()

	v.logger.Warn().
		Err(err).
		Int("offset", query.Offset).
		Int("limit", query.Limit).
		Msg("Page fetch failed")

	return fetchErr
}

// Snapshot returns a copy of everything a renderer needs.
func (v *ListView) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	totalPages := v.state.TotalPages()
	window, err := pagination.ComputeWindow(v.state.CurrentPage(), totalPages, v.maxVisible)
	if err != nil {
		v.logger.Error().Err(err).Msg("Compute pagination window")
		window = nil
	}

	items := slices.Clone(v.items)
	if items == nil {
		items = []catalog.Product{}
	}
	if window == nil {
		window = []pagination.Entry{}
	}

	snap := Snapshot{
		Items:       items,
		CurrentPage: v.state.CurrentPage(),
		PageSize:    v.state.PageSize(),
		TotalItems:  v.state.TotalItems(),
		TotalPages:  totalPages,
		Window:      window,
		HasPrevious: v.state.HasPrevious(),
		HasNext:     v.state.HasNext(),
		PageSizes:   pagination.PageSizeOptions(),
		Loading:     v.loading,
	}
	if v.lastErr != nil {
		snap.Error = v.lastErr.Error()
	}
	return snap
}
