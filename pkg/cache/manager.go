package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrCacheMiss indicates the requested page is not cached or has expired
	ErrCacheMiss = errors.New("cache miss")

	// ErrInvalidEntry indicates a stored page could not be decoded or is not a 200 page
	ErrInvalidEntry = errors.New("invalid cache entry")

	// ErrNotCacheable indicates a catalog response that must not be cached
	ErrNotCacheable = errors.New("response not cacheable")
)

// Manager caches catalog page responses in Redis. Each page query
// (endpoint plus limit, skip and select) is one key; entries live until
// the upstream Expires time or, without one, for the fallback TTL.
type Manager struct {
	redis       *redis.Client
	fallbackTTL time.Duration
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithFallbackTTL sets how long a page is kept when the catalog sends no
// Expires header. Non-positive values keep DefaultTTL.
func WithFallbackTTL(ttl time.Duration) ManagerOption {
	return func(m *Manager) {
		if ttl > 0 {
			m.fallbackTTL = ttl
		}
	}
}

// NewManager creates a page cache on top of redisClient.
func NewManager(redisClient *redis.Client, opts ...ManagerOption) *Manager {
	if redisClient == nil {
		panic("redis client cannot be nil")
	}
	m := &Manager{
		redis:       redisClient,
		fallbackTTL: DefaultTTL,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// FallbackTTL returns the TTL applied to pages without an Expires header.
func (m *Manager) FallbackTTL() time.Duration {
	return m.fallbackTTL
}

// Get returns the cached page for key.
// Returns ErrCacheMiss if the key doesn't exist or the entry is expired.
func (m *Manager) Get(ctx context.Context, key Key) (*Entry, error) {
	endpoint := endpointLabel(key)

	data, err := m.redis.Get(ctx, key.String()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			CacheMisses.WithLabelValues(endpoint).Inc()
			return nil, ErrCacheMiss
		}
		CacheErrors.WithLabelValues("get").Inc()
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		CacheErrors.WithLabelValues("get").Inc()
		return nil, fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}
	if err := entry.Validate(); err != nil {
		CacheErrors.WithLabelValues("get").Inc()
		_ = m.Delete(ctx, key)
		return nil, err
	}

	if entry.IsExpired() {
		_ = m.Delete(ctx, key)
		CacheMisses.WithLabelValues(endpoint).Inc()
		return nil, ErrCacheMiss
	}

	CacheHits.WithLabelValues(endpoint).Inc()
	return &entry, nil
}

// Set stores a page entry until its Expires time. An entry without an
// expiry gets the fallback TTL; an already expired one is skipped.
func (m *Manager) Set(ctx context.Context, key Key, entry *Entry) error {
	if entry == nil {
		return fmt.Errorf("cache entry cannot be nil")
	}
	if err := entry.Validate(); err != nil {
		return err
	}
	if entry.Expires.IsZero() {
		entry.Expires = time.Now().Add(m.fallbackTTL)
	}

	ttl := entry.TTL()
	if ttl <= 0 {
		return nil
	}

	data, err := json.Marshal(entry)
	if err != nil {
		CacheErrors.WithLabelValues("set").Inc()
		return fmt.Errorf("marshal cache entry: %w", err)
	}

	if err := m.redis.Set(ctx, key.String(), data, ttl).Err(); err != nil {
		CacheErrors.WithLabelValues("set").Inc()
		return fmt.Errorf("redis set %s: %w", key, err)
	}

	CacheStoredBytes.Add(float64(len(data)))
	return nil
}

// Store caches a 200 catalog response under key and restores its body for
// the caller. Other status codes return ErrNotCacheable.
func (m *Manager) Store(ctx context.Context, key Key, resp *http.Response) (*Entry, error) {
	if resp == nil {
		return nil, fmt.Errorf("response cannot be nil")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrNotCacheable, resp.StatusCode)
	}

	entry, err := ResponseToEntry(resp, m.fallbackTTL)
	if err != nil {
		CacheErrors.WithLabelValues("set").Inc()
		return nil, err
	}
	if err := m.Set(ctx, key, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// Revalidate handles a 304 for a cached page. It counts the response,
// extends the entry to the new Expires time (or the fallback TTL) and
// picks up a rotated ETag.
func (m *Manager) Revalidate(ctx context.Context, key Key, entry *Entry, header http.Header) error {
	if entry == nil {
		return fmt.Errorf("%w: no cached page to revalidate", ErrCacheMiss)
	}
	NotModifiedResponses.Inc()

	entry.Expires = parseExpires(header, m.fallbackTTL)
	if etag := header.Get("ETag"); etag != "" {
		entry.ETag = etag
	}
	return m.Set(ctx, key, entry)
}

// Delete removes a cached page.
func (m *Manager) Delete(ctx context.Context, key Key) error {
	if err := m.redis.Del(ctx, key.String()).Err(); err != nil {
		CacheErrors.WithLabelValues("delete").Inc()
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

func endpointLabel(key Key) string {
	if endpoint := strings.Trim(key.Endpoint, "/"); endpoint != "" {
		return endpoint
	}
	return "root"
}
