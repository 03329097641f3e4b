// Package cache provides a Redis-backed response cache for catalog requests.
//
// The cache manager implements HTTP caching with the following features:
//
// - TTL taken from the upstream Expires header, with a configurable fallback
// - ETag support for conditional requests (If-None-Match)
// - Last-Modified support (If-Modified-Since)
// - Deterministic cache key generation from endpoint and query
// - Prometheus metrics for observability
//
// # Basic Usage
//
//	redisClient := redis.NewClient(&redis.Options{
//		Addr: "localhost:6379",
//	})
//
//	manager := cache.NewManager(redisClient, cache.WithFallbackTTL(2*time.Minute))
//
//	key := cache.Key{
//		Endpoint:    "/products",
//		QueryParams: url.Values{"limit": []string{"5"}, "skip": []string{"0"}},
//	}
//
//	entry, err := manager.Get(ctx, key)
//	if errors.Is(err, cache.ErrCacheMiss) {
//		// fetch from the catalog
//	}
//
// # HTTP Response Caching
//
// Only 200 pages are cached. A 304 extends the cached page instead.
//
//	entry, err := manager.Store(ctx, key, resp)
//	if err != nil && !errors.Is(err, cache.ErrNotCacheable) {
//		return err
//	}
//	...
//	err = manager.Revalidate(ctx, key, entry, notModified.Header)
//
// # Conditional Requests
//
//	if cache.ShouldMakeConditionalRequest(entry) {
//		cache.AddConditionalHeaders(req, entry)
//		// the catalog answers 304 when nothing changed
//	}
//
// # Metrics
//
//   - catalog_cache_hits_total{endpoint} - Cache hits
//   - catalog_cache_misses_total{endpoint} - Cache misses
//   - catalog_cache_stored_bytes_total - Bytes written to the cache
//   - catalog_304_responses_total - Conditional request successes
//   - catalog_conditional_requests_total - Conditional requests sent
//   - catalog_cache_errors_total{operation} - Cache operation errors
package cache
