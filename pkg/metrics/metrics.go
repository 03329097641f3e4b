// Package metrics exposes the Prometheus registry shared by the catalog pager.
// Metrics are defined with promauto in the packages that record them
// (client, cache, ratelimit, view, session); this package serves them.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the registerer every package's promauto metrics land in.
var Registry = prometheus.DefaultRegisterer

// Gatherer is the source Handler reads from.
var Gatherer = prometheus.DefaultGatherer

// Handler serves all registered metrics in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Gatherer, promhttp.HandlerOpts{})
}

// Metrics Documentation
//
// Request Metrics (pkg/client):
//   - catalog_requests_total{endpoint, status} (Counter)
//   - catalog_request_duration_seconds{endpoint} (Histogram)
//   - catalog_errors_total{class} (Counter): client, server, rate_limit, network
//   - catalog_retries_total{error_class} (Counter)
//   - catalog_retry_backoff_seconds{error_class} (Histogram)
//   - catalog_retry_exhausted_total{error_class} (Counter)
//
// Cache Metrics (pkg/cache):
//   - catalog_cache_hits_total, catalog_cache_misses_total (Counter)
//   - catalog_cache_stored_bytes_total (Counter)
//   - catalog_304_responses_total, catalog_conditional_requests_total (Counter)
//   - catalog_cache_errors_total{operation} (Counter)
//
// Rate Limit Metrics (pkg/ratelimit):
//   - catalog_rate_limit_remaining (Gauge)
//   - catalog_rate_limit_blocks_total, catalog_rate_limit_throttles_total (Counter)
//
// View Metrics (pkg/view):
//   - catalog_view_fetches_total{result} (Counter): success, error
//   - catalog_view_stale_responses_total (Counter)
//
// Session Metrics (internal/session):
//   - catalog_sessions_active (Gauge)
//   - catalog_sessions_expired_total (Counter)
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(catalog_cache_hits_total[5m])) /
//   (sum(rate(catalog_cache_hits_total[5m])) + sum(rate(catalog_cache_misses_total[5m])))
//
//   # Page fetch failure ratio
//   rate(catalog_view_fetches_total{result="error"}[5m]) / rate(catalog_view_fetches_total[5m])
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(catalog_request_duration_seconds_bucket[5m]))
