// Package metrics exposes the Prometheus metrics of the SpaceTraders client.
// The metrics are defined in their respective packages (client, cache,
// ratelimit) to avoid circular dependencies; this package serves them.
package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the Prometheus registry the client metrics are registered with.
// All metrics are registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Gatherer gathers the metrics served by Handler.
var Gatherer = prometheus.DefaultGatherer

// Handler serves the client metrics in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Gatherer, promhttp.HandlerOpts{})
}

// NewServer returns a server exposing /metrics and /health on addr.
func NewServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	})
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// Metrics Documentation
//
// Rate Limit Metrics (pkg/ratelimit):
//   - spess_ratelimit_waits_total (Counter): Requests that waited on the local limiter
//   - spess_ratelimit_wait_seconds (Histogram): Time spent waiting on the local limiter
//   - spess_ratelimit_remaining (Gauge): Requests left in the server window, from X-Ratelimit-Remaining
//   - spess_ratelimit_shared_blocks_total (Counter): Requests delayed by the shared redis window
//
// Cache Metrics (pkg/cache):
//   - spess_cache_hits_total (Counter): Response cache hits
//   - spess_cache_misses_total (Counter): Response cache misses
//   - spess_cache_size_bytes (Counter): Bytes written to the response cache
//   - spess_cache_errors_total{operation} (Counter): Cache operation errors
//
// Request Metrics (pkg/client):
//   - spess_requests_total{endpoint, status} (Counter): Requests by route and HTTP status, "cached" for cache hits
//   - spess_request_duration_seconds{endpoint} (Histogram): Request duration including waits and retries
//   - spess_errors_total{class} (Counter): Errors by class (parse, client, rate_limit, server, network)
//
// Retry Metrics (pkg/client):
//   - spess_retries_total{error_class} (Counter): Retry attempts by error class
//   - spess_retry_backoff_seconds{error_class} (Histogram): Backoff duration by error class
//   - spess_retry_exhausted_total{error_class} (Counter): Requests that exhausted max retries
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(spess_cache_hits_total[5m])) /
//   (sum(rate(spess_cache_hits_total[5m])) + sum(rate(spess_cache_misses_total[5m])))
//
//   # Close to the server limit
//   spess_ratelimit_remaining < 5
//
//   # 429 Rate
//   rate(spess_requests_total{status="429"}[5m])
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(spess_request_duration_seconds_bucket[5m]))
