package ratelimit

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	limiterWaitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "spess_ratelimit_waits_total",
		Help: "Total number of times a request waited on the local limiter",
	})

	limiterWaitSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "spess_ratelimit_wait_seconds",
		Help:    "Time spent waiting on the local limiter",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
	})

	rateLimitRemaining = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "spess_ratelimit_remaining",
		Help: "Requests remaining in the current server rate limit window",
	})

	sharedWindowBlocksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "spess_ratelimit_shared_blocks_total",
		Help: "Total number of requests delayed by the shared redis window",
	})
)
