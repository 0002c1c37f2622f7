package noaa

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	fetchAttempts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "icewatch_upstream_fetch_attempts_total",
		Help: "Upstream fetch attempts, one per endpoint tried.",
	})

	fetchFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "icewatch_upstream_fetch_failures_total",
		Help: "Upstream fetch attempts that returned no usable payload.",
	})

	certFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "icewatch_upstream_cert_fallbacks_total",
		Help: "Retries performed with TLS certificate verification disabled.",
	})

	endpointsExhausted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "icewatch_upstream_exhausted_total",
		Help: "Queries for which every candidate endpoint failed.",
	})
)
