// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scopus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for the client.
type Metrics struct {
	Registry        *prometheus.Registry
	RequestsTotal   *prometheus.CounterVec
	RequestDuration prometheus.Histogram
	RetriesTotal    prometheus.Counter
	KeySwapsTotal   prometheus.Counter
	CacheTotal      *prometheus.CounterVec
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scopus_requests_total",
			Help: "Total page requests issued, by outcome.",
		},
		[]string{"outcome"},
	)
	requestDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scopus_request_duration_seconds",
			Help:    "Latency of individual page requests.",
			Buckets: prometheus.DefBuckets,
		},
	)
	retries := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "scopus_retries_total",
			Help: "Total transient-failure retries across all pages.",
		},
	)
	keySwaps := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "scopus_key_swaps_total",
			Help: "Total API keys marked exhausted and swapped out.",
		},
	)
	cache := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scopus_cache_lookups_total",
			Help: "Dedup cache lookups, by result (hit or miss).",
		},
		[]string{"result"},
	)

	registry.MustRegister(requests, requestDuration, retries, keySwaps, cache)

	return &Metrics{
		Registry:        registry,
		RequestsTotal:   requests,
		RequestDuration: requestDuration,
		RetriesTotal:    retries,
		KeySwapsTotal:   keySwaps,
		CacheTotal:      cache,
	}
}

func (m *Metrics) incRequest(outcome string) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) observeDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.Observe(d.Seconds())
}

func (m *Metrics) incRetries() {
	if m == nil {
		return
	}
	m.RetriesTotal.Inc()
}

func (m *Metrics) incKeySwaps() {
	if m == nil {
		return
	}
	m.KeySwapsTotal.Inc()
}

func (m *Metrics) incCache(result string) {
	if m == nil {
		return
	}
	m.CacheTotal.WithLabelValues(result).Inc()
}
