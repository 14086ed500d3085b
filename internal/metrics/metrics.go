// Package metrics provides Prometheus metrics for the gateway.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Dispatch ───────────────────────────────────────────────────────────────

// DispatchTotal counts dispatched tasks by kind and outcome (ok or an error kind).
var DispatchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "mediagate",
	Name:      "dispatch_total",
	Help:      "Total dispatched tasks.",
}, []string{"kind", "outcome"})

// DispatchLatency tracks end-to-end dispatch duration in seconds.
var DispatchLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "mediagate",
	Name:      "dispatch_latency_seconds",
	Help:      "Dispatch duration in seconds, including rehosting.",
	Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
}, []string{"kind"})

// ─── Media ──────────────────────────────────────────────────────────────────

// RehostTotal counts rehost attempts by outcome.
var RehostTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "mediagate",
	Name:      "rehost_total",
	Help:      "Total media rehost attempts.",
}, []string{"outcome"})

// RehostBytes counts bytes written to durable storage.
var RehostBytes = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "mediagate",
	Name:      "rehost_bytes_total",
	Help:      "Total bytes copied into durable storage.",
})

// ─── Jobs ───────────────────────────────────────────────────────────────────

// JobPolls counts job polls by provider and resulting state.
var JobPolls = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "mediagate",
	Name:      "job_polls_total",
	Help:      "Total job status polls.",
}, []string{"provider", "state"})

// ─── Streaming ──────────────────────────────────────────────────────────────

// StreamChunks counts text increments relayed to clients.
var StreamChunks = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "mediagate",
	Name:      "stream_chunks_total",
	Help:      "Total streamed text increments relayed.",
})

// StreamErrors counts streams that ended with an upstream error.
var StreamErrors = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "mediagate",
	Name:      "stream_errors_total",
	Help:      "Total streams terminated by an upstream error.",
})
