// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Chat turn outcomes.
const (
	OutcomeOK              = "ok"
	OutcomeCompletionError = "completion_error"
	OutcomeStoreError      = "store_error"
)

// Recorder is the metrics surface used by the service layer.
type Recorder interface {
	RecordChatTurn(outcome string)
	RecordCompletionLatency(duration time.Duration)
}

// Collector is the Prometheus-backed Recorder.
type Collector struct {
	chatTurns         *prometheus.CounterVec
	completionLatency prometheus.Histogram
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		chatTurns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chatrelay_chat_turns_total",
			Help: "Chat turns processed, by outcome.",
		}, []string{"outcome"}),
		completionLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "chatrelay_completion_latency_seconds",
			Help:    "Latency of generative-model completion calls in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(c.chatTurns, c.completionLatency)
	return c
}

// RecordChatTurn counts one processed chat turn.
func (c *Collector) RecordChatTurn(outcome string) {
	c.chatTurns.WithLabelValues(outcome).Inc()
}

// RecordCompletionLatency records one completion round-trip.
func (c *Collector) RecordCompletionLatency(duration time.Duration) {
	c.completionLatency.Observe(duration.Seconds())
}

// NopRecorder discards all measurements. Useful in tests.
type NopRecorder struct{}

func (NopRecorder) RecordChatTurn(string) {}

func (NopRecorder) RecordCompletionLatency(time.Duration) {}

// Handler returns the HTTP handler serving the Prometheus scrape endpoint.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
