// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Source request outcomes.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Metrics holds the Prometheus collectors for retrieval. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	// SourceRequests counts provider calls by source and outcome.
	SourceRequests *prometheus.CounterVec

	// SourceRequestDuration observes provider call latency in seconds.
	SourceRequestDuration *prometheus.HistogramVec

	// Retrievals counts Retrieve invocations that reached a provider.
	Retrievals prometheus.Counter

	// AliasQueries counts venue alias expansion calls.
	AliasQueries prometheus.Counter

	// VenueFilterBypassed counts retrievals where the venue filter would have
	// removed every record and was discarded.
	VenueFilterBypassed prometheus.Counter

	// Fallbacks counts retrievals answered by the secondary source.
	Fallbacks prometheus.Counter

	// PapersReturned observes the number of papers returned per retrieval.
	PapersReturned prometheus.Histogram
}

// NewMetrics registers the collectors on reg under namespace.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		SourceRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_requests_total",
			Help:      "Bibliographic provider requests by source and outcome.",
		}, []string{"source", "outcome"}),
		SourceRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "source_request_duration_seconds",
			Help:      "Bibliographic provider request latency.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30},
		}, []string{"source"}),
		Retrievals: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "retrievals_total",
			Help:      "Paper retrievals performed.",
		}),
		AliasQueries: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alias_queries_total",
			Help:      "Venue alias expansion queries issued.",
		}),
		VenueFilterBypassed: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "venue_filter_bypassed_total",
			Help:      "Retrievals where the venue filter matched nothing and was discarded.",
		}),
		Fallbacks: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallbacks_total",
			Help:      "Retrievals answered by the secondary source.",
		}),
		PapersReturned: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "papers_returned",
			Help:      "Papers returned per retrieval.",
			Buckets:   prometheus.LinearBuckets(0, 1, 11),
		}),
	}
}

// RecordSourceRequest records one provider call.
func (m *Metrics) RecordSourceRequest(source string, ok bool, seconds float64) {
	if m == nil {
		return
	}
	outcome := OutcomeOK
	if !ok {
		outcome = OutcomeError
	}
	m.SourceRequests.WithLabelValues(source, outcome).Inc()
	m.SourceRequestDuration.WithLabelValues(source).Observe(seconds)
}

// RecordRetrieval records a completed retrieval.
func (m *Metrics) RecordRetrieval(aliasQueries int, filterBypassed, fallback bool, papers int) {
	if m == nil {
		return
	}
	m.Retrievals.Inc()
	m.AliasQueries.Add(float64(aliasQueries))
	if filterBypassed {
		m.VenueFilterBypassed.Inc()
	}
	if fallback {
		m.Fallbacks.Inc()
	}
	m.PapersReturned.Observe(float64(papers))
}
