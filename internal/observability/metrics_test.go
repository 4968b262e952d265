// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordSourceRequest(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry(), "test")

	m.RecordSourceRequest("Semantic Scholar", true, 0.2)
	m.RecordSourceRequest("Semantic Scholar", false, 1.5)
	m.RecordSourceRequest("Semantic Scholar", true, 0.3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.SourceRequests.WithLabelValues("Semantic Scholar", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SourceRequests.WithLabelValues("Semantic Scholar", OutcomeError)))
}

func TestRecordRetrieval(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry(), "test")

	m.RecordRetrieval(4, true, false, 5)
	m.RecordRetrieval(0, false, true, 2)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Retrievals))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.AliasQueries))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.VenueFilterBypassed))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Fallbacks))
}

func TestNewMetricsRegistersOnRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg, "paperscout")
	m.RecordRetrieval(0, false, false, 0)

	families, err := reg.Gather()
	require.NoError(t, err)
	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "paperscout_retrievals_total")
	assert.Contains(t, names, "paperscout_papers_returned")
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordSourceRequest("Crossref", false, 1)
		m.RecordRetrieval(1, true, true, 0)
	})
}
