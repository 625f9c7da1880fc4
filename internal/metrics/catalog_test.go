package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogMetrics_Exported(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCatalogMetrics(reg)

	m.ObserveFetch(ResultOK, 120*time.Millisecond)
	m.ObserveFetch("", 10*time.Millisecond)
	m.ObserveSearchCandidates(3)
	m.IncPicksFailure()
	m.IncSchemaResolutionFailure("ETHEREUM")
	m.IncSchemaResolutionFailure("ETHEREUM")

	mfs, err := reg.Gather()
	require.NoError(t, err)

	fetch := findMetricFamily(mfs, "catalog_fetch_duration_seconds")
	require.NotNil(t, fetch)
	ok := findMetric(fetch, "result", ResultOK)
	require.NotNil(t, ok)
	assert.Equal(t, uint64(1), ok.GetHistogram().GetSampleCount())
	assert.InDelta(t, 0.12, ok.GetHistogram().GetSampleSum(), 0.001)
	assert.NotNil(t, findMetric(fetch, "result", "unknown"))

	search := findMetricFamily(mfs, "catalog_search_candidates")
	require.NotNil(t, search)
	assert.Equal(t, float64(3), search.GetMetric()[0].GetHistogram().GetSampleSum())

	picks := findMetricFamily(mfs, "catalog_picks_annotation_failures")
	require.NotNil(t, picks)
	assert.Equal(t, float64(1), picks.GetMetric()[0].GetCounter().GetValue())

	schemas := findMetricFamily(mfs, "catalog_schema_resolution_failures")
	require.NotNil(t, schemas)
	eth := findMetric(schemas, "network", "ETHEREUM")
	require.NotNil(t, eth)
	assert.Equal(t, float64(2), eth.GetCounter().GetValue())
}

func TestCatalogMetrics_NilSafe(t *testing.T) {
	var nilMetrics *CatalogMetrics
	noop := NewCatalogMetrics(nil)

	for _, m := range []*CatalogMetrics{nilMetrics, noop} {
		assert.NotPanics(t, func() {
			m.ObserveFetch(ResultError, time.Second)
			m.ObserveSearchCandidates(1)
			m.IncPicksFailure()
			m.IncSchemaResolutionFailure("POLYGON")
		})
	}
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func findMetric(mf *dto.MetricFamily, label, value string) *dto.Metric {
	for _, metric := range mf.GetMetric() {
		for _, pair := range metric.GetLabel() {
			if pair.GetName() == label && pair.GetValue() == value {
				return metric
			}
		}
	}
	return nil
}
