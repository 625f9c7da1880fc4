package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	ResultOK    = "ok"
	ResultEmpty = "empty"
	ResultError = "error"
)

// CatalogMetrics records catalog fetch activity
type CatalogMetrics struct {
	fetchDuration     *prometheus.HistogramVec
	searchCandidates  prometheus.Histogram
	picksFailures     prometheus.Counter
	schemaResolutions *prometheus.CounterVec
}

// NewCatalogMetrics registers the catalog metrics on reg. A nil registerer yields a no-op collector.
func NewCatalogMetrics(reg prometheus.Registerer) *CatalogMetrics {
	if reg == nil {
		return &CatalogMetrics{}
	}
	fetchDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "catalog_fetch_duration_seconds",
		Help:    "Duration of catalog fetches in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"result"})
	searchCandidates := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "catalog_search_candidates",
		Help:    "Number of items matched by the search pre-filter.",
		Buckets: []float64{0, 1, 5, 10, 50, 100, 500, 1000, 5000},
	})
	picksFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "catalog_picks_annotation_failures",
		Help: "Catalog fetches returned without picks stats.",
	})
	schemaResolutions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_schema_resolution_failures",
		Help: "Failed network schema lookups.",
	}, []string{"network"})
	reg.MustRegister(fetchDuration, searchCandidates, picksFailures, schemaResolutions)
	return &CatalogMetrics{
		fetchDuration:     fetchDuration,
		searchCandidates:  searchCandidates,
		picksFailures:     picksFailures,
		schemaResolutions: schemaResolutions,
	}
}

// ObserveFetch records the duration of a fetch by its result
func (m *CatalogMetrics) ObserveFetch(result string, duration time.Duration) {
	if m == nil || m.fetchDuration == nil {
		return
	}
	m.fetchDuration.WithLabelValues(normalizeLabel(result)).Observe(duration.Seconds())
}

// ObserveSearchCandidates records the size of a search allowlist
func (m *CatalogMetrics) ObserveSearchCandidates(count int) {
	if m == nil || m.searchCandidates == nil {
		return
	}
	m.searchCandidates.Observe(float64(count))
}

// IncPicksFailure counts a failed picks annotation
func (m *CatalogMetrics) IncPicksFailure() {
	if m == nil || m.picksFailures == nil {
		return
	}
	m.picksFailures.Inc()
}

// IncSchemaResolutionFailure counts a failed schema lookup for network
func (m *CatalogMetrics) IncSchemaResolutionFailure(network string) {
	if m == nil || m.schemaResolutions == nil {
		return
	}
	m.schemaResolutions.WithLabelValues(normalizeLabel(network)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
