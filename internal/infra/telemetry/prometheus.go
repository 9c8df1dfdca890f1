package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"promptd/internal/domain"
)

type PrometheusMetrics struct {
	catalogFetchDuration *prometheus.HistogramVec
	contentFetchDuration *prometheus.HistogramVec
	cacheLookups         *prometheus.CounterVec
	catalogSize          prometheus.Gauge
	toolCalls            *prometheus.CounterVec
}

func NewPrometheusMetrics(registerer prometheus.Registerer) *PrometheusMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registerer)

	return &PrometheusMetrics{
		catalogFetchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "promptd_catalog_fetch_duration_seconds",
				Help:    "Duration of catalog listing fetches in seconds",
				Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"status"},
		),
		contentFetchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "promptd_content_fetch_duration_seconds",
				Help:    "Duration of signed-URL content fetches in seconds",
				Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"status"},
		),
		cacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "promptd_cache_lookups_total",
				Help: "Total catalog cache lookups by outcome",
			},
			[]string{"outcome"},
		),
		catalogSize: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "promptd_catalog_artifacts",
				Help: "Number of artifacts in the last stored catalog snapshot",
			},
		),
		toolCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "promptd_tool_calls_total",
				Help: "Total MCP tool invocations",
			},
			[]string{"tool", "status"},
		),
	}
}

func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

func (p *PrometheusMetrics) ObserveCatalogFetch(duration time.Duration, err error) {
	p.catalogFetchDuration.WithLabelValues(statusLabel(err)).Observe(duration.Seconds())
}

func (p *PrometheusMetrics) ObserveContentFetch(duration time.Duration, err error) {
	p.contentFetchDuration.WithLabelValues(statusLabel(err)).Observe(duration.Seconds())
}

func (p *PrometheusMetrics) ObserveCacheLookup(hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	p.cacheLookups.WithLabelValues(outcome).Inc()
}

func (p *PrometheusMetrics) SetCatalogSize(count int) {
	p.catalogSize.Set(float64(count))
}

func (p *PrometheusMetrics) ObserveToolCall(tool string, duration time.Duration, err error) {
	p.toolCalls.WithLabelValues(tool, statusLabel(err)).Inc()
}

var _ domain.Metrics = (*PrometheusMetrics)(nil)
