package telemetry

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPrometheusMetrics(t *testing.T) {
	m := NewPrometheusMetrics(prometheus.NewRegistry())
	assert.NotNil(t, m)
	assert.NotNil(t, m.catalogFetchDuration)
	assert.NotNil(t, m.contentFetchDuration)
	assert.NotNil(t, m.cacheLookups)
	assert.NotNil(t, m.catalogSize)
	assert.NotNil(t, m.toolCalls)
}

func TestNewPrometheusMetrics_UsesProvidedRegistry(t *testing.T) {
	registry := prometheus.NewRegistry()

	m := NewPrometheusMetrics(registry)
	m.ObserveCatalogFetch(100*time.Millisecond, nil)
	m.ObserveCatalogFetch(time.Second, errors.New("down"))
	m.ObserveContentFetch(50*time.Millisecond, nil)
	m.ObserveCacheLookup(true)
	m.ObserveCacheLookup(false)
	m.SetCatalogSize(5)
	m.ObserveToolCall("list_available_prompts", 5*time.Millisecond, nil)

	metrics, err := registry.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(metrics))
	for _, metric := range metrics {
		names = append(names, metric.GetName())
	}

	assert.Contains(t, names, "promptd_catalog_fetch_duration_seconds")
	assert.Contains(t, names, "promptd_content_fetch_duration_seconds")
	assert.Contains(t, names, "promptd_cache_lookups_total")
	assert.Contains(t, names, "promptd_catalog_artifacts")
	assert.Contains(t, names, "promptd_tool_calls_total")
}

func TestNoopMetricsSatisfiesInterface(t *testing.T) {
	m := NewNoopMetrics()
	m.ObserveCatalogFetch(time.Second, nil)
	m.ObserveContentFetch(time.Second, errors.New("x"))
	m.ObserveCacheLookup(true)
	m.SetCatalogSize(1)
	m.ObserveToolCall("t", time.Second, nil)
}
