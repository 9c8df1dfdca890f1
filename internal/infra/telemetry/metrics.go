package telemetry

import (
	"time"

	"promptd/internal/domain"
)

type NoopMetrics struct{}

func NewNoopMetrics() *NoopMetrics {
	return &NoopMetrics{}
}

func (n *NoopMetrics) ObserveCatalogFetch(_ time.Duration, _ error) {}

func (n *NoopMetrics) ObserveContentFetch(_ time.Duration, _ error) {}

func (n *NoopMetrics) ObserveCacheLookup(_ bool) {}

func (n *NoopMetrics) SetCatalogSize(_ int) {}

func (n *NoopMetrics) ObserveToolCall(_ string, _ time.Duration, _ error) {}

var _ domain.Metrics = (*NoopMetrics)(nil)
