package domain

import "time"

// Metrics is implemented by the telemetry layer; the library and gateway
// report through it without knowing the backend.
type Metrics interface {
	ObserveCatalogFetch(duration time.Duration, err error)
	ObserveContentFetch(duration time.Duration, err error)
	ObserveCacheLookup(hit bool)
	SetCatalogSize(count int)
	ObserveToolCall(tool string, duration time.Duration, err error)
}
