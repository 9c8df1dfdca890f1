package telemetry

import (
	"sync"
	"time"
)

// HealthTracker aggregates liveness of registered background loops. A loop
// that stops beating for longer than its declared interval flips the
// report to degraded.
type HealthTracker struct {
	mu    sync.Mutex
	loops map[string]*Heartbeat
}

func NewHealthTracker() *HealthTracker {
	return &HealthTracker{loops: make(map[string]*Heartbeat)}
}

// Register adds a loop under the given name. maxInterval is the longest
// acceptable gap between beats.
func (t *HealthTracker) Register(name string, maxInterval time.Duration) *Heartbeat {
	beat := &Heartbeat{name: name, maxInterval: maxInterval}
	t.mu.Lock()
	t.loops[name] = beat
	t.mu.Unlock()
	return beat
}

type Heartbeat struct {
	name        string
	maxInterval time.Duration

	mu   sync.Mutex
	last time.Time
}

// Beat records that the loop is alive.
func (h *Heartbeat) Beat() {
	h.mu.Lock()
	h.last = time.Now()
	h.mu.Unlock()
}

func (h *Heartbeat) stale(now time.Time) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.last.IsZero() {
		return true
	}
	return now.Sub(h.last) > h.maxInterval
}

type ComponentHealth struct {
	Status     string  `json:"status"`
	AgeSeconds float64 `json:"age_seconds"`
}

type HealthReport struct {
	Status     string                     `json:"status"`
	Components map[string]ComponentHealth `json:"components,omitempty"`
}

// Report returns "ok" only when every registered loop has beaten within
// its interval.
func (t *HealthTracker) Report() HealthReport {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	report := HealthReport{Status: "ok"}
	if len(t.loops) == 0 {
		return report
	}

	report.Components = make(map[string]ComponentHealth, len(t.loops))
	for name, beat := range t.loops {
		status := "ok"
		if beat.stale(now) {
			status = "stale"
			report.Status = "degraded"
		}
		beat.mu.Lock()
		age := 0.0
		if !beat.last.IsZero() {
			age = now.Sub(beat.last).Seconds()
		}
		beat.mu.Unlock()
		report.Components[name] = ComponentHealth{Status: status, AgeSeconds: age}
	}
	return report
}
