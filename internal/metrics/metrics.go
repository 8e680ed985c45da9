// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Layout load sources.
const (
	LoadSourceStored   = "stored"
	LoadSourceDefault  = "default"
	LoadSourceFallback = "fallback" // store failure or malformed blob
)

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Account metrics
	IncUserRegistered()
	IncUserSignedIn()
	IncUserSignedOut()

	// Dashboard metrics
	IncLayoutLoaded(source string) // source: "stored", "default", "fallback"
	IncLayoutPersisted()
	IncWidgetToggled(enabled bool)
	IncQuotaRejected()
	IncReorderRejected()
	ObservePersistDuration(duration time.Duration)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
