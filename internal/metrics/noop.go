package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncUserRegistered is a no-op.
func (n *NoopRecorder) IncUserRegistered() {}

// IncUserSignedIn is a no-op.
func (n *NoopRecorder) IncUserSignedIn() {}

// IncUserSignedOut is a no-op.
func (n *NoopRecorder) IncUserSignedOut() {}

// IncLayoutLoaded is a no-op.
func (n *NoopRecorder) IncLayoutLoaded(source string) {}

// IncLayoutPersisted is a no-op.
func (n *NoopRecorder) IncLayoutPersisted() {}

// IncWidgetToggled is a no-op.
func (n *NoopRecorder) IncWidgetToggled(enabled bool) {}

// IncQuotaRejected is a no-op.
func (n *NoopRecorder) IncQuotaRejected() {}

// IncReorderRejected is a no-op.
func (n *NoopRecorder) IncReorderRejected() {}

// ObservePersistDuration is a no-op.
func (n *NoopRecorder) ObservePersistDuration(duration time.Duration) {}
