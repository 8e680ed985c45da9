package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	UsersRegistered        uint64
	UsersSignedIn          uint64
	UsersSignedOut         uint64
	LayoutsLoadedStored    uint64
	LayoutsLoadedDefault   uint64
	LayoutsLoadedFallback  uint64
	LayoutsPersisted       uint64
	WidgetsEnabled         uint64
	WidgetsDisabled        uint64
	QuotaRejections        uint64
	ReorderRejections      uint64
	PersistDurationCount   uint64
	PersistDurationTotalNs int64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	usersRegistered        uint64
	usersSignedIn          uint64
	usersSignedOut         uint64
	layoutsLoadedStored    uint64
	layoutsLoadedDefault   uint64
	layoutsLoadedFallback  uint64
	layoutsPersisted       uint64
	widgetsEnabled         uint64
	widgetsDisabled        uint64
	quotaRejections        uint64
	reorderRejections      uint64
	persistDurationCount   uint64
	persistDurationTotalNs int64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		UsersRegistered:        atomic.LoadUint64(&m.usersRegistered),
		UsersSignedIn:          atomic.LoadUint64(&m.usersSignedIn),
		UsersSignedOut:         atomic.LoadUint64(&m.usersSignedOut),
		LayoutsLoadedStored:    atomic.LoadUint64(&m.layoutsLoadedStored),
		LayoutsLoadedDefault:   atomic.LoadUint64(&m.layoutsLoadedDefault),
		LayoutsLoadedFallback:  atomic.LoadUint64(&m.layoutsLoadedFallback),
		LayoutsPersisted:       atomic.LoadUint64(&m.layoutsPersisted),
		WidgetsEnabled:         atomic.LoadUint64(&m.widgetsEnabled),
		WidgetsDisabled:        atomic.LoadUint64(&m.widgetsDisabled),
		QuotaRejections:        atomic.LoadUint64(&m.quotaRejections),
		ReorderRejections:      atomic.LoadUint64(&m.reorderRejections),
		PersistDurationCount:   atomic.LoadUint64(&m.persistDurationCount),
		PersistDurationTotalNs: atomic.LoadInt64(&m.persistDurationTotalNs),
	}
}

// IncUserRegistered increments the registration counter.
func (m *InMemoryRecorder) IncUserRegistered() {
	atomic.AddUint64(&m.usersRegistered, 1)
}

// IncUserSignedIn increments the sign-in counter.
func (m *InMemoryRecorder) IncUserSignedIn() {
	atomic.AddUint64(&m.usersSignedIn, 1)
}

// IncUserSignedOut increments the sign-out counter.
func (m *InMemoryRecorder) IncUserSignedOut() {
	atomic.AddUint64(&m.usersSignedOut, 1)
}

// IncLayoutLoaded increments the load counter for a source.
func (m *InMemoryRecorder) IncLayoutLoaded(source string) {
	switch source {
	case LoadSourceStored:
		atomic.AddUint64(&m.layoutsLoadedStored, 1)
	case LoadSourceFallback:
		atomic.AddUint64(&m.layoutsLoadedFallback, 1)
	default:
		atomic.AddUint64(&m.layoutsLoadedDefault, 1)
	}
}

// IncLayoutPersisted increments the persisted layout counter.
func (m *InMemoryRecorder) IncLayoutPersisted() {
	atomic.AddUint64(&m.layoutsPersisted, 1)
}

// IncWidgetToggled increments the enabled or disabled counter.
func (m *InMemoryRecorder) IncWidgetToggled(enabled bool) {
	if enabled {
		atomic.AddUint64(&m.widgetsEnabled, 1)
	} else {
		atomic.AddUint64(&m.widgetsDisabled, 1)
	}
}

// IncQuotaRejected increments the quota rejection counter.
func (m *InMemoryRecorder) IncQuotaRejected() {
	atomic.AddUint64(&m.quotaRejections, 1)
}

// IncReorderRejected increments the invalid reorder counter.
func (m *InMemoryRecorder) IncReorderRejected() {
	atomic.AddUint64(&m.reorderRejections, 1)
}

// ObservePersistDuration records a persist duration.
func (m *InMemoryRecorder) ObservePersistDuration(duration time.Duration) {
	atomic.AddUint64(&m.persistDurationCount, 1)
	atomic.AddInt64(&m.persistDurationTotalNs, duration.Nanoseconds())
}
