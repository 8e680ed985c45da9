package dashboard

import (
	"context"
	"log/slog"
	"sync"

	"github.com/gridboard/gridboard/internal/metrics"
	"github.com/gridboard/gridboard/internal/model"
	"github.com/gridboard/gridboard/internal/store"
)

// StoreProvider hands out the per-user key-value store view.
type StoreProvider interface {
	ForUser(userID string) store.Store
}

// Manager holds at most one engine per active user. Switching identities
// goes through Evict, which discards in-memory state unconditionally so no
// arrangement leaks between users.
type Manager struct {
	mu      sync.Mutex
	engines map[string]*Engine

	stores  StoreProvider
	logger  *slog.Logger
	metrics metrics.Recorder
}

// NewManager creates a Manager.
func NewManager(stores StoreProvider, logger *slog.Logger, recorder metrics.Recorder) *Manager {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &Manager{
		engines: make(map[string]*Engine),
		stores:  stores,
		logger:  logger,
		metrics: recorder,
	}
}

// ForUser returns the engine for a user, creating and loading it on first
// use. A nil user has no customizable layout and gets no engine.
func (m *Manager) ForUser(ctx context.Context, user *model.User) *Engine {
	if user == nil {
		return nil
	}

	m.mu.Lock()
	engine, ok := m.engines[user.ID]
	if !ok {
		// Tier changes take effect on the next request after eviction;
		// a cached engine keeps the identity it was built with.
		engine = NewEngine(user, m.stores.ForUser(user.ID), m.logger, m.metrics)
		m.engines[user.ID] = engine
	}
	m.mu.Unlock()

	if !engine.Loaded() {
		engine.Load(ctx)
	}
	return engine
}

// Evict discards the in-memory engine for a user, if any. Called on
// sign-out and on entitlement changes.
func (m *Manager) Evict(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.engines, userID)
}

// Active returns the number of resident engines.
func (m *Manager) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.engines)
}
