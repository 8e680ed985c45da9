// Package dashboard implements the dashboard layout and entitlement engine:
// the per-user ordered widget list, its persistence, and the tier-based
// enablement quota.
package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gridboard/gridboard/internal/catalog"
	"github.com/gridboard/gridboard/internal/metrics"
	"github.com/gridboard/gridboard/internal/model"
	"github.com/gridboard/gridboard/internal/store"
)

// Engine errors.
var (
	// ErrFeatureLimitExceeded is surfaced to the user; callers should
	// present an upgrade prompt.
	ErrFeatureLimitExceeded = errors.New("feature limit reached, upgrade to enable more features")
	ErrInvalidReorder       = errors.New("reorder list is not a permutation of the current widgets")
	ErrWidgetNotFound       = errors.New("widget not found")
	ErrNotLoaded            = errors.New("layout not loaded")
)

// Engine owns the in-memory widget list for one user. All mutations are
// applied sequentially; a persisted state never violates a finite quota.
type Engine struct {
	mu      sync.Mutex
	user    *model.User
	store   store.Store
	logger  *slog.Logger
	metrics metrics.Recorder

	widgets []model.Widget
	loaded  bool
}

// NewEngine creates an engine for a user. Call Load before any other
// operation.
func NewEngine(user *model.User, st store.Store, logger *slog.Logger, recorder metrics.Recorder) *Engine {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		user:    user,
		store:   st,
		logger:  logger,
		metrics: recorder,
	}
}

// Load reads the persisted layout. A stored layout is applied only if it
// belongs to the engine's user; anything else (missing, malformed, store
// failure, foreign owner) degrades to the default catalog. Store failures
// are logged, never returned.
func (e *Engine) Load(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	widgets, source := e.readLayout(ctx)

	layout := model.Layout{Widgets: widgets}
	layout.Normalize()

	e.widgets = layout.Widgets
	e.loaded = true
	e.metrics.IncLayoutLoaded(source)
}

func (e *Engine) readLayout(ctx context.Context) ([]model.Widget, string) {
	raw, err := e.store.Get(ctx, store.KeyDashboardLayout)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return catalog.DefaultWidgets(), metrics.LoadSourceDefault
		}
		e.logger.Error("layout_load_failed",
			slog.String("user_id", e.user.ID),
			slog.String("error", err.Error()),
		)
		return catalog.DefaultWidgets(), metrics.LoadSourceFallback
	}

	var layout model.Layout
	if err := json.Unmarshal(raw, &layout); err != nil {
		e.logger.Error("layout_parse_failed",
			slog.String("user_id", e.user.ID),
			slog.String("error", err.Error()),
		)
		return catalog.DefaultWidgets(), metrics.LoadSourceFallback
	}

	// Ownership mismatch is treated as absent, not as an error.
	if layout.UserID != e.user.ID {
		return catalog.DefaultWidgets(), metrics.LoadSourceDefault
	}

	return layout.Widgets, metrics.LoadSourceStored
}

// Loaded reports whether Load has completed at least once.
func (e *Engine) Loaded() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loaded
}

// Widgets returns the current widget list in display order.
func (e *Engine) Widgets() []model.Widget {
	e.mu.Lock()
	defer e.mu.Unlock()
	return model.CloneWidgets(e.widgets)
}

// EnabledCount returns the number of currently enabled widgets.
func (e *Engine) EnabledCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return enabledCount(e.widgets)
}

// Reorder replaces the widget order. The input must contain every current
// widget exactly once; positions are reassigned from list indexes. The new
// layout is written to the store before the in-memory list is replaced, so
// a failed write leaves the engine on the last durable state.
func (e *Engine) Reorder(ctx context.Context, ordered []model.Widget) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.loaded {
		return ErrNotLoaded
	}

	if !isPermutation(e.widgets, ordered) {
		e.metrics.IncReorderRejected()
		return ErrInvalidReorder
	}

	next := model.CloneWidgets(ordered)
	for i := range next {
		next[i].Position = i
	}

	if err := e.persist(ctx, next); err != nil {
		return err
	}

	e.widgets = next
	return nil
}

// Toggle sets one widget's enabled flag. Enabling past a finite quota is
// rejected with ErrFeatureLimitExceeded and nothing is mutated or
// persisted. Disabling is never quota-limited.
func (e *Engine) Toggle(ctx context.Context, widgetID string, enabled bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.loaded {
		return ErrNotLoaded
	}

	idx := -1
	for i := range e.widgets {
		if e.widgets[i].ID == widgetID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return ErrWidgetNotFound
	}

	candidate := model.CloneWidgets(e.widgets)
	candidate[idx].Enabled = enabled

	if enabled {
		limit := e.user.FeatureLimit()
		if limit != model.UnlimitedFeatures && enabledCount(candidate) > limit {
			e.metrics.IncQuotaRejected()
			return ErrFeatureLimitExceeded
		}
	}

	if err := e.persist(ctx, candidate); err != nil {
		return err
	}

	e.widgets = candidate
	e.metrics.IncWidgetToggled(enabled)
	return nil
}

// AvailableFeatures returns the enablement quota for the user's tier.
// -1 means unlimited.
func (e *Engine) AvailableFeatures() int {
	return e.user.FeatureLimit()
}

// FeatureLimitReached reports whether the quota is finite and met.
func (e *Engine) FeatureLimitReached() bool {
	limit := e.AvailableFeatures()
	if limit == model.UnlimitedFeatures {
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return enabledCount(e.widgets) >= limit
}

// persist writes the layout snapshot. Caller holds the mutex.
func (e *Engine) persist(ctx context.Context, widgets []model.Widget) error {
	layout := model.Layout{
		UserID:       e.user.ID,
		Widgets:      widgets,
		LastModified: time.Now().UTC(),
	}

	raw, err := json.Marshal(layout)
	if err != nil {
		return fmt.Errorf("failed to encode layout: %w", err)
	}

	start := time.Now()
	if err := e.store.Set(ctx, store.KeyDashboardLayout, raw); err != nil {
		e.logger.Error("layout_persist_failed",
			slog.String("user_id", e.user.ID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to persist layout: %w", err)
	}
	e.metrics.ObservePersistDuration(time.Since(start))
	e.metrics.IncLayoutPersisted()

	return nil
}

func enabledCount(widgets []model.Widget) int {
	count := 0
	for _, w := range widgets {
		if w.Enabled {
			count++
		}
	}
	return count
}

// isPermutation checks that next contains exactly the IDs of current, each
// once.
func isPermutation(current, next []model.Widget) bool {
	if len(current) != len(next) {
		return false
	}

	ids := make(map[string]bool, len(current))
	for _, w := range current {
		ids[w.ID] = true
	}

	seen := make(map[string]bool, len(next))
	for _, w := range next {
		if !ids[w.ID] || seen[w.ID] {
			return false
		}
		seen[w.ID] = true
	}

	return true
}
