package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/gridboard/gridboard/internal/catalog"
	"github.com/gridboard/gridboard/internal/metrics"
	"github.com/gridboard/gridboard/internal/model"
	"github.com/gridboard/gridboard/internal/store"
)

func testUser(tier string) *model.User {
	return &model.User{
		ID:               "user-1",
		Email:            "user@example.com",
		SubscriptionTier: tier,
	}
}

func loadedEngine(t *testing.T, tier string) (*Engine, *store.Memory) {
	t.Helper()

	mem := store.NewMemory()
	engine := NewEngine(testUser(tier), mem, nil, metrics.NewInMemory())
	engine.Load(context.Background())
	return engine, mem
}

func persistedLayout(t *testing.T, mem *store.Memory) model.Layout {
	t.Helper()

	raw, err := mem.Get(context.Background(), store.KeyDashboardLayout)
	if err != nil {
		t.Fatalf("read persisted layout: %v", err)
	}
	var layout model.Layout
	if err := json.Unmarshal(raw, &layout); err != nil {
		t.Fatalf("decode persisted layout: %v", err)
	}
	return layout
}

func widgetIDs(widgets []model.Widget) []string {
	ids := make([]string, len(widgets))
	for i, w := range widgets {
		ids[i] = w.ID
	}
	return ids
}

func TestLoad_NoStoredLayout_UsesDefaults(t *testing.T) {
	t.Parallel()

	engine, _ := loadedEngine(t, model.TierFree)

	widgets := engine.Widgets()
	defaults := catalog.DefaultWidgets()
	if len(widgets) != len(defaults) {
		t.Fatalf("widget count = %d, want %d", len(widgets), len(defaults))
	}
	for i, w := range widgets {
		if w.ID != defaults[i].ID {
			t.Errorf("widget at %d = %q, want %q", i, w.ID, defaults[i].ID)
		}
		if w.Position != i {
			t.Errorf("widget %q position = %d, want %d", w.ID, w.Position, i)
		}
	}
}

func TestLoad_StoredLayout_AppliedInPositionOrder(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mem := store.NewMemory()

	layout := model.Layout{
		UserID: "user-1",
		Widgets: []model.Widget{
			{ID: "calendar", Position: 4, Enabled: true},
			{ID: "stats", Position: 0, Enabled: false},
			{ID: "tasks", Position: 2, Enabled: true},
		},
		LastModified: time.Now(),
	}
	raw, _ := json.Marshal(layout)
	if err := mem.Set(ctx, store.KeyDashboardLayout, raw); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	engine := NewEngine(testUser(model.TierFree), mem, nil, nil)
	engine.Load(ctx)

	got := widgetIDs(engine.Widgets())
	want := []string{"stats", "tasks", "calendar"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("order[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	// Positions are re-derived densely even from sparse stored values.
	for i, w := range engine.Widgets() {
		if w.Position != i {
			t.Errorf("widget %q position = %d, want %d", w.ID, w.Position, i)
		}
	}
}

func TestLoad_DuplicateWidgetIDs_Deduplicated(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mem := store.NewMemory()

	// A corrupt snapshot carries the same widget twice. Only the first
	// occurrence survives, so reorders keep working after Load.
	layout := model.Layout{
		UserID: "user-1",
		Widgets: []model.Widget{
			{ID: "stats", Position: 0, Enabled: true},
			{ID: "stats", Position: 1},
			{ID: "calendar", Position: 2},
		},
	}
	raw, _ := json.Marshal(layout)
	if err := mem.Set(ctx, store.KeyDashboardLayout, raw); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	engine := NewEngine(testUser(model.TierFree), mem, nil, nil)
	engine.Load(ctx)

	widgets := engine.Widgets()
	seen := map[string]bool{}
	for _, w := range widgets {
		if seen[w.ID] {
			t.Fatalf("duplicate widget id %q survived Load", w.ID)
		}
		seen[w.ID] = true
	}
	if len(widgets) != 2 {
		t.Fatalf("widget count = %d, want 2", len(widgets))
	}

	// The deduplicated list is reorderable.
	if err := engine.Reorder(ctx, []model.Widget{widgets[1], widgets[0]}); err != nil {
		t.Fatalf("reorder after dedup: %v", err)
	}
	got := widgetIDs(engine.Widgets())
	want := []string{"calendar", "stats"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("order[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestLoad_OwnershipMismatch_DiscardsLayout(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mem := store.NewMemory()

	// Layout persisted under user A, session is user B.
	layout := model.Layout{
		UserID:  "user-A",
		Widgets: []model.Widget{{ID: "stats", Position: 0, Enabled: false}},
	}
	raw, _ := json.Marshal(layout)
	_ = mem.Set(ctx, store.KeyDashboardLayout, raw)

	user := testUser(model.TierFree)
	user.ID = "user-B"
	rec := metrics.NewInMemory()
	engine := NewEngine(user, mem, nil, rec)
	engine.Load(ctx)

	if len(engine.Widgets()) != len(catalog.DefaultWidgets()) {
		t.Error("expected default catalog after ownership mismatch")
	}
	if rec.Snapshot().LayoutsLoadedDefault != 1 {
		t.Error("ownership mismatch should count as a default load, not a fallback")
	}
}

func TestLoad_StoreFailure_FallsBackToDefaults(t *testing.T) {
	t.Parallel()

	mem := store.NewMemory()
	mem.FailGet = errors.New("connection reset")

	rec := metrics.NewInMemory()
	engine := NewEngine(testUser(model.TierFree), mem, nil, rec)
	engine.Load(context.Background())

	if len(engine.Widgets()) != len(catalog.DefaultWidgets()) {
		t.Error("expected default catalog after store failure")
	}
	if rec.Snapshot().LayoutsLoadedFallback != 1 {
		t.Error("store failure should be recorded as a fallback load")
	}
}

func TestLoad_MalformedLayout_FallsBackToDefaults(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mem := store.NewMemory()
	_ = mem.Set(ctx, store.KeyDashboardLayout, []byte(`{"userId":`))

	rec := metrics.NewInMemory()
	engine := NewEngine(testUser(model.TierFree), mem, nil, rec)
	engine.Load(ctx)

	if len(engine.Widgets()) != len(catalog.DefaultWidgets()) {
		t.Error("expected default catalog after malformed blob")
	}
	if rec.Snapshot().LayoutsLoadedFallback != 1 {
		t.Error("malformed blob should be recorded as a fallback load")
	}
}

func TestReorder_AssignsPositionsFromIndexes(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	engine, mem := loadedEngine(t, model.TierFree)

	// Reverse the default order.
	current := engine.Widgets()
	reversed := make([]model.Widget, len(current))
	for i, w := range current {
		reversed[len(current)-1-i] = w
	}

	if err := engine.Reorder(ctx, reversed); err != nil {
		t.Fatalf("reorder: %v", err)
	}

	inMemory := engine.Widgets()
	for i := range reversed {
		if inMemory[i].ID != reversed[i].ID {
			t.Errorf("in-memory order[%d] = %q, want %q", i, inMemory[i].ID, reversed[i].ID)
		}
		if inMemory[i].Position != i {
			t.Errorf("in-memory position[%d] = %d, want %d", i, inMemory[i].Position, i)
		}
	}

	persisted := persistedLayout(t, mem)
	if persisted.UserID != "user-1" {
		t.Errorf("persisted owner = %q, want %q", persisted.UserID, "user-1")
	}
	for i, w := range persisted.Widgets {
		if w.Position != i {
			t.Errorf("persisted position[%d] = %d, want %d", i, w.Position, i)
		}
		if w.ID != reversed[i].ID {
			t.Errorf("persisted order[%d] = %q, want %q", i, w.ID, reversed[i].ID)
		}
	}
}

func TestReorder_Idempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	engine, mem := loadedEngine(t, model.TierFree)

	current := engine.Widgets()
	perm := []model.Widget{current[2], current[0], current[1], current[5], current[3], current[4]}

	if err := engine.Reorder(ctx, perm); err != nil {
		t.Fatalf("first reorder: %v", err)
	}
	first := persistedLayout(t, mem)

	if err := engine.Reorder(ctx, engine.Widgets()); err != nil {
		t.Fatalf("second reorder: %v", err)
	}
	second := persistedLayout(t, mem)

	// Identical widget arrays; timestamps may differ.
	firstRaw, _ := json.Marshal(first.Widgets)
	secondRaw, _ := json.Marshal(second.Widgets)
	if string(firstRaw) != string(secondRaw) {
		t.Errorf("repeated reorder changed persisted widgets:\n%s\n%s", firstRaw, secondRaw)
	}
}

func TestReorder_RejectsNonPermutations(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	engine, _ := loadedEngine(t, model.TierFree)
	current := engine.Widgets()

	tests := []struct {
		name  string
		input []model.Widget
	}{
		{"missing widget", current[1:]},
		{"duplicate widget", append([]model.Widget{current[0]}, current[:len(current)-1]...)},
		{"foreign widget", append([]model.Widget{{ID: "weather"}}, current[1:]...)},
		{"empty list", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := engine.Reorder(ctx, tt.input)
			if !errors.Is(err, ErrInvalidReorder) {
				t.Errorf("Reorder error = %v, want ErrInvalidReorder", err)
			}
		})
	}

	// State untouched after rejections.
	got := widgetIDs(engine.Widgets())
	want := widgetIDs(current)
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("order mutated after rejected reorder: got %v", got)
			break
		}
	}
}

func TestReorder_WriteFailure_KeepsMemoryState(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	engine, mem := loadedEngine(t, model.TierFree)
	before := widgetIDs(engine.Widgets())

	mem.FailSet = errors.New("disk full")

	current := engine.Widgets()
	reversed := make([]model.Widget, len(current))
	for i, w := range current {
		reversed[len(current)-1-i] = w
	}

	if err := engine.Reorder(ctx, reversed); err == nil {
		t.Fatal("expected error when persist fails")
	}

	after := widgetIDs(engine.Widgets())
	for i := range before {
		if after[i] != before[i] {
			t.Error("in-memory state changed despite failed durable write")
			break
		}
	}
}

func TestToggle_QuotaEnforcement_FreeTier(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	engine, _ := loadedEngine(t, model.TierFree)

	// Defaults have 2 enabled; enable up to the quota of 4.
	if err := engine.Toggle(ctx, "analytics", true); err != nil {
		t.Fatalf("third enable: %v", err)
	}
	if err := engine.Toggle(ctx, "reports", true); err != nil {
		t.Fatalf("fourth enable: %v", err)
	}
	if got := engine.EnabledCount(); got != 4 {
		t.Fatalf("enabled count = %d, want 4", got)
	}
	if !engine.FeatureLimitReached() {
		t.Error("limit should be reached at quota")
	}

	// Fifth enable is rejected with no mutation.
	err := engine.Toggle(ctx, "tasks", true)
	if !errors.Is(err, ErrFeatureLimitExceeded) {
		t.Fatalf("fifth enable error = %v, want ErrFeatureLimitExceeded", err)
	}
	if got := engine.EnabledCount(); got != 4 {
		t.Errorf("enabled count after rejection = %d, want 4", got)
	}
}

func TestToggle_RejectionDoesNotPersist(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	engine, mem := loadedEngine(t, model.TierFree)

	_ = engine.Toggle(ctx, "analytics", true)
	_ = engine.Toggle(ctx, "reports", true)
	before := persistedLayout(t, mem)

	if err := engine.Toggle(ctx, "tasks", true); !errors.Is(err, ErrFeatureLimitExceeded) {
		t.Fatalf("expected quota rejection, got %v", err)
	}

	after := persistedLayout(t, mem)
	if !before.LastModified.Equal(after.LastModified) {
		t.Error("rejected toggle must not write to the store")
	}
}

func TestToggle_PaidTierQuota(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	engine, _ := loadedEngine(t, model.TierPaid)

	// Only 6 widgets exist, quota is 10: every enable succeeds.
	for _, id := range []string{"analytics", "reports", "notifications", "tasks"} {
		if err := engine.Toggle(ctx, id, true); err != nil {
			t.Fatalf("enable %q: %v", id, err)
		}
	}
	if engine.FeatureLimitReached() {
		t.Error("paid tier with 6 enabled should not be at its quota of 10")
	}
}

func TestToggle_EnterpriseUnlimited(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	engine, _ := loadedEngine(t, model.TierEnterprise)

	if got := engine.AvailableFeatures(); got != model.UnlimitedFeatures {
		t.Fatalf("AvailableFeatures() = %d, want unlimited sentinel", got)
	}

	for _, id := range []string{"analytics", "reports", "notifications", "tasks"} {
		if err := engine.Toggle(ctx, id, true); err != nil {
			t.Fatalf("enterprise enable %q: %v", id, err)
		}
	}
	if engine.FeatureLimitReached() {
		t.Error("unlimited tier is never at its limit")
	}
}

func TestToggle_DisableNeverQuotaLimited(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	engine, _ := loadedEngine(t, model.TierFree)

	_ = engine.Toggle(ctx, "analytics", true)
	_ = engine.Toggle(ctx, "reports", true)

	// At quota; disabling still succeeds.
	if err := engine.Toggle(ctx, "stats", false); err != nil {
		t.Fatalf("disable at quota: %v", err)
	}
	if got := engine.EnabledCount(); got != 3 {
		t.Errorf("enabled count = %d, want 3", got)
	}

	// And re-enabling fills the freed slot.
	if err := engine.Toggle(ctx, "stats", true); err != nil {
		t.Fatalf("re-enable: %v", err)
	}
}

func TestToggle_UnknownWidget(t *testing.T) {
	t.Parallel()

	engine, _ := loadedEngine(t, model.TierFree)

	err := engine.Toggle(context.Background(), "weather", true)
	if !errors.Is(err, ErrWidgetNotFound) {
		t.Errorf("Toggle error = %v, want ErrWidgetNotFound", err)
	}
}

func TestEngine_OpsBeforeLoad(t *testing.T) {
	t.Parallel()

	engine := NewEngine(testUser(model.TierFree), store.NewMemory(), nil, nil)

	if err := engine.Toggle(context.Background(), "stats", true); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("Toggle before Load = %v, want ErrNotLoaded", err)
	}
	if err := engine.Reorder(context.Background(), nil); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("Reorder before Load = %v, want ErrNotLoaded", err)
	}
}

func TestAvailableFeatures_Tiers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		tier string
		want int
	}{
		{model.TierFree, 4},
		{model.TierPaid, 10},
		{model.TierEnterprise, model.UnlimitedFeatures},
		{"trial", 4},
	}

	for _, tt := range tests {
		engine, _ := loadedEngine(t, tt.tier)
		if got := engine.AvailableFeatures(); got != tt.want {
			t.Errorf("tier %q AvailableFeatures() = %d, want %d", tt.tier, got, tt.want)
		}
	}
}

func TestToggle_PersistsOwnershipAndTimestamp(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	engine, mem := loadedEngine(t, model.TierFree)

	before := time.Now().Add(-time.Second)
	if err := engine.Toggle(ctx, "stats", false); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	layout := persistedLayout(t, mem)
	if layout.UserID != "user-1" {
		t.Errorf("persisted owner = %q, want %q", layout.UserID, "user-1")
	}
	if layout.LastModified.Before(before) {
		t.Errorf("LastModified %v not refreshed", layout.LastModified)
	}
}
