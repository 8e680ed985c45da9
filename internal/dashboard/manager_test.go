package dashboard

import (
	"context"
	"testing"

	"github.com/gridboard/gridboard/internal/model"
	"github.com/gridboard/gridboard/internal/store"
)

// memoryProvider hands each user its own in-memory store.
type memoryProvider struct {
	stores map[string]*store.Memory
}

func newMemoryProvider() *memoryProvider {
	return &memoryProvider{stores: make(map[string]*store.Memory)}
}

func (p *memoryProvider) ForUser(userID string) store.Store {
	if s, ok := p.stores[userID]; ok {
		return s
	}
	s := store.NewMemory()
	p.stores[userID] = s
	return s
}

func TestManager_ForUser_CreatesAndReuses(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewManager(newMemoryProvider(), nil, nil)
	user := &model.User{ID: "u1", SubscriptionTier: model.TierFree}

	first := m.ForUser(ctx, user)
	if first == nil {
		t.Fatal("expected engine for user")
	}
	if !first.Loaded() {
		t.Error("engine should be loaded on first use")
	}

	second := m.ForUser(ctx, user)
	if first != second {
		t.Error("expected the same engine instance for the same user")
	}
	if m.Active() != 1 {
		t.Errorf("Active() = %d, want 1", m.Active())
	}
}

func TestManager_ForUser_NilUser(t *testing.T) {
	t.Parallel()

	m := NewManager(newMemoryProvider(), nil, nil)
	if engine := m.ForUser(context.Background(), nil); engine != nil {
		t.Error("nil user must not get an engine")
	}
}

func TestManager_IsolatesUsers(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewManager(newMemoryProvider(), nil, nil)

	alice := &model.User{ID: "alice", SubscriptionTier: model.TierEnterprise}
	bob := &model.User{ID: "bob", SubscriptionTier: model.TierFree}

	engineA := m.ForUser(ctx, alice)
	for _, id := range []string{"analytics", "reports", "notifications"} {
		if err := engineA.Toggle(ctx, id, true); err != nil {
			t.Fatalf("alice toggle %q: %v", id, err)
		}
	}

	engineB := m.ForUser(ctx, bob)
	if got := engineB.EnabledCount(); got != 2 {
		t.Errorf("bob enabled count = %d, want default 2 (alice's state leaked)", got)
	}
}

func TestManager_Evict_DiscardsState(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	provider := newMemoryProvider()
	m := NewManager(provider, nil, nil)
	user := &model.User{ID: "u1", SubscriptionTier: model.TierFree}

	engine := m.ForUser(ctx, user)
	if err := engine.Toggle(ctx, "stats", false); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	m.Evict(user.ID)
	if m.Active() != 0 {
		t.Errorf("Active() after evict = %d, want 0", m.Active())
	}

	// Fresh engine reloads the durably persisted state.
	fresh := m.ForUser(ctx, user)
	if fresh == engine {
		t.Error("expected a new engine after eviction")
	}
	for _, w := range fresh.Widgets() {
		if w.ID == "stats" && w.Enabled {
			t.Error("reloaded engine lost the persisted toggle")
		}
	}
}
