package middleware

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gridboard/gridboard/internal/auth"
	"github.com/gridboard/gridboard/internal/model"
	"github.com/gridboard/gridboard/internal/repository"
	"github.com/gridboard/gridboard/internal/service"
	"github.com/gridboard/gridboard/internal/store"
)

type stubRepo struct {
	users map[string]*model.User
}

func (r *stubRepo) CreateUser(ctx context.Context, user *model.User) error {
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *stubRepo) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (r *stubRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *stubRepo) UpdateUser(ctx context.Context, user *model.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return repository.ErrUserNotFound
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

type stubStores struct {
	stores map[string]*store.Memory
}

func (p *stubStores) ForUser(userID string) store.Store {
	if s, ok := p.stores[userID]; ok {
		return s
	}
	s := store.NewMemory()
	p.stores[userID] = s
	return s
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newSession(t *testing.T) (*service.AccountService, *model.User, string) {
	t.Helper()

	accounts := service.NewAccountService(
		&stubRepo{users: make(map[string]*model.User)},
		&stubStores{stores: make(map[string]*store.Memory)},
		[]byte("test-secret"),
		time.Hour,
		testLogger(),
		nil,
	)

	user, token, err := accounts.Register(context.Background(), service.RegisterInput{
		Email:    "mw@example.com",
		Password: "long-enough-pw",
		Name:     "MW",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return accounts, user, token
}

func TestAuth_ValidToken(t *testing.T) {
	t.Parallel()

	accounts, registered, token := newSession(t)

	var gotUserID string
	handler := Auth(AuthConfig{Logger: testLogger(), Accounts: accounts})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUserID = auth.UserIDFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		}),
	)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if gotUserID != registered.ID {
		t.Errorf("context user = %q, want %q", gotUserID, registered.ID)
	}
}

func TestAuth_Rejections(t *testing.T) {
	t.Parallel()

	accounts, registered, token := newSession(t)

	// Revoke the token via sign-out.
	revoked := token
	if err := accounts.SignOut(context.Background(), registered.ID); err != nil {
		t.Fatalf("signout: %v", err)
	}

	handler := Auth(AuthConfig{Logger: testLogger(), Accounts: accounts})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("handler should not be reached")
		}),
	)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc123"},
		{"garbage token", "Bearer not-a-jwt"},
		{"revoked token", "Bearer " + revoked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
		})
	}
}
