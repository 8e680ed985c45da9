// Package store provides the persistent key-value blob store backing
// per-user application state.
package store

import (
	"context"
	"errors"
)

// Key names for per-user blobs. Each key is scoped to one user by the
// backing implementation.
const (
	KeyDashboardLayout = "dashboard_layout"
	KeyUserData        = "user_data"
	KeyThemeID         = "theme_id"
	KeyAuthToken       = "auth_token"
	KeyUserSettings    = "user_settings"
)

// ErrNotFound indicates the key has no stored value.
var ErrNotFound = errors.New("key not found")

// Store is an asynchronous string-keyed blob store.
type Store interface {
	// Get returns the value for a key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set writes a value, replacing any previous one.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
}
