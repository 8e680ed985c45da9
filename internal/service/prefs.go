package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gridboard/gridboard/internal/catalog"
	"github.com/gridboard/gridboard/internal/model"
	"github.com/gridboard/gridboard/internal/store"
)

// ErrUnknownTheme indicates the theme id is not in the catalog.
var ErrUnknownTheme = errors.New("unknown theme")

// PrefsService manages the per-user theme choice and settings blob.
type PrefsService struct {
	stores StoreProvider
	logger *slog.Logger
}

// NewPrefsService creates a new PrefsService.
func NewPrefsService(stores StoreProvider, logger *slog.Logger) *PrefsService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PrefsService{stores: stores, logger: logger}
}

// Theme resolves the user's theme. Missing or unreadable preferences
// degrade to the default theme.
func (s *PrefsService) Theme(ctx context.Context, userID string) model.Theme {
	raw, err := s.stores.ForUser(userID).Get(ctx, store.KeyThemeID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.logger.Error("theme_load_failed",
				slog.String("user_id", userID),
				slog.String("error", err.Error()),
			)
		}
		return catalog.ThemeByID(catalog.DefaultThemeID)
	}

	return catalog.ThemeByID(string(raw))
}

// SetTheme stores the user's theme choice after validating it against the
// catalog.
func (s *PrefsService) SetTheme(ctx context.Context, userID, themeID string) error {
	if !catalog.IsKnownTheme(themeID) {
		return ErrUnknownTheme
	}

	if err := s.stores.ForUser(userID).Set(ctx, store.KeyThemeID, []byte(themeID)); err != nil {
		return fmt.Errorf("failed to store theme: %w", err)
	}
	return nil
}

// defaultSettings are applied when no settings blob exists for the user.
func defaultSettings(userID string) model.UserSettings {
	return model.UserSettings{
		UserID:        userID,
		Theme:         catalog.DefaultThemeID,
		Notifications: true,
		Language:      "en",
	}
}

// Settings returns the user's settings, falling back to defaults when the
// blob is missing or malformed.
func (s *PrefsService) Settings(ctx context.Context, userID string) model.UserSettings {
	raw, err := s.stores.ForUser(userID).Get(ctx, store.KeyUserSettings)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.logger.Error("settings_load_failed",
				slog.String("user_id", userID),
				slog.String("error", err.Error()),
			)
		}
		return defaultSettings(userID)
	}

	var settings model.UserSettings
	if err := json.Unmarshal(raw, &settings); err != nil {
		s.logger.Error("settings_parse_failed",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		return defaultSettings(userID)
	}

	settings.UserID = userID
	return settings
}

// SetSettings stores the user's settings. The owner field is forced to the
// authenticated user; a theme inside the blob must be a catalog theme.
func (s *PrefsService) SetSettings(ctx context.Context, userID string, settings model.UserSettings) error {
	if settings.Theme != "" && !catalog.IsKnownTheme(settings.Theme) {
		return ErrUnknownTheme
	}
	if settings.Theme == "" {
		settings.Theme = catalog.DefaultThemeID
	}
	settings.UserID = userID

	raw, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	if err := s.stores.ForUser(userID).Set(ctx, store.KeyUserSettings, raw); err != nil {
		return fmt.Errorf("failed to store settings: %w", err)
	}
	return nil
}
