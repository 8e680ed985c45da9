package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gridboard/gridboard/internal/auth"
	"github.com/gridboard/gridboard/internal/catalog"
	"github.com/gridboard/gridboard/internal/handler/dto"
	"github.com/gridboard/gridboard/internal/model"
	"github.com/gridboard/gridboard/internal/service"
)

// PrefsHandler handles theme and settings endpoints.
type PrefsHandler struct {
	prefs  *service.PrefsService
	logger *slog.Logger
}

// NewPrefsHandler creates a new PrefsHandler.
func NewPrefsHandler(prefs *service.PrefsService, logger *slog.Logger) *PrefsHandler {
	return &PrefsHandler{
		prefs:  prefs,
		logger: logger,
	}
}

// GetTheme handles GET /api/v1/me/theme.
func (h *PrefsHandler) GetTheme(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	theme := h.prefs.Theme(r.Context(), userID)
	writeJSON(w, http.StatusOK, dto.ThemeResponse{Theme: theme})
}

// SetTheme handles PUT /api/v1/me/theme.
func (h *PrefsHandler) SetTheme(w http.ResponseWriter, r *http.Request) {
	var req dto.SetThemeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	userID := auth.UserIDFromContext(r.Context())
	if err := h.prefs.SetTheme(r.Context(), userID, req.ThemeID); err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("theme_changed", "user_id", userID, "theme_id", req.ThemeID)

	writeJSON(w, http.StatusOK, dto.ThemeResponse{Theme: catalog.ThemeByID(req.ThemeID)})
}

// GetSettings handles GET /api/v1/me/settings.
func (h *PrefsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	writeJSON(w, http.StatusOK, h.prefs.Settings(r.Context(), userID))
}

// SetSettings handles PUT /api/v1/me/settings.
func (h *PrefsHandler) SetSettings(w http.ResponseWriter, r *http.Request) {
	var req dto.SettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	userID := auth.UserIDFromContext(r.Context())
	settings := model.UserSettings{
		Theme:         req.Theme,
		Notifications: req.Notifications,
		Language:      req.Language,
	}
	if err := h.prefs.SetSettings(r.Context(), userID, settings); err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, h.prefs.Settings(r.Context(), userID))
}

// Plans handles GET /api/v1/plans. Public.
func (h *PrefsHandler) Plans(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.PlansResponse{Plans: catalog.Plans()})
}

// handleServiceError maps preference errors to HTTP responses.
func (h *PrefsHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrUnknownTheme):
		writeError(w, http.StatusBadRequest, "UNKNOWN_THEME", "Theme does not exist")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
