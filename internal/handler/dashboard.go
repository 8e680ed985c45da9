package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gridboard/gridboard/internal/auth"
	"github.com/gridboard/gridboard/internal/dashboard"
	"github.com/gridboard/gridboard/internal/handler/dto"
	"github.com/gridboard/gridboard/internal/model"
)

// DashboardHandler handles dashboard layout and widget endpoints.
type DashboardHandler struct {
	dashboards *dashboard.Manager
	logger     *slog.Logger
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboards *dashboard.Manager, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboards: dashboards,
		logger:     logger,
	}
}

// Get handles GET /api/v1/dashboard.
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	engine := h.engine(w, r)
	if engine == nil {
		return
	}

	writeJSON(w, http.StatusOK, dto.DashboardResponse{
		Widgets:           engine.Widgets(),
		EnabledCount:      engine.EnabledCount(),
		AvailableFeatures: engine.AvailableFeatures(),
		LimitReached:      engine.FeatureLimitReached(),
	})
}

// Reorder handles PUT /api/v1/dashboard/layout.
// The request must list every widget id exactly once in the desired order.
func (h *DashboardHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	engine := h.engine(w, r)
	if engine == nil {
		return
	}

	var req dto.ReorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	current := engine.Widgets()
	byID := make(map[string]model.Widget, len(current))
	for _, widget := range current {
		byID[widget.ID] = widget
	}

	ordered := make([]model.Widget, 0, len(req.WidgetIDs))
	for _, id := range req.WidgetIDs {
		widget, ok := byID[id]
		if !ok {
			// Unknown ids pass through and fail the permutation check.
			widget = model.Widget{ID: id}
		}
		ordered = append(ordered, widget)
	}

	if err := engine.Reorder(r.Context(), ordered); err != nil {
		h.handleEngineError(w, err)
		return
	}

	h.logger.Info("layout_reordered", "user_id", auth.UserIDFromContext(r.Context()))

	writeJSON(w, http.StatusOK, dto.DashboardResponse{
		Widgets:           engine.Widgets(),
		EnabledCount:      engine.EnabledCount(),
		AvailableFeatures: engine.AvailableFeatures(),
		LimitReached:      engine.FeatureLimitReached(),
	})
}

// Toggle handles PATCH /api/v1/dashboard/widgets/{id}.
func (h *DashboardHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	engine := h.engine(w, r)
	if engine == nil {
		return
	}

	widgetID := chi.URLParam(r, "id")
	if widgetID == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "Widget ID is required")
		return
	}

	var req dto.ToggleWidgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Enabled == nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Request body must set isEnabled")
		return
	}

	if err := engine.Toggle(r.Context(), widgetID, *req.Enabled); err != nil {
		h.handleEngineError(w, err)
		return
	}

	h.logger.Info("widget_toggled",
		"user_id", auth.UserIDFromContext(r.Context()),
		"widget_id", widgetID,
		"enabled", *req.Enabled,
	)

	writeJSON(w, http.StatusOK, dto.DashboardResponse{
		Widgets:           engine.Widgets(),
		EnabledCount:      engine.EnabledCount(),
		AvailableFeatures: engine.AvailableFeatures(),
		LimitReached:      engine.FeatureLimitReached(),
	})
}

// Features handles GET /api/v1/dashboard/features.
func (h *DashboardHandler) Features(w http.ResponseWriter, r *http.Request) {
	engine := h.engine(w, r)
	if engine == nil {
		return
	}

	user := auth.UserFromContext(r.Context())
	writeJSON(w, http.StatusOK, dto.FeaturesResponse{
		Tier:              user.SubscriptionTier,
		AvailableFeatures: engine.AvailableFeatures(),
		EnabledCount:      engine.EnabledCount(),
		LimitReached:      engine.FeatureLimitReached(),
	})
}

// engine resolves the caller's dashboard engine, writing a 401 when the
// request carries no authenticated user.
func (h *DashboardHandler) engine(w http.ResponseWriter, r *http.Request) *dashboard.Engine {
	user := auth.UserFromContext(r.Context())
	engine := h.dashboards.ForUser(r.Context(), user)
	if engine == nil {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return nil
	}
	return engine
}

// handleEngineError maps dashboard engine errors to HTTP responses.
func (h *DashboardHandler) handleEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, dashboard.ErrFeatureLimitExceeded):
		writeError(w, http.StatusForbidden, "FEATURE_LIMIT_EXCEEDED", "Feature limit reached, upgrade to enable more features")
	case errors.Is(err, dashboard.ErrInvalidReorder):
		writeError(w, http.StatusUnprocessableEntity, "INVALID_REORDER", "Reorder must include every widget exactly once")
	case errors.Is(err, dashboard.ErrWidgetNotFound):
		writeError(w, http.StatusNotFound, "WIDGET_NOT_FOUND", "Widget not found")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
