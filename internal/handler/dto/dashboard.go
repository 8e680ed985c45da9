package dto

import "github.com/gridboard/gridboard/internal/model"

// DashboardResponse represents the current dashboard state.
type DashboardResponse struct {
	Widgets           []model.Widget `json:"widgets"`
	EnabledCount      int            `json:"enabledCount"`
	AvailableFeatures int            `json:"availableFeatures"`
	LimitReached      bool           `json:"limitReached"`
}

// ReorderRequest carries the full widget id sequence in the desired order.
type ReorderRequest struct {
	WidgetIDs []string `json:"widgetIds"`
}

// ToggleWidgetRequest enables or disables a single widget.
type ToggleWidgetRequest struct {
	Enabled *bool `json:"isEnabled"`
}

// FeaturesResponse reports the tier entitlement for the current user.
type FeaturesResponse struct {
	Tier              string `json:"tier"`
	AvailableFeatures int    `json:"availableFeatures"`
	EnabledCount      int    `json:"enabledCount"`
	LimitReached      bool   `json:"limitReached"`
}
