package dto

import "github.com/gridboard/gridboard/internal/model"

// SetThemeRequest selects one of the catalog themes.
type SetThemeRequest struct {
	ThemeID string `json:"themeId"`
}

// ThemeResponse returns the resolved theme with its palette.
type ThemeResponse struct {
	Theme model.Theme `json:"theme"`
}

// SettingsRequest represents a full settings replacement.
type SettingsRequest struct {
	Theme         string `json:"theme"`
	Notifications bool   `json:"notifications"`
	Language      string `json:"language"`
}

// PlansResponse lists the subscription plans on offer.
type PlansResponse struct {
	Plans []model.SubscriptionPlan `json:"plans"`
}
