// Package model defines domain entities for the application.
package model

// ThemeColors is the color table a theme supplies to the presentation layer.
type ThemeColors struct {
	Primary       string `json:"primary"`
	Secondary     string `json:"secondary"`
	Background    string `json:"background"`
	Surface       string `json:"surface"`
	Text          string `json:"text"`
	TextSecondary string `json:"textSecondary"`
	Border        string `json:"border"`
	Error         string `json:"error"`
	Success       string `json:"success"`
	Warning       string `json:"warning"`
}

// Theme is a named color scheme.
type Theme struct {
	ID     string      `json:"id"`
	Name   string      `json:"name"`
	Colors ThemeColors `json:"colors"`
}

// UserSettings holds per-user preferences persisted alongside the layout.
type UserSettings struct {
	UserID        string `json:"userId"`
	Theme         string `json:"theme"`
	Notifications bool   `json:"notifications"`
	Language      string `json:"language"`
}

// SubscriptionPlan describes an upgrade option surfaced to the client.
type SubscriptionPlan struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Price       float64  `json:"price"`
	Currency    string   `json:"currency"`
	Features    []string `json:"features"`
	MaxFeatures int      `json:"maxFeatures"`
	IsPopular   bool     `json:"isPopular,omitempty"`
}
