// Package catalog supplies the static widget, theme, and plan definitions
// used whenever no valid per-user state exists. Treated as fixed
// configuration; nothing here mutates at runtime.
package catalog

import (
	"encoding/json"

	"github.com/gridboard/gridboard/internal/model"
)

// defaultWidgets is the seed catalog. Positions are dense and IDs unique;
// catalog tests assert both.
var defaultWidgets = []model.Widget{
	{
		ID:       "stats",
		Type:     model.WidgetStats,
		Title:    "Stats Overview",
		Position: 0,
		Enabled:  true,
		Data: mustJSON(model.StatsData{
			TotalUsers:  1248,
			ActiveToday: 89,
			Revenue:     "$12,450",
			Growth:      "+15%",
		}),
	},
	{
		ID:       "calendar",
		Type:     model.WidgetCalendar,
		Title:    "Upcoming Deadlines",
		Position: 1,
		Enabled:  true,
		Data: mustJSON(model.CalendarData{
			Events: []model.CalendarEvent{
				{Title: "Project Deadline", Date: "2025-08-25", Priority: "high"},
				{Title: "Team Meeting", Date: "2025-08-26", Priority: "medium"},
				{Title: "Client Review", Date: "2025-08-28", Priority: "high"},
			},
		}),
	},
	{
		ID:       "analytics",
		Type:     model.WidgetPlaceholder,
		Title:    "Analytics Dashboard",
		Position: 2,
		Premium:  true,
	},
	{
		ID:       "reports",
		Type:     model.WidgetPlaceholder,
		Title:    "Report Generator",
		Position: 3,
		Premium:  true,
	},
	{
		ID:       "notifications",
		Type:     model.WidgetPlaceholder,
		Title:    "Notifications Center",
		Position: 4,
	},
	{
		ID:       "tasks",
		Type:     model.WidgetPlaceholder,
		Title:    "Task Management",
		Position: 5,
		Premium:  true,
	},
}

// DefaultWidgets returns a deep copy of the default widget catalog.
// Callers may mutate the result freely.
func DefaultWidgets() []model.Widget {
	return model.CloneWidgets(defaultWidgets)
}

func mustJSON(v any) json.RawMessage {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return raw
}
