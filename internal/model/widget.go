// Package model defines domain entities for the application.
package model

import (
	"encoding/json"
	"sort"
	"time"
)

// WidgetType represents the render kind of a widget.
type WidgetType string

const (
	WidgetStats       WidgetType = "stats"
	WidgetCalendar    WidgetType = "calendar"
	WidgetPlaceholder WidgetType = "placeholder"
)

// IsValid checks if the widget type is one of the known render kinds.
func (t WidgetType) IsValid() bool {
	switch t {
	case WidgetStats, WidgetCalendar, WidgetPlaceholder:
		return true
	}
	return false
}

// Widget represents a single dashboard content unit.
type Widget struct {
	ID       string          `json:"id"`
	Type     WidgetType      `json:"type"`
	Title    string          `json:"title"`
	Position int             `json:"position"`
	Enabled  bool            `json:"isEnabled"`
	Premium  bool            `json:"isPremium"`
	Data     json.RawMessage `json:"data,omitempty"`
}

// StatsData is the payload for stats widgets.
type StatsData struct {
	TotalUsers  int    `json:"totalUsers"`
	ActiveToday int    `json:"activeToday"`
	Revenue     string `json:"revenue"`
	Growth      string `json:"growth"`
}

// CalendarEvent is a single entry in a calendar widget payload.
type CalendarEvent struct {
	Title    string `json:"title"`
	Date     string `json:"date"`
	Priority string `json:"priority"`
}

// CalendarData is the payload for calendar widgets.
type CalendarData struct {
	Events []CalendarEvent `json:"events"`
}

// StatsPayload decodes the widget data as a stats payload.
func (w *Widget) StatsPayload() (*StatsData, error) {
	var data StatsData
	if err := json.Unmarshal(w.Data, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// CalendarPayload decodes the widget data as a calendar payload.
func (w *Widget) CalendarPayload() (*CalendarData, error) {
	var data CalendarData
	if err := json.Unmarshal(w.Data, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Layout is the persisted per-user snapshot of widget arrangement.
type Layout struct {
	UserID       string    `json:"userId"`
	Widgets      []Widget  `json:"widgets"`
	LastModified time.Time `json:"lastModified"`
}

// Normalize sorts widgets ascending by position, drops duplicate IDs
// keeping the first occurrence, and reassigns dense zero-based positions.
// Duplicate positions or IDs from a stale snapshot cannot survive this
// pass; relative order is preserved for ties.
func (l *Layout) Normalize() {
	sort.SliceStable(l.Widgets, func(i, j int) bool {
		return l.Widgets[i].Position < l.Widgets[j].Position
	})

	seen := make(map[string]bool, len(l.Widgets))
	kept := l.Widgets[:0]
	for _, w := range l.Widgets {
		if seen[w.ID] {
			continue
		}
		seen[w.ID] = true
		kept = append(kept, w)
	}
	l.Widgets = kept

	for i := range l.Widgets {
		l.Widgets[i].Position = i
	}
}

// EnabledCount returns the number of enabled widgets in the layout.
func (l *Layout) EnabledCount() int {
	count := 0
	for _, w := range l.Widgets {
		if w.Enabled {
			count++
		}
	}
	return count
}

// CloneWidgets returns a deep copy of a widget list. Data payloads are
// copied so callers cannot alias the original backing arrays.
func CloneWidgets(widgets []Widget) []Widget {
	out := make([]Widget, len(widgets))
	copy(out, widgets)
	for i := range out {
		if out[i].Data != nil {
			data := make(json.RawMessage, len(out[i].Data))
			copy(data, out[i].Data)
			out[i].Data = data
		}
	}
	return out
}
