// Package models defines the shared data types passed between the
// collectors, the briefing pipeline, and the webhook dispatcher.
package models

import "time"

// NewsItem is a single normalized feed entry. Items are produced by the
// feed collector, consumed once per briefing run, and never persisted.
type NewsItem struct {
	Source      string    `json:"source"`
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	PublishedAt time.Time `json:"published_at,omitzero"`
}

// HourlySample is one forecast step of the upcoming 24 hours.
// Precipitation is a probability in [0, 1].
type HourlySample struct {
	Time          string  `json:"time"` // "HH:MM" label in local time
	Temperature   float64 `json:"temperature"`
	Precipitation float64 `json:"precipitation"`
	Icon          string  `json:"icon,omitempty"`
}

// CurrentWeather holds the current conditions for the configured city.
type CurrentWeather struct {
	Description string  `json:"description"`
	Temperature float64 `json:"temperature"`
	FeelsLike   float64 `json:"feels_like"`
	Humidity    int     `json:"humidity"`
	WindSpeed   float64 `json:"wind_speed"`
	Icon        string  `json:"icon"`
}

// EmbedField is a single name/value pair shown inside an embed.
type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

// Embed is one bounded, self-contained message unit delivered to the
// webhook sink. The Description is guaranteed to respect the sink's
// size limit by the time the embed reaches the dispatcher.
type Embed struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Color       int          `json:"color"`
	Thumbnail   string       `json:"thumbnail,omitempty"`
	Fields      []EmbedField `json:"fields,omitempty"`
	Footer      string       `json:"footer"`
}

// RunStatus is the overall outcome of one briefing invocation.
type RunStatus string

const (
	StatusOK      RunStatus = "ok"
	StatusPartial RunStatus = "partial"
	StatusSkipped RunStatus = "skipped"
)

// RunOutcome is returned to the trigger boundary after every invocation.
// Errors is keyed by category name and only carries category-level
// pipeline failures; dispatch failures are logged, not reported here.
type RunOutcome struct {
	Status RunStatus         `json:"status"`
	Date   string            `json:"date"` // KST calendar date of the run
	Errors map[string]string `json:"errors,omitempty"`
}

// OK reports whether every category pipeline completed.
func (o RunOutcome) OK() bool { return o.Status == StatusOK }
