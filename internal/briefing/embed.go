// Package briefing implements the daily briefing pipeline: per-category
// collect → summarize → format → dispatch, guarded by a once-per-day gate.
package briefing

import (
	"github.com/minsukang/dailybrief/pkg/models"
)

// DescriptionLimit is the webhook sink's embed description limit.
const DescriptionLimit = 4096

// TruncationMarker is appended when a description had to be cut.
const TruncationMarker = "\n… (content truncated)"

// Embed colors per category.
const (
	ColorGreeting = 0xf1c40f
	ColorWeather  = 0x3498db
	ColorNews     = 0x2ecc71
	ColorGaming   = 0x9b59b6
	ColorTrends   = 0xe67e22
)

// Truncate cuts text to at most limit runes, appending marker when a cut
// was made. It is pure and never fails: the same input always yields the
// same output.
func Truncate(text string, limit int, marker string) string {
	if limit <= 0 {
		return marker
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + marker
}

// NewEmbed assembles a transport-ready embed, enforcing the description
// size limit.
func NewEmbed(title, body string, color int, footer string) models.Embed {
	return models.Embed{
		Title:       title,
		Description: Truncate(body, DescriptionLimit, TruncationMarker),
		Color:       color,
		Footer:      footer,
	}
}
