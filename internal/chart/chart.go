// Package chart renders an hourly temperature series as a fixed-width
// textual bar chart small enough to fit inside a single embed field.
package chart

import (
	"fmt"
	"math"
	"strings"

	"github.com/minsukang/dailybrief/pkg/models"
)

// Config holds rendering parameters for the temperature chart.
type Config struct {
	BarWidth      int     // maximum bar length in glyphs (default: 20)
	MaxPoints     int     // maximum number of chart lines (default: 8)
	FillGlyph     rune    // bar fill character (default: '█')
	RainThreshold float64 // precipitation probability above which a line is annotated (default: 0.2)
}

// DefaultConfig returns sensible defaults for chart rendering.
func DefaultConfig() Config {
	return Config{
		BarWidth:      20,
		MaxPoints:     8,
		FillGlyph:     '█',
		RainThreshold: 0.2,
	}
}

// Render converts the hourly samples into a newline-joined text block.
// The series is down-sampled to at most MaxPoints lines in chronological
// order, and each bar is scaled to the min/max of the selected points.
// Rendering is deterministic: identical input yields identical output.
func Render(samples []models.HourlySample, cfg Config) string {
	if len(samples) == 0 {
		return ""
	}
	if cfg.BarWidth == 0 {
		cfg = DefaultConfig()
	}

	points := downsample(samples, cfg.MaxPoints)

	minTemp, maxTemp := points[0].Temperature, points[0].Temperature
	for _, p := range points {
		if p.Temperature < minTemp {
			minTemp = p.Temperature
		}
		if p.Temperature > maxTemp {
			maxTemp = p.Temperature
		}
	}
	tempRange := maxTemp - minTemp
	if tempRange == 0 {
		tempRange = 1 // flat series renders zero-length bars
	}

	lines := make([]string, 0, len(points))
	for _, p := range points {
		length := int(math.Round((p.Temperature - minTemp) / tempRange * float64(cfg.BarWidth)))
		line := fmt.Sprintf("%s %s %5.1f°C", p.Time, bar(length, cfg), p.Temperature)
		if p.Precipitation > cfg.RainThreshold {
			line += fmt.Sprintf(" %d%%", int(math.Round(p.Precipitation*100)))
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// downsample selects at most max points by striding through the series,
// preserving chronological order.
func downsample(samples []models.HourlySample, max int) []models.HourlySample {
	if max <= 0 || len(samples) <= max {
		return samples
	}
	stride := len(samples) / max
	if stride < 1 {
		stride = 1
	}
	selected := make([]models.HourlySample, 0, max)
	for i := 0; i < len(samples) && len(selected) < max; i += stride {
		selected = append(selected, samples[i])
	}
	return selected
}

// bar renders a filled bar of the given length, right-padded to the
// configured width so the temperature column lines up.
func bar(length int, cfg Config) string {
	if length < 0 {
		length = 0
	}
	if length > cfg.BarWidth {
		length = cfg.BarWidth
	}
	return strings.Repeat(string(cfg.FillGlyph), length) + strings.Repeat(" ", cfg.BarWidth-length)
}
