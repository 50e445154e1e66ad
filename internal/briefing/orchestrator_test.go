package briefing

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/minsukang/dailybrief/pkg/models"
	"github.com/minsukang/dailybrief/pkg/utils"
)

type fakeWeather struct {
	current     *models.CurrentWeather
	currentErr  error
	forecast    []models.HourlySample
	forecastErr error
}

func (f *fakeWeather) City() string { return "Seoul,KR" }

func (f *fakeWeather) Current(context.Context) (*models.CurrentWeather, error) {
	return f.current, f.currentErr
}

func (f *fakeWeather) Forecast(context.Context) ([]models.HourlySample, error) {
	return f.forecast, f.forecastErr
}

type fakeCollector struct {
	items []models.NewsItem
}

func (f *fakeCollector) Collect(context.Context, []string, time.Duration) []models.NewsItem {
	return f.items
}

type fakeSink struct {
	batches [][]models.Embed
}

func (f *fakeSink) Dispatch(_ context.Context, embeds []models.Embed) int {
	f.batches = append(f.batches, embeds)
	return len(embeds)
}

func testOrchestrator(sink *fakeSink, weather WeatherSource, news, gaming Collector) *Orchestrator {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, utils.KST)
	clock := fixedClock(now)
	return NewOrchestrator(OrchestratorConfig{
		Gate:       NewRunGate(WithGateClock(clock)),
		Weather:    weather,
		News:       news,
		Gaming:     gaming,
		Summarizer: NewSummarizer(&fakeProvider{content: "summary text"}, nil),
		Sink:       sink,

		NewsURLs:   []string{"https://example.com/news.xml"},
		GamingURLs: []string{"https://example.com/gaming.xml"},
		Lookback:   24 * time.Hour,

		EnableGreeting: true,
		EnableWeather:  true,
		EnableNews:     true,
		EnableGaming:   true,

		Clock: clock,
	})
}

func healthyWeather() *fakeWeather {
	return &fakeWeather{
		current: &models.CurrentWeather{
			Description: "Clear sky",
			Temperature: 12.5,
			FeelsLike:   11.0,
			Humidity:    40,
			WindSpeed:   2.1,
			Icon:        "01d",
		},
		forecast: []models.HourlySample{
			{Time: "09:00", Temperature: 10.0},
			{Time: "12:00", Temperature: 15.0},
		},
	}
}

func TestRunFullBriefingOrder(t *testing.T) {
	sink := &fakeSink{}
	o := testOrchestrator(sink, healthyWeather(),
		&fakeCollector{items: items("world story")},
		&fakeCollector{items: items("gaming story")})

	out := o.Run(context.Background(), false)
	if !out.OK() {
		t.Fatalf("status: got %s, want ok (errors: %v)", out.Status, out.Errors)
	}
	if out.Date != "2026-03-10" {
		t.Errorf("date: got %q, want 2026-03-10", out.Date)
	}

	if len(sink.batches) != 1 {
		t.Fatalf("dispatch batches: got %d, want 1", len(sink.batches))
	}
	embeds := sink.batches[0]
	if len(embeds) != 5 {
		t.Fatalf("embeds: got %d, want 5 (greeting, weather, news, gaming, trends)", len(embeds))
	}

	wantColors := []int{ColorGreeting, ColorWeather, ColorNews, ColorGaming, ColorTrends}
	for i, want := range wantColors {
		if embeds[i].Color != want {
			t.Errorf("embed %d color: got %#x, want %#x", i, embeds[i].Color, want)
		}
	}
}

func TestRunWeatherFailureIsIsolated(t *testing.T) {
	sink := &fakeSink{}
	weather := &fakeWeather{currentErr: errors.New("upstream 500")}
	o := testOrchestrator(sink, weather,
		&fakeCollector{items: items("world story")},
		&fakeCollector{})

	out := o.Run(context.Background(), false)
	if out.Status != models.StatusPartial {
		t.Fatalf("status: got %s, want partial", out.Status)
	}
	if len(out.Errors) != 1 {
		t.Fatalf("errors: got %v, want exactly one weather entry", out.Errors)
	}
	if _, ok := out.Errors[CategoryWeather]; !ok {
		t.Fatalf("errors should be keyed by %q: %v", CategoryWeather, out.Errors)
	}

	// Remaining categories still dispatched: greeting, news, gaming.
	if len(sink.batches) != 1 {
		t.Fatalf("dispatch batches: got %d, want 1", len(sink.batches))
	}
	if got := len(sink.batches[0]); got != 3 {
		t.Errorf("embeds: got %d, want 3", got)
	}
	for _, e := range sink.batches[0] {
		if e.Color == ColorWeather {
			t.Error("a failed weather category must not produce an embed")
		}
	}
}

func TestRunTrendsSkippedWithoutGamingItems(t *testing.T) {
	sink := &fakeSink{}
	o := testOrchestrator(sink, healthyWeather(),
		&fakeCollector{items: items("world story")},
		&fakeCollector{}) // no gaming items

	out := o.Run(context.Background(), false)
	if !out.OK() {
		t.Fatalf("status: got %s, want ok", out.Status)
	}
	embeds := sink.batches[0]
	if len(embeds) != 4 {
		t.Fatalf("embeds: got %d, want 4 (no trends embed)", len(embeds))
	}
	for _, e := range embeds {
		if e.Color == ColorTrends {
			t.Error("trends embed should be absent when gaming yields no items")
		}
	}
	// The gaming embed itself still appears, with the empty fallback.
	last := embeds[3]
	if last.Color != ColorGaming {
		t.Fatalf("last embed color: got %#x, want gaming", last.Color)
	}
	if last.Description != emptyFallbacks[CategoryGaming] {
		t.Errorf("gaming body: got %q, want the empty fallback", last.Description)
	}
}

func TestRunSecondInvocationSkipped(t *testing.T) {
	sink := &fakeSink{}
	o := testOrchestrator(sink, healthyWeather(), &fakeCollector{}, &fakeCollector{})

	first := o.Run(context.Background(), false)
	if first.Status == models.StatusSkipped {
		t.Fatal("first run should not be skipped")
	}
	second := o.Run(context.Background(), false)
	if second.Status != models.StatusSkipped {
		t.Fatalf("second same-day run: got %s, want skipped", second.Status)
	}
	if len(sink.batches) != 1 {
		t.Errorf("skipped run must not dispatch: got %d batches", len(sink.batches))
	}
}

func TestRunForceRedispatches(t *testing.T) {
	sink := &fakeSink{}
	o := testOrchestrator(sink, healthyWeather(), &fakeCollector{}, &fakeCollector{})

	o.Run(context.Background(), false)
	out := o.Run(context.Background(), true)
	if out.Status == models.StatusSkipped {
		t.Fatal("forced run should not be skipped")
	}
	if len(sink.batches) != 2 {
		t.Errorf("dispatch batches: got %d, want 2", len(sink.batches))
	}
}

func TestRunDisabledCategoriesAbsent(t *testing.T) {
	sink := &fakeSink{}
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, utils.KST)
	clock := fixedClock(now)
	o := NewOrchestrator(OrchestratorConfig{
		Gate:       NewRunGate(WithGateClock(clock)),
		Weather:    healthyWeather(),
		News:       &fakeCollector{items: items("world story")},
		Gaming:     &fakeCollector{items: items("gaming story")},
		Summarizer: NewSummarizer(&fakeProvider{content: "summary"}, nil),
		Sink:       sink,
		Lookback:   24 * time.Hour,

		EnableNews: true, // everything else off
		Clock:      clock,
	})

	out := o.Run(context.Background(), false)
	if !out.OK() {
		t.Fatalf("status: got %s, want ok", out.Status)
	}
	if len(sink.batches) != 1 || len(sink.batches[0]) != 1 {
		t.Fatalf("want exactly one news embed, got %v", sink.batches)
	}
	if got := sink.batches[0][0].Color; got != ColorNews {
		t.Errorf("embed color: got %#x, want news", got)
	}
}

func TestLookbackWindowDefault(t *testing.T) {
	// 08:30 KST with no configured lookback reaches back to yesterday
	// 08:00 KST.
	now := time.Date(2026, 3, 10, 8, 30, 0, 0, utils.KST)
	o := NewOrchestrator(OrchestratorConfig{Clock: fixedClock(now)})
	if got, want := o.lookbackWindow(), 24*time.Hour+30*time.Minute; got != want {
		t.Errorf("default window: got %v, want %v", got, want)
	}

	o = NewOrchestrator(OrchestratorConfig{Clock: fixedClock(now), Lookback: 6 * time.Hour})
	if got := o.lookbackWindow(); got != 6*time.Hour {
		t.Errorf("configured window: got %v, want 6h", got)
	}
}

func TestRunWeatherEmbedContent(t *testing.T) {
	sink := &fakeSink{}
	o := testOrchestrator(sink, healthyWeather(), &fakeCollector{}, &fakeCollector{})

	o.Run(context.Background(), false)
	var weather *models.Embed
	for i := range sink.batches[0] {
		if sink.batches[0][i].Color == ColorWeather {
			weather = &sink.batches[0][i]
		}
	}
	if weather == nil {
		t.Fatal("weather embed missing")
	}
	if !strings.Contains(weather.Title, "Seoul,KR") {
		t.Errorf("title should name the city: %q", weather.Title)
	}
	if !strings.Contains(weather.Description, "Clear sky") {
		t.Errorf("description should carry the conditions: %q", weather.Description)
	}
	if !strings.Contains(weather.Thumbnail, "01d") {
		t.Errorf("thumbnail should point at the icon: %q", weather.Thumbnail)
	}
	if len(weather.Fields) != 1 {
		t.Fatalf("fields: got %d, want 1 chart field", len(weather.Fields))
	}
	if !strings.HasPrefix(weather.Fields[0].Value, "```") {
		t.Errorf("chart field should be a code block: %q", weather.Fields[0].Value)
	}
}
