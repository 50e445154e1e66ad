package briefing

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/minsukang/dailybrief/internal/chart"
	"github.com/minsukang/dailybrief/internal/datasource"
	"github.com/minsukang/dailybrief/pkg/models"
	"github.com/minsukang/dailybrief/pkg/utils"
)

// WeatherSource provides the weather data a briefing needs.
type WeatherSource interface {
	City() string
	Current(ctx context.Context) (*models.CurrentWeather, error)
	Forecast(ctx context.Context) ([]models.HourlySample, error)
}

// Collector gathers recent feed entries from a set of sources.
type Collector interface {
	Collect(ctx context.Context, urls []string, window time.Duration) []models.NewsItem
}

// Sink delivers the assembled embeds.
type Sink interface {
	Dispatch(ctx context.Context, embeds []models.Embed) int
}

// Footers shown under each embed.
const (
	footerWeather = "Data from OpenWeather"
	footerNews    = "Summarized from RSS headlines"
	footerGaming  = "Summarized from gaming RSS headlines"
)

// OrchestratorConfig wires the orchestrator's collaborators together.
// Category toggles switch whole sections off; a disabled category is
// simply absent from the briefing, not an error.
type OrchestratorConfig struct {
	Gate       *RunGate
	Weather    WeatherSource
	News       Collector
	Gaming     Collector
	Summarizer *Summarizer
	Sink       Sink

	NewsURLs   []string
	GamingURLs []string
	Lookback   time.Duration

	EnableGreeting bool
	EnableWeather  bool
	EnableNews     bool
	EnableGaming   bool

	ChartConfig chart.Config
	Clock       func() time.Time
}

// Orchestrator runs the daily briefing pipeline: acquire the day's run
// slot, build each enabled category in fixed order, and hand the
// resulting embeds to the sink. Categories are isolated from each other:
// one failing category never aborts the run.
type Orchestrator struct {
	cfg OrchestratorConfig
}

// NewOrchestrator creates an orchestrator. A nil Clock defaults to KST
// wall time; a zero ChartConfig defaults to the standard chart layout.
func NewOrchestrator(cfg OrchestratorConfig) *Orchestrator {
	if cfg.Clock == nil {
		cfg.Clock = utils.NowKST
	}
	if cfg.ChartConfig.BarWidth == 0 {
		cfg.ChartConfig = chart.DefaultConfig()
	}
	return &Orchestrator{cfg: cfg}
}

// Run executes one briefing invocation. When today's slot is already
// taken and force is false, it returns a skipped outcome without
// touching any data source. Otherwise every enabled category is built
// in order (greeting, weather, news, gaming, gaming trends), failures
// are collected per category, and whatever succeeded is dispatched.
// Dispatch failures are logged by the sink and never reflected in the
// outcome.
func (o *Orchestrator) Run(ctx context.Context, force bool) models.RunOutcome {
	ok, date := o.cfg.Gate.TryAcquire(force)
	if !ok {
		log.Printf("briefing for %s already sent, skipping", date)
		return models.RunOutcome{Status: models.StatusSkipped, Date: date}
	}

	log.Printf("briefing run started for %s (force=%v)", date, force)

	var embeds []models.Embed
	errs := make(map[string]string)

	if o.cfg.EnableGreeting {
		embeds = append(embeds, o.greetingEmbed())
	}

	if o.cfg.EnableWeather {
		if e, err := o.weatherEmbed(ctx); err != nil {
			log.Printf("warn: weather category failed: %v", err)
			errs[CategoryWeather] = err.Error()
		} else {
			embeds = append(embeds, e)
		}
	}

	window := o.lookbackWindow()

	if o.cfg.EnableNews {
		items := o.cfg.News.Collect(ctx, o.cfg.NewsURLs, window)
		body := o.cfg.Summarizer.Summarize(ctx, CategoryNews, items)
		embeds = append(embeds, NewEmbed("📰 Today's News", body, ColorNews, footerNews))
	}

	if o.cfg.EnableGaming {
		items := o.cfg.Gaming.Collect(ctx, o.cfg.GamingURLs, window)
		body := o.cfg.Summarizer.Summarize(ctx, CategoryGaming, items)
		embeds = append(embeds, NewEmbed("🎮 Gaming News", body, ColorGaming, footerGaming))

		// Trend analysis only makes sense on top of actual gaming news.
		if len(items) > 0 {
			trends := o.cfg.Summarizer.Summarize(ctx, CategoryTrends, items)
			embeds = append(embeds, NewEmbed("📈 Gaming Trends", trends, ColorTrends, footerGaming))
		}
	}

	if len(embeds) > 0 {
		delivered := o.cfg.Sink.Dispatch(ctx, embeds)
		log.Printf("briefing run finished: %d/%d embeds delivered", delivered, len(embeds))
	} else {
		log.Printf("briefing run finished: nothing to send")
	}

	outcome := models.RunOutcome{Status: models.StatusOK, Date: date}
	if len(errs) > 0 {
		outcome.Status = models.StatusPartial
		outcome.Errors = errs
	}
	return outcome
}

// lookbackWindow returns the feed collection window. When no lookback
// is configured it reaches back to yesterday's 08:00 KST anchor, so a
// morning run covers everything since the previous briefing.
func (o *Orchestrator) lookbackWindow() time.Duration {
	if o.cfg.Lookback > 0 {
		return o.cfg.Lookback
	}
	now := utils.ToKST(o.cfg.Clock())
	return now.Sub(utils.MorningAnchor(now.AddDate(0, 0, -1)))
}

// greetingEmbed opens the briefing with the day's date.
func (o *Orchestrator) greetingEmbed() models.Embed {
	now := utils.ToKST(o.cfg.Clock())
	body := fmt.Sprintf("Good morning! Here is your briefing for %s (%s).",
		now.Format("January 2, 2006"), now.Format("Mon"))
	return NewEmbed("☀️ Daily Briefing", body, ColorGreeting, "")
}

// weatherEmbed builds the weather section: current conditions in the
// description, the 24-hour temperature chart as a code-block field, and
// the condition icon as a thumbnail. It fails when either the current
// conditions or the forecast cannot be fetched.
func (o *Orchestrator) weatherEmbed(ctx context.Context) (models.Embed, error) {
	cur, err := o.cfg.Weather.Current(ctx)
	if err != nil {
		return models.Embed{}, fmt.Errorf("current conditions: %w", err)
	}
	samples, err := o.cfg.Weather.Forecast(ctx)
	if err != nil {
		return models.Embed{}, fmt.Errorf("forecast: %w", err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "**%s**\n", cur.Description)
	fmt.Fprintf(&sb, "🌡️ %.1f°C (feels like %.1f°C)\n", cur.Temperature, cur.FeelsLike)
	fmt.Fprintf(&sb, "💧 Humidity %d%%  ·  💨 Wind %.1f m/s", cur.Humidity, cur.WindSpeed)

	e := NewEmbed(fmt.Sprintf("🌤️ Weather — %s", o.cfg.Weather.City()), sb.String(), ColorWeather, footerWeather)
	e.Thumbnail = datasource.IconURL(cur.Icon)

	if rendered := chart.Render(samples, o.cfg.ChartConfig); rendered != "" {
		e.Fields = append(e.Fields, models.EmbedField{
			Name:  "Next 24 hours",
			Value: "```\n" + rendered + "\n```",
		})
	}
	return e, nil
}
