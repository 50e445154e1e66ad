// dailybrief — daily morning briefing bot (weather, news, gaming)
// delivered to a Discord-compatible webhook.
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/minsukang/dailybrief/api"
	"github.com/minsukang/dailybrief/internal/briefing"
	"github.com/minsukang/dailybrief/internal/config"
	"github.com/minsukang/dailybrief/internal/datasource"
	"github.com/minsukang/dailybrief/internal/llm"
	"github.com/minsukang/dailybrief/pkg/utils"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config
var cfg *config.Config

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "dailybrief",
	Short: "dailybrief — daily weather, news, and gaming briefing over webhook",
	Long: `dailybrief collects the morning's weather forecast and recent news
headlines, optionally condenses them with a generative-text model, and
delivers the result as rich embeds to a Discord-compatible webhook.
At most one briefing is sent per day unless forced.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statusCmd)
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("dailybrief %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Run Command ---

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Build and dispatch today's briefing once",
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")

		orch, err := buildOrchestrator(cfg)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		outcome := orch.Run(ctx, force)
		fmt.Printf("briefing %s: %s\n", outcome.Date, outcome.Status)
		for category, msg := range outcome.Errors {
			fmt.Printf("  %s: %s\n", category, msg)
		}
		return nil
	},
}

func init() {
	runCmd.Flags().Bool("force", false, "bypass the once-per-day gate")
}

// --- Serve Command (API Server) ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP trigger server",
	RunE: func(cmd *cobra.Command, args []string) error {
		orch, err := buildOrchestrator(cfg)
		if err != nil {
			return err
		}

		addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
		fmt.Printf("🌐 Starting dailybrief server on %s\n", addr)
		return api.NewServer(cfg, orch).ListenAndServe(addr)
	},
}

// --- Status Command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show system status and configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("═══════════════════════════════════════")
		fmt.Println("  dailybrief — System Status")
		fmt.Println("═══════════════════════════════════════")
		fmt.Printf("  Version:     %s (%s)\n", version, commit)
		fmt.Printf("  Time (KST):  %s\n", utils.FormatDateTimeKST(utils.NowKST()))
		fmt.Println()

		fmt.Println("  Configuration:")
		fmt.Printf("    City:          %s\n", cfg.Weather.City)
		fmt.Printf("    LLM Model:     %s\n", cfg.LLM.Model)
		fmt.Printf("    News feeds:    %d\n", len(cfg.Feeds.News.URLs))
		fmt.Printf("    Gaming feeds:  %d\n", len(cfg.Feeds.Gaming.URLs))
		fmt.Printf("    API Server:    %s:%d\n", cfg.API.Host, cfg.API.Port)
		fmt.Println()

		fmt.Println("  Secrets:")
		keys := config.CheckAPIKeys(cfg)
		for _, k := range keys {
			status := "❌ not set"
			if k.IsSet {
				status = fmt.Sprintf("✅ set (%s: %s)", k.Source, k.Masked)
			}
			fmt.Printf("    %-22s %s\n", k.Name+":", status)
		}

		fmt.Println("═══════════════════════════════════════")
		return nil
	},
}

// --- Wiring ---

// buildOrchestrator assembles the briefing pipeline from configuration.
// Categories whose credentials are missing are disabled with a warning
// rather than failing the whole command, so a webhook-only setup still
// delivers what it can.
func buildOrchestrator(cfg *config.Config) (*briefing.Orchestrator, error) {
	if cfg.Webhook.URL == "" {
		return nil, fmt.Errorf("webhook URL not configured (set DAILYBRIEF_WEBHOOK_URL)")
	}

	ocfg := briefing.OrchestratorConfig{
		Gate: briefing.NewRunGate(),
		Sink: briefing.NewDispatcher(cfg.Webhook.URL, time.Duration(cfg.Webhook.TimeoutSec)*time.Second),

		NewsURLs:   cfg.Feeds.News.URLs,
		GamingURLs: cfg.Feeds.Gaming.URLs,
		Lookback:   time.Duration(cfg.Feeds.LookbackHours) * time.Hour,

		EnableGreeting: cfg.Briefing.Greeting,
		EnableWeather:  cfg.Briefing.Weather,
		EnableNews:     cfg.Briefing.News,
		EnableGaming:   cfg.Briefing.Gaming,
	}

	if ocfg.EnableWeather {
		weather, err := datasource.NewWeatherClient(cfg.Weather.APIKey, cfg.Weather.City, cfg.Weather.Units, cfg.Weather.Lang)
		if err != nil {
			fmt.Fprintf(os.Stderr, "⚠️  weather disabled: %v\n", err)
			ocfg.EnableWeather = false
		} else {
			ocfg.Weather = weather
		}
	}

	ocfg.News = datasource.NewFeedCollector(
		datasource.WithIncludeUndated(cfg.Feeds.News.IncludeUndated))
	ocfg.Gaming = datasource.NewFeedCollector(
		datasource.WithIncludeUndated(cfg.Feeds.Gaming.IncludeUndated))

	provider, err := llm.NewGeminiProvider(cfg.LLM.GeminiKey, llm.WithGeminiModel(cfg.LLM.Model))
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠️  summaries degraded to fallbacks: %v\n", err)
		provider = nil
	}
	ocfg.Summarizer = briefing.NewSummarizer(providerOrNoop(provider), &llm.GenerateOptions{
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
	})

	return briefing.NewOrchestrator(ocfg), nil
}

// noopProvider stands in when no LLM key is configured; every Generate
// call fails so the summarizer falls back to its fixed sentences.
type noopProvider struct{}

func (noopProvider) Name() string { return "none" }

func (noopProvider) Generate(context.Context, string, *llm.GenerateOptions) (*llm.Response, error) {
	return nil, llm.ErrNoAPIKey
}

func (noopProvider) Ping(context.Context) error { return llm.ErrNoAPIKey }

func providerOrNoop(p *llm.GeminiProvider) llm.Provider {
	if p == nil {
		return noopProvider{}
	}
	return p
}
