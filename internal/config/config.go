// Package config handles configuration loading for dailybrief.
// It supports YAML config files with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	Weather  WeatherConfig  `mapstructure:"weather"  yaml:"weather"`
	Feeds    FeedsConfig    `mapstructure:"feeds"    yaml:"feeds"`
	LLM      LLMConfig      `mapstructure:"llm"      yaml:"llm"`
	Webhook  WebhookConfig  `mapstructure:"webhook"  yaml:"webhook"`
	Briefing BriefingConfig `mapstructure:"briefing" yaml:"briefing"`
	API      APIConfig      `mapstructure:"api"      yaml:"api"`
	Logging  LoggingConfig  `mapstructure:"logging"  yaml:"logging"`
}

// WeatherConfig holds OpenWeatherMap settings.
type WeatherConfig struct {
	APIKey string `mapstructure:"api_key" yaml:"api_key"`
	City   string `mapstructure:"city"    yaml:"city"` // e.g. "Seoul,KR"
	Units  string `mapstructure:"units"   yaml:"units"`
	Lang   string `mapstructure:"lang"    yaml:"lang"`
}

// FeedCategoryConfig holds feed URLs and date policy for one category.
type FeedCategoryConfig struct {
	URLs []string `mapstructure:"urls" yaml:"urls"`
	// IncludeUndated controls entries missing both date fields:
	// true treats them as published now, false drops them.
	IncludeUndated bool `mapstructure:"include_undated" yaml:"include_undated"`
}

// FeedsConfig holds RSS feed settings per news category.
type FeedsConfig struct {
	News          FeedCategoryConfig `mapstructure:"news"           yaml:"news"`
	Gaming        FeedCategoryConfig `mapstructure:"gaming"         yaml:"gaming"`
	LookbackHours int                `mapstructure:"lookback_hours" yaml:"lookback_hours"`
}

// LLMConfig holds generative-text service settings.
type LLMConfig struct {
	GeminiKey   string  `mapstructure:"gemini_key"  yaml:"gemini_key"`
	Model       string  `mapstructure:"model"       yaml:"model"`
	Temperature float64 `mapstructure:"temperature" yaml:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"  yaml:"max_tokens"`
}

// WebhookConfig holds the chat webhook sink settings.
type WebhookConfig struct {
	URL        string `mapstructure:"url"         yaml:"url"`
	TimeoutSec int    `mapstructure:"timeout_sec" yaml:"timeout_sec"`
}

// BriefingConfig holds orchestration settings.
type BriefingConfig struct {
	// Categories toggles; the run order itself is fixed.
	Greeting bool `mapstructure:"greeting" yaml:"greeting"`
	Weather  bool `mapstructure:"weather"  yaml:"weather"`
	News     bool `mapstructure:"news"     yaml:"news"`
	Gaming   bool `mapstructure:"gaming"   yaml:"gaming"`
}

// APIConfig holds HTTP trigger boundary settings.
type APIConfig struct {
	Host        string   `mapstructure:"host"          yaml:"host"`
	Port        int      `mapstructure:"port"          yaml:"port"`
	Token       string   `mapstructure:"token"         yaml:"token"` // empty disables auth
	CORSOrigins []string `mapstructure:"cors_origins"  yaml:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.dailybrief/config.yaml (home directory)
//  3. /etc/dailybrief/config.yaml (system)
//
// Environment variables override config file values.
// Format: DAILYBRIEF_<SECTION>_<KEY>, e.g., DAILYBRIEF_LLM_GEMINI_KEY
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".dailybrief"))
	v.AddConfigPath("/etc/dailybrief")

	v.SetEnvPrefix("DAILYBRIEF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found — that's fine, use defaults + env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrideFromEnv(&cfg)

	return &cfg, nil
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvPrefix("DAILYBRIEF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrideFromEnv(&cfg)
	return &cfg, nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	// Weather defaults
	v.SetDefault("weather.city", "Seoul,KR")
	v.SetDefault("weather.units", "metric")
	v.SetDefault("weather.lang", "kr")

	// Feed defaults
	v.SetDefault("feeds.news.urls", []string{
		"http://feeds.bbci.co.uk/news/world/rss.xml",
	})
	v.SetDefault("feeds.news.include_undated", false)
	v.SetDefault("feeds.gaming.urls", []string{})
	v.SetDefault("feeds.gaming.include_undated", false)
	v.SetDefault("feeds.lookback_hours", 24)

	// LLM defaults
	v.SetDefault("llm.model", "gemini-2.0-flash")
	v.SetDefault("llm.temperature", 0.3)
	v.SetDefault("llm.max_tokens", 1024)

	// Webhook defaults
	v.SetDefault("webhook.timeout_sec", 15)

	// Briefing defaults: everything on except gaming (needs feed URLs)
	v.SetDefault("briefing.greeting", true)
	v.SetDefault("briefing.weather", true)
	v.SetDefault("briefing.news", true)
	v.SetDefault("briefing.gaming", false)

	// API defaults
	v.SetDefault("api.host", "0.0.0.0")
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.cors_origins", []string{})

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// overrideFromEnv explicitly reads sensitive keys from environment variables.
func overrideFromEnv(cfg *Config) {
	if key := os.Getenv("DAILYBRIEF_WEATHER_API_KEY"); key != "" {
		cfg.Weather.APIKey = key
	}
	if key := os.Getenv("DAILYBRIEF_LLM_GEMINI_KEY"); key != "" {
		cfg.LLM.GeminiKey = key
	}
	if u := os.Getenv("DAILYBRIEF_WEBHOOK_URL"); u != "" {
		cfg.Webhook.URL = u
	}
	if tok := os.Getenv("DAILYBRIEF_API_TOKEN"); tok != "" {
		cfg.API.Token = tok
	}
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
