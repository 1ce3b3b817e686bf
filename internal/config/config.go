// Package config loads runtime settings from the environment and the
// selection rules from YAML.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Feed settings
	SourcesConfigPath string
	FetchConcurrency  int
	RequestTimeout    time.Duration

	// Rules file; empty or missing means built-in defaults
	RulesConfigPath string

	// History store settings
	HistoryBackend string // "file" | "sqlite" | "postgres"
	HistoryFile    string
	SQLitePath     string
	DatabaseURL    string

	// Overrides for the rules file (0 = keep rules value)
	TopK          int
	RetentionDays int

	// Enrichment settings
	EnrichProvider string // "openai" | "gemini" | "none"
	OpenAIAPIKey   string
	OpenAIModel    string
	GeminiAPIKey   string
	GeminiModel    string
	MaxAIRequests  int // per run, 0 = unlimited
	EnrichTimeout  time.Duration

	// Telegram settings
	TelegramToken     string
	TelegramChannelID string

	// Twitter settings (OAuth 1.0a user context)
	TwitterEnabled           bool
	TwitterAPIKey            string
	TwitterAPISecret         string
	TwitterAccessToken       string
	TwitterAccessTokenSecret string

	// Serve mode
	RunInterval    time.Duration
	MonitoringPort string

	Debug bool
}

func Load() (*Config, error) {
	cfg := &Config{
		// Default values
		SourcesConfigPath: "configs/sources.yaml",
		RulesConfigPath:   "configs/rules.yaml",
		FetchConcurrency:  6,
		RequestTimeout:    20 * time.Second,
		HistoryBackend:    "file",
		HistoryFile:       "published_news.json",
		SQLitePath:        "data/history.db",
		EnrichProvider:    "openai",
		OpenAIModel:       "gpt-4o-mini",
		GeminiModel:       "gemini-1.5-flash",
		MaxAIRequests:     5,
		EnrichTimeout:     10 * time.Second,
		RunInterval:       30 * time.Minute,
		MonitoringPort:    "8080",
		TwitterEnabled:    true,
	}

	cfg.SourcesConfigPath = getEnvOrDefault("SOURCES_CONFIG_PATH", cfg.SourcesConfigPath)
	cfg.RulesConfigPath = getEnvOrDefault("RULES_CONFIG_PATH", cfg.RulesConfigPath)
	cfg.FetchConcurrency = getEnvIntOrDefault("FETCH_CONCURRENCY", cfg.FetchConcurrency)
	cfg.RequestTimeout = time.Duration(getEnvIntOrDefault("REQUEST_TIMEOUT_SECONDS", int(cfg.RequestTimeout/time.Second))) * time.Second

	cfg.HistoryBackend = getEnvOrDefault("HISTORY_BACKEND", cfg.HistoryBackend)
	cfg.HistoryFile = getEnvOrDefault("HISTORY_FILE", cfg.HistoryFile)
	cfg.SQLitePath = getEnvOrDefault("SQLITE_PATH", cfg.SQLitePath)
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")

	cfg.TopK = getEnvIntOrDefault("TOP_K", 0)
	cfg.RetentionDays = getEnvIntOrDefault("RETENTION_DAYS", 0)

	cfg.EnrichProvider = getEnvOrDefault("ENRICH_PROVIDER", cfg.EnrichProvider)
	cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	cfg.OpenAIModel = getEnvOrDefault("OPENAI_MODEL", cfg.OpenAIModel)
	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	cfg.GeminiModel = getEnvOrDefault("GEMINI_MODEL", cfg.GeminiModel)
	if v := os.Getenv("MAX_AI_REQUESTS"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val >= 0 {
			cfg.MaxAIRequests = val
		}
	}
	if v := os.Getenv("ENRICH_TIMEOUT_SECONDS"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val > 0 {
			cfg.EnrichTimeout = time.Duration(val) * time.Second
		}
	}

	cfg.TelegramToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	cfg.TelegramChannelID = os.Getenv("TELEGRAM_CHANNEL_ID")

	if v := os.Getenv("TWITTER_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.TwitterEnabled = enabled
		}
	}
	cfg.TwitterAPIKey = os.Getenv("TWITTER_API_KEY")
	cfg.TwitterAPISecret = os.Getenv("TWITTER_API_SECRET")
	cfg.TwitterAccessToken = os.Getenv("TWITTER_ACCESS_TOKEN")
	cfg.TwitterAccessTokenSecret = os.Getenv("TWITTER_ACCESS_TOKEN_SECRET")

	if v := os.Getenv("RUN_INTERVAL_MINUTES"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val > 0 {
			cfg.RunInterval = time.Duration(val) * time.Minute
		}
	}
	cfg.MonitoringPort = getEnvOrDefault("MONITORING_PORT", cfg.MonitoringPort)

	if debug := os.Getenv("DEBUG"); debug == "true" {
		cfg.Debug = true
	}

	return cfg, cfg.Validate()
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// TelegramEnabled reports whether both Telegram credentials are present.
func (c *Config) TelegramEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChannelID != ""
}

// TwitterReady reports whether posting to Twitter is enabled and all four
// OAuth credentials are present.
func (c *Config) TwitterReady() bool {
	return c.TwitterEnabled &&
		c.TwitterAPIKey != "" && c.TwitterAPISecret != "" &&
		c.TwitterAccessToken != "" && c.TwitterAccessTokenSecret != ""
}

func (c *Config) Validate() error {
	switch c.HistoryBackend {
	case "file", "sqlite":
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for HISTORY_BACKEND=postgres")
		}
	default:
		return fmt.Errorf("HISTORY_BACKEND must be 'file', 'sqlite' or 'postgres'")
	}
	switch c.EnrichProvider {
	case "openai", "gemini", "none":
	default:
		return fmt.Errorf("ENRICH_PROVIDER must be 'openai', 'gemini' or 'none'")
	}
	if c.FetchConcurrency <= 0 {
		return fmt.Errorf("FETCH_CONCURRENCY must be positive")
	}
	if c.TopK < 0 || c.RetentionDays < 0 {
		return fmt.Errorf("TOP_K and RETENTION_DAYS must not be negative")
	}
	return nil
}
