package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"minerva/pkg/errors"
)

type Config struct {
	App           AppConfig
	Brokerage     BrokerageConfig
	AI            AIConfig
	Search        SearchConfig
	Trend         TrendConfig
	ErrorTracking ErrorTrackingConfig
}

type AppConfig struct {
	Name     string `envconfig:"APP_NAME" default:"minerva"`
	Env      string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Debug    bool   `envconfig:"DEBUG" default:"false"`
}

// BrokerageConfig holds credentials and host selection for the brokerage API.
// Mock selects the paper-trading host; credentials are required for any
// token-gated call.
type BrokerageConfig struct {
	AppKey    string        `envconfig:"BROKERAGE_APP_KEY"`
	SecretKey string        `envconfig:"BROKERAGE_SECRET_KEY"`
	Mock      bool          `envconfig:"BROKERAGE_MOCK" default:"true"`
	Timeout   time.Duration `envconfig:"BROKERAGE_TIMEOUT" default:"30s"`

	// Requests per minute against the brokerage host.
	RateLimit int `envconfig:"BROKERAGE_RATE_LIMIT" default:"120"`
}

// Configured reports whether both secret values are present.
func (c BrokerageConfig) Configured() bool {
	return c.AppKey != "" && c.SecretKey != ""
}

type AIConfig struct {
	GeminiKey       string        `envconfig:"GEMINI_API_KEY"`
	OpenAIKey       string        `envconfig:"OPENAI_API_KEY"`
	DefaultProvider string        `envconfig:"DEFAULT_AI_PROVIDER" default:"gemini"`
	Model           string        `envconfig:"AI_MODEL" default:"gemini-2.5-flash"`
	Timeout         time.Duration `envconfig:"AI_TIMEOUT" default:"60s"`

	// Route intents with the LLM classifier instead of keyword rules.
	LLMRouting bool `envconfig:"AI_LLM_ROUTING" default:"false"`
}

type SearchConfig struct {
	Model   string        `envconfig:"SEARCH_MODEL" default:"gemini-2.5-flash"`
	Timeout time.Duration `envconfig:"SEARCH_TIMEOUT" default:"60s"`
}

type TrendConfig struct {
	BaseURL string        `envconfig:"TREND_BASE_URL"`
	Region  string        `envconfig:"TREND_REGION" default:"US"`
	Timeout time.Duration `envconfig:"TREND_TIMEOUT" default:"30s"`
}

type ErrorTrackingConfig struct {
	Enabled     bool   `envconfig:"ERROR_TRACKING_ENABLED" default:"true"`
	Provider    string `envconfig:"ERROR_TRACKING_PROVIDER" default:"sentry"`
	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"SENTRY_ENVIRONMENT" default:"production"`
}

// Load reads configuration from environment variables
// It first tries to load .env file (useful for local development)
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if not exists)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to process env config")
	}

	return &cfg, nil
}
