package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"

	"resume-report/internal/shared/telemetry"
)

// Config holds application configuration.
type Config struct {
	Port            string   `env:"PORT" envDefault:"8080"`
	Env             string   `env:"ENV" envDefault:"dev"`
	CORSAllowOrigin []string `env:"CORS_ALLOW_ORIGINS" envDefault:"http://localhost:5173" envSeparator:","`
	DatabaseURL     string   `env:"DATABASE_URL"`
	APIKeys         []string `env:"API_KEYS" envSeparator:","`

	Backend    BackendConfig
	RateLimit  RateLimitConfig
	Submission SubmissionConfig
}

// BackendConfig points at the remote analysis service.
type BackendConfig struct {
	BaseURL             string        `env:"ANALYSIS_API_BASE_URL" envDefault:"http://localhost:8080/api/v1"`
	Token               string        `env:"ANALYSIS_API_TOKEN"`
	GuestID             string        `env:"ANALYSIS_API_GUEST_ID"`
	Timeout             time.Duration `env:"ANALYSIS_API_TIMEOUT" envDefault:"30s"`
	RequestsPerSecond   float64       `env:"ANALYSIS_API_RPS" envDefault:"5"`
	PollInitialInterval time.Duration `env:"ANALYSIS_POLL_INITIAL_INTERVAL" envDefault:"1s"`
	PollMaxInterval     time.Duration `env:"ANALYSIS_POLL_MAX_INTERVAL" envDefault:"10s"`
	PollMaxElapsed      time.Duration `env:"ANALYSIS_POLL_MAX_ELAPSED" envDefault:"3m"`
}

// RateLimitConfig bounds requests per client on the report API.
type RateLimitConfig struct {
	Rate  float64 `env:"RATE_LIMIT_RPS" envDefault:"2"`
	Burst int     `env:"RATE_LIMIT_BURST" envDefault:"10"`
}

type SubmissionConfig struct {
	MaxResumeBytes         int64 `env:"MAX_RESUME_BYTES" envDefault:"5242880"`
	MinJobDescriptionChars int   `env:"MIN_JOB_DESCRIPTION_CHARS" envDefault:"300"`
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (Config, error) {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.Env = normalizeEnv(cfg.Env)
	cfg.CORSAllowOrigin = trimAll(cfg.CORSAllowOrigin)
	cfg.APIKeys = trimAll(cfg.APIKeys)
	cfg.Backend.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.Backend.BaseURL), "/")

	if cfg.Env == "production" && cfg.DatabaseURL == "" {
		telemetry.Warn("config.database_url_missing", map[string]any{"env": cfg.Env})
	}
	return cfg, nil
}

func trimAll(values []string) []string {
	var out []string
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}
