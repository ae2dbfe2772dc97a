package config

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment variable names read by Load.
const (
	EnvPrefix  = "CREWCAST_"
	EnvConfig  = "CREWCAST_CONFIG"
	EnvEnvFile = "CREWCAST_ENV_FILE"
)

var (
	metricNamespace = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)
	metricPrefix    = regexp.MustCompile(`^[a-zA-Z0-9_]*$`)
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if CREWCAST_CONFIG is set
//  3. env (prefix CREWCAST_)
//
// When CREWCAST_ENV_FILE names a dotenv file it is read into the process
// environment first; variables already set win.
func Load(_ context.Context) (*Config, error) {
	if path := os.Getenv(EnvEnvFile); path != "" {
		if err := godotenv.Load(path); err != nil {
			return nil, fmt.Errorf("%w: env file: %w", ErrLoadConfig, err)
		}
	}

	base := New()
	k := koanf.New(".")

	if path := os.Getenv(EnvConfig); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Map env keys like CREWCAST_MODEL_PATH -> model_path (flat keys).
	// CREWCAST_CORS_ORIGINS and CREWCAST_MODEL_SOURCES are comma separated.
	envProvider := env.ProviderWithValue(EnvPrefix, ".", func(key, value string) (string, interface{}) {
		key = strings.TrimPrefix(strings.ToLower(key), strings.ToLower(EnvPrefix))
		if key == "cors_origins" || key == "model_sources" {
			return key, splitList(value)
		}
		return key, value
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would otherwise fail late at request time.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case utf8.RuneCountInString(c.CSVDelimiter) != 1:
		return fmt.Errorf("%w: csv_delimiter must be a single character, got %q", ErrInvalidConfig, c.CSVDelimiter)
	case c.CSVDelimiter == "\n" || c.CSVDelimiter == "\r" || c.CSVDelimiter == `"`:
		return fmt.Errorf("%w: csv_delimiter %q is not allowed", ErrInvalidConfig, c.CSVDelimiter)
	case c.MaxUploadBytes <= 0:
		return fmt.Errorf("%w: max_upload_bytes must be positive", ErrInvalidConfig)
	case c.RateLimitPerMinute < 0:
		return fmt.Errorf("%w: rate_limit_per_minute must not be negative", ErrInvalidConfig)
	case c.RemoteTimeoutMS < 0 || c.RemoteBreakerFailures < 0 || c.RemoteBreakerCooldownMS < 0:
		return fmt.Errorf("%w: remote_* settings must not be negative", ErrInvalidConfig)
	case c.AutoloadModel && strings.TrimSpace(c.ModelPath) == "":
		return fmt.Errorf("%w: autoload_model needs model_path", ErrInvalidConfig)
	case !metricNamespace.MatchString(c.MetricsNamespace):
		return fmt.Errorf("%w: metrics_namespace %q is not a valid metric name", ErrInvalidConfig, c.MetricsNamespace)
	case !metricPrefix.MatchString(c.MetricsPrefix):
		return fmt.Errorf("%w: metrics_prefix %q is not a valid metric name part", ErrInvalidConfig, c.MetricsPrefix)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
