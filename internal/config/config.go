// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New returns a Config populated with defaults.
// - Load layers defaults, an optional YAML file and CREWCAST_* env vars.
// - External errors are wrapped with this package's sentinel kinds.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log output.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// ModelPath is the model source offered by the web form: an artifact
	// file path or an http(s) endpoint.
	ModelPath string `koanf:"model_path"`

	// AutoloadModel loads ModelPath at startup when set.
	AutoloadModel bool `koanf:"autoload_model"`

	// AllowModelReload lets POST /model load sources other than ModelPath.
	AllowModelReload bool `koanf:"allow_model_reload"`

	// ModelSources restricts reloadable sources to these prefixes. Empty
	// allows any source once AllowModelReload is set.
	ModelSources []string `koanf:"model_sources"`

	// StrictLabels rejects unrecognized categorical answers instead of
	// encoding them as 0.
	StrictLabels bool `koanf:"strict_labels"`

	// RangeChecks enforces the form widget bounds on numeric answers.
	RangeChecks bool `koanf:"range_checks"`

	// CSVDelimiter is the field separator for imported and exported files.
	CSVDelimiter string `koanf:"csv_delimiter"`

	// MaxUploadBytes caps the size of an uploaded batch file.
	MaxUploadBytes int64 `koanf:"max_upload_bytes"`

	// CORSOrigins lists origins allowed to call the API from a browser.
	CORSOrigins []string `koanf:"cors_origins"`

	// RateLimitPerMinute caps prediction requests per client IP; 0 disables.
	RateLimitPerMinute int `koanf:"rate_limit_per_minute"`

	// RemoteTimeoutMS bounds each call to a remote model endpoint.
	RemoteTimeoutMS int `koanf:"remote_timeout_ms"`

	// RemoteBreakerFailures is the run of unavailable responses that opens
	// the remote model circuit breaker.
	RemoteBreakerFailures int `koanf:"remote_breaker_failures"`

	// RemoteBreakerCooldownMS is how long an open breaker fails fast.
	RemoteBreakerCooldownMS int `koanf:"remote_breaker_cooldown_ms"`

	// MetricsEnabled turns recording of Prometheus metrics on or off.
	MetricsEnabled bool `koanf:"metrics_enabled"`

	// MetricsNamespace is the first segment of every metric name.
	MetricsNamespace string `koanf:"metrics_namespace"`

	// MetricsPrefix is inserted before each metric's own name, e.g.
	// crewcast_staffing_<prefix>_predictions_total.
	MetricsPrefix string `koanf:"metrics_prefix"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          "text",
		Addr:               ":9080",
		ModelPath:          "model/staffing_forest.json",
		AutoloadModel:      false,
		AllowModelReload:   false,
		ModelSources:       nil,
		StrictLabels:       false,
		RangeChecks:        true,
		CSVDelimiter:       ",",
		MaxUploadBytes:     10 << 20,
		CORSOrigins:        nil,
		RateLimitPerMinute: 0,
		RemoteTimeoutMS:    30_000,

		RemoteBreakerFailures:   5,
		RemoteBreakerCooldownMS: 30_000,

		MetricsEnabled:   true,
		MetricsNamespace: "crewcast",
		MetricsPrefix:    "",
	}
}

// Delimiter returns CSVDelimiter as a rune. Load guarantees it is one rune.
func (c *Config) Delimiter() rune {
	for _, r := range c.CSVDelimiter {
		return r
	}
	return ','
}
