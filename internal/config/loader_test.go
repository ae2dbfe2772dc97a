package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/crewcast/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.ModelPath, convey.ShouldEqual, "model/staffing_forest.json")
				convey.So(cfg.StrictLabels, convey.ShouldBeFalse)
				convey.So(cfg.CSVDelimiter, convey.ShouldEqual, ",")
				convey.So(cfg.AllowModelReload, convey.ShouldBeFalse)
				convey.So(cfg.ModelSources, convey.ShouldBeEmpty)
				convey.So(cfg.MetricsEnabled, convey.ShouldBeTrue)
				convey.So(cfg.MetricsNamespace, convey.ShouldEqual, "crewcast")
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("CREWCAST_ADDR", ":8080")
			_ = os.Setenv("CREWCAST_MODEL_PATH", "/srv/models/forest.yaml")
			_ = os.Setenv("CREWCAST_STRICT_LABELS", "true")
			_ = os.Setenv("CREWCAST_CSV_DELIMITER", ";")
			_ = os.Setenv("CREWCAST_MAX_UPLOAD_BYTES", "2048")
			_ = os.Setenv("CREWCAST_CORS_ORIGINS", "https://a.example, https://b.example")
			_ = os.Setenv("CREWCAST_ALLOW_MODEL_RELOAD", "true")
			_ = os.Setenv("CREWCAST_MODEL_SOURCES", "/srv/models/,https://models.internal/")
			_ = os.Setenv("CREWCAST_METRICS_ENABLED", "false")
			_ = os.Setenv("CREWCAST_METRICS_NAMESPACE", "studio")
			_ = os.Setenv("CREWCAST_METRICS_PREFIX", "desk")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.ModelPath, convey.ShouldEqual, "/srv/models/forest.yaml")
				convey.So(cfg.StrictLabels, convey.ShouldBeTrue)
				convey.So(cfg.Delimiter(), convey.ShouldEqual, ';')
				convey.So(cfg.MaxUploadBytes, convey.ShouldEqual, 2048)
				convey.So(cfg.CORSOrigins, convey.ShouldResemble, []string{"https://a.example", "https://b.example"})
				convey.So(cfg.AllowModelReload, convey.ShouldBeTrue)
				convey.So(cfg.ModelSources, convey.ShouldResemble, []string{"/srv/models/", "https://models.internal/"})
				convey.So(cfg.MetricsEnabled, convey.ShouldBeFalse)
				convey.So(cfg.MetricsNamespace, convey.ShouldEqual, "studio")
				convey.So(cfg.MetricsPrefix, convey.ShouldEqual, "desk")
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":9090"
model_path: "https://models.internal/staffing"
autoload_model: true
range_checks: false
rate_limit_per_minute: 120
cors_origins:
  - "https://crew.example"
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("CREWCAST_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.ModelPath, convey.ShouldEqual, "https://models.internal/staffing")
				convey.So(cfg.AutoloadModel, convey.ShouldBeTrue)
				convey.So(cfg.RangeChecks, convey.ShouldBeFalse)
				convey.So(cfg.RateLimitPerMinute, convey.ShouldEqual, 120)
				convey.So(cfg.CORSOrigins, convey.ShouldResemble, []string{"https://crew.example"})
				convey.So(cfg.RemoteTimeoutMS, convey.ShouldEqual, 30_000) // From defaults
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
addr: ":9090"
log_level: "warn"
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("CREWCAST_CONFIG", tmpFile)
			_ = os.Setenv("CREWCAST_ADDR", ":8080") // This should override the file
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")  // Overridden by env
				convey.So(cfg.LogLevel, convey.ShouldEqual, "warn") // From file
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("CREWCAST_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("CREWCAST_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("CREWCAST_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with an invalid boolean", func() {
			_ = os.Setenv("CREWCAST_STRICT_LABELS", "sometimes")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with a multi character delimiter", func() {
			_ = os.Setenv("CREWCAST_CSV_DELIMITER", "||")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should reject the delimiter", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

func TestConfigLoaderEnvFile(t *testing.T) {
	convey.Convey("Given a dotenv file", t, func() {
		ctx := context.Background()
		envFile := createTempFile("crewcast-*.env", "CREWCAST_ADDR=:7070\nCREWCAST_LOG_LEVEL=debug\n")
		defer func() { _ = os.Remove(envFile) }()

		convey.Convey("When CREWCAST_ENV_FILE points at it", func() {
			_ = os.Setenv("CREWCAST_ENV_FILE", envFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then its variables should be applied", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
			})
		})

		convey.Convey("When a variable is already set in the environment", func() {
			_ = os.Setenv("CREWCAST_ENV_FILE", envFile)
			_ = os.Setenv("CREWCAST_ADDR", ":6060")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then the environment should win", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":6060")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
			})
		})

		convey.Convey("When CREWCAST_ENV_FILE points at a missing file", func() {
			_ = os.Setenv("CREWCAST_ENV_FILE", "/non/existent/.env")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"CREWCAST_CONFIG",
		"CREWCAST_ENV_FILE",
		"CREWCAST_ADDR",
		"CREWCAST_LOG_LEVEL",
		"CREWCAST_LOG_FORMAT",
		"CREWCAST_MODEL_PATH",
		"CREWCAST_AUTOLOAD_MODEL",
		"CREWCAST_STRICT_LABELS",
		"CREWCAST_RANGE_CHECKS",
		"CREWCAST_CSV_DELIMITER",
		"CREWCAST_MAX_UPLOAD_BYTES",
		"CREWCAST_CORS_ORIGINS",
		"CREWCAST_ALLOW_MODEL_RELOAD",
		"CREWCAST_MODEL_SOURCES",
		"CREWCAST_METRICS_ENABLED",
		"CREWCAST_METRICS_NAMESPACE",
		"CREWCAST_METRICS_PREFIX",
		"CREWCAST_RATE_LIMIT_PER_MINUTE",
		"CREWCAST_REMOTE_TIMEOUT_MS",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	return createTempFile("crewcast-config-*.yaml", content)
}

func createTempFile(pattern, content string) string {
	tmpFile, err := os.CreateTemp("", pattern)
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
