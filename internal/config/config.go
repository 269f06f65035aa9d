// Package config loads the energy report settings from defaults, an optional
// YAML file and the environment. Command-line flags are layered on top by
// the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	EnvConfigFile      = "ENERGYREPORT_CONFIG"
	EnvCSVPath         = "ENERGYREPORT_CSV"
	EnvLogLevel        = "ENERGYREPORT_LOG_LEVEL"
	EnvLogFormat       = "ENERGYREPORT_LOG_FORMAT"
	EnvMetricsTextfile = "ENERGYREPORT_METRICS_TEXTFILE"

	DefaultConfigFile = "energyreport.yaml"
)

// Config is the root configuration structure.
type Config struct {
	Input   InputConfig   `yaml:"input"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

type InputConfig struct {
	CSVPath string `yaml:"csv_path"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "console"
}

// MetricsConfig configures the optional Prometheus textfile export.
type MetricsConfig struct {
	Textfile string `yaml:"textfile"` // empty disables the export
}

func Default() Config {
	return Config{
		Input:   InputConfig{CSVPath: "energy_data.csv"},
		Logging: LoggingConfig{Level: "info", Format: "console"},
	}
}

// Load returns the defaults overlaid with the YAML file at path and then
// with the ENERGYREPORT_* environment variables. If path is empty the
// default file name is tried and silently skipped when absent; an explicitly
// named file must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}
	if err := loadFile(path, &cfg); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return Config{}, err
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return fmt.Errorf("parse config %q: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Input.CSVPath = envOr(EnvCSVPath, cfg.Input.CSVPath)
	cfg.Logging.Level = envOr(EnvLogLevel, cfg.Logging.Level)
	cfg.Logging.Format = envOr(EnvLogFormat, cfg.Logging.Format)
	cfg.Metrics.Textfile = envOr(EnvMetricsTextfile, cfg.Metrics.Textfile)
}

// Validate reports every problem at once.
func (c Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Input.CSVPath) == "" {
		errs = append(errs, errors.New("input.csv_path must not be empty"))
	}
	switch normalize(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled":
	default:
		errs = append(errs, fmt.Errorf("invalid logging.level %q", c.Logging.Level))
	}
	switch normalize(c.Logging.Format) {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("invalid logging.format %q: must be json or console", c.Logging.Format))
	}

	return errors.Join(errs...)
}

// normalize matches level and format names the way the logger reads them.
func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func envOr(k, fallback string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return fallback
}
