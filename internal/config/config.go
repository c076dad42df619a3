// Package config loads scheduler configuration from YAML files and
// environment variables, with defaults applied first.
package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Tie-break policies for the Min-Min selector. MinOfMins is the
// classic Min-Min rule: among ready tasks pick the one whose own best
// completion time is smallest. TaskID orders tied tasks by identifier
// only.
const (
	TieBreakMinOfMins = "min-of-mins"
	TieBreakTaskID    = "task-id"
)

// Config represents the complete configuration for the scheduler.
type Config struct {
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Balancer  BalancerConfig  `yaml:"balancer"`
	Report    ReportConfig    `yaml:"report"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// SchedulerConfig holds Min-Min selector configuration.
type SchedulerConfig struct {
	// TieBreak selects the policy applied when several (task, VM)
	// pairs tie on minimum finish time.
	TieBreak string `yaml:"tie_break" env:"WS_SCHEDULER_TIE_BREAK"`
}

// BalancerConfig holds load-balancing pass configuration.
type BalancerConfig struct {
	Enabled bool `yaml:"enabled" env:"WS_BALANCER_ENABLED"`
	// VarianceThreshold stops the pass once the standard deviation of
	// per-VM loads drops to this value or below.
	VarianceThreshold float64 `yaml:"variance_threshold" env:"WS_BALANCER_VARIANCE_THRESHOLD"`
	// MaxMoves caps the number of committed moves.
	MaxMoves int `yaml:"max_moves" env:"WS_BALANCER_MAX_MOVES"`
}

// ReportConfig holds output configuration.
type ReportConfig struct {
	Format    string `yaml:"format" env:"WS_REPORT_FORMAT"` // text, json, both
	OutputDir string `yaml:"output_dir" env:"WS_REPORT_OUTPUT_DIR"`
}

// LoggingConfig holds logging configuration. Console logs go to
// stderr; stdout is reserved for report output.
type LoggingConfig struct {
	Level    string `yaml:"level" env:"WS_LOG_LEVEL"`
	Format   string `yaml:"format" env:"WS_LOG_FORMAT"`
	Output   string `yaml:"output" env:"WS_LOG_OUTPUT"` // stderr, file, both
	FilePath string `yaml:"file_path" env:"WS_LOG_FILE_PATH"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Scheduler: SchedulerConfig{
			TieBreak: TieBreakMinOfMins,
		},
		Balancer: BalancerConfig{
			Enabled:           true,
			VarianceThreshold: 0,
			MaxMoves:          100,
		},
		Report: ReportConfig{
			Format:    "text",
			OutputDir: ".",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			Output: "stderr",
		},
	}
}

// Loader handles configuration loading from multiple sources.
type Loader struct {
	configPath string
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// WithConfigPath sets the path to the YAML configuration file.
func (l *Loader) WithConfigPath(path string) *Loader {
	l.configPath = path
	return l
}

// Load loads configuration with proper precedence:
// defaults < YAML file < environment variables.
func (l *Loader) Load() (*Config, error) {
	cfg := DefaultConfig()

	if l.configPath != "" {
		if err := l.loadFromFile(cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := applyEnvToStruct(reflect.ValueOf(cfg).Elem()); err != nil {
		return nil, fmt.Errorf("failed to apply env overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFromFile loads configuration from a YAML file.
func (l *Loader) loadFromFile(cfg *Config) error {
	data, err := os.ReadFile(l.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File doesn't exist, use defaults
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

// applyEnvToStruct recursively applies environment variables to struct
// fields carrying an env tag.
func applyEnvToStruct(v reflect.Value) error {
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		if field.Kind() == reflect.Struct {
			if err := applyEnvToStruct(field); err != nil {
				return err
			}
			continue
		}

		envTag := fieldType.Tag.Get("env")
		if envTag == "" {
			continue
		}

		envValue := os.Getenv(envTag)
		if envValue == "" {
			continue
		}

		if err := setFieldValue(field, envValue); err != nil {
			return fmt.Errorf("failed to set field %s from env %s: %w", fieldType.Name, envTag, err)
		}
	}
	return nil
}

// setFieldValue sets a reflect.Value from a string value.
func setFieldValue(field reflect.Value, value string) error {
	if !field.CanSet() {
		return fmt.Errorf("field is not settable")
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid integer: %w", err)
		}
		field.SetInt(i)

	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid float: %w", err)
		}
		field.SetFloat(f)

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean: %w", err)
		}
		field.SetBool(b)

	default:
		return fmt.Errorf("unsupported field kind: %s", field.Kind())
	}
	return nil
}

// Validate checks configuration values for consistency.
func (c *Config) Validate() error {
	switch c.Scheduler.TieBreak {
	case TieBreakMinOfMins, TieBreakTaskID:
	default:
		return fmt.Errorf("invalid scheduler.tie_break %q (want %q or %q)",
			c.Scheduler.TieBreak, TieBreakMinOfMins, TieBreakTaskID)
	}

	if c.Balancer.VarianceThreshold < 0 {
		return fmt.Errorf("balancer.variance_threshold must be >= 0, got %v", c.Balancer.VarianceThreshold)
	}
	if c.Balancer.MaxMoves < 0 {
		return fmt.Errorf("balancer.max_moves must be >= 0, got %d", c.Balancer.MaxMoves)
	}

	switch c.Report.Format {
	case "text", "json", "both":
	default:
		return fmt.Errorf("invalid report.format %q (want text, json or both)", c.Report.Format)
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging.level %q", c.Logging.Level)
	}
	return nil
}
