// Package config provides Viper-based configuration loading for the
// optimizer CLI.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// OptimizerConfig holds search tuning settings.
type OptimizerConfig struct {
	// Workers is the worker-pool size. 0 uses all CPUs.
	Workers int `mapstructure:"workers"`
	// MinChunks is the minimum number of work chunks the candidate tree is
	// split into. 0 derives it from the worker count.
	MinChunks int `mapstructure:"min_chunks"`
	// ProgressInterval is the number of evaluations between progress
	// snapshots. 0 keeps the engine default.
	ProgressInterval uint64 `mapstructure:"progress_interval"`
	// Heuristics enables the sampling pre-filter that discards combinations
	// unlikely to reach the leaderboard.
	Heuristics bool `mapstructure:"heuristics"`
}

// ExportConfig holds result output settings.
type ExportConfig struct {
	// Dir is the directory workbooks are written to.
	Dir string `mapstructure:"dir"`
	// Format selects the outputs: "table", "xlsx", or "both".
	Format string `mapstructure:"format"`
}

// WantsTable reports whether the text table is written to stdout.
func (e ExportConfig) WantsTable() bool {
	return e.Format == "table" || e.Format == "both"
}

// WantsWorkbook reports whether an xlsx workbook is written.
func (e ExportConfig) WantsWorkbook() bool {
	return e.Format == "xlsx" || e.Format == "both"
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// Config is the top-level application configuration.
type Config struct {
	Optimizer OptimizerConfig `mapstructure:"optimizer"`
	Export    ExportConfig    `mapstructure:"export"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateOptimizer(c.Optimizer); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateExport(c.Export); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateOptimizer(o OptimizerConfig) error {
	var errs []string
	if o.Workers < 0 {
		errs = append(errs, fmt.Sprintf("optimizer.workers must be >= 0, got %d", o.Workers))
	}
	if o.MinChunks < 0 {
		errs = append(errs, fmt.Sprintf("optimizer.min_chunks must be >= 0, got %d", o.MinChunks))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateExport(e ExportConfig) error {
	var errs []string
	validFormats := map[string]bool{"table": true, "xlsx": true, "both": true}
	if !validFormats[e.Format] {
		errs = append(errs, fmt.Sprintf("export.format must be one of [table, xlsx, both], got %q", e.Format))
	}
	if e.WantsWorkbook() && e.Dir == "" {
		errs = append(errs, "export.dir must not be empty when workbooks are written")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with GEARSMITH_ prefix
	v.SetEnvPrefix("GEARSMITH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Default returns the configuration used when no config file is given.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("config: unmarshalling defaults: %v", err))
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("optimizer.workers", 0)
	v.SetDefault("optimizer.min_chunks", 0)
	v.SetDefault("optimizer.progress_interval", 0)
	v.SetDefault("optimizer.heuristics", false)

	v.SetDefault("export.dir", "results")
	v.SetDefault("export.format", "table")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}
