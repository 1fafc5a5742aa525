package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/caarlos0/env/v11"
	"go.uber.org/zap/zapcore"

	"github.com/eugenenazirov/siteconfig/internal/loader"
)

const (
	defaultLogLevel            = "info"
	defaultShutdownGracePeriod = 10 * time.Second
)

var (
	// ErrInvalidLogLevel is returned for log levels zap does not know.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidGracePeriod is returned for negative shutdown grace periods.
	ErrInvalidGracePeriod = errors.New("shutdown grace period must be >= 0")
)

// Config aggregates tool options resolved from multiple sources.
// Precedence: CLI flags > Environment variables > Defaults
type Config struct {
	Dir                 string        `env:"SITECONFIG_DIR"`
	OverrideFile        string        `env:"SITECONFIG_OVERRIDE_FILE"`
	BootstrapFile       string        `env:"SITECONFIG_BOOTSTRAP_FILE"`
	Interpreter         string        `env:"SITECONFIG_INTERPRETER"`
	LogLevel            string        `env:"SITECONFIG_LOG_LEVEL"`
	ShutdownGracePeriod time.Duration `env:"SITECONFIG_SHUTDOWN_GRACE_PERIOD"`
}

// CLIOverrides holds command-line flag overrides. Nil fields are unset.
type CLIOverrides struct {
	Dir                 *string
	OverrideFile        *string
	BootstrapFile       *string
	Interpreter         *string
	LogLevel            *string
	ShutdownGracePeriod *time.Duration
}

// Load extracts configuration from multiple sources with precedence:
// CLI flags > Environment variables > Defaults
func Load(overrides *CLIOverrides) (Config, error) {
	cfg := defaultConfig()

	// Parsing onto the defaults keeps them for unset variables while an
	// explicit zero such as SITECONFIG_SHUTDOWN_GRACE_PERIOD=0s still applies.
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}

	if overrides != nil {
		if err := mergo.Merge(&cfg, overrides.config(), mergo.WithOverride); err != nil {
			return Config{}, fmt.Errorf("merge CLI config: %w", err)
		}
		// mergo skips zero values; a grace period given on the command line wins even when zero.
		if overrides.ShutdownGracePeriod != nil {
			cfg.ShutdownGracePeriod = *overrides.ShutdownGracePeriod
		}
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// OverrideFiles returns the override file names to look for; nil selects the defaults.
func (c Config) OverrideFiles() []string {
	if strings.TrimSpace(c.OverrideFile) == "" {
		return nil
	}
	return []string{c.OverrideFile}
}

// InterpreterArgs splits the interpreter command line.
func (c Config) InterpreterArgs() []string {
	return strings.Fields(c.Interpreter)
}

// Level returns the parsed log level.
func (c Config) Level() zapcore.Level {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return zapcore.InfoLevel
	}
	return level
}

// defaultConfig returns a Config with default values.
func defaultConfig() Config {
	return Config{
		Dir:                 ".",
		BootstrapFile:       loader.DefaultBootstrapFile,
		LogLevel:            defaultLogLevel,
		ShutdownGracePeriod: defaultShutdownGracePeriod,
	}
}

func (o *CLIOverrides) config() Config {
	var cfg Config
	if o.Dir != nil {
		cfg.Dir = *o.Dir
	}
	if o.OverrideFile != nil {
		cfg.OverrideFile = *o.OverrideFile
	}
	if o.BootstrapFile != nil {
		cfg.BootstrapFile = *o.BootstrapFile
	}
	if o.Interpreter != nil {
		cfg.Interpreter = *o.Interpreter
	}
	if o.LogLevel != nil {
		cfg.LogLevel = *o.LogLevel
	}
	if o.ShutdownGracePeriod != nil {
		cfg.ShutdownGracePeriod = *o.ShutdownGracePeriod
	}
	return cfg
}

// validateConfig validates the final configuration.
func validateConfig(cfg Config) error {
	if _, err := zapcore.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, cfg.LogLevel)
	}
	if cfg.ShutdownGracePeriod < 0 {
		return ErrInvalidGracePeriod
	}
	if strings.TrimSpace(cfg.BootstrapFile) == "" {
		return fmt.Errorf("bootstrap file cannot be empty")
	}
	return nil
}
