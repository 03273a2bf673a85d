// Package config provides configuration management for the barrier pricer.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/viper"

	apperrors "barrier-pricer/internal/errors"
	"barrier-pricer/internal/logging"
	"barrier-pricer/internal/models"
	"barrier-pricer/internal/pricing"
)

// Config holds all application configuration.
type Config struct {
	Market     MarketConfig     `mapstructure:"market"`
	Simulation SimulationConfig `mapstructure:"simulation"`
	Sweep      SweepConfig      `mapstructure:"sweep"`
	Output     OutputConfig     `mapstructure:"output"`
	Store      StoreConfig      `mapstructure:"store"`
	Logging    LoggingConfig    `mapstructure:"logging"`

	// Dir is the directory the configuration was loaded from.
	Dir string `mapstructure:"-"`
}

// MarketConfig holds the default market state.
type MarketConfig struct {
	Spot       float64 `mapstructure:"spot"`
	Rate       float64 `mapstructure:"rate"`
	Dividend   float64 `mapstructure:"dividend"`
	Volatility float64 `mapstructure:"volatility"`
	Horizon    float64 `mapstructure:"horizon"` // years
}

// SimulationConfig holds Monte Carlo settings.
type SimulationConfig struct {
	Steps      int     `mapstructure:"steps"`
	Trials     int     `mapstructure:"trials"`
	Workers    int     `mapstructure:"workers"`
	Seed       uint64  `mapstructure:"seed"` // 0 draws a seed from the clock
	Confidence float64 `mapstructure:"confidence"`
}

// SweepConfig holds the strike grid and panel barriers.
type SweepConfig struct {
	StrikeFrom  float64 `mapstructure:"strike_from"`
	StrikeTo    float64 `mapstructure:"strike_to"`
	StrikeStep  float64 `mapstructure:"strike_step"`
	PutBarrier  float64 `mapstructure:"put_barrier"`
	CallBarrier float64 `mapstructure:"call_barrier"`
}

// OutputConfig holds chart settings.
type OutputConfig struct {
	ChartPath   string  `mapstructure:"chart_path"`
	ChartWidth  float64 `mapstructure:"chart_width"`  // inches
	ChartHeight float64 `mapstructure:"chart_height"` // inches
	Color       bool    `mapstructure:"color"`
}

// StoreConfig holds run journal settings.
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	File       bool   `mapstructure:"file"`
	FilePath   string `mapstructure:"file_path"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/barrier-pricer"
	}
	return filepath.Join(home, ".config", "barrier-pricer")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory. A commented
// template is written when config.toml does not exist yet.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	v := viper.New()
	setDefaults(v, configDir)
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, apperrors.Wrapf(apperrors.ErrConfigInvalid, "reading config.toml: %v", err)
		}
		if err := createTemplateConfig(configDir); err != nil {
			return nil, fmt.Errorf("writing config template: %w", err)
		}
	}

	cfg := &Config{Dir: configDir}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrConfigInvalid, "decoding config.toml: %v", err)
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns the built-in configuration without touching the filesystem.
// It panics if the built-in defaults cannot be decoded.
func Default() *Config {
	cfg, err := defaultsFor(DefaultConfigDir())
	if err != nil {
		panic(err)
	}
	return cfg
}

func defaultsFor(dir string) (*Config, error) {
	v := viper.New()
	setDefaults(v, dir)
	cfg := &Config{Dir: dir}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrConfigInvalid, "decoding defaults: %v", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, configDir string) {
	v.SetDefault("market.spot", 100.0)
	v.SetDefault("market.rate", 0.05)
	v.SetDefault("market.dividend", 0.01)
	v.SetDefault("market.volatility", 0.3)
	v.SetDefault("market.horizon", 1.0)

	v.SetDefault("simulation.steps", 365)
	v.SetDefault("simulation.trials", 200)
	v.SetDefault("simulation.workers", 1)
	v.SetDefault("simulation.seed", 0)
	v.SetDefault("simulation.confidence", pricing.DefaultConfidence)

	v.SetDefault("sweep.strike_from", 75.0)
	v.SetDefault("sweep.strike_to", 125.0)
	v.SetDefault("sweep.strike_step", 5.0)
	v.SetDefault("sweep.put_barrier", 90.0)
	v.SetDefault("sweep.call_barrier", 110.0)

	v.SetDefault("output.chart_path", "barrier_prices.png")
	v.SetDefault("output.chart_width", 11.0)
	v.SetDefault("output.chart_height", 8.5)
	v.SetDefault("output.color", true)

	v.SetDefault("store.path", filepath.Join(configDir, "runs.db"))

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", true)
	v.SetDefault("logging.file_path", filepath.Join(configDir, "logs", "barrier.log"))
	v.SetDefault("logging.max_size", 20)
	v.SetDefault("logging.max_backups", 5)
	v.SetDefault("logging.max_age", 30)
}

func applyEnvOverrides(cfg *Config) error {
	ints := []struct {
		name   string
		target *int
	}{
		{"BARRIER_STEPS", &cfg.Simulation.Steps},
		{"BARRIER_TRIALS", &cfg.Simulation.Trials},
		{"BARRIER_WORKERS", &cfg.Simulation.Workers},
	}
	for _, e := range ints {
		if v := os.Getenv(e.name); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return apperrors.Wrapf(apperrors.ErrConfigInvalid, "%s=%q", e.name, v)
			}
			*e.target = n
		}
	}

	if v := os.Getenv("BARRIER_SEED"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return apperrors.Wrapf(apperrors.ErrConfigInvalid, "BARRIER_SEED=%q", v)
		}
		cfg.Simulation.Seed = n
	}

	if v := os.Getenv("BARRIER_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	invalid := func(format string, args ...interface{}) error {
		return apperrors.Wrapf(apperrors.ErrConfigInvalid, format, args...)
	}

	if err := c.MarketParams().Validate(); err != nil {
		return invalid("market: %v", err)
	}
	if c.Market.Horizon <= 0 {
		return invalid("market.horizon must be positive")
	}
	if err := c.SimulationParams().Validate(); err != nil {
		return invalid("simulation: %v", err)
	}
	if c.Simulation.Workers < 0 {
		return invalid("simulation.workers must be non-negative")
	}
	if c.Simulation.Confidence <= 0 || c.Simulation.Confidence >= 1 {
		return invalid("simulation.confidence must be between 0 and 1")
	}
	if c.Sweep.StrikeFrom <= 0 || c.Sweep.StrikeStep <= 0 {
		return invalid("sweep strikes must be positive")
	}
	if c.Sweep.StrikeTo < c.Sweep.StrikeFrom {
		return invalid("sweep.strike_to must not be below sweep.strike_from")
	}
	if c.Sweep.PutBarrier <= 0 || c.Sweep.CallBarrier <= 0 {
		return invalid("sweep barriers must be positive")
	}
	if c.Output.ChartWidth <= 0 || c.Output.ChartHeight <= 0 {
		return invalid("output chart size must be positive")
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return invalid("logging.level %q must be debug, info, warn or error", c.Logging.Level)
	}
	return nil
}

// MarketParams returns the configured market state.
func (c *Config) MarketParams() models.Market {
	return models.Market{
		Spot:       c.Market.Spot,
		Rate:       c.Market.Rate,
		Dividend:   c.Market.Dividend,
		Volatility: c.Market.Volatility,
	}
}

// SimulationParams returns the configured discretisation.
func (c *Config) SimulationParams() models.Simulation {
	return models.Simulation{Steps: c.Simulation.Steps, Trials: c.Simulation.Trials}
}

// PricerConfig returns the pricer settings; a zero seed leaves it unseeded.
func (c *Config) PricerConfig() pricing.PricerConfig {
	return pricing.PricerConfig{
		Workers:    c.Simulation.Workers,
		Seed:       c.Simulation.Seed,
		Seeded:     c.Simulation.Seed != 0,
		Confidence: c.Simulation.Confidence,
	}
}

// LogConfig returns the logger settings.
func (c *Config) LogConfig() logging.LogConfig {
	return logging.LogConfig{
		Level:      c.Logging.Level,
		Console:    true,
		File:       c.Logging.File,
		FilePath:   c.Logging.FilePath,
		MaxSize:    c.Logging.MaxSize,
		MaxBackups: c.Logging.MaxBackups,
		MaxAge:     c.Logging.MaxAge,
	}
}
