package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the complete bot configuration.
type Config struct {
	Execution ExecutionConfig `json:"execution" yaml:"execution"`
	Strategy  StrategyConfig  `json:"strategy" yaml:"strategy"`
	Journal   JournalConfig   `json:"journal" yaml:"journal"`
	Stream    StreamConfig    `json:"stream" yaml:"stream"`
}

// ExecutionConfig governs live order flow.
type ExecutionConfig struct {
	PaperMode           bool    `json:"paper_mode" yaml:"paper_mode"`
	MaxOrdersPerMinute  int     `json:"max_orders_per_minute" yaml:"max_orders_per_minute"`
	MaxQtyPerOrder      int64   `json:"max_qty_per_order" yaml:"max_qty_per_order"`
	AllowedSymbolSuffix string  `json:"allowed_symbol_suffix" yaml:"allowed_symbol_suffix"`
	MaxDailyLoss        float64 `json:"max_daily_loss" yaml:"max_daily_loss"`
}

// StrategyConfig carries the default SMA-crossover parameters.
type StrategyConfig struct {
	Symbol     string  `json:"symbol" yaml:"symbol"`
	Interval   string  `json:"interval" yaml:"interval"`
	FastWindow int     `json:"fast_window" yaml:"fast_window"`
	SlowWindow int     `json:"slow_window" yaml:"slow_window"`
	Allocation float64 `json:"allocation" yaml:"allocation"`
	Capital    float64 `json:"capital" yaml:"capital"`
}

// JournalConfig selects the trade-store backend.
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "csv" or "sqlite"
	TradesFile string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	EquityFile string `json:"equity_file,omitempty" yaml:"equity_file,omitempty"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// StreamConfig points at the live tick feed.
type StreamConfig struct {
	URL string `json:"url,omitempty" yaml:"url,omitempty"`
}

// LoadFromFile loads configuration from a YAML or JSON file, then applies
// environment overrides (a local .env file is honored if present).
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// FromEnv returns the defaults with environment overrides applied, for
// running without a config file.
func FromEnv() (*Config, error) {
	cfg := Default()
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// applyEnv layers environment variables over the current values.
func (c *Config) applyEnv() {
	_ = godotenv.Load() // best-effort .env

	if v, ok := os.LookupEnv("PAPER_MODE"); ok {
		c.Execution.PaperMode = parseBool(v)
	}
	if v, ok := os.LookupEnv("MAX_ORDERS_PER_MINUTE"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			c.Execution.MaxOrdersPerMinute = n
		}
	}
	if v, ok := os.LookupEnv("MAX_QTY_PER_ORDER"); ok {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Execution.MaxQtyPerOrder = n
		}
	}
	if v, ok := os.LookupEnv("ALLOWED_SYMBOL_SUFFIX"); ok {
		c.Execution.AllowedSymbolSuffix = v
	}
	if v, ok := os.LookupEnv("MAX_DAILY_LOSS"); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Execution.MaxDailyLoss = f
		}
	}
	if v, ok := os.LookupEnv("STREAM_URL"); ok {
		c.Stream.URL = v
	}
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes":
		return true
	}
	return false
}

// SaveToFile writes the config as YAML (.yaml/.yml) or indented JSON.
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks the configuration is usable.
func (c *Config) Validate() error {
	if c.Execution.MaxOrdersPerMinute <= 0 {
		return fmt.Errorf("execution.max_orders_per_minute must be positive")
	}
	if c.Execution.MaxQtyPerOrder <= 0 {
		return fmt.Errorf("execution.max_qty_per_order must be positive")
	}
	if c.Execution.MaxDailyLoss < 0 {
		return fmt.Errorf("execution.max_daily_loss must not be negative")
	}
	if c.Strategy.FastWindow <= 0 || c.Strategy.SlowWindow <= 0 {
		return fmt.Errorf("strategy windows must be positive")
	}
	if c.Strategy.FastWindow >= c.Strategy.SlowWindow {
		return fmt.Errorf("strategy.fast_window must be smaller than strategy.slow_window")
	}
	if c.Strategy.Allocation <= 0 || c.Strategy.Allocation > 1 {
		return fmt.Errorf("strategy.allocation must be in (0,1]")
	}
	if c.Strategy.Capital <= 0 {
		return fmt.Errorf("strategy.capital must be positive")
	}
	switch c.Journal.Type {
	case "csv":
		if c.Journal.TradesFile == "" || c.Journal.EquityFile == "" {
			return fmt.Errorf("journal trades_file and equity_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	default:
		return fmt.Errorf("journal.type must be 'csv' or 'sqlite'")
	}
	return nil
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Execution: ExecutionConfig{
			PaperMode:           true,
			MaxOrdersPerMinute:  5,
			MaxQtyPerOrder:      1000,
			AllowedSymbolSuffix: ".NS",
			MaxDailyLoss:        5000,
		},
		Strategy: StrategyConfig{
			Symbol:     "RELIANCE.NS",
			Interval:   "5m",
			FastWindow: 10,
			SlowWindow: 30,
			Allocation: 1.0,
			Capital:    100_000,
		},
		Journal: JournalConfig{
			Type:   "sqlite",
			DBPath: "./tradebot.sqlite",
		},
	}
}
