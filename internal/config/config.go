// Package config loads, validates and persists the watcher configuration.
package config

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/spf13/viper"

	"dexsentry/internal/domain"
)

// Config is the full watcher configuration, read from a YAML file with
// environment variable overrides (dot paths become underscores, e.g.
// TRADE_API_KEY overrides trade.api_key).
type Config struct {
	Log                   LogConfig        `mapstructure:"log" yaml:"log"`
	UpdateIntervalSeconds int              `mapstructure:"update_interval_seconds" yaml:"update_interval_seconds"`
	MetricsAddr           string           `mapstructure:"metrics_addr" yaml:"metrics_addr,omitempty"`
	MarketData            Service          `mapstructure:"market_data" yaml:"market_data"`
	FakeVolume            Service          `mapstructure:"fake_volume" yaml:"fake_volume"`
	ContractSafety        Service          `mapstructure:"contract_safety" yaml:"contract_safety"`
	Notify                Service          `mapstructure:"notify" yaml:"notify"`
	Trade                 Service          `mapstructure:"trade" yaml:"trade"`
	Discovery             DiscoveryConfig  `mapstructure:"discovery" yaml:"discovery,omitempty"`
	Postgres              PostgresConfig   `mapstructure:"postgres" yaml:"postgres"`
	ClickHouse            ClickHouseConfig `mapstructure:"clickhouse" yaml:"clickhouse,omitempty"`
	Filters               Filters          `mapstructure:"filters" yaml:"filters"`
	Watchlist             []string         `mapstructure:"watchlist" yaml:"watchlist"`
	Blacklist             Blacklist        `mapstructure:"blacklist" yaml:"blacklist"`
}

// LogConfig defines the logger configuration options.
type LogConfig struct {
	Level      string `mapstructure:"level" yaml:"level"`                       // "debug", "info", "warn", "error"
	Format     string `mapstructure:"format" yaml:"format"`                     // "json" or "console"
	OutputFile string `mapstructure:"output_file" yaml:"output_file,omitempty"` // file path to store logs (optional)
}

// Service describes one outbound HTTP dependency.
type Service struct {
	Endpoint       string `mapstructure:"endpoint" yaml:"endpoint"`
	APIKey         string `mapstructure:"api_key" yaml:"api_key,omitempty"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds,omitempty"`
}

// Timeout returns the per-call timeout, defaulting to 10s.
func (s Service) Timeout() time.Duration {
	if s.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// DiscoveryConfig configures the optional new-pair WebSocket feed.
type DiscoveryConfig struct {
	WSURL string `mapstructure:"ws_url" yaml:"ws_url,omitempty"`
}

// Enabled reports whether the discovery feed should run.
func (d DiscoveryConfig) Enabled() bool {
	return d.WSURL != ""
}

// PostgresConfig holds the ledger database connection settings.
type PostgresConfig struct {
	DSN string `mapstructure:"dsn" yaml:"dsn"`
}

// ClickHouseConfig holds the snapshot archive connection settings.
// An empty DSN disables archiving.
type ClickHouseConfig struct {
	DSN string `mapstructure:"dsn" yaml:"dsn,omitempty"`
}

// Filters are the numeric acceptance thresholds applied to every snapshot.
type Filters struct {
	MinLiquidityUSD         float64 `mapstructure:"min_liquidity_usd" yaml:"min_liquidity_usd"`
	MinVolume24h            float64 `mapstructure:"min_volume_24h" yaml:"min_volume_24h"`
	MaxPriceChange24h       float64 `mapstructure:"max_price_change_24h" yaml:"max_price_change_24h"`
	MaxVolumeLiquidityRatio float64 `mapstructure:"max_volume_liquidity_ratio" yaml:"max_volume_liquidity_ratio"`
}

// Load reads the configuration file at path and applies environment
// variable overrides.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Support environment variables with dot notation (e.g., TRADE_API_KEY)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// UpdateInterval returns the polling interval as a duration.
func (c *Config) UpdateInterval() time.Duration {
	return time.Duration(c.UpdateIntervalSeconds) * time.Second
}

// Validate checks the configuration invariants. Any violation is fatal
// at startup.
func (c *Config) Validate() error {
	if c.UpdateIntervalSeconds < 1 {
		return fmt.Errorf("update_interval_seconds must be >= 1, got %d", c.UpdateIntervalSeconds)
	}
	for name, svc := range map[string]Service{
		"market_data":     c.MarketData,
		"fake_volume":     c.FakeVolume,
		"contract_safety": c.ContractSafety,
		"notify":          c.Notify,
		"trade":           c.Trade,
	} {
		if svc.Endpoint == "" {
			return fmt.Errorf("%s.endpoint is required", name)
		}
	}
	if c.Postgres.DSN == "" {
		return fmt.Errorf("postgres.dsn is required")
	}
	if err := c.Filters.Validate(); err != nil {
		return err
	}
	for _, addr := range c.Watchlist {
		if !domain.ValidAddress(addr) {
			return fmt.Errorf("watchlist entry %q is not a valid token address", addr)
		}
	}
	return nil
}

// Validate checks that every threshold is positive and finite.
func (f Filters) Validate() error {
	for name, v := range map[string]float64{
		"min_liquidity_usd":          f.MinLiquidityUSD,
		"min_volume_24h":             f.MinVolume24h,
		"max_price_change_24h":       f.MaxPriceChange24h,
		"max_volume_liquidity_ratio": f.MaxVolumeLiquidityRatio,
	} {
		if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("filters.%s must be positive and finite, got %v", name, v)
		}
	}
	return nil
}
