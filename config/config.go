// Package config loads the arb core's configuration surface (spec §6
// "Configuration"): the coin/pool/sender identity, RPC and collector
// transport endpoints, worker pool sizing, path-search bounds, cache TTLs,
// and the MEV tip/gas knobs.
//
// Grounded on pkg/config/config.go's shape: a single mapstructure-tagged
// struct, loaded via viper.ReadInConfig + AutomaticEnv, with a package-level
// AppConfig and a LoadFromEnv convenience wrapper.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/pittcat/sui-arb-core/internal/utils"
)

// Version is the semantic version of this configuration package.
const Version = "v0.1.0"

// Config is the arb core's full configuration surface (spec §6).
type Config struct {
	CoinType string `mapstructure:"coin_type" json:"coin_type"`
	PoolID   string `mapstructure:"pool_id" json:"pool_id"`
	Sender   string `mapstructure:"sender" json:"sender"`

	RPCURL     string `mapstructure:"rpc_url" json:"rpc_url"`
	IPCPath    string `mapstructure:"ipc_path" json:"ipc_path"`
	RelayWSURL string `mapstructure:"relay_ws_url" json:"relay_ws_url"`
	ShioWSURL  string `mapstructure:"shio_ws_url" json:"shio_ws_url"`

	Workers             int `mapstructure:"workers" json:"workers"`
	RecentArbsCapacity  int `mapstructure:"recent_arbs_capacity" json:"recent_arbs_capacity"`
	MaxHopCount         int `mapstructure:"max_hop_count" json:"max_hop_count"`
	MaxPoolCount        int `mapstructure:"max_pool_count" json:"max_pool_count"`
	MinLiquidity        uint64 `mapstructure:"min_liquidity" json:"min_liquidity"`
	ArbTTLMs            int64  `mapstructure:"arb_ttl_ms" json:"arb_ttl_ms"`
	ShioDeadlineSafetyMarginMs uint64 `mapstructure:"shio_deadline_safety_margin_ms" json:"shio_deadline_safety_margin_ms"`
	MevTipFractionBps   uint64 `mapstructure:"mev_tip_fraction_bps" json:"mev_tip_fraction_bps"`
	GasBudgetUnits      uint64 `mapstructure:"gas_budget_units" json:"gas_budget_units"`

	SimCacheCapacity int `mapstructure:"sim_cache_capacity" json:"sim_cache_capacity"`

	NotifierEndpoint string `mapstructure:"notifier_endpoint" json:"notifier_endpoint"`

	LogLevel string `mapstructure:"log_level" json:"log_level"`
}

// defaults mirror spec §6: workers=8, recent_arbs_capacity=32,
// max_hop_count=2, max_pool_count=10, arb_ttl_ms=5000,
// shio_deadline_safety_margin_ms=20, mev_tip_fraction_bps=9000.
func setDefaults(v *viper.Viper) {
	v.SetDefault("workers", 8)
	v.SetDefault("recent_arbs_capacity", 32)
	v.SetDefault("max_hop_count", 2)
	v.SetDefault("max_pool_count", 10)
	v.SetDefault("min_liquidity", 0)
	v.SetDefault("arb_ttl_ms", 5000)
	v.SetDefault("shio_deadline_safety_margin_ms", 20)
	v.SetDefault("mev_tip_fraction_bps", 9000)
	v.SetDefault("gas_budget_units", 50_000_000)
	v.SetDefault("sim_cache_capacity", 1024)
	v.SetDefault("log_level", "info")
}

// AppConfig holds the configuration loaded via Load or LoadFromEnv.
var AppConfig Config

// Load reads the named config file (viper searches ./config and . by
// default) merged with ARB_-prefixed environment variable overrides, and
// stores the result in AppConfig.
func Load(name string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if name == "" {
		name = "arb"
	}
	v.SetConfigName(name)
	v.SetConfigType("yaml")
	v.AddConfigPath("config")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, utils.Wrap(err, "config: read config file")
		}
	}

	v.SetEnvPrefix("ARB")
	v.AutomaticEnv()

	if err := v.Unmarshal(&AppConfig); err != nil {
		return nil, utils.Wrap(err, "config: unmarshal")
	}
	if err := AppConfig.Validate(); err != nil {
		return nil, err
	}
	return &AppConfig, nil
}

// LoadFromEnv loads configuration using the ARB_CONFIG_NAME environment
// variable to select the config file base name (default "arb").
func LoadFromEnv() (*Config, error) {
	return Load(utils.EnvOrDefault("ARB_CONFIG_NAME", ""))
}

// Validate checks the fields spec §6 requires non-empty/non-zero for a
// runnable node (spec §7 "exits nonzero on Configuration" error).
func (c *Config) Validate() error {
	if c.CoinType == "" {
		return fmt.Errorf("config: coin_type is required")
	}
	if c.Sender == "" {
		return fmt.Errorf("config: sender is required")
	}
	if c.Workers <= 0 {
		return fmt.Errorf("config: workers must be positive, got %d", c.Workers)
	}
	if c.MaxHopCount <= 0 {
		return fmt.Errorf("config: max_hop_count must be positive, got %d", c.MaxHopCount)
	}
	if c.MaxPoolCount <= 0 {
		return fmt.Errorf("config: max_pool_count must be positive, got %d", c.MaxPoolCount)
	}
	if c.MevTipFractionBps > 10_000 {
		return fmt.Errorf("config: mev_tip_fraction_bps must be <= 10000, got %d", c.MevTipFractionBps)
	}
	return nil
}
