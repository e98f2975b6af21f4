package main

import (
	"fmt"
	"os"
	"time"

	configtypes "github.com/daszybak/polymarket_tracker/internal/config"
	"go.yaml.in/yaml/v4"
)

const defaultConfigPath = "configs/tracker/config.yaml"

type config struct {
	LogLevel string `yaml:"log_level"` // debug, info, warn, error

	Polymarket struct {
		ClobURL           string               `yaml:"clob_url"`
		GammaURL          string               `yaml:"gamma_url"`
		MarketWSURL       string               `yaml:"market_ws_url"`
		RTDSWSURL         string               `yaml:"rtds_ws_url"`
		KeepaliveInterval configtypes.Duration `yaml:"keepalive_interval"`
	} `yaml:"polymarket"`

	Reconnect struct {
		Enabled     bool                 `yaml:"enabled"`
		MaxAttempts int                  `yaml:"max_attempts"`
		BaseDelay   configtypes.Duration `yaml:"base_delay"`
		MaxDelay    configtypes.Duration `yaml:"max_delay"`
	} `yaml:"reconnect"`

	Database struct {
		Enabled       bool                 `yaml:"enabled"`
		Host          string               `yaml:"host"`
		Port          int                  `yaml:"port"`
		User          string               `yaml:"user"`
		Password      string               `yaml:"password"`
		Database      string               `yaml:"database"`
		PoolSize      int                  `yaml:"pool_size"`
		SSLMode       string               `yaml:"ssl_mode"`
		FlushInterval configtypes.Duration `yaml:"flush_interval"`
	} `yaml:"database"`

	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
}

// defaultConfig covers the venue's public endpoints so the CLI works with no
// config file at all.
func defaultConfig() *config {
	cfg := &config{}
	cfg.LogLevel = "info"
	cfg.Polymarket.ClobURL = "https://clob.polymarket.com"
	cfg.Polymarket.GammaURL = "https://gamma-api.polymarket.com"
	cfg.Polymarket.MarketWSURL = "wss://ws-subscriptions-clob.polymarket.com/ws/market"
	cfg.Polymarket.RTDSWSURL = "wss://ws-live-data.polymarket.com"
	cfg.Polymarket.KeepaliveInterval = configtypes.Duration(5 * time.Second)
	cfg.Reconnect.BaseDelay = configtypes.Duration(2 * time.Second)
	cfg.Reconnect.MaxDelay = configtypes.Duration(60 * time.Second)
	cfg.Database.Port = 5432
	cfg.Database.PoolSize = 4
	cfg.Database.SSLMode = "disable"
	cfg.Database.FlushInterval = configtypes.Duration(5 * time.Second)
	return cfg
}

func readConfig(path string) (*config, error) {
	cfg := defaultConfig()

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && path == defaultConfigPath {
			return cfg, nil
		}
		return nil, fmt.Errorf("couldn't read file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("couldn't parse config: %w", err)
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("couldn't validate config: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *config) error {
	// Polymarket
	if cfg.Polymarket.ClobURL == "" {
		return fmt.Errorf("polymarket.clob_url is required")
	}
	if cfg.Polymarket.GammaURL == "" {
		return fmt.Errorf("polymarket.gamma_url is required")
	}
	if cfg.Polymarket.MarketWSURL == "" {
		return fmt.Errorf("polymarket.market_ws_url is required")
	}
	if cfg.Polymarket.RTDSWSURL == "" {
		return fmt.Errorf("polymarket.rtds_ws_url is required")
	}

	// Database, only when recording is on.
	if cfg.Database.Enabled {
		if cfg.Database.Host == "" {
			return fmt.Errorf("database.host is required")
		}
		if cfg.Database.Port <= 0 || cfg.Database.Port > 65535 {
			return fmt.Errorf("database.port must be between 1 and 65535")
		}
		if cfg.Database.User == "" {
			return fmt.Errorf("database.user is required")
		}
		if cfg.Database.Database == "" {
			return fmt.Errorf("database.database is required")
		}
		if cfg.Database.PoolSize <= 0 {
			return fmt.Errorf("database.pool_size must be greater than 0")
		}
		if cfg.Database.SSLMode == "" {
			return fmt.Errorf("database.ssl_mode is required")
		}
		if cfg.Database.FlushInterval.Duration() <= 0 {
			return fmt.Errorf("database.flush_interval must be greater than 0")
		}
	}

	return nil
}
