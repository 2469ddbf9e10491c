package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Exchange struct {
		BaseURL    string `yaml:"base_url"`
		APIKey     string `yaml:"api_key"`
		APISecret  string `yaml:"api_secret"`
		QuoteAsset string `yaml:"quote_asset"`
		RecvWindow int    `yaml:"recv_window"`
		DryRun     bool   `yaml:"dry_run"`
	} `yaml:"exchange"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Sheet struct {
		URL      string `yaml:"url"`
		SyncCron string `yaml:"sync_cron"`
	} `yaml:"sheet"`
	Rebalance struct {
		MaxDivergence      float64 `yaml:"max_divergence"`
		MinOrderValue      float64 `yaml:"min_order_value"`
		AllowSellBelowCost bool    `yaml:"allow_sell_below_cost"`
		IntervalSeconds    int     `yaml:"interval_seconds"`
		ReportCron         string  `yaml:"report_cron"`
	} `yaml:"rebalance"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// Interval returns the sleep interval between rebalancing cycles.
func (c *Config) Interval() time.Duration {
	return time.Duration(c.Rebalance.IntervalSeconds) * time.Second
}

// Load reads config from a YAML file, then applies environment variable
// overrides. A .env file in the working directory is honored for credentials.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("BINANCE_API_KEY"); v != "" {
		cfg.Exchange.APIKey = v
	}
	if v := os.Getenv("BINANCE_API_SECRET"); v != "" {
		cfg.Exchange.APISecret = v
	}
	if v := os.Getenv("BINANCE_BASE_URL"); v != "" {
		cfg.Exchange.BaseURL = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("SHEET_URL"); v != "" {
		cfg.Sheet.URL = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("DRY_RUN"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Exchange.DryRun = b
		}
	}
	if v := os.Getenv("MAX_DIVERGENCE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Rebalance.MaxDivergence = f
		}
	}

	// Defaults
	if cfg.Exchange.BaseURL == "" {
		cfg.Exchange.BaseURL = "https://api.binance.com"
	}
	if cfg.Exchange.QuoteAsset == "" {
		cfg.Exchange.QuoteAsset = "USDT"
	}
	if cfg.Exchange.RecvWindow == 0 {
		cfg.Exchange.RecvWindow = 5000
	}
	if cfg.Rebalance.MaxDivergence == 0 {
		cfg.Rebalance.MaxDivergence = 1.0
	}
	if cfg.Rebalance.MinOrderValue == 0 {
		cfg.Rebalance.MinOrderValue = 10
	}
	if cfg.Rebalance.IntervalSeconds == 0 {
		cfg.Rebalance.IntervalSeconds = 3600
	}
	if cfg.Sheet.SyncCron == "" {
		cfg.Sheet.SyncCron = "0 0 6 * * *"
	}
	if cfg.Rebalance.ReportCron == "" {
		cfg.Rebalance.ReportCron = "0 0 21 * * *"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/coin_balancer.db"
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Exchange.APIKey == "" {
		return fmt.Errorf("exchange.api_key is required")
	}
	if c.Exchange.APISecret == "" {
		return fmt.Errorf("exchange.api_secret is required")
	}
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	if c.Sheet.URL == "" {
		return fmt.Errorf("sheet.url is required")
	}
	if c.Rebalance.MaxDivergence < 0 {
		return fmt.Errorf("rebalance.max_divergence must not be negative")
	}
	if c.Rebalance.MinOrderValue < 0 {
		return fmt.Errorf("rebalance.min_order_value must not be negative")
	}
	return nil
}
