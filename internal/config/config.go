package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type BotConfig struct {
	Token    string  `yaml:"token"`
	Mode     string  `yaml:"mode"` // polling | webhook (future)
	Workers  int     `yaml:"workers"`
	AdminIDs []int64 `yaml:"admin_ids"`
	Language string  `yaml:"language"` // locale code for reply strings
}

type LogConfig struct {
	Level  string `yaml:"level"`  // trace|debug|info|warn|error
	Format string `yaml:"format"` // json|console
}

type AdminConfig struct {
	Port     int           `yaml:"port"`
	Secret   string        `yaml:"secret"` // HMAC secret for admin API sessions
	TokenTTL time.Duration `yaml:"token_ttl"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// ReferralConfig tunes the allocation engine and the ambient flood guard.
type ReferralConfig struct {
	UsageLimit      int           `yaml:"usage_limit"`       // uses before a code is retired
	RateLimitWindow time.Duration `yaml:"rate_limit_window"` // one get per user per window
	OfferTTL        time.Duration `yaml:"offer_ttl"`         // offer message lifetime
	FloodLimit      int           `yaml:"flood_limit"`       // commands per user per flood window
	FloodWindow     time.Duration `yaml:"flood_window"`
}

type Config struct {
	Bot      BotConfig      `yaml:"bot"`
	Log      LogConfig      `yaml:"log"`
	Admin    AdminConfig    `yaml:"admin"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Referral ReferralConfig `yaml:"referral"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	// defaults
	if cfg.Bot.Workers <= 0 {
		cfg.Bot.Workers = 8
	}
	if cfg.Bot.Language == "" {
		cfg.Bot.Language = "ru"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Referral.UsageLimit <= 0 {
		cfg.Referral.UsageLimit = 10
	}
	if cfg.Referral.RateLimitWindow <= 0 {
		cfg.Referral.RateLimitWindow = time.Hour
	}
	if cfg.Referral.OfferTTL <= 0 {
		cfg.Referral.OfferTTL = time.Hour
	}
	if cfg.Referral.FloodLimit <= 0 {
		cfg.Referral.FloodLimit = 20
	}
	if cfg.Referral.FloodWindow <= 0 {
		cfg.Referral.FloodWindow = time.Minute
	}
	if cfg.Admin.TokenTTL <= 0 {
		cfg.Admin.TokenTTL = 30 * time.Minute
	}

	// Minimal validation
	if cfg.Bot.Token == "" {
		return nil, errors.New("bot.token is required")
	}
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}
	if cfg.Redis.URL == "" {
		return nil, errors.New("redis.url is required")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}
