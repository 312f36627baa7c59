// File: internal/config/config.go
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

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type HTTPConfig struct {
	Port int `yaml:"port"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	LockTTL  time.Duration `yaml:"lock_ttl"` // per-record sync lock TTL
}

type LedgerConfig struct {
	Provider string        `yaml:"provider"` // quickbooks | noop
	Timeout  time.Duration `yaml:"timeout"`

	QuickBooks struct {
		BaseURL     string `yaml:"base_url"`
		RealmID     string `yaml:"realm_id"`
		AccessToken string `yaml:"access_token"`
		Sandbox     bool   `yaml:"sandbox"`
	} `yaml:"quickbooks"`
}

type SchedulerConfig struct {
	SyncInterval time.Duration `yaml:"sync_interval"` // how often the reconciler scans
	StaleAfter   time.Duration `yaml:"stale_after"`   // how old a pending record must be to retry
}

type Config struct {
	Log       LogConfig       `yaml:"log"`
	HTTP      HTTPConfig      `yaml:"http"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Ledger    LedgerConfig    `yaml:"ledger"`
	Scheduler SchedulerConfig `yaml:"scheduler"`

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
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 8080
	}
	if cfg.Ledger.Provider == "" {
		cfg.Ledger.Provider = "noop"
	}
	if cfg.Ledger.Timeout <= 0 {
		cfg.Ledger.Timeout = 15 * time.Second
	}
	if cfg.Redis.LockTTL <= 0 {
		cfg.Redis.LockTTL = 30 * time.Second
	}
	if cfg.Scheduler.SyncInterval <= 0 {
		cfg.Scheduler.SyncInterval = time.Minute
	}
	if cfg.Scheduler.StaleAfter <= 0 {
		cfg.Scheduler.StaleAfter = 10 * time.Minute
	}

	// Minimal validation
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}
	if cfg.Redis.URL == "" {
		return nil, errors.New("redis.url is required")
	}
	if cfg.Ledger.Provider == "quickbooks" {
		if cfg.Ledger.QuickBooks.RealmID == "" || cfg.Ledger.QuickBooks.AccessToken == "" {
			return nil, errors.New("ledger.quickbooks.realm_id and access_token are required for provider=quickbooks")
		}
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}
