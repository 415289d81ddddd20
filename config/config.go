package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Engine   EngineConfig   `yaml:"engine"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	RequestIPHeader string  `yaml:"request_ip_header"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	Driver                 string `yaml:"driver"`
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// EngineConfig tunes the simulation engine.
type EngineConfig struct {
	RunTimeoutMS       int           `yaml:"run_timeout_ms"`
	RunTimeout         time.Duration `yaml:"-"`
	ToleranceSeconds   float64       `yaml:"tolerance_seconds"`
	MaxSuperCycleRacks int           `yaml:"max_super_cycle_racks"`
	SweepWorkers       int           `yaml:"sweep_workers"`
}

// LogConfig selects the logger flavour.
type LogConfig struct {
	Development bool `yaml:"development"`
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *Config) applyDefaults() error {
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 5
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 10
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 30
	}

	switch cfg.Database.Driver {
	case "":
		cfg.Database.Driver = "postgres"
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database.driver %q (want postgres or sqlite)", cfg.Database.Driver)
	}
	if cfg.Database.MaxOpenConns <= 0 {
		cfg.Database.MaxOpenConns = 10
	}
	if cfg.Database.MaxIdleConns <= 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetimeMinutes <= 0 {
		cfg.Database.ConnMaxLifetimeMinutes = 30
	}

	if cfg.Engine.RunTimeoutMS <= 0 {
		cfg.Engine.RunTimeoutMS = 2000
	}
	cfg.Engine.RunTimeout = time.Duration(cfg.Engine.RunTimeoutMS) * time.Millisecond
	if cfg.Engine.ToleranceSeconds <= 0 {
		cfg.Engine.ToleranceSeconds = 0.1
	}
	if cfg.Engine.MaxSuperCycleRacks <= 0 {
		cfg.Engine.MaxSuperCycleRacks = 64
	}
	if cfg.Engine.SweepWorkers <= 0 {
		cfg.Engine.SweepWorkers = 4
	}
	return nil
}
