package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Auth       AuthConfig       `yaml:"auth"`
	Queue      QueueConfig      `yaml:"queue"`
	Push       PushConfig       `yaml:"push"`
	WorkerPool WorkerPoolConfig `yaml:"worker_pool"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// AuthConfig holds the bearer-token verification settings. Tokens are issued
// by the account service; this backend only verifies them.
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
}

// QueueConfig holds the turn-queue engine settings.
type QueueConfig struct {
	TurnWindowSeconds    int           `yaml:"turn_window_seconds"`
	SweepIntervalSeconds int           `yaml:"sweep_interval_seconds"`
	TurnWindow           time.Duration `yaml:"-"` // Ignored by YAML parser
	SweepInterval        time.Duration `yaml:"-"`
	// EligibilityPolicy is "any-member" or "admin-only".
	EligibilityPolicy string `yaml:"eligibility_policy"`
}

// PushConfig holds the VAPID keys for web push notifications.
type PushConfig struct {
	PublicKey  string `yaml:"vapid_public_key"`
	PrivateKey string `yaml:"vapid_private_key"`
	Subject    string `yaml:"subject"`
	TTL        int    `yaml:"ttl"`
}

// WorkerPoolConfig holds the configuration for the notification worker pool.
type WorkerPoolConfig struct {
	Size int `yaml:"size"`
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

	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 300
	}

	if cfg.Queue.TurnWindowSeconds <= 0 {
		cfg.Queue.TurnWindowSeconds = 300
	}
	cfg.Queue.TurnWindow = time.Duration(cfg.Queue.TurnWindowSeconds) * time.Second

	if cfg.Queue.SweepIntervalSeconds <= 0 {
		cfg.Queue.SweepIntervalSeconds = 1
	}
	cfg.Queue.SweepInterval = time.Duration(cfg.Queue.SweepIntervalSeconds) * time.Second

	if cfg.Queue.EligibilityPolicy == "" {
		cfg.Queue.EligibilityPolicy = "any-member"
	}

	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = 3600
	}

	if cfg.WorkerPool.Size <= 0 {
		log.Printf("worker_pool.size is not set or invalid; defaulting to 1")
		cfg.WorkerPool.Size = 1
	}

	return &cfg, nil
}
