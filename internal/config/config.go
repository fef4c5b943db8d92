package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// CollectorConfig configures the reference collector.
type CollectorConfig struct {
	Environment   string `envconfig:"SERVICE_ENVIRONMENT" default:"development"`
	LogLevel      string `envconfig:"LOG_LEVEL" default:"info"`
	Port          string `envconfig:"COLLECTOR_PORT" default:"3000"`
	AllowedOrigin string `envconfig:"COLLECTOR_ALLOWED_ORIGIN" default:"http://localhost:5002"`
}

// DemoConfig configures the demo client.
type DemoConfig struct {
	Environment   string        `envconfig:"SERVICE_ENVIRONMENT" default:"development"`
	LogLevel      string        `envconfig:"LOG_LEVEL" default:"debug"`
	APIURL        string        `envconfig:"ANALYTICS_API_URL" default:"http://localhost:3000"`
	ProfilePath   string        `envconfig:"ANALYTICS_PROFILE" default:"profile.yaml"`
	DeviceID      string        `envconfig:"ANALYTICS_DEVICE_ID"`
	CacheBackend  string        `envconfig:"ANALYTICS_CACHE" default:"file"`
	CachePath     string        `envconfig:"ANALYTICS_CACHE_PATH" default:"analytics_cache.json"`
	RedisAddr     string        `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPrefix   string        `envconfig:"REDIS_PREFIX" default:"analytics:"`
	DebounceDelay time.Duration `envconfig:"ANALYTICS_DEBOUNCE" default:"500ms"`
	MaxAttempts   int           `envconfig:"ANALYTICS_MAX_ATTEMPTS" default:"3"`
	TrackInterval time.Duration `envconfig:"DEMO_TRACK_INTERVAL" default:"2s"`
}

// LoadCollector reads the collector configuration from the environment,
// after loading an optional .env file.
func LoadCollector() (*CollectorConfig, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}
	var cfg CollectorConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	return &cfg, nil
}

// LoadDemo reads the demo client configuration from the environment,
// after loading an optional .env file.
func LoadDemo() (*DemoConfig, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}
	var cfg DemoConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	switch cfg.CacheBackend {
	case "file", "memory", "redis":
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.CacheBackend)
	}
	if cfg.MaxAttempts < 1 {
		return nil, errors.New("ANALYTICS_MAX_ATTEMPTS must be at least 1")
	}
	return &cfg, nil
}

// loadDotEnv loads .env into the environment. A missing file is fine;
// variables already set win over the file.
func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}
