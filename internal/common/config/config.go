// Package config provides configuration management for board-task.
// It supports loading configuration from environment variables, config files, and defaults.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/shifa-s11/board-task/internal/common/logger"
)

// Storage drivers understood by the persistence provider.
const (
	StorageDriverSQLite = "sqlite"
	StorageDriverMemory = "memory"
	StorageDriverRedis  = "redis"
)

// Config holds all configuration sections.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Storage StorageConfig `mapstructure:"storage"`
	NATS    NATSConfig    `mapstructure:"nats"`
	Logging LoggingConfig `mapstructure:"logging"`
	Drag    DragConfig    `mapstructure:"drag"`
	Seed    SeedConfig    `mapstructure:"seed"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"readTimeout"`  // in seconds
	WriteTimeout int    `mapstructure:"writeTimeout"` // in seconds
}

// StorageConfig selects and configures the key-value backend.
type StorageConfig struct {
	Driver      string `mapstructure:"driver"`
	Path        string `mapstructure:"path"`
	RedisAddr   string `mapstructure:"redisAddr"`
	RedisDB     int    `mapstructure:"redisDB"`
	RedisPrefix string `mapstructure:"redisPrefix"`
}

// NATSConfig holds NATS messaging configuration.
type NATSConfig struct {
	URL           string `mapstructure:"url"`
	ClientID      string `mapstructure:"clientId"`
	MaxReconnects int    `mapstructure:"maxReconnects"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"outputPath"`
}

// DragConfig holds the pointer activation constraints of the drag engine.
type DragConfig struct {
	MouseDistance  float64 `mapstructure:"mouseDistance"`
	TouchDelayMs   int     `mapstructure:"touchDelayMs"`
	TouchTolerance float64 `mapstructure:"touchTolerance"`
}

// SeedConfig controls first-run sample data.
type SeedConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// Addr returns host:port for the HTTP listener.
func (s *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// ReadTimeoutDuration returns the read timeout as a time.Duration.
func (s *ServerConfig) ReadTimeoutDuration() time.Duration {
	return time.Duration(s.ReadTimeout) * time.Second
}

// WriteTimeoutDuration returns the write timeout as a time.Duration.
func (s *ServerConfig) WriteTimeoutDuration() time.Duration {
	return time.Duration(s.WriteTimeout) * time.Second
}

// TouchDelay returns the touch hold delay as a time.Duration.
func (d *DragConfig) TouchDelay() time.Duration {
	return time.Duration(d.TouchDelayMs) * time.Millisecond
}

// setDefaults configures default values for all configuration options.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.readTimeout", 30)
	v.SetDefault("server.writeTimeout", 30)

	v.SetDefault("storage.driver", StorageDriverSQLite)
	v.SetDefault("storage.path", "./board-task.db")
	v.SetDefault("storage.redisAddr", "localhost:6379")
	v.SetDefault("storage.redisDB", 0)
	v.SetDefault("storage.redisPrefix", "board-task:")

	// Empty URL means use the in-memory event bus
	v.SetDefault("nats.url", "")
	v.SetDefault("nats.clientId", "board-task")
	v.SetDefault("nats.maxReconnects", 10)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", logger.DetectFormat())
	v.SetDefault("logging.outputPath", "stdout")

	v.SetDefault("drag.mouseDistance", 5)
	v.SetDefault("drag.touchDelayMs", 100)
	v.SetDefault("drag.touchTolerance", 5)

	v.SetDefault("seed.enabled", true)
}

// Load reads configuration from environment variables, config file, and defaults.
// Environment variables use the prefix BOARDTASK_ with "." replaced by "_".
func Load() (*Config, error) {
	return LoadWithPath("")
}

// LoadWithPath reads configuration from the specified path or default locations.
func LoadWithPath(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("BOARDTASK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv does not map camelCase keys to SNAKE_CASE, so bind those explicitly.
	_ = v.BindEnv("storage.redisAddr", "BOARDTASK_STORAGE_REDIS_ADDR")
	_ = v.BindEnv("storage.redisDB", "BOARDTASK_STORAGE_REDIS_DB")
	_ = v.BindEnv("storage.redisPrefix", "BOARDTASK_STORAGE_REDIS_PREFIX")
	_ = v.BindEnv("logging.outputPath", "BOARDTASK_LOGGING_OUTPUT_PATH")
	_ = v.BindEnv("drag.mouseDistance", "BOARDTASK_DRAG_MOUSE_DISTANCE")
	_ = v.BindEnv("drag.touchDelayMs", "BOARDTASK_DRAG_TOUCH_DELAY_MS")
	_ = v.BindEnv("drag.touchTolerance", "BOARDTASK_DRAG_TOUCH_TOLERANCE")

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if configPath != "" {
		v.AddConfigPath(configPath)
	}
	v.AddConfigPath(".")
	v.AddConfigPath(filepath.Join("$HOME", ".board-task"))
	v.AddConfigPath("/etc/board-task/")

	// A missing config file is fine; a broken one is not.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// validate checks that all configuration values are usable.
func validate(cfg *Config) error {
	var errs []string

	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		errs = append(errs, "server.port must be between 1 and 65535")
	}

	switch cfg.Storage.Driver {
	case StorageDriverSQLite:
		if cfg.Storage.Path == "" {
			errs = append(errs, "storage.path is required for the sqlite driver")
		}
	case StorageDriverRedis:
		if cfg.Storage.RedisAddr == "" {
			errs = append(errs, "storage.redisAddr is required for the redis driver")
		}
	case StorageDriverMemory:
	default:
		errs = append(errs, fmt.Sprintf("storage.driver %q is not one of sqlite, memory, redis", cfg.Storage.Driver))
	}

	if cfg.Drag.MouseDistance < 0 {
		errs = append(errs, "drag.mouseDistance must not be negative")
	}
	if cfg.Drag.TouchDelayMs < 0 {
		errs = append(errs, "drag.touchDelayMs must not be negative")
	}
	if cfg.Drag.TouchTolerance < 0 {
		errs = append(errs, "drag.touchTolerance must not be negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}
