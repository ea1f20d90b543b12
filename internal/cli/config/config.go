// Package config loads jsonapify settings from jsonapify.yaml and
// JSONAPIFY_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override (JSONAPIFY_SERVER_PORT)
const EnvPrefix = "JSONAPIFY"

// Config represents the jsonapify configuration
type Config struct {
	Service    ServiceConfig    `mapstructure:"service"`
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Schema     SchemaConfig     `mapstructure:"schema"`
	Pagination PaginationConfig `mapstructure:"pagination"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Log        LogConfig        `mapstructure:"log"`
}

// ServiceConfig configures the plain-record fallback
type ServiceConfig struct {
	Name          string `mapstructure:"name"`
	IdentifierKey string `mapstructure:"identifier_key"`
	TypeKey       string `mapstructure:"type_key"`
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Port      int    `mapstructure:"port"`
	Host      string `mapstructure:"host"`
	APIPrefix string `mapstructure:"api_prefix"`
}

// Address returns host:port
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig represents database configuration
type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	URL    string `mapstructure:"url"`
}

// SchemaConfig points at the YAML model metadata
type SchemaConfig struct {
	Path string `mapstructure:"path"`
}

// PaginationConfig bounds the $limit window
type PaginationConfig struct {
	DefaultLimit int `mapstructure:"default_limit"`
	MaxLimit     int `mapstructure:"max_limit"`
}

// CacheConfig selects the rendered-document cache
type CacheConfig struct {
	Backend string        `mapstructure:"backend"`
	TTL     time.Duration `mapstructure:"ttl"`
	Redis   RedisConfig   `mapstructure:"redis"`
}

// RedisConfig addresses the redis cache backend
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LogConfig configures the zap logger
type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

var (
	drivers       = []string{"postgres", "pgx", "sqlite3"}
	cacheBackends = []string{"none", "memory", "redis"}
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("service.name", "records")
	v.SetDefault("service.identifier_key", "")
	v.SetDefault("service.type_key", "")
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.api_prefix", "")
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.url", "")
	v.SetDefault("schema.path", "schema.yaml")
	v.SetDefault("pagination.default_limit", 10)
	v.SetDefault("pagination.max_limit", 100)
	v.SetDefault("cache.backend", "none")
	v.SetDefault("cache.ttl", time.Minute)
	v.SetDefault("cache.redis.addr", "localhost:6379")
	v.SetDefault("cache.redis.password", "")
	v.SetDefault("cache.redis.db", 0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
}

// Load reads configFile, or jsonapify.yaml from the working directory when
// configFile is empty. A missing default file is not an error.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("jsonapify")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks cross-field constraints
func Validate(cfg *Config) error {
	if cfg.Server.APIPrefix != "" {
		if !strings.HasPrefix(cfg.Server.APIPrefix, "/") {
			return fmt.Errorf("server.api_prefix must start with '/', got: %s", cfg.Server.APIPrefix)
		}
		if strings.HasSuffix(cfg.Server.APIPrefix, "/") {
			return fmt.Errorf("server.api_prefix must not end with '/', got: %s", cfg.Server.APIPrefix)
		}
	}

	if cfg.Pagination.MaxLimit < 1 {
		return fmt.Errorf("pagination.max_limit must be positive, got: %d", cfg.Pagination.MaxLimit)
	}
	if cfg.Pagination.DefaultLimit < 1 || cfg.Pagination.DefaultLimit > cfg.Pagination.MaxLimit {
		return fmt.Errorf("pagination.default_limit must be between 1 and %d, got: %d",
			cfg.Pagination.MaxLimit, cfg.Pagination.DefaultLimit)
	}

	if !contains(drivers, cfg.Database.Driver) {
		return fmt.Errorf("database.driver must be one of %s, got: %s", strings.Join(drivers, ", "), cfg.Database.Driver)
	}
	if !contains(cacheBackends, cfg.Cache.Backend) {
		return fmt.Errorf("cache.backend must be one of %s, got: %s", strings.Join(cacheBackends, ", "), cfg.Cache.Backend)
	}
	if cfg.Cache.Backend != "none" && cfg.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive, got: %s", cfg.Cache.TTL)
	}

	return nil
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
