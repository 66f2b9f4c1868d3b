package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte payloads. Callers own the (de)serialization; the
// directory layer keeps JSON-encoded user records here.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)

	Set(ctx context.Context, key string, value []byte, expiration time.Duration) error

	Delete(ctx context.Context, key string) error

	Exists(ctx context.Context, key string) bool

	Clear(ctx context.Context) error

	Close() error
}

// Config selects and configures a backend.
type Config struct {
	// Backend type: "local", "gocache" or "redis"
	Type string `json:"type" yaml:"type" env:"CACHE_TYPE" default:"local"`

	Redis RedisConfig `json:"redis" yaml:"redis"`

	Local LocalConfig `json:"local" yaml:"local"`
}

type RedisConfig struct {
	Addr string `json:"addr" yaml:"addr" env:"REDIS_ADDR" default:"localhost:6379"`

	Password string `json:"password" yaml:"password" env:"REDIS_PASSWORD"`

	DB int `json:"db" yaml:"db" env:"REDIS_DB" default:"0"`

	PoolSize int `json:"pool_size" yaml:"pool_size" env:"REDIS_POOL_SIZE" default:"10"`

	DialTimeout time.Duration `json:"dial_timeout" yaml:"dial_timeout" env:"REDIS_DIAL_TIMEOUT" default:"5s"`

	ReadTimeout time.Duration `json:"read_timeout" yaml:"read_timeout" env:"REDIS_READ_TIMEOUT" default:"3s"`

	WriteTimeout time.Duration `json:"write_timeout" yaml:"write_timeout" env:"REDIS_WRITE_TIMEOUT" default:"3s"`
}

type LocalConfig struct {
	MaxSize int `json:"max_size" yaml:"max_size" env:"LOCAL_CACHE_MAX_SIZE" default:"1000"`

	DefaultExpiration time.Duration `json:"default_expiration" yaml:"default_expiration" env:"LOCAL_CACHE_DEFAULT_EXPIRATION" default:"5m"`

	CleanupInterval time.Duration `json:"cleanup_interval" yaml:"cleanup_interval" env:"LOCAL_CACHE_CLEANUP_INTERVAL" default:"10m"`
}
