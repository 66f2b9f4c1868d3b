package config

import (
	"log"
	"os"
	"time"

	"BotonPanico/pkg/cache"
	"BotonPanico/pkg/logger"
	"BotonPanico/pkg/notification"
	"BotonPanico/pkg/util"
)

// config/config.go
type Config struct {
	DBDriver  string `env:"DB_DRIVER"`
	DSN       string `env:"DSN"`
	Addr      string `env:"ADDR"`
	Mode      string `env:"MODE"`
	APIPrefix string `env:"API_PREFIX"`
	Log       logger.LogConfig
	Cache     cache.Config
	Push      notification.PushConfig
	RateLimit string `env:"RATE_LIMIT"`
}

var GlobalConfig *Config

func Load() error {
	// 1. load the .env file for the current environment
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}
	err := util.LoadEnv(env)
	if err != nil {
		log.Printf("Failed to load .env file: %v", err)
	}

	// 2. populate the global config
	GlobalConfig = &Config{
		DBDriver:  util.GetEnv("DB_DRIVER"),
		DSN:       util.GetEnv("DSN"),
		Addr:      util.GetEnvDefault("ADDR", ":8080"),
		Mode:      util.GetEnv("MODE"),
		APIPrefix: util.GetEnvDefault("API_PREFIX", "/api"),
		Log: logger.LogConfig{
			Level:      util.GetEnv("LOG_LEVEL"),
			Filename:   util.GetEnv("LOG_FILENAME"),
			MaxSize:    int(util.GetIntEnv("LOG_MAX_SIZE")),
			MaxAge:     int(util.GetIntEnv("LOG_MAX_AGE")),
			MaxBackups: int(util.GetIntEnv("LOG_MAX_BACKUPS")),
		},
		Cache: cache.Config{
			Type: util.GetEnvDefault("CACHE_TYPE", "local"),
			Redis: cache.RedisConfig{
				Addr:     util.GetEnvDefault("REDIS_ADDR", "localhost:6379"),
				Password: util.GetEnv("REDIS_PASSWORD"),
				DB:       int(util.GetIntEnv("REDIS_DB")),
				PoolSize: int(util.GetIntEnv("REDIS_POOL_SIZE")),
			},
			Local: cache.LocalConfig{
				MaxSize:           int(util.GetIntEnv("LOCAL_CACHE_MAX_SIZE")),
				DefaultExpiration: 5 * time.Minute,
				CleanupInterval:   10 * time.Minute,
			},
		},
		Push: notification.PushConfig{
			ServerKey: util.GetEnv("FCM_SERVER_KEY"),
			Endpoint:  util.GetEnv("FCM_ENDPOINT"),
		},
		RateLimit: util.GetEnvDefault("RATE_LIMIT", "100-M"),
	}
	return nil
}
