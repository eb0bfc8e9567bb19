// Package config defines environment configuration structs and loaders.
package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type AppConfig struct {
	StoreEnvConfig
	SportsAPIEnvConfig
	RedisEnvConfig
	ServerEnvConfig
	SettlerEnvConfig
}

func LoadConfig() (*AppConfig, error) {
	cfg := &AppConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// StoreEnvConfig selects and locates the pick store backend.
type StoreEnvConfig struct {
	StoreBackend string `env:"STORE_BACKEND" envDefault:"json"` // "json" or "sqlite"
	PicksFile    string `env:"PICKS_FILE" envDefault:"my_picks.json"`
	SQLitePath   string `env:"SQLITE_PATH" envDefault:"picks.db"`
}

// SportsAPIEnvConfig configures the sports-data provider client.
type SportsAPIEnvConfig struct {
	APIKey         string        `env:"SPORTS_API_KEY"`
	BaseballAPIURL string        `env:"BASEBALL_API_URL" envDefault:"https://v1.baseball.api-sports.io"`
	TennisAPIURL   string        `env:"TENNIS_API_URL" envDefault:"https://v1.tennis.api-sports.io"`
	ClientTimeout  time.Duration `env:"CLIENT_TIMEOUT" envDefault:"15s"`
	ClientRetryMax int           `env:"CLIENT_RETRY_MAX" envDefault:"3"`
}

// RedisEnvConfig configures the optional result-resolution cache.
type RedisEnvConfig struct {
	RedisEnabled   bool          `env:"REDIS_ENABLED" envDefault:"false"`
	RedisHost      string        `env:"REDIS_HOST" envDefault:"127.0.0.1"`
	RedisPort      int           `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword  string        `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB        int           `env:"REDIS_DB" envDefault:"0"`
	ResultCacheTTL time.Duration `env:"RESULT_CACHE_TTL" envDefault:"1h"`
}

// ServerEnvConfig configures the pick server.
type ServerEnvConfig struct {
	Address       string `env:"SERVER_ADDRESS" envDefault:"127.0.0.1"`
	Port          int    `env:"SERVER_PORT" envDefault:"8091"`
	BodySizeLimit int    `env:"SERVER_BODY_LIMIT" envDefault:"1048576"`
}

// SettlerEnvConfig configures the settlement runtime.
type SettlerEnvConfig struct {
	Environment string `env:"ENVIRONMENT" envDefault:"dev"`
}
