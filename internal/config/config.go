package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	DB        DBConfig
	Redis     RedisConfig
	Cache     CacheConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
}

type AppConfig struct {
	Port    string
	BaseURL string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type RedisConfig struct {
	Host string
	Port string
}

type CacheConfig struct {
	LocalSize int           // capacity of the in-process LRU tier
	LocalTTL  time.Duration // staleness bound of the local tier
	RedisTTL  time.Duration // TTL of the distributed tier, independent of link expiry
}

type AuthConfig struct {
	APIKeys map[string]string // API key -> name/description
}

type RateLimitConfig struct {
	MaxRequests int           // shorten requests allowed per window, per identity
	Window      time.Duration // fixed window duration
	SurgeRPS    float64       // per-instance token bucket guard, all routes
	SurgeBurst  int
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	cfg.App.Port = viper.GetString("APP_PORT")
	cfg.App.BaseURL = viper.GetString("APP_BASE_URL")
	if cfg.App.BaseURL == "" {
		cfg.App.BaseURL = "http://localhost:" + cfg.App.Port
	}
	cfg.DB.Host = viper.GetString("DB_HOST")
	cfg.DB.Port = viper.GetString("DB_PORT")
	cfg.DB.User = viper.GetString("DB_USER")
	cfg.DB.Password = viper.GetString("DB_PASSWORD")
	cfg.DB.Name = viper.GetString("DB_NAME")
	cfg.Redis.Host = viper.GetString("REDIS_HOST")
	cfg.Redis.Port = viper.GetString("REDIS_PORT")

	// Cache config
	cfg.Cache.LocalSize = viper.GetInt("CACHE_LOCAL_SIZE")
	if cfg.Cache.LocalSize == 0 {
		cfg.Cache.LocalSize = 10000
	}
	cfg.Cache.LocalTTL = viper.GetDuration("CACHE_LOCAL_TTL")
	if cfg.Cache.LocalTTL == 0 {
		cfg.Cache.LocalTTL = time.Minute
	}
	cfg.Cache.RedisTTL = viper.GetDuration("CACHE_REDIS_TTL")
	if cfg.Cache.RedisTTL == 0 {
		cfg.Cache.RedisTTL = 24 * time.Hour
	}

	// Auth config - parse API keys from comma-separated string
	// Format: key1:name1,key2:name2
	apiKeysRaw := viper.GetString("API_KEYS")
	cfg.Auth.APIKeys = parseAPIKeys(apiKeysRaw)

	// Rate limit config
	cfg.RateLimit.MaxRequests = viper.GetInt("RATE_LIMIT_MAX")
	if cfg.RateLimit.MaxRequests == 0 {
		cfg.RateLimit.MaxRequests = 100
	}
	cfg.RateLimit.Window = viper.GetDuration("RATE_LIMIT_WINDOW")
	if cfg.RateLimit.Window == 0 {
		cfg.RateLimit.Window = time.Minute
	}
	cfg.RateLimit.SurgeRPS = viper.GetFloat64("RATE_LIMIT_SURGE_RPS")
	if cfg.RateLimit.SurgeRPS == 0 {
		cfg.RateLimit.SurgeRPS = 100
	}
	cfg.RateLimit.SurgeBurst = viper.GetInt("RATE_LIMIT_SURGE_BURST")
	if cfg.RateLimit.SurgeBurst == 0 {
		cfg.RateLimit.SurgeBurst = 200
	}

	return &cfg, nil
}

// parseAPIKeys parses comma-separated API keys in format "key1:name1,key2:name2"
func parseAPIKeys(raw string) map[string]string {
	keys := make(map[string]string)
	if raw == "" {
		return keys
	}

	pairs := strings.Split(raw, ",")
	for _, pair := range pairs {
		parts := strings.SplitN(strings.TrimSpace(pair), ":", 2)
		if len(parts) == 2 {
			keys[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
		}
	}

	return keys
}
