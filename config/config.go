package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/sirupsen/logrus"
)

type Config struct {
	ScrapeOpsAPIKey string
	RequestTimeout  time.Duration
	ProxyCountry    string
	CookiePath      string
	Languages       []string

	CacheEnabled bool
	CachePath    string
	CacheTTL     time.Duration

	RateLimit         int
	RateLimitInterval time.Duration
	Concurrency       int

	LogDir   string
	LogLevel string
}

func LoadConfig() *Config {
	return &Config{
		ScrapeOpsAPIKey:   GetEnv("SCRAPEOPS_API_KEY", ""),
		RequestTimeout:    getEnvAsDuration("REQUEST_TIMEOUT", 120*time.Second),
		ProxyCountry:      GetEnv("PROXY_COUNTRY", "us"),
		CookiePath:        GetEnv("COOKIE_PATH", ""),
		Languages:         getEnvAsStringSlice("LANGUAGES", []string{"en"}),
		CacheEnabled:      getEnvAsBool("CACHE_ENABLED", true),
		CachePath:         GetEnv("CACHE_PATH", "./data/transcripts.db"),
		CacheTTL:          getEnvAsDuration("CACHE_TTL", 7*24*time.Hour),
		RateLimit:         getEnvAsInt("RATE_LIMIT", 0),
		RateLimitInterval: getEnvAsDuration("RATE_LIMIT_INTERVAL", 1*time.Second),
		Concurrency:       getEnvAsInt("CONCURRENCY", 1),
		LogDir:            GetEnv("LOG_DIR", ""),
		LogLevel:          GetEnv("LOG_LEVEL", "info"),
	}
}

func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		logrus.WithFields(logrus.Fields{
			"key":          key,
			"value":        value,
			"defaultValue": defaultValue,
		}).Warn("Invalid duration, using default")
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
		logrus.WithFields(logrus.Fields{
			"key":          key,
			"value":        value,
			"defaultValue": defaultValue,
		}).Warn("Invalid integer, using default")
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
		logrus.WithFields(logrus.Fields{
			"key":          key,
			"value":        value,
			"defaultValue": defaultValue,
		}).Warn("Invalid boolean, using default")
	}
	return defaultValue
}

func getEnvAsStringSlice(key string, defaultValue []string) []string {
	if value, exists := os.LookupEnv(key); exists {
		if value = strings.TrimSpace(value); value != "" {
			return strings.Split(value, ",")
		}
	}
	return defaultValue
}

func ValidateConfig(cfg *Config) error {
	if cfg.RequestTimeout <= 0 {
		return errors.New("request timeout must be greater than 0")
	}
	if cfg.CacheEnabled && cfg.CachePath == "" {
		return errors.New("cache path is required when the cache is enabled")
	}
	if cfg.CacheTTL <= 0 {
		return errors.New("cache TTL must be greater than 0")
	}
	if cfg.Concurrency <= 0 {
		return errors.New("concurrency must be greater than 0")
	}
	if cfg.RateLimit < 0 {
		return errors.New("rate limit must not be negative")
	}
	if len(cfg.Languages) == 0 {
		return errors.New("at least one language is required")
	}
	return nil
}
