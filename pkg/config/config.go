package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Debug bool
	Port  int

	Password string // shared admin password, used for crawl requests

	BaseURL string        // meteoam website
	Timeout time.Duration // http client timeout

	RedisAddr string // empty means in-memory cache
	RedisDB   int
	CacheTTL  time.Duration

	DBString string // location registry, empty means in-memory registry

	CrawlRPS               float64
	CrawlBlockPause        time.Duration
	CrawlMaxBlockedRetries int

	DiscordHookURL string
}

func NewConfig() *Config {
	return &Config{
		Debug: getBoolEnvDefault("DEBUG", false),
		Port:  getIntEnvDefault("PORT", 8080),

		Password: getStringEnvDefault("PASSWORD", "test"),

		BaseURL: getStringEnvDefault("METEOAM_BASE_URL", "http://www.meteoam.it"),
		Timeout: time.Duration(getIntEnvDefault("METEOAM_TIMEOUT_SECONDS", 10)) * time.Second,

		RedisAddr: getStringEnvDefault("REDIS_ADDR", ""),
		RedisDB:   getIntEnvDefault("REDIS_DB", 0),
		CacheTTL:  time.Duration(getIntEnvDefault("CACHE_TTL_MINUTES", 30)) * time.Minute,

		DBString: getStringEnvDefault("DB_STRING", ""),

		CrawlRPS:               getFloatEnvDefault("CRAWL_RPS", 0.5),
		CrawlBlockPause:        time.Duration(getIntEnvDefault("CRAWL_BLOCK_PAUSE_SECONDS", 90)) * time.Second,
		CrawlMaxBlockedRetries: getIntEnvDefault("CRAWL_MAX_BLOCKED_RETRIES", 3),

		DiscordHookURL: getStringEnvDefault("DISCORD_HOOK_URL", ""),
	}
}

func getBoolEnvDefault(key string, defaultValue bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}

	fmt.Printf("Using default value for %s\n", key)
	return defaultValue
}

func getStringEnvDefault(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}

	fmt.Printf("Using default value for %s\n", key)
	return defaultValue
}

func getIntEnvDefault(key string, defaultValue int) int {
	if value, ok := os.LookupEnv(key); ok {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}

	fmt.Printf("Using default value for %s\n", key)
	return defaultValue
}

func getFloatEnvDefault(key string, defaultValue float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}

	fmt.Printf("Using default value for %s\n", key)
	return defaultValue
}
