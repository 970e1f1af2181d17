package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Server configuration
	Environment string

	// Redis configuration; an empty URL disables caching and rate limiting
	RedisURL string

	// PubNub configuration; an empty publish key disables the board feed
	PubNubPublishKey   string
	PubNubSubscribeKey string
	PubNubSecretKey    string
	BoardChannel       string

	// Queue configuration
	ConsultationMinutes int
	JoinRateLimit       int

	// Cache configuration
	StatusCacheTTL time.Duration
	BoardCacheTTL  time.Duration

	// Monitoring
	EnableMetrics   bool
	MetricsInterval time.Duration
}

func LoadConfig() *Config {
	return &Config{
		// Server
		Environment: getEnv("ENVIRONMENT", "development"),

		// Redis
		RedisURL: getEnv("REDIS_URL", ""),

		// PubNub
		PubNubPublishKey:   getEnv("PUBNUB_PUBLISH_KEY", ""),
		PubNubSubscribeKey: getEnv("PUBNUB_SUBSCRIBE_KEY", ""),
		PubNubSecretKey:    getEnv("PUBNUB_SECRET_KEY", ""),
		BoardChannel:       getEnv("BOARD_CHANNEL", "display-board"),

		// Queue
		ConsultationMinutes: getEnvAsInt("CONSULTATION_MINUTES", 15),
		JoinRateLimit:       getEnvAsInt("JOIN_RATE_LIMIT", 30),

		// Cache
		StatusCacheTTL: getEnvAsDuration("STATUS_CACHE_TTL", "3s"),
		BoardCacheTTL:  getEnvAsDuration("BOARD_CACHE_TTL", "2s"),

		// Monitoring
		EnableMetrics:   getEnvAsBool("ENABLE_METRICS", true),
		MetricsInterval: getEnvAsDuration("METRICS_INTERVAL", "30s"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
