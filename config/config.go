package config

import (
	"os"
	"strconv"
)

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host           string
	Port           string
	AllowedOrigins string
	RateLimitRPS   float64
}

// LoadServerConfig loads server configuration from environment variables
func LoadServerConfig() *ServerConfig {
	return &ServerConfig{
		Host:           getEnvOrDefault("HOST", "0.0.0.0"),
		Port:           getEnvOrDefault("PORT", "8080"),
		AllowedOrigins: getEnvOrDefault("ALLOWED_ORIGINS", "http://localhost:3000"),
		RateLimitRPS:   getEnvFloat("RATE_LIMIT_RPS", 5),
	}
}

// RedisConfig holds cache configuration. An empty Addr means the in-memory
// fallback cache is used instead of redis.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoadRedisConfig loads redis configuration from environment variables
func LoadRedisConfig() *RedisConfig {
	return &RedisConfig{
		Addr:     os.Getenv("REDIS_ADDR"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       getEnvInt("REDIS_DB", 0),
	}
}

// ScraperConfig holds browser scraper configuration
type ScraperConfig struct {
	Headless bool
}

// LoadScraperConfig loads scraper configuration from environment variables
func LoadScraperConfig() *ScraperConfig {
	return &ScraperConfig{
		Headless: getEnvOrDefault("SCRAPE_HEADLESS", "true") == "true",
	}
}

// SchedulerConfig holds the offer refresh schedule
type SchedulerConfig struct {
	Schedule string
}

// LoadSchedulerConfig loads scheduler configuration from environment variables
func LoadSchedulerConfig() *SchedulerConfig {
	return &SchedulerConfig{
		// Every 12 hours, at 00:00 and 12:00
		Schedule: getEnvOrDefault("OFFER_CHECK_SCHEDULE", "0 0 */12 * * *"),
	}
}

// getEnvOrDefault gets environment variable or returns default value
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if v, err := strconv.Atoi(value); err == nil {
			return v
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if v, err := strconv.ParseFloat(value, 64); err == nil {
			return v
		}
	}
	return defaultValue
}
