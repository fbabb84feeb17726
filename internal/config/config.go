package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration, loaded from environment variables.
type Config struct {
	Port string

	DBHost string
	DBPort string
	DBUser string
	DBPass string
	DBName string

	OrderDBCount int

	RedisAddr string

	CatalogSourceURL  string
	ClassifierURL     string
	ClassifierTimeout time.Duration
}

// Load reads configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		Port:              getEnv("PORT", "8080"),
		DBHost:            getEnv("DB_HOST", "127.0.0.1"),
		DBPort:            getEnv("DB_PORT", "3306"),
		DBUser:            getEnv("DB_USER", "root"),
		DBPass:            getEnv("DB_PASS", ""),
		DBName:            getEnv("DB_NAME", "diet-db"),
		OrderDBCount:      getEnvAsInt("ORDER_DB_COUNT", 1),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		CatalogSourceURL:  getEnv("CATALOG_SOURCE_URL", "https://fakestoreapi.com/products"),
		ClassifierURL:     getEnv("CLASSIFIER_URL", "http://localhost:8000"),
		ClassifierTimeout: time.Duration(getEnvAsInt("CLASSIFIER_TIMEOUT_SECONDS", 10)) * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
