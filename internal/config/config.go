// Package config provides configuration management for the application.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Catalog sources.
const (
	CatalogSourceEmbedded = "embedded"
	CatalogSourceFile     = "file"
	CatalogSourceS3       = "s3"
	CatalogSourcePostgres = "postgres"
)

// Config holds all configuration values for the application.
type Config struct {
	// AWS
	AWSRegion    string
	S3Bucket     string
	CatalogS3Key string

	// Database
	DBHost      string
	DBPort      int
	DBName      string
	DBUser      string
	DBPassword  string
	DatabaseDSN string

	// Catalog
	CatalogSource string
	CatalogPath   string
	EURToUSD      float64

	// SES
	SESSenderEmail string

	// AI advisor
	OpenRouterAPIKey string
	OpenRouterModel  string
	OpenRouterURL    string
	AppReferer       string
	AppTitle         string
	AdvisorTimeout   time.Duration

	// Application
	Stage    string
	LogLevel string
	Port     string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (for local development)
	_ = godotenv.Load()

	cfg := &Config{
		// AWS
		AWSRegion:    getEnv("AWS_REGION", "us-east-1"),
		S3Bucket:     getEnv("S3_BUCKET", "nomad-visa-catalog-dev"),
		CatalogS3Key: getEnv("CATALOG_S3_KEY", "catalog/policy_facts.json"),

		// Database
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnvInt("DB_PORT", 5432),
		DBName:      getEnv("DB_NAME", "nomad_visa"),
		DBUser:      getEnv("DB_USER", "postgres"),
		DBPassword:  getEnv("DB_PASSWORD", ""),
		DatabaseDSN: getEnv("DATABASE_URL", ""),

		// Catalog
		CatalogSource: getEnv("CATALOG_SOURCE", CatalogSourceEmbedded),
		CatalogPath:   getEnv("CATALOG_PATH", ""),
		EURToUSD:      getEnvFloat("EUR_TO_USD", 1.08),

		// SES
		SESSenderEmail: getEnv("SES_SENDER_EMAIL", ""),

		// AI advisor
		OpenRouterAPIKey: getEnv("OPENROUTER_API_KEY", ""),
		OpenRouterModel:  getEnv("OPENROUTER_MODEL", "deepseek/deepseek-chat-v3-0324"),
		OpenRouterURL:    getEnv("OPENROUTER_URL", "https://openrouter.ai/api/v1/chat/completions"),
		AppReferer:       getEnv("APP_REFERER", ""),
		AppTitle:         getEnv("APP_TITLE", "Nomad Visa Engine"),
		AdvisorTimeout:   getEnvDuration("ADVISOR_TIMEOUT", 45*time.Second),

		// Application
		Stage:    getEnv("STAGE", "dev"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Port:     getEnv("PORT", "8080"),
	}

	return cfg, nil
}

// DatabaseURL returns the PostgreSQL connection string.
func (c *Config) DatabaseURL() string {
	if c.DatabaseDSN != "" {
		return c.DatabaseDSN
	}
	sslMode := "require" // Use SSL for RDS
	if c.DBHost == "localhost" || c.DBHost == "127.0.0.1" {
		sslMode = "disable" // Disable SSL for local development
	}
	return "postgres://" + c.DBUser + ":" + c.DBPassword + "@" + c.DBHost + ":" + strconv.Itoa(c.DBPort) + "/" + c.DBName + "?sslmode=" + sslMode
}

// AdvisorEnabled reports whether AI re-scoring is configured.
func (c *Config) AdvisorEnabled() bool {
	return c.OpenRouterAPIKey != ""
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an environment variable as int or returns a default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil && f > 0 {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
