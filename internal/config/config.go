// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ServerConfig holds all API-server settings
type ServerConfig struct {
	Port           int
	Host           string
	MetricsEnabled bool
}

// DatabaseConfig holds MongoDB settings
type DatabaseConfig struct {
	URI  string
	Name string
}

// AuthConfig holds JWT settings
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// RedisConfig holds the optional comment-count cache settings.
// The cache is disabled when Addr is empty.
type RedisConfig struct {
	Addr     string
	Password string
	TTL      time.Duration
}

// ExplainerConfig holds settings for the AI-explanation proxy service.
type ExplainerConfig struct {
	Port         int
	OpenAIAPIKey string
	Model        string
}

// Config holds the complete application configuration
type Config struct {
	Server         *ServerConfig
	Database       *DatabaseConfig
	Auth           *AuthConfig
	Redis          *RedisConfig
	Explainer      *ExplainerConfig
	AllowedOrigins []string
	Debug          bool
}

// DefaultConfig provides default server settings
func DefaultConfig() *ServerConfig {
	return &ServerConfig{
		Port:           8080,
		Host:           "0.0.0.0",
		MetricsEnabled: true,
	}
}

// LoadConfig loads configuration from environment variables and applies defaults
func LoadConfig() (*Config, error) {
	// Silent failure if no .env exists, which is fine
	_ = godotenv.Load()

	serverConfig := DefaultConfig()

	if portStr := os.Getenv("PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil {
			serverConfig.Port = port
		}
	}

	if host := os.Getenv("HOST"); host != "" {
		serverConfig.Host = host
	}

	if metricsEnabled := os.Getenv("METRICS_ENABLED"); metricsEnabled != "" {
		serverConfig.MetricsEnabled = metricsEnabled == "true"
	}

	dbConfig := &DatabaseConfig{
		URI:  getEnvOrDefault("MONGODB_URI", "mongodb://localhost:27017"),
		Name: getEnvOrDefault("MONGODB_DATABASE", "vt_memegen"),
	}

	authConfig := &AuthConfig{
		JWTSecret: os.Getenv("JWT_SECRET"),
		TokenTTL:  24 * time.Hour,
	}
	if authConfig.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}
	if ttlStr := os.Getenv("TOKEN_TTL_HOURS"); ttlStr != "" {
		if hours, err := strconv.Atoi(ttlStr); err == nil && hours > 0 {
			authConfig.TokenTTL = time.Duration(hours) * time.Hour
		}
	}

	redisConfig := &RedisConfig{
		Addr:     os.Getenv("REDIS_ADDR"),
		Password: os.Getenv("REDIS_PASSWORD"),
		TTL:      30 * time.Second,
	}
	if ttlStr := os.Getenv("REDIS_TTL_SECONDS"); ttlStr != "" {
		if secs, err := strconv.Atoi(ttlStr); err == nil && secs > 0 {
			redisConfig.TTL = time.Duration(secs) * time.Second
		}
	}

	explainerConfig := &ExplainerConfig{
		Port:         5000,
		OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),
		Model:        getEnvOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
	}
	if portStr := os.Getenv("EXPLAINER_PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil {
			explainerConfig.Port = port
		}
	}

	config := &Config{
		Server:         serverConfig,
		Database:       dbConfig,
		Auth:           authConfig,
		Redis:          redisConfig,
		Explainer:      explainerConfig,
		AllowedOrigins: []string{"*"}, // Default to allow all origins
		Debug:          false,
	}

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		config.AllowedOrigins = strings.Split(origins, ",")
	}

	if debug := os.Getenv("DEBUG"); debug == "true" {
		config.Debug = true
	}

	return config, nil
}

// LoadExplainerConfig loads only the settings the standalone explainer
// service needs.
func LoadExplainerConfig() (*ExplainerConfig, error) {
	_ = godotenv.Load()

	cfg := &ExplainerConfig{
		Port:         5000,
		OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),
		Model:        getEnvOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
	}
	if portStr := os.Getenv("EXPLAINER_PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil {
			cfg.Port = port
		}
	}
	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required")
	}
	return cfg, nil
}

// Helper function to get environment variable with default fallback
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
