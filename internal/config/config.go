package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	AppMode   string
	Port      string
	Database  DatabaseConfig
	JWT       JWTConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Admin     AdminConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// JWTConfig holds signing secrets. Community and system tokens use
// separate secrets so a leaked community secret cannot forge staff tokens.
type JWTConfig struct {
	Secret       string
	SystemSecret string
}

// RedisConfig holds optional Redis configuration for rate limiting
type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

// RateLimitConfig holds auth endpoint rate limit settings
type RateLimitConfig struct {
	Max           int
	WindowMinutes int
}

// AdminConfig holds bootstrap credentials for the first system administrator
type AdminConfig struct {
	Username   string
	Email      string
	Password   string
	EmployeeID string
}

// Global config instance
var AppConfig *Config

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	config := &Config{
		AppMode:   appMode,
		Port:      getEnv("PORT", "3000"),
		Database:  loadDatabaseConfig(),
		JWT:       loadJWTConfig(appMode),
		Redis:     loadRedisConfig(),
		RateLimit: loadRateLimitConfig(),
		Admin:     loadAdminConfig(),
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	AppConfig = config

	log.Printf("✅ Configuration loaded successfully [MODE: %s]", appMode)
	return config, nil
}

func loadDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "3306"),
		User:     getEnv("DB_USER", "root"),
		Password: getEnv("DB_PASS", ""),
		DBName:   getEnv("DB_NAME", "samajhub"),
	}
}

func loadJWTConfig(mode string) JWTConfig {
	defaultSecret := ""
	if mode == "dev" {
		defaultSecret = "dev_secret_change_me"
	}

	return JWTConfig{
		Secret:       getEnv("JWT_SECRET", defaultSecret),
		SystemSecret: getEnv("SYSTEM_JWT_SECRET", defaultSecret),
	}
}

func loadRedisConfig() RedisConfig {
	enabled, _ := strconv.ParseBool(getEnv("REDIS_ENABLED", "false"))
	db, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))

	return RedisConfig{
		Enabled:  enabled,
		Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       db,
	}
}

func loadRateLimitConfig() RateLimitConfig {
	max, _ := strconv.Atoi(getEnv("RATE_LIMIT_MAX", "5"))
	window, _ := strconv.Atoi(getEnv("RATE_LIMIT_WINDOW_MINUTES", "15"))

	return RateLimitConfig{
		Max:           max,
		WindowMinutes: window,
	}
}

func loadAdminConfig() AdminConfig {
	return AdminConfig{
		Username:   getEnv("ADMIN_USERNAME", ""),
		Email:      getEnv("ADMIN_EMAIL", ""),
		Password:   getEnv("ADMIN_PASSWORD", ""),
		EmployeeID: getEnv("ADMIN_EMPLOYEE_ID", "SYS0001"),
	}
}

// validate rejects configurations that cannot run safely
func (c *Config) validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required in prod mode")
	}
	if c.JWT.SystemSecret == "" {
		return fmt.Errorf("SYSTEM_JWT_SECRET is required in prod mode")
	}
	if c.IsProd() && c.JWT.Secret == c.JWT.SystemSecret {
		return fmt.Errorf("JWT_SECRET and SYSTEM_JWT_SECRET must differ in prod mode")
	}
	return nil
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" && c.IsDev() {
		return "*"
	}
	return origins
}
