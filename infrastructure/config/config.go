package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string
	Environment   string

	// AWS configuration
	AWSRegion     string
	DynamoDBTable string
	GSI1IndexName string // GSI1 - direct turn lookups by id

	// Authentication
	JWTSecret    string
	JWTIssuer    string
	TokenTTL     time.Duration
	CookieName   string
	CookieSecure bool

	// Completion provider
	GeminiAPIKey    string
	GeminiModel     string
	Temperature     float32
	TopK            float32
	TopP            float32
	MaxOutputTokens int32

	// Conversation
	MaxHistoryTurns int           // prompt context window
	RevealInterval  time.Duration // per-rune delay of the progressive reveal

	// Logging and features
	LogLevel      string
	EnableCORS    bool
	AllowedOrigin string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),

		AWSRegion:     getEnv("AWS_REGION", "us-west-2"),
		DynamoDBTable: getEnv("TABLE_NAME", getEnv("DYNAMODB_TABLE", "healthchat")),
		GSI1IndexName: getEnv("GSI1_INDEX_NAME", "TurnIndex"),

		JWTSecret:    getEnv("JWT_SECRET", ""),
		JWTIssuer:    getEnv("JWT_ISSUER", "healthchat-backend"),
		TokenTTL:     getEnvDuration("TOKEN_TTL", 24*time.Hour),
		CookieName:   getEnv("COOKIE_NAME", "token"),
		CookieSecure: getEnvBool("COOKIE_SECURE", false),

		GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),
		GeminiModel:     getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		Temperature:     getEnvFloat32("GEN_TEMPERATURE", 0.7),
		TopK:            getEnvFloat32("GEN_TOP_K", 40),
		TopP:            getEnvFloat32("GEN_TOP_P", 0.95),
		MaxOutputTokens: int32(getEnvInt("GEN_MAX_OUTPUT_TOKENS", 500)),

		MaxHistoryTurns: getEnvInt("MAX_HISTORY_TURNS", 10),
		RevealInterval:  getEnvDuration("REVEAL_INTERVAL", 5*time.Millisecond),

		LogLevel:      getEnv("LOG_LEVEL", "info"),
		EnableCORS:    getEnvBool("ENABLE_CORS", true),
		AllowedOrigin: getEnv("ALLOWED_ORIGIN", "http://localhost:5173"),
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if c.Environment == "production" {
		if c.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required in production")
		}
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required in production")
		}
		if c.DynamoDBTable == "" {
			return fmt.Errorf("DYNAMODB_TABLE is required")
		}
	}

	if c.MaxHistoryTurns <= 0 {
		return fmt.Errorf("MAX_HISTORY_TURNS must be positive")
	}

	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvFloat32 gets a float environment variable with a default value
func getEnvFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

// getEnvDuration gets a duration environment variable with a default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
