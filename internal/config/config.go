package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pcrishikesh/ai-chatbot-backend/internal/logger"
)

// AppConfig holds all application configuration. It is built once at
// startup and passed by reference into the components that need it.
type AppConfig struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	LLM      LLMConfig
	Chat     ChatConfig
}

// ServerConfig holds the HTTP listener configuration.
type ServerConfig struct {
	Port              string
	AllowedOrigin     string
	AuthRatePerMinute int
	AuthRateBurst     int
}

// DatabaseConfig holds database connection configuration.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// AuthConfig holds session token configuration.
type AuthConfig struct {
	JWTSecret []byte
	TokenTTL  time.Duration
}

// LLMConfig holds the upstream generation provider configuration.
type LLMConfig struct {
	APIKey      string
	Model       string
	Temperature float64
	TopP        float64
	TopK        int
	MaxTokens   int
	Timeout     time.Duration
}

// ChatConfig holds conversation behavior knobs.
type ChatConfig struct {
	// StrictConversationID rejects malformed conversation ids with a
	// validation error instead of silently starting a new conversation.
	StrictConversationID bool
	HistoryWindow        int
	ReplyWindow          int
}

// LoadConfig loads and validates application configuration from environment
func LoadConfig() (*AppConfig, error) {
	config := &AppConfig{}

	config.Server = ServerConfig{
		Port:              getEnvOrDefault("SERVER_PORT", "8080"),
		AllowedOrigin:     getEnvOrDefault("CORS_ALLOWED_ORIGIN", "*"),
		AuthRatePerMinute: getEnvAsInt("AUTH_RATE_PER_MINUTE", 30),
		AuthRateBurst:     getEnvAsInt("AUTH_RATE_BURST", 10),
	}

	config.Database = DatabaseConfig{
		Host:     getEnvOrDefault("DB_HOST", "postgres"),
		Port:     getEnvOrDefault("DB_PORT", "5432"),
		User:     getEnvOrDefault("DB_USER", "postgres"),
		Password: getEnvOrDefault("DB_PASSWORD", "postgres"),
		Name:     getEnvOrDefault("DB_NAME", "chatapp"),
		SSLMode:  getEnvOrDefault("DB_SSLMODE", "disable"),
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable must be set")
	}
	if len(jwtSecret) < 32 {
		return nil, fmt.Errorf("JWT_SECRET must be at least 32 characters (current length: %d)", len(jwtSecret))
	}

	config.Auth = AuthConfig{
		JWTSecret: []byte(jwtSecret),
		TokenTTL:  time.Duration(getEnvAsInt("JWT_TOKEN_TTL_DAYS", 7)) * 24 * time.Hour,
	}

	apiKey := os.Getenv("OPENROUTER_API_KEY")
	if apiKey == "" {
		logger.Log.Warn("OPENROUTER_API_KEY environment variable not set")
	}

	config.LLM = LLMConfig{
		APIKey:      apiKey,
		Model:       getEnvOrDefault("OPENROUTER_MODEL", "meta-llama/llama-3.3-8b-instruct:free"),
		Temperature: getEnvAsFloat("OPENROUTER_TEMPERATURE", 0.7),
		TopP:        getEnvAsFloat("OPENROUTER_TOP_P", 0.9),
		TopK:        getEnvAsInt("OPENROUTER_TOP_K", 40),
		MaxTokens:   getEnvAsInt("OPENROUTER_MAX_TOKENS", 1024),
		Timeout:     getEnvAsDuration("OPENROUTER_TIMEOUT", 60*time.Second),
	}

	config.Chat = ChatConfig{
		StrictConversationID: getEnvAsBool("CHAT_STRICT_CONVERSATION_ID", false),
		HistoryWindow:        getEnvAsInt("CHAT_HISTORY_WINDOW", 10),
		ReplyWindow:          getEnvAsInt("CHAT_REPLY_WINDOW", 20),
	}

	return config, nil
}

// GetDSN returns the database connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// Helper functions for environment variable parsing

func getEnvOrDefault(key, defaultValue string) string {
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
		logger.Log.WithFields(logrus.Fields{"key": key, "default": defaultValue}).Warn("Invalid integer value, using default")
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		logger.Log.WithFields(logrus.Fields{"key": key, "default": defaultValue}).Warn("Invalid float value, using default")
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		logger.Log.WithFields(logrus.Fields{"key": key, "default": defaultValue}).Warn("Invalid boolean value, using default")
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		logger.Log.WithFields(logrus.Fields{"key": key, "default": defaultValue}).Warn("Invalid duration value, using default")
		return defaultValue
	}
	return value
}
