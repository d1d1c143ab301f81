// Package config loads service configuration from the environment.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the diagnosis service
type Config struct {
	// Storage
	MongoURI string
	MongoDB  string
	RedisURI string

	// HTTP
	Port               string
	CORSAllowedOrigins []string
	RateLimitRPS       float64
	RateLimitBurst     int
	TrustProxy         bool

	// Sessions
	JWTSecret  string
	SessionTTL time.Duration
	TokenTTL   time.Duration

	// Engine
	ClosenessThreshold float64
	DefaultQuestionSet string

	// Observability
	LogLevel        string
	OTelServiceName string
}

// Load reads configuration from environment variables.
// A .env file is loaded first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		MongoURI:           getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:            getEnv("MONGO_DB", "dronediag"),
		RedisURI:           getEnv("REDIS_URI", "localhost:6379"),
		Port:               getEnv("PORT", "8080"),
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		RateLimitRPS:       getEnvFloat("RATE_LIMIT_RPS", 20),
		RateLimitBurst:     getEnvInt("RATE_LIMIT_BURST", 40),
		TrustProxy:         getEnvBool("TRUST_PROXY", false),
		JWTSecret:          getEnv("JWT_SECRET", "super-secret-key-change-in-production"),
		SessionTTL:         getEnvDuration("SESSION_TTL", 30*time.Minute),
		TokenTTL:           getEnvDuration("TOKEN_TTL", 24*time.Hour),
		ClosenessThreshold: getEnvFloat("CLOSENESS_THRESHOLD", 2),
		DefaultQuestionSet: getEnv("DEFAULT_QUESTION_SET", "dynamic"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		OTelServiceName:    getEnv("OTEL_SERVICE_NAME", "dronediag"),
	}
}

// SlogLevel maps LogLevel onto a slog level, defaulting to info
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// RedisAddr strips an optional redis:// scheme from RedisURI
func (c *Config) RedisAddr() string {
	return strings.TrimPrefix(c.RedisURI, "redis://")
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}

func getEnvList(key string, defaultVal []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
