package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration.
type Config struct {
	Port     string
	Env      string
	LogLevel string

	// Scheduling backend selection: "mock", "google_calendar" or "postgres".
	SchedulingBackend string
	Timezone          string
	DefaultDoctor     string

	// Google Calendar backend.
	GoogleServiceAccountFile string
	DoctorCalendarsJSON      string

	// Postgres backend.
	DatabaseURL string

	// Transcript store: "memory" or "redis".
	TranscriptStore string
	RedisAddr       string
	RedisPassword   string
	RedisTLS        bool
	TranscriptTTL   time.Duration

	// Decision maker (optional, used by the simulator).
	OpenAIAPIKey string
	OpenAIModel  string

	// HTTP surface.
	AdminJWTSecret string
	RateLimitRPS   float64
	RateLimitBurst int
	SessionTTL     time.Duration
}

// Load reads configuration from environment variables.
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		SchedulingBackend: strings.ToLower(strings.TrimSpace(getEnv("SCHEDULING_BACKEND", "mock"))),
		Timezone:          getEnv("CLINIC_TIMEZONE", "Europe/Bucharest"),
		DefaultDoctor:     getEnv("DEFAULT_DOCTOR", "Dr. Ana Popescu"),

		GoogleServiceAccountFile: getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", ""),
		DoctorCalendarsJSON:      getEnv("DOCTOR_CALENDARS_JSON", ""),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		TranscriptStore: strings.ToLower(strings.TrimSpace(getEnv("TRANSCRIPT_STORE", "memory"))),
		RedisAddr:       getEnv("REDIS_ADDR", "redis:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RedisTLS:        getEnvAsBool("REDIS_TLS", false),
		TranscriptTTL:   getEnvAsDuration("TRANSCRIPT_TTL", 24*time.Hour),

		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:  getEnv("OPENAI_MODEL", "gpt-4o-mini"),

		AdminJWTSecret: getEnv("ADMIN_JWT_SECRET", ""),
		RateLimitRPS:   getEnvAsFloat("RATE_LIMIT_RPS", 10),
		RateLimitBurst: getEnvAsInt("RATE_LIMIT_BURST", 20),
		SessionTTL:     getEnvAsDuration("SESSION_TTL", 30*time.Minute),
	}
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value.
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value.
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
