package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds process settings read from the environment
type Config struct {
	// Environment
	Environment string

	// Database
	DatabaseURL     string
	MigrateOnStart  bool
	MigrationsDir   string
	LocalScoresPath string

	// Redis
	RedisURL string

	// Server
	Port        string
	FrontendURL string

	// Session Settings
	ProfilePath            string
	FrameRate              int
	SessionExpiryMinutes   int
	SessionIdleSeconds     int
	IdleWorkerPollInterval int
	MaxSessions            int

	// Security
	JWTSecret         string
	SessionTimeoutMin int
}

// Load reads Config from the environment and an optional .env file
func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	return &Config{
		// Environment
		Environment: getEnv("APP_ENV", "development"),

		// Database
		// Empty DATABASE_URL falls back to the SQLite file at LOCAL_SCORES_PATH.
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		MigrateOnStart:  getEnv("MIGRATE_ON_START", "false") == "true",
		MigrationsDir:   getEnv("MIGRATIONS_DIR", "migrations"),
		LocalScoresPath: getEnv("LOCAL_SCORES_PATH", "~/.billiards/scores.db"),

		// Redis is optional; sessions stay process-local without it.
		RedisURL: getEnv("REDIS_URL", ""),

		// Server
		Port:        getEnv("APP_PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),

		// Session Settings
		ProfilePath:            getEnv("PROFILE_PATH", ""),
		FrameRate:              getEnvInt("FRAME_RATE", 60),
		SessionExpiryMinutes:   getEnvInt("SESSION_EXPIRY_MINUTES", 60),
		SessionIdleSeconds:     getEnvInt("SESSION_IDLE_SECONDS", 300),
		IdleWorkerPollInterval: getEnvInt("IDLE_WORKER_POLL_SECONDS", 5),
		MaxSessions:            getEnvInt("MAX_SESSIONS", 200),

		// Security
		JWTSecret:         getEnv("JWT_SECRET", "change-me-in-production"),
		SessionTimeoutMin: getEnvInt("SESSION_TIMEOUT_MINUTES", 120),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
