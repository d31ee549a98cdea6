package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort   string
	AppBaseURL   string
	DatabaseType string
	DatabasePath string
	DatabaseURL  string

	// MirrorDatabaseURL, when set, enables best-effort replication of
	// profiles and submissions to a remote postgres instance.
	MirrorDatabaseURL string

	SessionDuration time.Duration

	// AI provider settings
	AIProvider    string
	AIModel       string
	OpenAIKey     string
	OpenAIBaseURL string
	AnthropicKey  string

	// Live suggestion tuning
	SuggestMinLength int
	SuggestDebounce  time.Duration

	// Draft autosave
	AutosaveInterval time.Duration
	DraftRetention   time.Duration

	// Google OAuth (cloud accounts)
	GoogleClientID     string
	GoogleClientSecret string

	// Email (SES)
	AWSRegion    string
	SESFromEmail string
	SESFromName  string

	AudioCachePath string
}

// Load reads configuration from the environment with sensible defaults.
// A .env file in the working directory is honoured when present.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: could not load .env file: %v", err)
	}

	return &Config{
		ServerPort:   getEnv("PORT", "8080"),
		AppBaseURL:   getEnv("APP_BASE_URL", ""),
		DatabaseType: getEnv("DB_TYPE", "sqlite"),
		DatabasePath: getEnv("DB_PATH", "./bandprep.db"),
		DatabaseURL:  getEnv("DB_URL", ""),

		MirrorDatabaseURL: getEnv("MIRROR_DB_URL", ""),

		SessionDuration: getDuration("SESSION_DURATION", 7*24*time.Hour),

		AIProvider:    getEnv("AI_PROVIDER", "openai"),
		AIModel:       getEnv("AI_MODEL", ""),
		OpenAIKey:     getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),
		AnthropicKey:  getEnv("ANTHROPIC_API_KEY", ""),

		SuggestMinLength: getInt("SUGGEST_MIN_LENGTH", 50),
		SuggestDebounce:  getDuration("SUGGEST_DEBOUNCE", 3*time.Second),

		AutosaveInterval: getDuration("AUTOSAVE_INTERVAL", 30*time.Second),
		DraftRetention:   getDuration("DRAFT_RETENTION", 30*24*time.Hour),

		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),

		AWSRegion:    getEnv("AWS_REGION", "ap-southeast-1"),
		SESFromEmail: getEnv("SES_FROM_EMAIL", ""),
		SESFromName:  getEnv("SES_FROM_NAME", "BandPrep"),

		AudioCachePath: getEnv("AUDIO_CACHE_PATH", "./static/audio"),
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
		log.Printf("Warning: invalid integer for %s, using default %d", key, defaultValue)
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		log.Printf("Warning: invalid duration for %s, using default %s", key, defaultValue)
	}
	return defaultValue
}
