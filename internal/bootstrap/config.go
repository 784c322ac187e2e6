package bootstrap

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/eleven-am/voice-recorder/internal/shared"
	"github.com/joho/godotenv"
)

type Config struct {
	ServerAddr string `validate:"required"`
	LogLevel   string `validate:"omitempty,oneof=debug info warn error"`

	DatabaseDSN string
	SQLitePath  string

	RedisAddr          string
	RedisPassword      string
	RedisDB            int           `validate:"gte=0"`
	TranscriptCacheTTL time.Duration `validate:"gte=0"`

	WhisperURL     string `validate:"omitempty,url"`
	WhisperAPIKey  string
	WhisperTimeout time.Duration `validate:"gt=0"`
	WhisperRetries int           `validate:"gte=0,lte=10"`

	MaxUploadBytes int64 `validate:"gt=0"`
}

// LoadConfig reads the environment, after merging a .env file if present.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ServerAddr: getEnv("SERVER_ADDR", ":5001"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),

		DatabaseDSN: getEnv("DATABASE_DSN", ""),
		SQLitePath:  getEnv("SQLITE_PATH", "voice.db"),

		RedisAddr:          getEnv("REDIS_ADDR", ""),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		RedisDB:            getEnvInt("REDIS_DB", 0),
		TranscriptCacheTTL: getEnvDuration("TRANSCRIPT_CACHE_TTL", 24*time.Hour),

		WhisperURL:     getEnv("WHISPER_URL", ""),
		WhisperAPIKey:  getEnv("WHISPER_API_KEY", ""),
		WhisperTimeout: getEnvDuration("WHISPER_TIMEOUT", 60*time.Second),
		WhisperRetries: getEnvInt("WHISPER_RETRIES", 0),

		MaxUploadBytes: int64(getEnvInt("MAX_UPLOAD_BYTES", 25*1024*1024)),
	}

	if err := shared.NewRequestValidator().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

// getEnvDuration accepts Go durations ("90s") or a bare number of seconds.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
