package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Storage and auth backends.
const (
	StoreSQLite    = "sqlite"
	StoreFirestore = "firestore"

	AuthJWT      = "jwt"
	AuthFirebase = "firebase"

	SessionSQLite = "sqlite"
	SessionRedis  = "redis"
)

// Config holds the configuration for the application.
type Config struct {
	DatabasePath string
	Port         string
	StateDir     string

	StoreBackend       string
	GoogleCloudProject string

	AuthMode  string
	JWTSecret string
	JWTIssuer string

	SessionBackend string
	RedisURL       string

	// Telegram Config
	TelegramBotToken       string
	TelegramWebhookURL     string
	TelegramAllowedUserIDs []int64
	AdminTelegramID        int64
}

// EnvOr returns the environment variable key, or fallback when it is empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// NewFromEnv creates a new Config object from environment variables.
func NewFromEnv() (*Config, error) {
	cfg := &Config{
		DatabasePath:       EnvOr("DATABASE_PATH", "data/shopping.db"),
		Port:               EnvOr("PORT", "8080"),
		StateDir:           EnvOr("STATE_DIR", "data/state"),
		StoreBackend:       EnvOr("STORE_BACKEND", StoreSQLite),
		GoogleCloudProject: os.Getenv("GOOGLE_CLOUD_PROJECT"),
		AuthMode:           EnvOr("AUTH_MODE", AuthJWT),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		JWTIssuer:          EnvOr("JWT_ISSUER", "household-shopping"),
		SessionBackend:     EnvOr("SESSION_BACKEND", SessionSQLite),
		RedisURL:           os.Getenv("REDIS_URL"),
		TelegramBotToken:   os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramWebhookURL: os.Getenv("TELEGRAM_WEBHOOK_URL"),
	}

	switch cfg.StoreBackend {
	case StoreSQLite:
	case StoreFirestore:
		if cfg.GoogleCloudProject == "" {
			return nil, fmt.Errorf("GOOGLE_CLOUD_PROJECT environment variable not set")
		}
	default:
		return nil, fmt.Errorf("STORE_BACKEND must be %q or %q, got %q", StoreSQLite, StoreFirestore, cfg.StoreBackend)
	}

	switch cfg.AuthMode {
	case AuthJWT:
		if cfg.JWTSecret == "" {
			return nil, fmt.Errorf("JWT_SECRET environment variable not set")
		}
	case AuthFirebase:
		if cfg.GoogleCloudProject == "" {
			return nil, fmt.Errorf("GOOGLE_CLOUD_PROJECT environment variable not set")
		}
	default:
		return nil, fmt.Errorf("AUTH_MODE must be %q or %q, got %q", AuthJWT, AuthFirebase, cfg.AuthMode)
	}

	switch cfg.SessionBackend {
	case SessionSQLite:
	case SessionRedis:
		if cfg.RedisURL == "" {
			return nil, fmt.Errorf("REDIS_URL environment variable not set")
		}
	default:
		return nil, fmt.Errorf("SESSION_BACKEND must be %q or %q, got %q", SessionSQLite, SessionRedis, cfg.SessionBackend)
	}

	// Telegram Config (optional; both token and webhook enable the bot)
	ids, err := parseIDs(os.Getenv("TELEGRAM_ALLOWED_USER_IDS"))
	if err != nil {
		return nil, fmt.Errorf("TELEGRAM_ALLOWED_USER_IDS: %w", err)
	}
	cfg.TelegramAllowedUserIDs = ids

	if s := os.Getenv("ADMIN_TELEGRAM_ID"); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("ADMIN_TELEGRAM_ID: invalid id %q", s)
		}
		cfg.AdminTelegramID = id
	}

	return cfg, nil
}

// TelegramEnabled reports whether the bot should run.
func (c *Config) TelegramEnabled() bool {
	return c.TelegramBotToken != "" && c.TelegramWebhookURL != ""
}

func parseIDs(s string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
