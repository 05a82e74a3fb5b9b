package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	AllowedOrigin string
	// Speech-to-text for the browser voice endpoint
	OpenAIAPIKey string
	STTModel     string
	// Telephony platform
	RetellWebhookSecret string
	// Call archive: Postgres when DatabaseURL is set, otherwise JSON files
	// under ArchiveDir when that is set, otherwise disabled.
	DatabaseURL string
	ArchiveDir  string
	// Session eviction
	SessionTTL           time.Duration
	MaxSessions          int
	SessionSweepInterval time.Duration
}

// Load reads configuration from the environment, after loading envFiles (or
// .env when none are given). Missing env files are ignored.
func Load(envFiles ...string) Config {
	_ = godotenv.Load(envFiles...)
	cfg := Config{
		Port:                 getEnvDefault("PORT", "8080"),
		AllowedOrigin:        getEnvDefault("ALLOWED_ORIGIN", "*"),
		OpenAIAPIKey:         os.Getenv("OPENAI_API_KEY"),
		STTModel:             getEnvDefault("OPENAI_STT_MODEL", "whisper-1"),
		RetellWebhookSecret:  os.Getenv("RETELL_WEBHOOK_SECRET"),
		DatabaseURL:          os.Getenv("DB_URL"),
		ArchiveDir:           os.Getenv("ARCHIVE_DIR"),
		SessionTTL:           getEnvDurationDefault("SESSION_TTL", 2*time.Hour),
		MaxSessions:          getEnvIntDefault("MAX_SESSIONS", 10_000),
		SessionSweepInterval: getEnvDurationDefault("SESSION_SWEEP_INTERVAL", time.Minute),
	}
	if cfg.RetellWebhookSecret == "" {
		log.Println("warning: RETELL_WEBHOOK_SECRET is not set; webhook signatures will not be verified")
	}
	if cfg.OpenAIAPIKey == "" {
		log.Println("warning: OPENAI_API_KEY is not set; /api/voice will be unavailable")
	}
	return cfg
}

func getEnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvIntDefault(key string, def int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil && n >= 0 {
			return n
		}
		log.Printf("warning: invalid %s=%q, using %d", key, v, def)
	}
	return def
}

func getEnvDurationDefault(key string, def time.Duration) time.Duration {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		d, err := time.ParseDuration(v)
		if err == nil && d >= 0 {
			return d
		}
		log.Printf("warning: invalid %s=%q, using %s", key, v, def)
	}
	return def
}
