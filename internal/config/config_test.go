package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "ALLOWED_ORIGIN", "OPENAI_STT_MODEL", "SESSION_TTL", "MAX_SESSIONS", "SESSION_SWEEP_INTERVAL", "DB_URL", "ARCHIVE_DIR"} {
		t.Setenv(k, "")
	}
	cfg := Load(filepath.Join(t.TempDir(), "missing.env"))
	if cfg.Port != "8080" || cfg.AllowedOrigin != "*" || cfg.STTModel != "whisper-1" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.SessionTTL != 2*time.Hour || cfg.MaxSessions != 10_000 || cfg.SessionSweepInterval != time.Minute {
		t.Fatalf("unexpected session defaults: %+v", cfg)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SESSION_TTL", "15m")
	t.Setenv("MAX_SESSIONS", "50")
	t.Setenv("RETELL_WEBHOOK_SECRET", "shh")
	cfg := Load(filepath.Join(t.TempDir(), "missing.env"))
	if cfg.Port != "9090" || cfg.SessionTTL != 15*time.Minute || cfg.MaxSessions != 50 || cfg.RetellWebhookSecret != "shh" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestInvalidNumbersFallBack(t *testing.T) {
	t.Setenv("SESSION_TTL", "soon")
	t.Setenv("MAX_SESSIONS", "-3")
	cfg := Load(filepath.Join(t.TempDir(), "missing.env"))
	if cfg.SessionTTL != 2*time.Hour || cfg.MaxSessions != 10_000 {
		t.Fatalf("expected fallbacks, got %+v", cfg)
	}
}

func TestLoadEnvFile(t *testing.T) {
	t.Setenv("ARCHIVE_DIR", "")
	os.Unsetenv("ARCHIVE_DIR")
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("ARCHIVE_DIR=/tmp/calls\n"), 0o600); err != nil {
		t.Fatalf("write env: %v", err)
	}
	cfg := Load(path)
	if cfg.ArchiveDir != "/tmp/calls" {
		t.Fatalf("expected ARCHIVE_DIR from env file, got %q", cfg.ArchiveDir)
	}
}
