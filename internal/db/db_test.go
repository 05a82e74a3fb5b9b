package db

import (
	"context"
	"io/fs"
	"strings"
	"testing"
)

func TestWithSSLDisabled(t *testing.T) {
	if got := withSSLDisabled("postgres://u@h/db"); got != "postgres://u@h/db?sslmode=disable" {
		t.Fatalf("unexpected url %q", got)
	}
	if got := withSSLDisabled("postgres://u@h/db?connect_timeout=5"); got != "postgres://u@h/db?connect_timeout=5&sslmode=disable" {
		t.Fatalf("unexpected url %q", got)
	}
}

func TestNewRequiresURL(t *testing.T) {
	if _, err := New(context.Background(), ""); err == nil {
		t.Fatalf("expected error for empty url")
	}
}

func TestMigrationsEmbedded(t *testing.T) {
	names, err := fs.Glob(migrationsFS, "migrations/*.sql")
	if err != nil || len(names) == 0 {
		t.Fatalf("expected embedded migrations, got %v (%v)", names, err)
	}
	b, err := fs.ReadFile(migrationsFS, names[0])
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	sql := string(b)
	if !strings.Contains(sql, "-- +goose Up") || !strings.Contains(sql, "call_records") {
		t.Fatalf("unexpected migration contents")
	}
}
