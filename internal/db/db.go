// Package db opens the Postgres database that archives finished calls.
package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// DB wraps the database connection
type DB struct {
	*sql.DB
}

// New connects to Postgres. When the URL does not pin an sslmode and the
// first ping fails, it retries once with sslmode=disable, which is what local
// development databases usually need.
func New(ctx context.Context, url string) (*DB, error) {
	if url == "" {
		return nil, fmt.Errorf("database connection string is required")
	}

	sqlDB, err := open(ctx, url)
	if err != nil && !strings.Contains(strings.ToLower(url), "sslmode") {
		log.Println("[db] retrying database connection with SSL disabled")
		sqlDB, err = open(ctx, withSSLDisabled(url))
	}
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	return &DB{DB: sqlDB}, nil
}

func open(ctx context.Context, url string) (*sql.DB, error) {
	sqlDB, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return sqlDB, nil
}

func withSSLDisabled(url string) string {
	if strings.Contains(url, "?") {
		return url + "&sslmode=disable"
	}
	return url + "?sslmode=disable"
}

// HealthCheck verifies the database connection is healthy
func (db *DB) HealthCheck(ctx context.Context) error {
	return db.PingContext(ctx)
}

// RunMigrations applies the embedded migrations with goose.
func (db *DB) RunMigrations() error {
	goose.SetBaseFS(migrationsFS)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}
	if err := goose.Up(db.DB, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Println("[db] migrations completed")
	return nil
}
