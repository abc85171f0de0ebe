package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	// Registers the postgres driver for database/sql.
	_ "github.com/lib/pq"

	"compliancecore/internal/platform/config"
)

// Open connects to PostgreSQL and validates the connection. Returns nil if
// the URL is empty (PostgreSQL not configured; stores fall back to memory).
func Open(ctx context.Context, cfg config.PostgresConfig) (*sql.DB, error) {
	if cfg.URL == "" {
		return nil, nil
	}

	db, err := sql.Open("postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}

	return db, nil
}
