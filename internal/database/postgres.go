// Package database owns the Postgres connection pool, the embedded schema
// migrations and the helpers tests use to provision throwaway databases.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"newsletter-go/internal/config"
)

const pingTimeout = 5 * time.Second

// Open connects to the configured database, applies the pool limits and
// verifies the connection.
func Open(ctx context.Context, settings config.DatabaseSettings) (*sql.DB, error) {
	db, err := sql.Open("postgres", settings.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(settings.MaxOpenConnections)
	db.SetMaxIdleConns(settings.MaxIdleConnections)
	db.SetConnMaxLifetime(settings.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to postgres at %s:%d: %w", settings.Host, settings.Port, err)
	}
	return db, nil
}

// CreateDatabase creates settings.DatabaseName through a maintenance
// connection to the server's default database.
func CreateDatabase(ctx context.Context, settings config.DatabaseSettings) error {
	return maintenance(ctx, settings, "CREATE DATABASE "+pq.QuoteIdentifier(settings.DatabaseName))
}

// DropDatabase removes settings.DatabaseName if it exists. Open pools to
// that database must be closed first.
func DropDatabase(ctx context.Context, settings config.DatabaseSettings) error {
	return maintenance(ctx, settings, "DROP DATABASE IF EXISTS "+pq.QuoteIdentifier(settings.DatabaseName))
}

func maintenance(ctx context.Context, settings config.DatabaseSettings, stmt string) error {
	conn, err := sql.Open("postgres", settings.WithoutDB())
	if err != nil {
		return fmt.Errorf("failed to open maintenance connection: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("failed to execute %q: %w", stmt, err)
	}
	return nil
}
