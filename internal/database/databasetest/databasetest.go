// Package databasetest provisions an isolated, migrated Postgres database
// per test. Tests using it are skipped unless TEST_DATABASE_HOST is set.
package databasetest

import (
	"context"
	"database/sql"
	"os"
	"strconv"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"newsletter-go/internal/config"
	"newsletter-go/internal/database"
)

// Settings returns connection settings for the test server, named after a
// fresh UUID. It skips t when no test server is configured.
func Settings(t *testing.T) config.DatabaseSettings {
	t.Helper()

	host := os.Getenv("TEST_DATABASE_HOST")
	if host == "" {
		t.Skip("TEST_DATABASE_HOST not set, skipping postgres test")
	}

	settings := config.Default().Database
	settings.Host = host
	settings.DatabaseName = uuid.NewString()
	if v := os.Getenv("TEST_DATABASE_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		require.NoError(t, err, "invalid TEST_DATABASE_PORT")
		settings.Port = port
	}
	if v := os.Getenv("TEST_DATABASE_USER"); v != "" {
		settings.Username = v
	}
	if v, ok := os.LookupEnv("TEST_DATABASE_PASSWORD"); ok {
		settings.Password = v
	}
	return settings
}

// Provision creates and migrates a uniquely named database and returns a
// pool connected to it. The database is dropped when the test ends.
func Provision(t *testing.T) (*sql.DB, config.DatabaseSettings) {
	t.Helper()
	settings := Settings(t)
	ctx := context.Background()

	require.NoError(t, database.CreateDatabase(ctx, settings))

	db, err := database.Open(ctx, settings)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
		_ = database.DropDatabase(context.Background(), settings)
	})

	_, err = database.Migrate(ctx, db)
	require.NoError(t, err)

	return db, settings
}
