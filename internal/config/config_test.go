package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func TestLoadWithoutFilesUsesDefaults(t *testing.T) {
	settings, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, Default(), settings)
	assert.Equal(t, "127.0.0.1:8000", settings.Application.Address())
}

func TestLoadReadsYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileName, `
application:
  port: 9000
  service_name: subs
database:
  host: db.internal
  database_name: newsletter_test
  require_ssl: true
  conn_max_lifetime: 5m
store:
  backend: memory
`)

	settings, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 9000, settings.Application.Port)
	assert.Equal(t, "subs", settings.Application.ServiceName)
	assert.Equal(t, "127.0.0.1", settings.Application.Host)
	assert.Equal(t, "db.internal", settings.Database.Host)
	assert.Equal(t, "newsletter_test", settings.Database.DatabaseName)
	assert.True(t, settings.Database.RequireSSL)
	assert.Equal(t, 5*time.Minute, settings.Database.ConnMaxLifetime)
	assert.Equal(t, BackendMemory, settings.Store.Backend)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileName, "application:\n  port: 9000\n")
	t.Setenv("APP_APPLICATION__PORT", "9100")
	t.Setenv("APP_DATABASE__HOST", "10.0.0.5")
	t.Setenv("APP_TELEMETRY__STDOUT_EXPORTER", "true")
	t.Setenv("APP_DATABASE__CONN_MAX_LIFETIME", "90s")

	settings, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 9100, settings.Application.Port)
	assert.Equal(t, "10.0.0.5", settings.Database.Host)
	assert.True(t, settings.Telemetry.StdoutExporter)
	assert.Equal(t, 90*time.Second, settings.Database.ConnMaxLifetime)
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".env", "APP_DATABASE__PASSWORD=from-dotenv\n")
	t.Cleanup(func() { os.Unsetenv("APP_DATABASE__PASSWORD") })

	settings, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "from-dotenv", settings.Database.Password)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		yaml string
	}{
		{name: "non numeric port", env: map[string]string{"APP_APPLICATION__PORT": "http"}},
		{name: "port out of range", env: map[string]string{"APP_APPLICATION__PORT": "70000"}},
		{name: "bad bool", env: map[string]string{"APP_DATABASE__REQUIRE_SSL": "maybe"}},
		{name: "bad duration", env: map[string]string{"APP_DATABASE__CONN_MAX_LIFETIME": "forever"}},
		{name: "unknown backend", env: map[string]string{"APP_STORE__BACKEND": "mongo"}},
		{name: "malformed yaml", yaml: "application: [port"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if tt.yaml != "" {
				writeFile(t, dir, FileName, tt.yaml)
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load(dir)
			assert.Error(t, err)
		})
	}
}

func TestConnectionStrings(t *testing.T) {
	db := DatabaseSettings{
		Host:         "localhost",
		Port:         5432,
		Username:     "postgres",
		Password:     `pa'ss`,
		DatabaseName: "newsletter",
	}

	assert.Equal(t,
		`host='localhost' port=5432 user='postgres' password='pa\'ss' sslmode=disable`,
		db.WithoutDB())
	assert.Equal(t,
		`host='localhost' port=5432 user='postgres' password='pa\'ss' sslmode=disable dbname='newsletter'`,
		db.ConnectionString())

	db.RequireSSL = true
	assert.Contains(t, db.WithoutDB(), "sslmode=require")
}
