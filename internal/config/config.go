// Package config loads process settings once at startup from a YAML file,
// an optional .env file and APP_-prefixed environment variables, in that
// order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	FileName  = "configuration.yaml"
	envPrefix = "APP_"
)

const (
	BackendPostgres = "postgres"
	BackendDapr     = "dapr"
	BackendMemory   = "memory"
)

type Settings struct {
	Application ApplicationSettings `yaml:"application"`
	Database    DatabaseSettings    `yaml:"database"`
	Store       StoreSettings       `yaml:"store"`
	Telemetry   TelemetrySettings   `yaml:"telemetry"`
}

type ApplicationSettings struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	ServiceName    string `yaml:"service_name"`
	ServiceVersion string `yaml:"service_version"`
	GinMode        string `yaml:"gin_mode"`
}

type DatabaseSettings struct {
	Host               string        `yaml:"host"`
	Port               int           `yaml:"port"`
	Username           string        `yaml:"username"`
	Password           string        `yaml:"password"`
	DatabaseName       string        `yaml:"database_name"`
	RequireSSL         bool          `yaml:"require_ssl"`
	MaxOpenConnections int           `yaml:"max_open_connections"`
	MaxIdleConnections int           `yaml:"max_idle_connections"`
	ConnMaxLifetime    time.Duration `yaml:"conn_max_lifetime"`
}

type StoreSettings struct {
	Backend        string `yaml:"backend"`
	DaprStateStore string `yaml:"dapr_state_store"`
}

type TelemetrySettings struct {
	StdoutExporter bool `yaml:"stdout_exporter"`
}

func Default() *Settings {
	return &Settings{
		Application: ApplicationSettings{
			Host:           "127.0.0.1",
			Port:           8000,
			ServiceName:    "newsletter",
			ServiceVersion: "1.0.0",
		},
		Database: DatabaseSettings{
			Host:               "127.0.0.1",
			Port:               5432,
			Username:           "postgres",
			Password:           "password",
			DatabaseName:       "newsletter",
			MaxOpenConnections: 10,
			MaxIdleConnections: 10,
			ConnMaxLifetime:    30 * time.Minute,
		},
		Store: StoreSettings{
			Backend:        BackendPostgres,
			DaprStateStore: "statestore",
		},
	}
}

// Load builds Settings from dir/configuration.yaml and dir/.env, both
// optional, then applies environment overrides and validates the result.
func Load(dir string) (*Settings, error) {
	settings := Default()

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, settings); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", FileName, err)
		}
	case !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("failed to read %s: %w", FileName, err)
	}

	if err := godotenv.Load(filepath.Join(dir, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if err := settings.applyEnv(); err != nil {
		return nil, err
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

func (s *Settings) Validate() error {
	if s.Application.Port < 0 || s.Application.Port > 65535 {
		return fmt.Errorf("invalid application port: %d", s.Application.Port)
	}
	if s.Application.ServiceName == "" {
		return errors.New("application service name must not be empty")
	}
	switch s.Store.Backend {
	case BackendPostgres:
		if s.Database.Host == "" || s.Database.DatabaseName == "" {
			return errors.New("database host and database name are required for the postgres backend")
		}
	case BackendDapr:
		if s.Store.DaprStateStore == "" {
			return errors.New("dapr state store name is required for the dapr backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unsupported store backend: %q", s.Store.Backend)
	}
	return nil
}

// applyEnv maps APP_<SECTION>__<FIELD> variables onto the settings.
func (s *Settings) applyEnv() error {
	strs := map[string]*string{
		"APPLICATION__HOST":            &s.Application.Host,
		"APPLICATION__SERVICE_NAME":    &s.Application.ServiceName,
		"APPLICATION__SERVICE_VERSION": &s.Application.ServiceVersion,
		"APPLICATION__GIN_MODE":        &s.Application.GinMode,
		"DATABASE__HOST":               &s.Database.Host,
		"DATABASE__USERNAME":           &s.Database.Username,
		"DATABASE__PASSWORD":           &s.Database.Password,
		"DATABASE__DATABASE_NAME":      &s.Database.DatabaseName,
		"STORE__BACKEND":               &s.Store.Backend,
		"STORE__DAPR_STATE_STORE":      &s.Store.DaprStateStore,
	}
	for key, dst := range strs {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"APPLICATION__PORT":              &s.Application.Port,
		"DATABASE__PORT":                 &s.Database.Port,
		"DATABASE__MAX_OPEN_CONNECTIONS": &s.Database.MaxOpenConnections,
		"DATABASE__MAX_IDLE_CONNECTIONS": &s.Database.MaxIdleConnections,
	}
	for key, dst := range ints {
		v, ok := lookup(key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid int for %s%s: %q", envPrefix, key, v)
		}
		*dst = n
	}

	bools := map[string]*bool{
		"DATABASE__REQUIRE_SSL":      &s.Database.RequireSSL,
		"TELEMETRY__STDOUT_EXPORTER": &s.Telemetry.StdoutExporter,
	}
	for key, dst := range bools {
		v, ok := lookup(key)
		if !ok {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid bool for %s%s: %q", envPrefix, key, v)
		}
		*dst = b
	}

	if v, ok := lookup("DATABASE__CONN_MAX_LIFETIME"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid duration for %sDATABASE__CONN_MAX_LIFETIME: %q", envPrefix, v)
		}
		s.Database.ConnMaxLifetime = d
	}
	return nil
}

func lookup(key string) (string, bool) {
	return os.LookupEnv(envPrefix + key)
}

func (a ApplicationSettings) Address() string {
	return net.JoinHostPort(a.Host, strconv.Itoa(a.Port))
}

// ConnectionString is a lib/pq key/value DSN for the configured database.
func (d DatabaseSettings) ConnectionString() string {
	return d.WithoutDB() + " dbname=" + quote(d.DatabaseName)
}

// WithoutDB omits dbname so the server default (the user's database)
// is used. It is meant for maintenance statements such as CREATE DATABASE.
func (d DatabaseSettings) WithoutDB() string {
	sslMode := "disable"
	if d.RequireSSL {
		sslMode = "require"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s sslmode=%s",
		quote(d.Host), d.Port, quote(d.Username), quote(d.Password), sslMode)
}

func quote(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}
