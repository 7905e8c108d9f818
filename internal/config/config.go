package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// FileEnv names the environment variable pointing at an optional YAML file
const FileEnv = "EMS_CONFIG_FILE"

// Store backends
const (
	BackendRemote    = "remote"
	BackendSurrealDB = "surrealdb"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Upstream  UpstreamConfig  `yaml:"upstream"`
	Store     StoreConfig     `yaml:"store"`
	JWT       JWTConfig       `yaml:"jwt"`
	Views     ViewsConfig     `yaml:"views"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port           string        `yaml:"port"            env:"SERVER_PORT"`
	Env            string        `yaml:"env"             env:"SERVER_ENV"`
	ReadTimeout    time.Duration `yaml:"read_timeout"    env:"SERVER_READ_TIMEOUT"`
	WriteTimeout   time.Duration `yaml:"write_timeout"   env:"SERVER_WRITE_TIMEOUT"`
	AllowedOrigins []string      `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
}

// UpstreamConfig holds the event platform client settings
type UpstreamConfig struct {
	BaseURL   string        `yaml:"base_url"   env:"UPSTREAM_BASE_URL"`
	Timeout   time.Duration `yaml:"timeout"    env:"UPSTREAM_TIMEOUT"`
	UserAgent string        `yaml:"user_agent" env:"UPSTREAM_USER_AGENT"`
}

// StoreConfig selects where event data is read from
type StoreConfig struct {
	Backend  string         `yaml:"backend" env:"STORE_BACKEND"`
	Database DatabaseConfig `yaml:"database"`
}

// DatabaseConfig holds SurrealDB connection settings
type DatabaseConfig struct {
	Host      string `yaml:"host"      env:"DB_HOST"`
	Port      string `yaml:"port"      env:"DB_PORT"`
	Namespace string `yaml:"namespace" env:"DB_NAMESPACE"`
	Database  string `yaml:"database"  env:"DB_DATABASE"`
	User      string `yaml:"user"      env:"DB_USER"`
	Password  string `yaml:"password"  env:"DB_PASSWORD"`
}

// JWTConfig holds bearer token verification settings. The private key is
// only read by the development token tool.
type JWTConfig struct {
	PrivateKeyPath  string `yaml:"private_key_path" env:"JWT_PRIVATE_KEY_PATH"`
	PublicKeyPath   string `yaml:"public_key_path"  env:"JWT_PUBLIC_KEY_PATH"`
	ExpirationMins  int    `yaml:"expiration_mins"  env:"JWT_EXPIRATION_MINS"`
	Issuer          string `yaml:"issuer"           env:"JWT_ISSUER"`
	AllowUnverified bool   `yaml:"allow_unverified" env:"JWT_ALLOW_UNVERIFIED"`
}

// ViewsConfig holds open view lifetime settings
type ViewsConfig struct {
	TTL           time.Duration `yaml:"ttl"            env:"VIEW_TTL"`
	SweepInterval time.Duration `yaml:"sweep_interval" env:"VIEW_SWEEP_INTERVAL"`
}

// TelemetryConfig holds trace export settings
type TelemetryConfig struct {
	Endpoint    string `yaml:"endpoint"     env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName string `yaml:"service_name" env:"OTEL_SERVICE_NAME"`
}

// Default returns the configuration used when nothing overrides it
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           "8080",
			Env:            "development",
			ReadTimeout:    15 * time.Second,
			WriteTimeout:   15 * time.Second,
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		Upstream: UpstreamConfig{
			BaseURL:   "http://localhost:8081",
			Timeout:   10 * time.Second,
			UserAgent: "ems-view-host",
		},
		Store: StoreConfig{
			Backend: BackendRemote,
			Database: DatabaseConfig{
				Host:      "localhost",
				Port:      "8000",
				Namespace: "ems",
				Database:  "main",
				User:      "root",
				Password:  "root",
			},
		},
		JWT: JWTConfig{
			PrivateKeyPath: "./keys/private.pem",
			PublicKeyPath:  "./keys/public.pem",
			ExpirationMins: 60,
		},
		Views: ViewsConfig{
			TTL:           30 * time.Minute,
			SweepInterval: time.Minute,
		},
		Telemetry: TelemetryConfig{
			ServiceName: "ems-view-host",
		},
	}
}

// Load reads configuration: defaults, then the YAML file named by
// EMS_CONFIG_FILE if set, then environment variables
func Load() (*Config, error) {
	return LoadFile(os.Getenv(FileEnv))
}

// LoadFile reads configuration with path as the YAML layer. An empty path
// skips the file.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	return cfg, nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// UsesStore returns true when event data comes from SurrealDB directly
func (c *Config) UsesStore() bool {
	return c.Store.Backend == BackendSurrealDB
}

// Validate checks that all required configuration values are present and valid.
// It returns an error describing all validation failures, or nil if valid.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port == "" {
		errs = append(errs, errors.New("SERVER_PORT is required"))
	}
	if c.Server.Env != "development" && c.Server.Env != "production" && c.Server.Env != "test" {
		errs = append(errs, fmt.Errorf("SERVER_ENV must be 'development', 'production', or 'test', got '%s'", c.Server.Env))
	}
	if len(c.Server.AllowedOrigins) == 0 {
		errs = append(errs, errors.New("CORS_ALLOWED_ORIGINS must have at least one origin"))
	}

	if u, err := url.Parse(c.Upstream.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("UPSTREAM_BASE_URL must be an absolute URL, got '%s'", c.Upstream.BaseURL))
	}
	if c.Upstream.Timeout <= 0 {
		errs = append(errs, errors.New("UPSTREAM_TIMEOUT must be positive"))
	}

	switch c.Store.Backend {
	case BackendRemote:
	case BackendSurrealDB:
		db := c.Store.Database
		if db.Host == "" {
			errs = append(errs, errors.New("DB_HOST is required for the surrealdb backend"))
		}
		if db.Port == "" {
			errs = append(errs, errors.New("DB_PORT is required for the surrealdb backend"))
		}
		if db.Namespace == "" {
			errs = append(errs, errors.New("DB_NAMESPACE is required for the surrealdb backend"))
		}
		if db.Database == "" {
			errs = append(errs, errors.New("DB_DATABASE is required for the surrealdb backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("STORE_BACKEND must be '%s' or '%s', got '%s'", BackendRemote, BackendSurrealDB, c.Store.Backend))
	}

	if c.IsProduction() {
		if c.JWT.PublicKeyPath == "" {
			errs = append(errs, errors.New("JWT_PUBLIC_KEY_PATH is required in production"))
		}
		if c.JWT.AllowUnverified {
			errs = append(errs, errors.New("JWT_ALLOW_UNVERIFIED must be false in production"))
		}
	}
	if c.JWT.ExpirationMins <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRATION_MINS must be positive"))
	}

	if c.Views.TTL <= 0 {
		errs = append(errs, errors.New("VIEW_TTL must be positive"))
	}
	if c.Views.SweepInterval <= 0 {
		errs = append(errs, errors.New("VIEW_SWEEP_INTERVAL must be positive"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
