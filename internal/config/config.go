package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/esgdash/internal/dashboard"
	"github.com/JaimeStill/esgdash/internal/filesapi"
	"github.com/JaimeStill/esgdash/internal/validation"
	"github.com/JaimeStill/esgdash/pkg/database"
	"github.com/JaimeStill/esgdash/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvEsgdashEnv             = "ESGDASH_ENV"
	EnvEsgdashShutdownTimeout = "ESGDASH_SHUTDOWN_TIMEOUT"
	EnvEsgdashVersion         = "ESGDASH_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "ESGDASH_DB_HOST",
	Port:            "ESGDASH_DB_PORT",
	Name:            "ESGDASH_DB_NAME",
	User:            "ESGDASH_DB_USER",
	Password:        "ESGDASH_DB_PASSWORD",
	SSLMode:         "ESGDASH_DB_SSL_MODE",
	MaxOpenConns:    "ESGDASH_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "ESGDASH_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "ESGDASH_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "ESGDASH_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	ContainerName:    "ESGDASH_STORAGE_CONTAINER_NAME",
	ConnectionString: "ESGDASH_STORAGE_CONNECTION_STRING",
	ServiceURL:       "ESGDASH_STORAGE_SERVICE_URL",
}

var validationEnv = &validation.Env{
	Keywords: "ESGDASH_VALIDATION_KEYWORDS",
	MaxPages: "ESGDASH_VALIDATION_MAX_PAGES",
	MaxBytes: "ESGDASH_VALIDATION_MAX_BYTES",
}

var clientEnv = &filesapi.Env{
	BaseURL:             "ESGDASH_CLIENT_BASE_URL",
	Timeout:             "ESGDASH_CLIENT_TIMEOUT",
	BreakerMinRequests:  "ESGDASH_CLIENT_BREAKER_MIN_REQUESTS",
	BreakerFailureRatio: "ESGDASH_CLIENT_BREAKER_FAILURE_RATIO",
	BreakerOpenTimeout:  "ESGDASH_CLIENT_BREAKER_OPEN_TIMEOUT",
}

var dashboardEnv = &dashboard.Env{
	Enabled:  "ESGDASH_DASHBOARD_ENABLED",
	Locale:   "ESGDASH_DASHBOARD_LOCALE",
	BasePath: "ESGDASH_DASHBOARD_BASE_PATH",
}

// Config is the root configuration for the esgdash service and CLI.
type Config struct {
	Server          ServerConfig      `toml:"server"`
	Logging         LoggingConfig     `toml:"logging"`
	Database        database.Config   `toml:"database"`
	Storage         storage.Config    `toml:"storage"`
	API             APIConfig         `toml:"api"`
	Validation      validation.Config `toml:"validation"`
	Client          filesapi.Config   `toml:"client"`
	Dashboard       dashboard.Config  `toml:"dashboard"`
	ShutdownTimeout string            `toml:"shutdown_timeout"`
	Version         string            `toml:"version"`
}

// Env returns the ESGDASH_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvEsgdashEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	return LoadFrom(BaseConfigFile)
}

// LoadFrom is Load with an explicit base file path. The overlay is resolved
// next to the base file.
func LoadFrom(base string) (*Config, error) {
	cfg, err := read(base)
	if err != nil {
		return nil, err
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// LoadClient reads the same files as LoadFrom but finalizes only the sections
// an API client needs: logging, validation, client, and dashboard. Server,
// database, and storage sections are left as read.
func LoadClient(base string) (*Config, error) {
	cfg, err := read(base)
	if err != nil {
		return nil, err
	}

	if err := cfg.finalizeClient(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

func read(base string) (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(base); err == nil {
		loaded, err := load(base)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(base); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Logging.Merge(&overlay.Logging)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.API.Merge(&overlay.API)
	c.Validation.Merge(&overlay.Validation)
	c.Client.Merge(&overlay.Client)
	c.Dashboard.Merge(&overlay.Dashboard)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	return c.finalizeClient()
}

func (c *Config) finalizeClient() error {
	if err := c.Logging.Finalize(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if err := c.Validation.Finalize(validationEnv); err != nil {
		return fmt.Errorf("validation: %w", err)
	}
	if err := c.Client.Finalize(clientEnv); err != nil {
		return fmt.Errorf("client: %w", err)
	}
	if err := c.Dashboard.Finalize(dashboardEnv); err != nil {
		return fmt.Errorf("dashboard: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvEsgdashShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvEsgdashVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath(base string) string {
	if env := os.Getenv(EnvEsgdashEnv); env != "" {
		path := filepath.Join(filepath.Dir(base), fmt.Sprintf(OverlayConfigPattern, env))
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
