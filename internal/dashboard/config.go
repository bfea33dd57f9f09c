package dashboard

import (
	"fmt"
	"os"
	"strconv"

	"golang.org/x/text/language"
)

// Config controls the operator dashboard.
type Config struct {
	Enabled  *bool  `toml:"enabled"`
	Locale   string `toml:"locale"`
	BasePath string `toml:"base_path"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Enabled  string
	Locale   string
	BasePath string
}

// IsEnabled reports whether the dashboard is served. Defaults to true.
func (c *Config) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// LocaleTag returns Locale as a language tag for name collation.
func (c *Config) LocaleTag() language.Tag {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.Korean
	}
	return tag
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Enabled != nil {
		c.Enabled = overlay.Enabled
	}
	if overlay.Locale != "" {
		c.Locale = overlay.Locale
	}
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
}

func (c *Config) loadDefaults() {
	if c.Locale == "" {
		c.Locale = "ko"
	}
	if c.BasePath == "" {
		c.BasePath = "/dashboard"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Enabled != "" {
		if v := os.Getenv(env.Enabled); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				c.Enabled = &b
			}
		}
	}
	if env.Locale != "" {
		if v := os.Getenv(env.Locale); v != "" {
			c.Locale = v
		}
	}
	if env.BasePath != "" {
		if v := os.Getenv(env.BasePath); v != "" {
			c.BasePath = v
		}
	}
}

func (c *Config) validate() error {
	if _, err := language.Parse(c.Locale); err != nil {
		return fmt.Errorf("invalid locale %q: %w", c.Locale, err)
	}
	return nil
}
