package filesapi

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the storage API endpoint and circuit breaker settings.
type Config struct {
	BaseURL                 string  `toml:"base_url"`
	Timeout                 string  `toml:"timeout"`
	BreakerMinRequests      uint32  `toml:"breaker_min_requests"`
	BreakerFailureRatio     float64 `toml:"breaker_failure_ratio"`
	BreakerOpenTimeout      string  `toml:"breaker_open_timeout"`
	BreakerHalfOpenMaxCalls uint32  `toml:"breaker_half_open_max_calls"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	BaseURL             string
	Timeout             string
	BreakerMinRequests  string
	BreakerFailureRatio string
	BreakerOpenTimeout  string
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// BreakerOpenTimeoutDuration returns BreakerOpenTimeout as a time.Duration.
func (c *Config) BreakerOpenTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.BreakerOpenTimeout)
	return d
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
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.BreakerMinRequests != 0 {
		c.BreakerMinRequests = overlay.BreakerMinRequests
	}
	if overlay.BreakerFailureRatio != 0 {
		c.BreakerFailureRatio = overlay.BreakerFailureRatio
	}
	if overlay.BreakerOpenTimeout != "" {
		c.BreakerOpenTimeout = overlay.BreakerOpenTimeout
	}
	if overlay.BreakerHalfOpenMaxCalls != 0 {
		c.BreakerHalfOpenMaxCalls = overlay.BreakerHalfOpenMaxCalls
	}
}

func (c *Config) loadDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = "http://localhost:8080/api"
	}
	if c.Timeout == "" {
		c.Timeout = "30s"
	}
	if c.BreakerMinRequests == 0 {
		c.BreakerMinRequests = 5
	}
	if c.BreakerFailureRatio == 0 {
		c.BreakerFailureRatio = 0.6
	}
	if c.BreakerOpenTimeout == "" {
		c.BreakerOpenTimeout = "30s"
	}
	if c.BreakerHalfOpenMaxCalls == 0 {
		c.BreakerHalfOpenMaxCalls = 1
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.BaseURL != "" {
		if v := os.Getenv(env.BaseURL); v != "" {
			c.BaseURL = v
		}
	}
	if env.Timeout != "" {
		if v := os.Getenv(env.Timeout); v != "" {
			c.Timeout = v
		}
	}
	if env.BreakerMinRequests != "" {
		if v := os.Getenv(env.BreakerMinRequests); v != "" {
			if n, err := strconv.ParseUint(v, 10, 32); err == nil {
				c.BreakerMinRequests = uint32(n)
			}
		}
	}
	if env.BreakerFailureRatio != "" {
		if v := os.Getenv(env.BreakerFailureRatio); v != "" {
			if r, err := strconv.ParseFloat(v, 64); err == nil {
				c.BreakerFailureRatio = r
			}
		}
	}
	if env.BreakerOpenTimeout != "" {
		if v := os.Getenv(env.BreakerOpenTimeout); v != "" {
			c.BreakerOpenTimeout = v
		}
	}
}

func (c *Config) validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid base_url: %q", c.BaseURL)
	}
	c.BaseURL = strings.TrimSuffix(c.BaseURL, "/")

	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	if _, err := time.ParseDuration(c.BreakerOpenTimeout); err != nil {
		return fmt.Errorf("invalid breaker_open_timeout: %w", err)
	}
	if c.BreakerFailureRatio <= 0 || c.BreakerFailureRatio > 1 {
		return fmt.Errorf("breaker_failure_ratio must be in (0, 1]: %v", c.BreakerFailureRatio)
	}
	return nil
}
