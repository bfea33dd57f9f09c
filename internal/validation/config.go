package validation

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/JaimeStill/esgdash/pkg/formatting"
)

// DefaultKeywords are the markers printed on the first pages of a KOSME ESG
// self-assessment report.
var DefaultKeywords = []string{"ESG", "자가진단보고서", "http://esg.kosmes.or.kr"}

// Config controls which documents the validator accepts.
type Config struct {
	Keywords []string `toml:"keywords"`
	MaxPages int      `toml:"max_pages"`
	MaxBytes string   `toml:"max_bytes"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Keywords string
	MaxPages string
	MaxBytes string
}

// MaxBytesValue returns MaxBytes as a byte count.
func (c *Config) MaxBytesValue() int64 {
	n, _ := formatting.ParseBytes(c.MaxBytes)
	return n
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
	if len(overlay.Keywords) > 0 {
		c.Keywords = overlay.Keywords
	}
	if overlay.MaxPages != 0 {
		c.MaxPages = overlay.MaxPages
	}
	if overlay.MaxBytes != "" {
		c.MaxBytes = overlay.MaxBytes
	}
}

func (c *Config) loadDefaults() {
	if len(c.Keywords) == 0 {
		c.Keywords = append([]string(nil), DefaultKeywords...)
	}
	if c.MaxPages == 0 {
		c.MaxPages = 3
	}
	if c.MaxBytes == "" {
		c.MaxBytes = "50MB"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Keywords != "" {
		if v := os.Getenv(env.Keywords); v != "" {
			c.Keywords = splitKeywords(v)
		}
	}
	if env.MaxPages != "" {
		if v := os.Getenv(env.MaxPages); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.MaxPages = n
			}
		}
	}
	if env.MaxBytes != "" {
		if v := os.Getenv(env.MaxBytes); v != "" {
			c.MaxBytes = v
		}
	}
}

func (c *Config) validate() error {
	if len(c.Keywords) == 0 {
		return fmt.Errorf("at least one keyword required")
	}
	for _, k := range c.Keywords {
		if strings.TrimSpace(k) == "" {
			return fmt.Errorf("keywords must not be blank")
		}
	}
	if c.MaxPages < 1 {
		return fmt.Errorf("max_pages must be positive: %d", c.MaxPages)
	}
	if _, err := formatting.ParseBytes(c.MaxBytes); err != nil {
		return fmt.Errorf("invalid max_bytes: %w", err)
	}
	return nil
}

func splitKeywords(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
