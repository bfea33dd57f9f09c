package middleware

import (
	"fmt"
	"math"
	"net/http"
	"os"
	"strconv"

	"golang.org/x/time/rate"
)

// RateLimitConfig holds token bucket settings. A zero RPS disables limiting.
type RateLimitConfig struct {
	RPS   float64 `toml:"rps"`
	Burst int     `toml:"burst"`
}

// RateLimitEnv maps rate limit config fields to environment variable names.
type RateLimitEnv struct {
	RPS   string
	Burst string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *RateLimitConfig) Finalize(env *RateLimitEnv) error {
	if env != nil {
		c.loadEnv(env)
	}
	c.loadDefaults()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *RateLimitConfig) Merge(overlay *RateLimitConfig) {
	if overlay.RPS != 0 {
		c.RPS = overlay.RPS
	}
	if overlay.Burst != 0 {
		c.Burst = overlay.Burst
	}
}

func (c *RateLimitConfig) loadDefaults() {
	if c.RPS > 0 && c.Burst <= 0 {
		c.Burst = int(math.Ceil(c.RPS))
	}
}

func (c *RateLimitConfig) loadEnv(env *RateLimitEnv) {
	if env.RPS != "" {
		if v := os.Getenv(env.RPS); v != "" {
			if rps, err := strconv.ParseFloat(v, 64); err == nil {
				c.RPS = rps
			}
		}
	}
	if env.Burst != "" {
		if v := os.Getenv(env.Burst); v != "" {
			if burst, err := strconv.Atoi(v); err == nil {
				c.Burst = burst
			}
		}
	}
}

func (c *RateLimitConfig) validate() error {
	if c.RPS < 0 {
		return fmt.Errorf("rps must not be negative")
	}
	return nil
}

// RateLimit returns middleware that rejects requests beyond the configured rate
// with 429 and a Retry-After hint. Passes through when RPS is zero.
func RateLimit(cfg *RateLimitConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if cfg.RPS <= 0 {
			return next
		}

		limiter := rate.NewLimiter(rate.Limit(cfg.RPS), cfg.Burst)
		retryAfter := strconv.Itoa(int(math.Max(1, math.Ceil(1/cfg.RPS))))

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				w.Header().Set("Retry-After", retryAfter)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte(`{"error":"rate limit exceeded"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
