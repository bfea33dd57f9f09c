package config

import (
	"fmt"
	"os"

	"github.com/JaimeStill/esgdash/pkg/formatting"
	"github.com/JaimeStill/esgdash/pkg/middleware"
	"github.com/JaimeStill/esgdash/pkg/openapi"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "ESGDASH_CORS_ENABLED",
	Origins:          "ESGDASH_CORS_ORIGINS",
	AllowedMethods:   "ESGDASH_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "ESGDASH_CORS_ALLOWED_HEADERS",
	AllowCredentials: "ESGDASH_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "ESGDASH_CORS_MAX_AGE",
}

var openapiEnv = &openapi.ConfigEnv{
	Title:       "ESGDASH_OPENAPI_TITLE",
	Description: "ESGDASH_OPENAPI_DESCRIPTION",
}

var rateLimitEnv = &middleware.RateLimitEnv{
	RPS:   "ESGDASH_API_UPLOAD_RPS",
	Burst: "ESGDASH_API_UPLOAD_BURST",
}

// APIConfig holds API routing, CORS, upload rate limit, and OpenAPI settings.
type APIConfig struct {
	BasePath      string                     `toml:"base_path"`
	MaxUploadSize string                     `toml:"max_upload_size"`
	CORS          middleware.CORSConfig      `toml:"cors"`
	UploadLimit   middleware.RateLimitConfig `toml:"upload_limit"`
	OpenAPI       openapi.Config             `toml:"openapi"`
}

func (c *APIConfig) MaxUploadSizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxUploadSize)
	if err != nil {
		return 50 * 1024 * 1024 // 50MB fallback
	}
	return size
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested CORS and rate limit configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if _, err := formatting.ParseBytes(c.MaxUploadSize); err != nil {
		return fmt.Errorf("invalid max_upload_size: %w", err)
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.UploadLimit.Finalize(rateLimitEnv); err != nil {
		return fmt.Errorf("upload_limit: %w", err)
	}
	if err := c.OpenAPI.Finalize(openapiEnv); err != nil {
		return fmt.Errorf("openapi: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxUploadSize != "" {
		c.MaxUploadSize = overlay.MaxUploadSize
	}

	c.CORS.Merge(&overlay.CORS)
	c.UploadLimit.Merge(&overlay.UploadLimit)
	c.OpenAPI.Merge(&overlay.OpenAPI)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxUploadSize == "" {
		c.MaxUploadSize = "50MB"
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv("ESGDASH_API_BASE_PATH"); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv("ESGDASH_API_MAX_UPLOAD_SIZE"); v != "" {
		c.MaxUploadSize = v
	}
}
