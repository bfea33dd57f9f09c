// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"net/http"

	"github.com/JaimeStill/esgdash/internal/config"
	"github.com/JaimeStill/esgdash/internal/infrastructure"
	"github.com/JaimeStill/esgdash/pkg/middleware"
	"github.com/JaimeStill/esgdash/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	mux := http.NewServeMux()
	if err := registerRoutes(mux, domain, cfg); err != nil {
		return nil, err
	}

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))
	m.Use(limitUploads(&cfg.API.UploadLimit))

	return m, nil
}

// limitUploads applies the upload rate limit to POST /files/upload only.
// Paths are module-relative once the prefix is stripped.
func limitUploads(cfg *middleware.RateLimitConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		limited := middleware.RateLimit(cfg)(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost && r.URL.Path == "/files/upload" {
				limited.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
