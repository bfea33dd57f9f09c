package main

import (
	"encoding/json"
	"net/http"

	"github.com/JaimeStill/esgdash/internal/api"
	"github.com/JaimeStill/esgdash/internal/config"
	dash "github.com/JaimeStill/esgdash/internal/dashboard"
	"github.com/JaimeStill/esgdash/internal/filesapi"
	"github.com/JaimeStill/esgdash/internal/infrastructure"
	"github.com/JaimeStill/esgdash/internal/registry"
	"github.com/JaimeStill/esgdash/internal/validation"
	"github.com/JaimeStill/esgdash/pkg/middleware"
	"github.com/JaimeStill/esgdash/pkg/module"
	"github.com/JaimeStill/esgdash/pkg/pdftext"
	"github.com/JaimeStill/esgdash/web/dashboard"
)

type Modules struct {
	API       *module.Module
	Dashboard *module.Module
}

func NewModules(infra *infrastructure.Infrastructure, cfg *config.Config) (*Modules, error) {
	apiModule, err := api.NewModule(cfg, infra)
	if err != nil {
		return nil, err
	}

	modules := &Modules{API: apiModule}

	if cfg.Dashboard.IsEnabled() {
		dashModule, err := newDashboardModule(infra, cfg)
		if err != nil {
			return nil, err
		}
		modules.Dashboard = dashModule
	}

	return modules, nil
}

// newDashboardModule builds the operator page over an HTTP client of the
// files API, the same path an external dashboard takes.
func newDashboardModule(infra *infrastructure.Infrastructure, cfg *config.Config) (*module.Module, error) {
	logger := infra.Logger.With("module", "dashboard")

	client := filesapi.New(&cfg.Client, nil, logger)
	validator := validation.New(&cfg.Validation, pdftext.New(), infra.Metrics, logger)
	flash := dashboard.NewFlash()

	d := dash.New(
		validator,
		registry.New(client, logger),
		flash,
		cfg.Dashboard.LocaleTag(),
		logger,
	)

	infra.Lifecycle.OnShutdown(func() {
		<-infra.Lifecycle.Context().Done()
		d.Close()
	})

	m, err := dashboard.NewModule(d, flash, dashboard.Options{
		BasePath:      cfg.Dashboard.BasePath,
		APIPath:       cfg.API.BasePath,
		MaxUploadSize: cfg.API.MaxUploadSizeBytes(),
	}, logger)
	if err != nil {
		return nil, err
	}
	m.Use(middleware.Logger(logger))
	return m, nil
}

func (m *Modules) Mount(router *module.Router) {
	router.Mount(m.API)
	if m.Dashboard != nil {
		router.Mount(m.Dashboard)
	}
}

func buildRouter(infra *infrastructure.Infrastructure, cfg *config.Config) *module.Router {
	router := module.NewRouter()

	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	router.HandleNative("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if !infra.Lifecycle.Ready() {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]string{"status": "not ready"})
			return
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ready"})
	})

	router.HandleNative("GET /metrics", infra.Metrics.Handler().ServeHTTP)

	if cfg.Dashboard.IsEnabled() {
		target := cfg.Dashboard.BasePath + "/"
		router.HandleNative("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, target, http.StatusFound)
		})
	}

	return router
}
