package api

import (
	"fmt"
	"maps"
	"net/http"

	"github.com/JaimeStill/esgdash/internal/config"
	"github.com/JaimeStill/esgdash/internal/files"
	"github.com/JaimeStill/esgdash/pkg/openapi"
	"github.com/JaimeStill/esgdash/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
) error {
	spec, err := buildSpec(cfg)
	if err != nil {
		return err
	}

	routes.Register(
		mux,
		domain.Files.Handler(cfg.API.MaxUploadSizeBytes()).Routes(),
		routes.Group{
			Routes: []routes.Route{
				{Method: "GET", Pattern: "/openapi.json", Handler: openapi.ServeSpec(spec)},
			},
		},
	)
	return nil
}

func buildSpec(cfg *config.Config) ([]byte, error) {
	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.AddServer(cfg.API.BasePath)
	spec.Components.AddSchemas(files.Schemas())

	maps.Copy(spec.Paths, files.Paths())

	data, err := openapi.MarshalJSON(spec)
	if err != nil {
		return nil, fmt.Errorf("marshal openapi spec: %w", err)
	}
	return data, nil
}
