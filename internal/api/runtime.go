package api

import (
	"github.com/JaimeStill/esgdash/internal/config"
	"github.com/JaimeStill/esgdash/internal/infrastructure"
	"github.com/JaimeStill/esgdash/internal/validation"
	"github.com/JaimeStill/esgdash/pkg/pdftext"
)

// Runtime extends Infrastructure with the server-side upload validator.
type Runtime struct {
	*infrastructure.Infrastructure
	Validator validation.Validator
}

// NewRuntime creates an API runtime with a module-scoped logger.
// Verdicts from the validator are recorded on the shared metrics system.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	logger := infra.Logger.With("module", "api")

	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    logger,
			Metrics:   infra.Metrics,
			Database:  infra.Database,
			Storage:   infra.Storage,
		},
		Validator: validation.New(
			&cfg.Validation,
			pdftext.New(),
			infra.Metrics,
			logger,
		),
	}
}
