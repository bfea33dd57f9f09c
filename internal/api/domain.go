package api

import (
	"github.com/JaimeStill/esgdash/internal/files"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Files files.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	return &Domain{
		Files: files.New(
			runtime.Database.Connection(),
			runtime.Storage,
			runtime.Validator,
			runtime.Logger,
		),
	}
}
