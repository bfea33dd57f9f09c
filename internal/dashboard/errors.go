package dashboard

import (
	"errors"

	"github.com/JaimeStill/esgdash/internal/validation"
)

var (
	// ErrValidationRejected matches any rejection returned by Stage.
	ErrValidationRejected = validation.ErrRejected
	ErrNoPendingFile      = errors.New("no file staged for upload")
	ErrBusy               = errors.New("upload already in progress")
	ErrNotConfirmed       = errors.New("deletion not confirmed")
)
