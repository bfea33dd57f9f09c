package files

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/esgdash/internal/validation"
)

// Domain errors for file operations.
var (
	ErrNotFound     = errors.New("file not found")
	ErrDuplicate    = errors.New("file already exists")
	ErrFileTooLarge = errors.New("file exceeds maximum upload size")
	ErrInvalidFile  = errors.New("invalid file")
)

// MapHTTPStatus maps file domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrFileTooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	if errors.Is(err, ErrInvalidFile) {
		return http.StatusBadRequest
	}
	if errors.Is(err, validation.ErrRejected) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
