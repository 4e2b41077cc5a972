package prompts

import (
	"errors"
	"net/http"
)

// Domain errors for prompt operations.
var (
	ErrNotFound = errors.New("prompt not found")
	ErrNoActive = errors.New("no active prompt configured")
	ErrEmpty    = errors.New("prompt role and tasks must not be empty")
)

// MapHTTPStatus maps prompt domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrNoActive) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrEmpty) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
