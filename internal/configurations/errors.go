package configurations

import (
	"errors"
	"net/http"
)

// Domain errors for configuration operations.
var (
	ErrNotFound     = errors.New("configuration not found")
	ErrDuplicate    = errors.New("configuration already exists")
	ErrConflict     = errors.New("configuration was updated by another process")
	ErrInvalidGroup = errors.New("group must be MODEL_IDS or INFERENCE_PARAMS")
)

// MapHTTPStatus maps configuration domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) || errors.Is(err, ErrConflict) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidGroup) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
