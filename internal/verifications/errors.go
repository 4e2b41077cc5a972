package verifications

import (
	"errors"
	"fmt"
	"net/http"
)

// Domain errors for verification operations.
var (
	ErrNotFound     = errors.New("verification not found")
	ErrInvalidState = errors.New("invalid verification state")
	ErrValidation   = errors.New("invalid verification input")
)

// InvalidStateError reports an operation attempted against a workflow
// whose current status does not permit it.
type InvalidStateError struct {
	Current   Status
	Requested Status
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf(
		"operation not permitted while verification is %s",
		e.Current,
	)
}

// Is makes InvalidStateError match ErrInvalidState under errors.Is.
func (e *InvalidStateError) Is(target error) bool {
	return target == ErrInvalidState
}

// MapHTTPStatus maps verification domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
