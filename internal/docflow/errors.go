package docflow

import (
	"errors"
	"net/http"
)

// Error categories. Engine errors wrap exactly one of these so callers can
// classify them with errors.Is while the message keeps the detail.
var (
	ErrNotFound  = errors.New("not found")
	ErrBadInput  = errors.New("bad input")
	ErrBadState  = errors.New("bad state")
	ErrForbidden = errors.New("forbidden")
)

// HTTPStatus maps an engine error to the status code an HTTP boundary should return.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrBadInput), errors.Is(err, ErrBadState):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
