package httpx

import (
	"errors"
	"net/http"
)

// Sentinel errors shared by the domain layer. Modules wrap these with
// fmt.Errorf("...: %w", ...) so handlers can map them uniformly.
var (
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("resource not found")
	ErrDuplicate    = errors.New("duplicate entry")
	ErrTooMany      = errors.New("too many requests")
)

// RespondError maps domain errors to the `{message}` error envelope.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		Message(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrUnauthorized):
		Message(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, ErrForbidden):
		Message(w, http.StatusForbidden, err.Error())
	case errors.Is(err, ErrNotFound):
		Message(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrDuplicate):
		Message(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrTooMany):
		Message(w, http.StatusTooManyRequests, err.Error())
	default:
		Message(w, http.StatusInternalServerError, "internal server error")
	}
}
