// Package status maps service errors to HTTP status codes for the handlers.
package status

import (
	"errors"
	"net/http"

	"clubconnect/entity"
)

func Code(err error) int {
	switch {
	case entity.IsConflict(err):
		return http.StatusConflict
	case errors.Is(err, entity.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, entity.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, entity.ErrInvalidPassword):
		return http.StatusUnauthorized
	case errors.Is(err, entity.ErrValidation),
		errors.Is(err, entity.ErrOtpExpired),
		errors.Is(err, entity.ErrOtpInvalid),
		errors.Is(err, entity.ErrOtpLockout),
		errors.Is(err, entity.ErrNotRegistered),
		errors.Is(err, entity.ErrTokenExpired):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the client-facing error text. Internal errors are masked so
// infrastructure details never leak into responses.
func Message(err error) string {
	if Code(err) == http.StatusInternalServerError {
		return "Internal server error"
	}
	return err.Error()
}
