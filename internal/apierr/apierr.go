package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is the typed failure every core component returns. The HTTP boundary
// maps Status verbatim; Code is stable and machine-readable.
type Error struct {
	Status int
	Code   string
	Msg    string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("api error (%d)", e.Status)
}

func (e *Error) Unwrap() error { return e.Err }

// Is makes errors.Is match on status+code so sentinel comparison works.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Status == t.Status && (t.Code == "" || t.Code == e.Code)
}

func New(status int, code, msg string) *Error {
	return &Error{Status: status, Code: code, Msg: msg}
}

func Validation(msg string) *Error {
	return New(http.StatusBadRequest, "validation_failed", msg)
}

func ValidationCode(code, msg string) *Error {
	return New(http.StatusBadRequest, code, msg)
}

func Unauthenticated(msg string) *Error {
	return New(http.StatusUnauthorized, "authentication_required", msg)
}

func Forbidden(msg string) *Error {
	return New(http.StatusForbidden, "forbidden", msg)
}

func NotFound(msg string) *Error {
	return New(http.StatusNotFound, "not_found", msg)
}

func Conflict(msg string) *Error {
	return New(http.StatusConflict, "conflict", msg)
}

func Internal(err error) *Error {
	return &Error{Status: http.StatusInternalServerError, Code: "internal", Err: err}
}

// StatusOf reports the transport status for err, defaulting to 500.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return http.StatusInternalServerError
}

// CodeOf reports the stable error code for err, empty when untyped.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
