package engine

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is the machine-readable class of a pipeline failure.
type Code string

const (
	CodeNotFound   Code = "NOT_FOUND"
	CodeExhausted  Code = "EXTRACTION_EXHAUSTED"
	CodeTransient  Code = "TRANSIENT"
	CodeConfig     Code = "CONFIG"
	CodeValidation Code = "VALIDATION"
	CodeUnknown    Code = "UNKNOWN"
)

// HTTPStatus maps a code to the status the HTTP surface answers with.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeExhausted:
		return http.StatusUnprocessableEntity
	case CodeValidation:
		return http.StatusBadRequest
	case CodeTransient:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Error is a pipeline error carrying its code and the stage that produced it.
// NotFound, Exhausted and Validation messages are user-facing and printed as is.
type Error struct {
	Code    Code
	Stage   string
	Message string
	cause   error
}

func (e *Error) Error() string {
	switch {
	case e.cause == nil:
		return e.Message
	case e.Message == "":
		return fmt.Sprintf("%s: %v", e.Stage, e.cause)
	default:
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
}

func (e *Error) Unwrap() error { return e.cause }

// Is matches any *Error with the same code, so errors.Is(err, ErrNotFound) works.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// HTTPStatus returns the HTTP status for this error.
func (e *Error) HTTPStatus() int { return e.Code.HTTPStatus() }

// Sentinels for errors.Is checks.
var (
	ErrNotFound   = &Error{Code: CodeNotFound}
	ErrExhausted  = &Error{Code: CodeExhausted}
	ErrTransient  = &Error{Code: CodeTransient}
	ErrConfig     = &Error{Code: CodeConfig}
	ErrValidation = &Error{Code: CodeValidation}
)

// NotFound reports that a channel, video or transcript could not be resolved.
func NotFound(msg string) *Error {
	return &Error{Code: CodeNotFound, Message: msg}
}

// Exhausted reports that every strategy for a required UI step failed.
func Exhausted(step string) *Error {
	return &Error{Code: CodeExhausted, Stage: step, Message: "all strategies exhausted: " + step}
}

// Transient wraps an error that survived the retry ceiling.
func Transient(stage string, err error) *Error {
	return &Error{Code: CodeTransient, Stage: stage, Message: stage + ": retries exhausted", cause: err}
}

// ConfigError reports a fatal startup misconfiguration.
func ConfigError(msg string) *Error {
	return &Error{Code: CodeConfig, Message: msg}
}

// Validation reports bad caller input.
func Validation(msg string) *Error {
	return &Error{Code: CodeValidation, Message: msg}
}

// Wrap attaches the failing stage to err. Errors that already carry a code keep
// it; anything else becomes CodeUnknown.
func Wrap(stage string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		if e.Stage == "" {
			cp := *e
			cp.Stage = stage
			return &cp
		}
		return err
	}
	return &Error{Code: CodeUnknown, Stage: stage, cause: err}
}

// CodeOf returns the code carried by err, or CodeUnknown.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeUnknown
}
