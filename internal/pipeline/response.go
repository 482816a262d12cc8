package pipeline

import (
	"errors"
	"net/http"
	"time"

	"github.com/anatolykoptev/go_recap/internal/engine"
)

// Response is the envelope every surface answers with.
type Response struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data,omitempty"`
	Error     string `json:"error,omitempty"`
	Code      string `json:"code,omitempty"`
	Timestamp string `json:"timestamp"`
}

// now is swapped in tests.
var now = time.Now

// OK wraps data in a success envelope.
func OK(data any) Response {
	return Response{Success: true, Data: data, Timestamp: stamp()}
}

// Fail builds a failure envelope from err.
func Fail(err error) Response {
	return Response{
		Success:   false,
		Error:     Message(err),
		Code:      string(engine.CodeOf(err)),
		Timestamp: stamp(),
	}
}

// Reject builds a failure envelope for a request refused before any run.
func Reject(msg string) Response {
	return Response{Success: false, Error: msg, Timestamp: stamp()}
}

// Respond builds the envelope for a run outcome.
func Respond(recap *Recap, err error) Response {
	if err != nil {
		return Fail(err)
	}
	return OK(recap)
}

// Status is the HTTP status for a run outcome.
func Status(err error) int {
	if err == nil {
		return http.StatusOK
	}
	return engine.CodeOf(err).HTTPStatus()
}

// Message is the user-facing text for err. Coded errors with a message print
// only that message; anything else prints in full.
func Message(err error) string {
	if err == nil {
		return ""
	}
	switch engine.CodeOf(err) {
	case engine.CodeNotFound, engine.CodeValidation, engine.CodeExhausted, engine.CodeConfig:
		var e *engine.Error
		if errors.As(err, &e) && e.Message != "" {
			return e.Message
		}
	}
	return err.Error()
}

func stamp() string {
	return now().UTC().Format(time.RFC3339Nano)
}
