package engine

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorIsByCode(t *testing.T) {
	err := fmt.Errorf("resolve: %w", NotFound("Channel not found: foo"))

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrExhausted))
	assert.Equal(t, CodeNotFound, CodeOf(err))
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "Channel not found: foo", NotFound("Channel not found: foo").Error())
	assert.Equal(t, "all strategies exhausted: open transcript panel", Exhausted("open transcript panel").Error())
	assert.Equal(t, "llm: retries exhausted: HTTP 429 Too Many Requests",
		Transient("llm", &StatusError{StatusCode: 429}).Error())
}

func TestWrap(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, Wrap("x", nil))
	})

	t.Run("unknown error gets stage", func(t *testing.T) {
		err := Wrap("transcript", errors.New("boom"))
		assert.Equal(t, CodeUnknown, CodeOf(err))
		assert.Equal(t, "transcript: boom", err.Error())
	})

	t.Run("coded error keeps code and message", func(t *testing.T) {
		err := Wrap("channel", NotFound("Channel not found: foo"))
		var e *Error
		assert.True(t, errors.As(err, &e))
		assert.Equal(t, CodeNotFound, e.Code)
		assert.Equal(t, "channel", e.Stage)
		assert.Equal(t, "Channel not found: foo", e.Error())
	})

	t.Run("existing stage is not overwritten", func(t *testing.T) {
		inner := Wrap("transcript", Exhausted("open transcript panel"))
		outer := Wrap("pipeline", inner)
		var e *Error
		assert.True(t, errors.As(outer, &e))
		assert.Equal(t, "open transcript panel", e.Stage)
	})
}

func TestCodeHTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeNotFound, http.StatusNotFound},
		{CodeExhausted, http.StatusUnprocessableEntity},
		{CodeValidation, http.StatusBadRequest},
		{CodeTransient, http.StatusServiceUnavailable},
		{CodeConfig, http.StatusInternalServerError},
		{CodeUnknown, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.code.HTTPStatus(), string(tt.code))
	}
}
