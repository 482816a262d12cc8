package pipeline

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/anatolykoptev/go_recap/internal/engine"
)

func TestRespond(t *testing.T) {
	now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	t.Cleanup(func() { now = time.Now })

	ok := Respond(&Recap{Title: "t"}, nil)
	assert.True(t, ok.Success)
	assert.Empty(t, ok.Error)
	assert.Equal(t, "2026-01-02T03:04:05Z", ok.Timestamp)

	fail := Respond(nil, engine.Wrap("resolve channel", engine.NotFound("Channel not found: x")))
	assert.False(t, fail.Success)
	assert.Nil(t, fail.Data)
	assert.Equal(t, "Channel not found: x", fail.Error)
	assert.Equal(t, "NOT_FOUND", fail.Code)
}

func TestStatusAndMessage(t *testing.T) {
	boom := errors.New("connection refused")
	tests := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"nil", nil, http.StatusOK, ""},
		{"not found", engine.NotFound("No videos found for channel"), http.StatusNotFound, "No videos found for channel"},
		{"exhausted", engine.Wrap("transcript", engine.Exhausted("open transcript panel")), http.StatusUnprocessableEntity, "all strategies exhausted: open transcript panel"},
		{"validation", engine.Validation("Invalid YouTube URL"), http.StatusBadRequest, "Invalid YouTube URL"},
		{"transient", engine.Transient("llm", boom), http.StatusServiceUnavailable, "llm: retries exhausted: connection refused"},
		{"unknown", engine.Wrap("summarize", boom), http.StatusInternalServerError, "summarize: connection refused"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, Status(tt.err))
			assert.Equal(t, tt.msg, Message(tt.err))
		})
	}
}
