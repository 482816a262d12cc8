package browser

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSessionLaunchesNothing(t *testing.T) {
	s := NewSession(Options{})
	assert.False(t, s.Running())
}

func TestNewSessionDefaults(t *testing.T) {
	s := NewSession(Options{})
	assert.Equal(t, 30*time.Second, s.opts.PageTimeout)
	require.NotNil(t, s.opts.UserAgent)
	assert.NotEmpty(t, s.opts.UserAgent())

	custom := NewSession(Options{PageTimeout: 5 * time.Second, UserAgent: func() string { return "ua" }})
	assert.Equal(t, 5*time.Second, custom.opts.PageTimeout)
	assert.Equal(t, "ua", custom.opts.UserAgent())
}

func TestSessionCloseIdempotent(t *testing.T) {
	s := NewSession(Options{})
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	assert.False(t, s.Running())
}

func TestAcquirePageCanceledContext(t *testing.T) {
	s := NewSession(Options{ChromePath: "/nonexistent/chrome"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	page, err := s.AcquirePage(ctx)
	assert.Nil(t, page)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.False(t, s.Running(), "a canceled acquire must not launch chrome")
	require.NoError(t, s.Close())
}
