package commands

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anatolykoptev/go_recap/internal/pipeline"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type scriptedRun struct {
	recap *pipeline.Recap
	err   error
}

func TestWatcherPrintsOnlyNewVideos(t *testing.T) {
	script := []scriptedRun{
		{recap: &pipeline.Recap{Title: "First", VideoURL: "https://www.youtube.com/watch?v=1"}},
		{recap: &pipeline.Recap{Title: "First", VideoURL: "https://www.youtube.com/watch?v=1"}},
		{err: errors.New("navigation failed")},
		{recap: &pipeline.Recap{Title: "Second", VideoURL: "https://www.youtube.com/watch?v=2"}},
	}
	calls := 0
	var out syncBuffer
	w := &watcher{
		channel: "veritasium",
		run: func(_ context.Context, channel string) (*pipeline.Recap, error) {
			assert.Equal(t, "veritasium", channel)
			s := script[calls]
			calls++
			return s.recap, s.err
		},
		out:    &out,
		format: formatText,
	}

	ctx, cancel := context.WithCancel(context.Background())
	tick := make(chan time.Time)
	done := make(chan error, 1)
	go func() { done <- w.loop(ctx, tick) }()

	for range len(script) - 1 {
		tick <- time.Now()
	}
	require.Eventually(t, func() bool { return strings.Contains(out.String(), "Second") }, time.Second, time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	assert.Equal(t, len(script), calls)
	assert.Equal(t, 1, strings.Count(out.String(), "Title: First"))
	assert.Equal(t, 1, strings.Count(out.String(), "Title: Second"))
}

func TestWatcherStopsQuietlyOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	w := &watcher{
		channel: "x",
		run: func(ctx context.Context, _ string) (*pipeline.Recap, error) {
			cancel()
			return nil, ctx.Err()
		},
		out:    &bytes.Buffer{},
		format: formatText,
	}
	assert.NoError(t, w.loop(ctx, make(chan time.Time)))
}
