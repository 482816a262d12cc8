package summarize

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anatolykoptev/go_recap/internal/engine"
	"github.com/anatolykoptev/go_recap/internal/engine/llm"
)

// fakeGenerator answers by prompt kind and records every call.
type fakeGenerator struct {
	mu       sync.Mutex
	chunk    func(n int) (string, error)
	reduce   string
	expand   string
	prompts  []string
	kinds    []string
	failures map[int]error // by call index
}

func (g *fakeGenerator) Provider() string { return "fake" }

func (g *fakeGenerator) Generate(_ context.Context, prompt string, _ llm.Options) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	idx := len(g.prompts)
	g.prompts = append(g.prompts, prompt)
	if err := g.failures[idx]; err != nil {
		g.kinds = append(g.kinds, "error")
		return "", err
	}
	switch {
	case strings.HasPrefix(prompt, "You are summarizing"):
		g.kinds = append(g.kinds, "chunk")
		return g.chunk(g.count("chunk"))
	case strings.HasPrefix(prompt, "Below are summaries"):
		g.kinds = append(g.kinds, "reduce")
		return g.reduce, nil
	case strings.HasPrefix(prompt, "The summary below has"):
		g.kinds = append(g.kinds, "expand")
		return g.expand, nil
	}
	return "", errors.New("unexpected prompt")
}

func (g *fakeGenerator) count(kind string) int {
	n := 0
	for _, k := range g.kinds {
		if k == kind {
			n++
		}
	}
	return n
}

func words(n int) string {
	return strings.TrimSpace(strings.Repeat("word ", n))
}

func fixed(s string) func(int) (string, error) {
	return func(int) (string, error) { return s, nil }
}

type delayRecorder struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (r *delayRecorder) sleep(ctx context.Context, d time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.delays = append(r.delays, d)
	return ctx.Err()
}

func TestSummarizeNoExpandWhenOnTarget(t *testing.T) {
	gen := &fakeGenerator{chunk: fixed(words(500)), expand: "should not be used"}
	e := New(gen, Options{TargetWords: 500})

	got, err := e.Summarize(context.Background(), "A short transcript. It fits one chunk.")
	require.NoError(t, err)
	assert.Equal(t, 0, gen.count("expand"))
	assert.Equal(t, []string{"chunk"}, gen.kinds)
	assert.False(t, got.Expanded)
	assert.Equal(t, 500, got.WordCount)
	assert.Equal(t, 1, got.Chunks)
	assert.Equal(t, "fake", got.Provider)
}

func TestSummarizeWithinToleranceNotExpanded(t *testing.T) {
	gen := &fakeGenerator{chunk: fixed(words(400))}

	got, err := New(gen, Options{TargetWords: 500}).Summarize(context.Background(), "transcript")
	require.NoError(t, err)
	assert.Equal(t, 0, gen.count("expand"), "400 is exactly 80% of 500")
	assert.False(t, got.Expanded)
}

func TestSummarizeExpandsOnceWhenShort(t *testing.T) {
	expanded := words(480)
	gen := &fakeGenerator{chunk: fixed(words(50)), expand: expanded}

	got, err := New(gen, Options{TargetWords: 500}).Summarize(context.Background(), "A short transcript.")
	require.NoError(t, err)
	assert.Equal(t, 1, gen.count("expand"))
	assert.Equal(t, expanded, got.Text)
	assert.Equal(t, 480, got.WordCount)
	assert.True(t, got.Expanded)

	expandPrompt := gen.prompts[len(gen.prompts)-1]
	assert.Contains(t, expandPrompt, "A short transcript.", "expand must see the full transcript")
	assert.Contains(t, expandPrompt, words(50))
}

func TestSummarizeExpandsAtMostOnce(t *testing.T) {
	gen := &fakeGenerator{chunk: fixed(words(10)), expand: words(20)}

	got, err := New(gen, Options{TargetWords: 500}).Summarize(context.Background(), "transcript")
	require.NoError(t, err)
	assert.Equal(t, 1, gen.count("expand"))
	assert.Equal(t, 20, got.WordCount)
}

func TestSummarizeMapReduceInOrder(t *testing.T) {
	transcript := strings.Repeat("Sentence number one is here. ", 20) // 580 chars
	gen := &fakeGenerator{
		chunk: func(n int) (string, error) {
			return "partial " + string(rune('A'+n-1)), nil
		},
		reduce: words(500),
	}
	rec := &delayRecorder{}
	e := New(gen, Options{MaxChunkSize: 200, TargetWords: 500, ChunkDelay: 750 * time.Millisecond, Sleep: rec.sleep})

	got, err := e.Summarize(context.Background(), transcript)
	require.NoError(t, err)

	nChunks := len(Split(transcript, 200))
	require.Greater(t, nChunks, 1)
	assert.Equal(t, nChunks, got.Chunks)
	assert.Equal(t, nChunks, gen.count("chunk"))
	assert.Equal(t, 1, gen.count("reduce"))
	assert.Equal(t, 0, gen.count("expand"))
	assert.Equal(t, "reduce", gen.kinds[len(gen.kinds)-1])

	// Ordinals are in order and the delay sits only between chunk calls.
	for i := 0; i < nChunks; i++ {
		assert.Contains(t, gen.prompts[i], "This is part "+strconv.Itoa(i+1)+" of "+strconv.Itoa(nChunks)+".")
	}
	assert.Len(t, rec.delays, nChunks-1)
	for _, d := range rec.delays {
		assert.Equal(t, 750*time.Millisecond, d)
	}

	reducePrompt := gen.prompts[nChunks]
	a := strings.Index(reducePrompt, "partial A")
	b := strings.Index(reducePrompt, "partial B")
	assert.True(t, a >= 0 && b > a, "partials must be reduced in chunk order")
}

func TestSummarizeChunkFailureStops(t *testing.T) {
	transcript := strings.Repeat("Sentence number one is here. ", 20)
	gen := &fakeGenerator{
		chunk:    fixed("partial"),
		failures: map[int]error{1: engine.Transient("llm", errors.New("HTTP 429"))},
	}

	_, err := New(gen, Options{MaxChunkSize: 200, Sleep: (&delayRecorder{}).sleep}).Summarize(context.Background(), transcript)
	require.Error(t, err)
	assert.True(t, errors.Is(err, engine.ErrTransient))
	assert.Len(t, gen.prompts, 2, "no calls after the failing chunk")
}

func TestSummarizeEmptyTranscript(t *testing.T) {
	_, err := New(&fakeGenerator{}, Options{}).Summarize(context.Background(), "   ")
	assert.True(t, errors.Is(err, engine.ErrValidation))
}
