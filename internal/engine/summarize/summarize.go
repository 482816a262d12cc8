package summarize

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/anatolykoptev/go_recap/internal/engine"
	"github.com/anatolykoptev/go_recap/internal/engine/llm"
)

// Generator is the slice of the AI gateway the engine needs. *llm.Gateway implements it.
type Generator interface {
	Generate(ctx context.Context, prompt string, opts llm.Options) (string, error)
	Provider() string
}

// Options tunes the engine. Zero values take the defaults.
type Options struct {
	MaxChunkSize int           // characters per chunk, default 5000
	TargetWords  int           // default 500
	Tolerance    float64       // expand below TargetWords*(1-Tolerance), default 0.2
	ChunkDelay   time.Duration // pause between chunk calls
	Sleep        func(ctx context.Context, d time.Duration) error
}

// Engine runs chunk, map, reduce and expand over one Generator.
type Engine struct {
	gen  Generator
	opts Options
}

// New returns an engine over gen.
func New(gen Generator, opts Options) *Engine {
	if opts.MaxChunkSize <= 0 {
		opts.MaxChunkSize = DefaultMaxChunkSize
	}
	if opts.TargetWords <= 0 {
		opts.TargetWords = 500
	}
	if opts.Tolerance <= 0 || opts.Tolerance >= 1 {
		opts.Tolerance = 0.2
	}
	if opts.Sleep == nil {
		opts.Sleep = engine.SleepContext
	}
	return &Engine{gen: gen, opts: opts}
}

// Summarize produces the final summary for a cleaned transcript. Chunks are
// mapped strictly in order, one at a time; the result is expanded at most once.
func (e *Engine) Summarize(ctx context.Context, transcript string) (engine.FinalSummary, error) {
	chunks := Split(transcript, e.opts.MaxChunkSize)
	if len(chunks) == 0 {
		return engine.FinalSummary{}, engine.Validation("Transcript cannot be empty")
	}
	target := e.opts.TargetWords
	slog.Info("summarize: start",
		slog.Int("chunks", len(chunks)),
		slog.Int("chars", len(transcript)),
		slog.Int("target_words", target))

	partials, err := e.mapChunks(ctx, chunks)
	if err != nil {
		return engine.FinalSummary{}, err
	}

	candidate := partials[0]
	if len(partials) > 1 {
		candidate, err = e.reduce(ctx, partials)
		if err != nil {
			return engine.FinalSummary{}, err
		}
	}

	out := engine.FinalSummary{
		Text:        candidate,
		WordCount:   engine.WordCount(candidate),
		TargetWords: target,
		Chunks:      len(chunks),
		Provider:    e.gen.Provider(),
	}

	if e.isShort(out.WordCount) {
		slog.Info("summarize: below target, expanding",
			slog.Int("words", out.WordCount), slog.Int("target_words", target))
		expanded, err := e.gen.Generate(ctx,
			fmt.Sprintf(expandPrompt, out.WordCount, target, candidate, transcript),
			e.longOptions())
		if err != nil {
			return engine.FinalSummary{}, engine.Wrap("expand summary", err)
		}
		engine.IncrSummaryExpansions()
		out.Text = expanded
		out.WordCount = engine.WordCount(expanded)
		out.Expanded = true
	}

	slog.Info("summarize: done",
		slog.Int("words", out.WordCount),
		slog.Bool("expanded", out.Expanded),
		slog.String("provider", out.Provider))
	return out, nil
}

// mapChunks summarizes chunks in order with ChunkDelay between calls.
func (e *Engine) mapChunks(ctx context.Context, chunks []Chunk) ([]string, error) {
	partials := make([]string, 0, len(chunks))
	for _, c := range chunks {
		if c.Index > 0 {
			if err := e.opts.Sleep(ctx, e.opts.ChunkDelay); err != nil {
				return nil, err
			}
		}
		slog.Debug("summarize: chunk", slog.Int("part", c.Index+1), slog.Int("of", len(chunks)), slog.Int("chars", c.Len()))

		s, err := e.gen.Generate(ctx, fmt.Sprintf(chunkPrompt, c.Index+1, len(chunks), c.Text), llm.Options{})
		if err != nil {
			return nil, engine.Wrap(fmt.Sprintf("summarize chunk %d/%d", c.Index+1, len(chunks)), err)
		}
		engine.IncrChunksSummarized()
		partials = append(partials, s)
	}
	return partials, nil
}

func (e *Engine) reduce(ctx context.Context, partials []string) (string, error) {
	var sb strings.Builder
	for i, p := range partials {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "Part %d:\n%s", i+1, p)
	}
	out, err := e.gen.Generate(ctx,
		fmt.Sprintf(reducePrompt, e.opts.TargetWords, len(partials), sb.String()),
		e.longOptions())
	if err != nil {
		return "", engine.Wrap("reduce summaries", err)
	}
	return out, nil
}

func (e *Engine) isShort(words int) bool {
	return float64(words) < float64(e.opts.TargetWords)*(1-e.opts.Tolerance)
}

// longOptions raises the token budget for outputs sized to the target.
func (e *Engine) longOptions() llm.Options {
	if tokens := e.opts.TargetWords * 2; tokens > 1024 {
		return llm.Options{MaxTokens: tokens}
	}
	return llm.Options{}
}
