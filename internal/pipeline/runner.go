// Package pipeline composes the YouTube extractors and the summarization engine
// into the two end-to-end flows every surface (CLI, HTTP, MCP) runs.
package pipeline

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/anatolykoptev/go_recap/internal/engine"
	"github.com/anatolykoptev/go_recap/internal/engine/browser"
	"github.com/anatolykoptev/go_recap/internal/engine/llm"
	"github.com/anatolykoptev/go_recap/internal/engine/sources"
	"github.com/anatolykoptev/go_recap/internal/engine/summarize"
)

// slowRun is the duration past which a run is logged as slow.
const slowRun = 3 * time.Minute

// defaultVideoTitle is used when the watch page title cannot be read.
const defaultVideoTitle = "YouTube Video"

// Browser is the page source a run drives. Close terminates the process and
// must be safe to call more than once.
type Browser interface {
	browser.Acquirer
	Close() error
}

// Source is the extraction side of a run. *sources.YouTube implements it.
type Source interface {
	ResolveChannel(ctx context.Context, input string) (engine.ChannelRef, error)
	ChannelDisplayName(ctx context.Context, channelURL string) (string, bool)
	LatestVideo(ctx context.Context, channelURL string) (engine.VideoRef, error)
	Transcript(ctx context.Context, videoURL string) (engine.Transcript, error)
}

// Summarizer turns a cleaned transcript into the final summary. *summarize.Engine implements it.
type Summarizer interface {
	Summarize(ctx context.Context, transcript string) (engine.FinalSummary, error)
}

// Recap is the result of one successful run.
type Recap struct {
	Title       string `json:"title"`
	Summary     string `json:"summary"`
	VideoURL    string `json:"url"`
	ChannelName string `json:"channelName,omitempty"`
	Provider    string `json:"provider"`
	WordCount   int    `json:"wordCount"`
	TargetWords int    `json:"targetWords"`
	Chunks      int    `json:"chunks"`
	Expanded    bool   `json:"expanded"`
}

// Runner executes runs one at a time. Every run closes the browser on exit, so
// each run starts from a fresh process.
type Runner struct {
	run     sync.Mutex
	browser Browser
	source  Source
	sum     Summarizer
}

// NewRunner wires a runner from its parts.
func NewRunner(b Browser, src Source, sum Summarizer) *Runner {
	return &Runner{browser: b, source: src, sum: sum}
}

// New builds the production runner: a chromedp session, the YouTube scraper
// behind the site limiter, and the summarization engine over the configured
// AI provider. It fails with a ConfigError when no provider key is set.
func New(cfg engine.Config, hc *http.Client) (*Runner, error) {
	gw, err := llm.New(cfg, hc)
	if err != nil {
		return nil, err
	}

	session := browser.NewSession(browser.Options{
		ChromePath:  cfg.ChromePath,
		Headless:    cfg.Headless,
		PageTimeout: cfg.PageTimeout,
	})
	yt := sources.NewYouTube(session, sources.YouTubeOptions{
		ElementTimeout: cfg.ElementTimeout,
		Limiter:        engine.NewRateLimiter("site", cfg.SiteRateLimit, cfg.SiteRateWindow),
	})
	sum := summarize.New(gw, summarize.Options{
		MaxChunkSize: cfg.MaxChunkSize,
		TargetWords:  cfg.TargetWords,
		ChunkDelay:   cfg.ChunkDelay,
	})

	slog.Info("pipeline: ready",
		slog.String("provider", gw.Provider()),
		slog.Bool("headless", cfg.Headless),
		slog.Int("target_words", cfg.TargetWords))
	return NewRunner(session, yt, sum), nil
}

// SummarizeChannel resolves input to a channel, picks its latest upload and
// summarizes that video's transcript.
func (r *Runner) SummarizeChannel(ctx context.Context, input string) (*Recap, error) {
	input, err := sources.ValidateChannelInput(input)
	if err != nil {
		return nil, err
	}
	return r.do(ctx, "channel:"+input, func(ctx context.Context) (*Recap, error) {
		ch, err := r.source.ResolveChannel(ctx, input)
		if err != nil {
			return nil, engine.Wrap("resolve channel", err)
		}
		if ch.Name == "" {
			if name, ok := r.source.ChannelDisplayName(ctx, ch.URL); ok {
				ch.Name = name
			}
		}
		slog.Info("pipeline: processing channel", slog.String("channel", ch.DisplayName()), slog.String("url", ch.URL))

		video, err := r.source.LatestVideo(ctx, ch.URL)
		if err != nil {
			return nil, engine.Wrap("latest video", err)
		}
		slog.Info("pipeline: latest video", slog.String("title", video.Title), slog.String("url", video.URL))

		recap, err := r.summarizeVideo(ctx, video.URL)
		if err != nil {
			return nil, err
		}
		recap.Title = video.Title
		recap.ChannelName = ch.DisplayName()
		return recap, nil
	})
}

// SummarizeVideo summarizes one video given by its watch or short URL.
func (r *Runner) SummarizeVideo(ctx context.Context, videoURL string) (*Recap, error) {
	watchURL, err := sources.ValidateVideoURL(videoURL)
	if err != nil {
		return nil, err
	}
	return r.do(ctx, "video:"+watchURL, func(ctx context.Context) (*Recap, error) {
		slog.Info("pipeline: processing video", slog.String("url", watchURL))
		return r.summarizeVideo(ctx, watchURL)
	})
}

// Close terminates the browser. It is safe to call from a signal handler while
// a run is in flight; the run then fails on its next browser operation.
func (r *Runner) Close() error {
	return r.browser.Close()
}

func (r *Runner) summarizeVideo(ctx context.Context, videoURL string) (*Recap, error) {
	tr, err := r.source.Transcript(ctx, videoURL)
	if err != nil {
		return nil, engine.Wrap("transcript", err)
	}
	slog.Info("pipeline: transcript extracted",
		slog.Int("raw_chars", len(tr.Raw)),
		slog.Int("clean_chars", len(tr.Clean)))

	fs, err := r.sum.Summarize(ctx, tr.Clean)
	if err != nil {
		return nil, engine.Wrap("summarize", err)
	}

	title := tr.Title
	if title == "" {
		title = defaultVideoTitle
	}
	return &Recap{
		Title:       title,
		Summary:     fs.Text,
		VideoURL:    videoURL,
		Provider:    fs.Provider,
		WordCount:   fs.WordCount,
		TargetWords: fs.TargetWords,
		Chunks:      fs.Chunks,
		Expanded:    fs.Expanded,
	}, nil
}

// do holds the run lock for fn and closes the browser on every exit path.
func (r *Runner) do(ctx context.Context, name string, fn func(context.Context) (*Recap, error)) (recap *Recap, err error) {
	r.run.Lock()
	defer r.run.Unlock()

	engine.IncrPipelineRuns()
	defer func() {
		if cerr := r.browser.Close(); cerr != nil {
			slog.Warn("pipeline: browser close failed", slog.Any("error", cerr))
		}
	}()

	start := time.Now()
	err = engine.TrackOperation(ctx, "pipeline:"+name, slowRun, func(ctx context.Context) error {
		var ferr error
		recap, ferr = fn(ctx)
		return ferr
	})
	if err != nil {
		engine.IncrPipelineErrors()
		slog.Error("pipeline: run failed",
			slog.String("run", name),
			slog.String("code", string(engine.CodeOf(err))),
			slog.Any("error", err))
		return nil, err
	}
	slog.Info("pipeline: run done",
		slog.String("run", name),
		slog.Int("words", recap.WordCount),
		slog.Duration("elapsed", time.Since(start)))
	return recap, nil
}
