package sources

// YouTube scraping is split across files by responsibility:
//   youtube_selectors.go  — selector tables, one browser.Target per UI element
//   youtube_url.go        — URL parsing, validation and normalization
//   youtube_channel.go    — channel search and display name
//   youtube_videos.go     — latest upload from the channel's videos tab
//   youtube_transcript.go — watch page transcript state machine

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/anatolykoptev/go_recap/internal/engine"
	"github.com/anatolykoptev/go_recap/internal/engine/browser"
)

// YouTubeOptions tunes page waits and navigation.
type YouTubeOptions struct {
	ElementTimeout time.Duration       // long waits: grid, player, transcript panel
	Limiter        *engine.RateLimiter // site navigations; nil = unlimited
	Retry          engine.RetryConfig  // navigation retry; zero = engine.DefaultRetryConfig
	ScrollSettle   time.Duration       // pause after the lazy-load scroll
	Sleep          func(ctx context.Context, d time.Duration) error
}

// YouTube extracts channels, videos and transcripts by driving pages from a
// browser.Acquirer. Each operation opens its own page and closes it on every
// exit path; the browser itself is never closed here.
type YouTube struct {
	pages          browser.Acquirer
	elementTimeout time.Duration
	limiter        *engine.RateLimiter
	retry          engine.RetryConfig
	settle         time.Duration
	sleep          func(ctx context.Context, d time.Duration) error
}

// NewYouTube builds a YouTube scraper over pages.
func NewYouTube(pages browser.Acquirer, opts YouTubeOptions) *YouTube {
	if opts.ElementTimeout <= 0 {
		opts.ElementTimeout = 10 * time.Second
	}
	if opts.Retry.MaxRetries == 0 && opts.Retry.InitialWait == 0 {
		opts.Retry = engine.DefaultRetryConfig
	}
	if opts.ScrollSettle <= 0 {
		opts.ScrollSettle = 2 * time.Second
	}
	if opts.Sleep == nil {
		opts.Sleep = engine.SleepContext
	}
	return &YouTube{
		pages:          pages,
		elementTimeout: opts.ElementTimeout,
		limiter:        opts.Limiter,
		retry:          opts.Retry,
		settle:         opts.ScrollSettle,
		sleep:          opts.Sleep,
	}
}

// withPage acquires a page, runs fn, and closes the page whatever happens.
func (y *YouTube) withPage(ctx context.Context, stage string, fn func(browser.Page) error) error {
	page, err := y.pages.AcquirePage(ctx)
	if err != nil {
		return engine.Wrap(stage, err)
	}
	defer func() {
		if cerr := page.Close(); cerr != nil {
			slog.Warn("youtube: page close failed", slog.String("stage", stage), slog.Any("error", cerr))
		}
	}()
	return fn(page)
}

// navigate loads url through the site limiter, retrying transient failures.
func (y *YouTube) navigate(ctx context.Context, page browser.Page, url string) error {
	_, err := engine.RetryDo(ctx, y.retry, func() (struct{}, error) {
		if _, err := y.limiter.Wait(ctx); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, page.Navigate(ctx, url)
	})
	if err == nil {
		return nil
	}
	slog.Warn("youtube: navigation failed", slog.String("url", url), slog.Any("error", err))
	if errors.Is(err, engine.ErrRetriesExhausted) {
		return engine.Transient("navigate", err)
	}
	return engine.Wrap("navigate", err)
}

// dismissConsent clicks the cookie consent button when one is shown.
func (y *YouTube) dismissConsent(ctx context.Context, page browser.Page) {
	btn, err := browser.Locate(ctx, page, ytConsentButton)
	if err != nil {
		slog.Debug("youtube: no consent dialog")
		return
	}
	if err := btn.Click(ctx); err != nil {
		slog.Debug("youtube: consent click failed", slog.Any("error", err))
		return
	}
	slog.Debug("youtube: consent dismissed")
}

func (y *YouTube) long(t browser.Target) browser.Target {
	return withTimeout(t, y.elementTimeout)
}
