package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	stealth "github.com/anatolykoptev/go-stealth"
	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/chromedp"

	"github.com/anatolykoptev/go_recap/internal/engine"
)

// Options configures the Chrome process and the pages it hands out.
type Options struct {
	ChromePath  string        // empty = let chromedp find Chrome
	Headless    bool
	PageTimeout time.Duration // default wait budget per page
	UserAgent   func() string // nil = go-stealth RandomUserAgent
}

// Session owns at most one Chrome process. The process is launched on the first
// AcquirePage and lives until Close; pages are independent browser contexts
// sharing it. Session is the only thing allowed to terminate the process.
type Session struct {
	opts Options

	mu            sync.Mutex
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
}

// NewSession creates a session. Nothing is launched until AcquirePage.
func NewSession(opts Options) *Session {
	if opts.PageTimeout <= 0 {
		opts.PageTimeout = 30 * time.Second
	}
	if opts.UserAgent == nil {
		opts.UserAgent = stealth.RandomUserAgent
	}
	return &Session{opts: opts}
}

// AcquirePage opens a fresh isolated tab, launching Chrome if needed.
func (s *Session) AcquirePage(ctx context.Context) (Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	browserCtx, err := s.ensureBrowser()
	if err != nil {
		return nil, err
	}

	tabCtx, cancel := chromedp.NewContext(browserCtx, chromedp.WithNewBrowserContext())
	p := &cdpPage{ctx: tabCtx, cancel: cancel, timeout: s.opts.PageTimeout}
	chromedp.ListenTarget(tabCtx, p.onEvent)

	ua := s.opts.UserAgent()
	if ua == "" {
		ua = engine.UserAgentChrome
	}
	openCtx, stop := p.bind(ctx, s.opts.PageTimeout)
	defer stop()
	if err := chromedp.Run(openCtx, emulation.SetUserAgentOverride(ua)); err != nil {
		cancel()
		return nil, fmt.Errorf("open page: %w", err)
	}

	engine.IncrBrowserPages()
	slog.Debug("browser: page opened", slog.String("user_agent", ua))
	return p, nil
}

// ensureBrowser launches Chrome once and returns the browser context.
func (s *Session) ensureBrowser() (context.Context, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.browserCtx != nil {
		return s.browserCtx, nil
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-accelerated-2d-canvas", true),
		chromedp.DisableGPU,
		chromedp.WindowSize(1920, 1080),
		chromedp.Flag("headless", s.opts.Headless),
	)
	if s.opts.ChromePath != "" {
		opts = append(opts, chromedp.ExecPath(s.opts.ChromePath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(format string, args ...any) {
			slog.Debug("chromedp: "+fmt.Sprintf(format, args...))
		}),
		chromedp.WithErrorf(func(format string, args ...any) {
			// CDP unmarshal noise from newer protocol events; never fatal.
			slog.Debug("chromedp error: " + fmt.Sprintf(format, args...))
		}),
	)

	// An empty Run starts the process.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	s.allocCancel = allocCancel
	s.browserCtx = browserCtx
	s.browserCancel = browserCancel
	engine.IncrBrowserLaunches()
	slog.Info("browser: launched", slog.Bool("headless", s.opts.Headless))
	return browserCtx, nil
}

// Running reports whether a Chrome process is currently live.
func (s *Session) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.browserCtx != nil
}

// Close terminates Chrome and resets the session. A later AcquirePage launches a
// new process. Calling Close on a closed session is a no-op.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.browserCtx == nil {
		return nil
	}

	err := chromedp.Cancel(s.browserCtx)
	s.browserCancel()
	s.allocCancel()
	s.browserCtx, s.browserCancel, s.allocCancel = nil, nil, nil

	if err != nil && !errors.Is(err, context.Canceled) {
		slog.Warn("browser: close failed", slog.Any("error", err))
		return fmt.Errorf("close browser: %w", err)
	}
	slog.Info("browser: closed")
	return nil
}
