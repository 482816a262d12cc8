package sources

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/anatolykoptev/go_recap/internal/engine"
	"github.com/anatolykoptev/go_recap/internal/engine/browser"
)

// transcriptState is one step of the watch page flow. The flow is linear: a
// state only ever advances to the next one.
type transcriptState int

const (
	stateNavigate transcriptState = iota
	stateDismissConsent
	stateWaitPlayer
	stateExpandDescription
	stateOpenPanel
	stateWaitPanel
	stateScrapeSegments
	stateClean
	stateDone
)

var transcriptStateNames = [...]string{
	"navigate", "dismiss consent", "wait player ready", "expand description",
	"open transcript panel", "wait transcript panel", "scrape segments", "clean", "done",
}

func (s transcriptState) String() string {
	if s < 0 || int(s) >= len(transcriptStateNames) {
		return "unknown"
	}
	return transcriptStateNames[s]
}

var timestampOnlyRE = regexp.MustCompile(`^\d{1,2}:\d{2}(?::\d{2})?$`)

// transcriptRun carries one extraction through the states.
type transcriptRun struct {
	y    *YouTube
	page browser.Page
	url  string

	raw   string
	title string
	clean string
}

// Transcript opens the watch page, activates the transcript panel and returns
// the joined segment text, raw and cleaned, with the video title when it could
// be read. The page is closed on every exit path.
func (y *YouTube) Transcript(ctx context.Context, videoURL string) (engine.Transcript, error) {
	engine.IncrTranscriptRequests()

	var out engine.Transcript
	err := y.withPage(ctx, "transcript", func(page browser.Page) error {
		run := &transcriptRun{y: y, page: page, url: videoURL}
		for s := stateNavigate; s != stateDone; {
			next, err := run.step(ctx, s)
			if err != nil {
				slog.Warn("transcript: step failed", slog.String("state", s.String()), slog.Any("error", err))
				return err
			}
			slog.Debug("transcript: advanced", slog.String("from", s.String()), slog.String("to", next.String()))
			s = next
		}
		out = engine.Transcript{Raw: run.raw, Clean: run.clean, Title: run.title}
		return nil
	})
	if err != nil {
		return engine.Transcript{}, err
	}

	slog.Info("transcript: extracted",
		slog.String("url", videoURL),
		slog.Int("raw_chars", len(out.Raw)),
		slog.Int("words", engine.WordCount(out.Clean)))
	return out, nil
}

func (r *transcriptRun) step(ctx context.Context, s transcriptState) (transcriptState, error) {
	y, page := r.y, r.page

	switch s {
	case stateNavigate:
		slog.Info("transcript: opening video", slog.String("url", r.url))
		if err := y.navigate(ctx, page, r.url); err != nil {
			return s, err
		}

	case stateDismissConsent:
		y.dismissConsent(ctx, page)

	case stateWaitPlayer:
		if _, err := browser.Locate(ctx, page, y.long(ytPlayer)); err != nil {
			if browser.IsNotFound(err) {
				return s, engine.Exhausted(s.String())
			}
			return s, engine.Wrap(s.String(), err)
		}
		r.title = r.readTitle(ctx)
		if err := y.sleep(ctx, y.settle); err != nil {
			return s, err
		}

	case stateExpandDescription:
		btn, err := browser.Locate(ctx, page, ytExpandDescription)
		if err != nil {
			slog.Debug("transcript: description expander not found, continuing")
			break
		}
		if err := btn.Click(ctx); err != nil {
			slog.Debug("transcript: description expand failed, continuing", slog.Any("error", err))
		}

	case stateOpenPanel:
		if err := r.openPanel(ctx); err != nil {
			return s, err
		}

	case stateWaitPanel:
		if _, err := browser.Locate(ctx, page, y.long(ytTranscriptPanel)); err != nil {
			if browser.IsNotFound(err) {
				return s, engine.Exhausted(s.String())
			}
			return s, engine.Wrap(s.String(), err)
		}

	case stateScrapeSegments:
		raw, err := r.scrape(ctx)
		if err != nil {
			return s, err
		}
		r.raw = raw

	case stateClean:
		r.clean = engine.CleanTranscript(r.raw)
		if r.clean == "" {
			return s, engine.NotFound("No transcript found")
		}

	default:
		return s, engine.Wrap("transcript", fmt.Errorf("unknown state %d", s))
	}
	return s + 1, nil
}

// openPanel tries the direct transcript buttons, then the overflow menu.
func (r *transcriptRun) openPanel(ctx context.Context) error {
	page := r.page

	btn, err := browser.Locate(ctx, page, ytShowTranscript)
	if err == nil {
		slog.Debug("transcript: direct button found")
		return clickWithFallback(ctx, btn)
	}
	if !browser.IsNotFound(err) {
		return engine.Wrap("open transcript panel", err)
	}

	slog.Debug("transcript: no direct button, trying overflow menu")
	menu, err := browser.Locate(ctx, page, ytMoreActions)
	if err != nil {
		if browser.IsNotFound(err) {
			return engine.Exhausted("open transcript panel")
		}
		return engine.Wrap("open transcript panel", err)
	}
	if err := clickWithFallback(ctx, menu); err != nil {
		return engine.Wrap("open transcript panel", err)
	}

	if _, _, err := browser.Race(ctx, page, ytMenuItem); err != nil {
		if browser.IsNotFound(err) {
			return engine.Exhausted("open transcript panel")
		}
		return engine.Wrap("open transcript panel", err)
	}
	for _, c := range ytMenuItem.Candidates {
		items, err := page.QueryAll(ctx, c.Selector)
		if err != nil {
			continue
		}
		for _, item := range items {
			txt, err := item.Text(ctx)
			if err != nil || !strings.Contains(strings.ToLower(txt), ytTranscriptMenuLabel) {
				continue
			}
			slog.Debug("transcript: menu entry found", slog.String("text", txt))
			return clickWithFallback(ctx, item)
		}
	}
	return engine.Exhausted("open transcript panel")
}

// scrape joins every non-empty, non-timestamp segment text with single spaces.
func (r *transcriptRun) scrape(ctx context.Context) (string, error) {
	segments, err := r.page.QueryAll(ctx, ytTranscriptSegment)
	if err != nil {
		return "", engine.Wrap("scrape segments", err)
	}
	slog.Debug("transcript: segments", slog.Int("count", len(segments)))

	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		txt, err := browser.TextIn(ctx, seg, ytSegmentText)
		if err != nil {
			continue
		}
		txt = strings.TrimSpace(txt)
		if txt == "" || timestampOnlyRE.MatchString(txt) {
			continue
		}
		parts = append(parts, txt)
	}
	if len(parts) == 0 {
		return "", engine.NotFound("No transcript found")
	}
	return strings.Join(parts, " "), nil
}

// readTitle prefers the watch metadata heading and falls back to document.title.
func (r *transcriptRun) readTitle(ctx context.Context) string {
	if el, err := browser.Locate(ctx, r.page, ytVideoTitle); err == nil {
		if t, err := el.Text(ctx); err == nil && strings.TrimSpace(t) != "" {
			return strings.TrimSpace(t)
		}
	}
	t, err := r.page.Title(ctx)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(t), "- YouTube"))
}

// clickWithFallback clicks natively and falls back to a script click when the
// native click is rejected (overlays, zero-size hit boxes).
func clickWithFallback(ctx context.Context, el browser.Element) error {
	err := el.Click(ctx)
	if err == nil {
		return nil
	}
	slog.Debug("transcript: native click rejected, using script click", slog.Any("error", err))
	return el.ClickJS(ctx)
}
