package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
)

// cdpPage is a Page backed by one chromedp tab.
type cdpPage struct {
	ctx     context.Context
	cancel  context.CancelFunc
	timeout time.Duration

	closeOnce sync.Once
}

// bind derives a context from the tab that also honors the caller's ctx and a
// timeout. Tab contexts must descend from the browser context, so the caller's
// ctx is linked with AfterFunc instead of being used as parent.
func (p *cdpPage) bind(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = p.timeout
	}
	runCtx, cancel := context.WithTimeout(p.ctx, timeout)
	stop := context.AfterFunc(ctx, cancel)
	return runCtx, func() {
		stop()
		cancel()
	}
}

// onEvent forwards page console and exception events to the log. Never fails.
func (p *cdpPage) onEvent(ev any) {
	switch ev := ev.(type) {
	case *runtime.EventConsoleAPICalled:
		if ev.Type != runtime.APITypeError && ev.Type != runtime.APITypeWarning {
			return
		}
		parts := make([]string, 0, len(ev.Args))
		for _, a := range ev.Args {
			if a.Description != "" {
				parts = append(parts, a.Description)
			} else if len(a.Value) > 0 {
				parts = append(parts, string(a.Value))
			}
		}
		slog.Debug("browser console", slog.String("type", string(ev.Type)), slog.String("text", strings.Join(parts, " ")))
	case *runtime.EventExceptionThrown:
		if ev.ExceptionDetails != nil {
			slog.Error("page error", slog.String("text", ev.ExceptionDetails.Text))
		}
	}
}

func (p *cdpPage) Navigate(ctx context.Context, url string) error {
	runCtx, cancel := p.bind(ctx, p.timeout)
	defer cancel()
	if err := chromedp.Run(runCtx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	return nil
}

func (p *cdpPage) WaitVisible(ctx context.Context, selector string, timeout time.Duration) (Element, error) {
	runCtx, cancel := p.bind(ctx, timeout)
	defer cancel()

	var nodes []*cdp.Node
	err := chromedp.Run(runCtx, chromedp.Nodes(selector, &nodes, chromedp.ByQuery, chromedp.NodeVisible))
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrNoMatch
		}
		return nil, fmt.Errorf("wait %q: %w", selector, err)
	}
	if len(nodes) == 0 {
		return nil, ErrNoMatch
	}
	return &cdpElement{page: p, node: nodes[0]}, nil
}

func (p *cdpPage) QueryAll(ctx context.Context, selector string) ([]Element, error) {
	return p.queryAll(ctx, selector)
}

func (p *cdpPage) queryAll(ctx context.Context, selector string, opts ...chromedp.QueryOption) ([]Element, error) {
	runCtx, cancel := p.bind(ctx, p.timeout)
	defer cancel()

	var nodes []*cdp.Node
	opts = append([]chromedp.QueryOption{chromedp.ByQueryAll, chromedp.AtLeast(0)}, opts...)
	if err := chromedp.Run(runCtx, chromedp.Nodes(selector, &nodes, opts...)); err != nil {
		return nil, fmt.Errorf("query %q: %w", selector, err)
	}
	out := make([]Element, len(nodes))
	for i, n := range nodes {
		out[i] = &cdpElement{page: p, node: n}
	}
	return out, nil
}

func (p *cdpPage) ScrollBy(ctx context.Context, dy int) error {
	runCtx, cancel := p.bind(ctx, p.timeout)
	defer cancel()
	return chromedp.Run(runCtx, chromedp.Evaluate(fmt.Sprintf("window.scrollBy(0, %d)", dy), nil))
}

func (p *cdpPage) Title(ctx context.Context) (string, error) {
	runCtx, cancel := p.bind(ctx, p.timeout)
	defer cancel()
	var title string
	if err := chromedp.Run(runCtx, chromedp.Title(&title)); err != nil {
		return "", err
	}
	return title, nil
}

func (p *cdpPage) DefaultTimeout() time.Duration { return p.timeout }

// Close cancels the tab context, which closes the tab and its browser context.
func (p *cdpPage) Close() error {
	p.closeOnce.Do(func() {
		p.cancel()
		slog.Debug("browser: page closed")
	})
	return nil
}

// cdpElement is an Element backed by a cdp.Node of its page.
type cdpElement struct {
	page *cdpPage
	node *cdp.Node
}

func (e *cdpElement) call(ctx context.Context, fn string, res any, args ...any) error {
	runCtx, cancel := e.page.bind(ctx, e.page.timeout)
	defer cancel()
	return chromedp.Run(runCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		return chromedp.CallFunctionOnNode(ctx, e.node, fn, res, args...)
	}))
}

func (e *cdpElement) Text(ctx context.Context) (string, error) {
	var s string
	if err := e.call(ctx, `function() { return (this.textContent || "").trim(); }`, &s); err != nil {
		return "", err
	}
	return s, nil
}

func (e *cdpElement) Attr(ctx context.Context, name string) (string, bool, error) {
	var v *string
	err := e.call(ctx, `function(n) { return this.hasAttribute(n) ? this.getAttribute(n) : null; }`, &v, name)
	if err != nil {
		return "", false, err
	}
	if v == nil {
		return "", false, nil
	}
	return *v, true, nil
}

func (e *cdpElement) Click(ctx context.Context) error {
	runCtx, cancel := e.page.bind(ctx, e.page.timeout)
	defer cancel()
	return chromedp.Run(runCtx, chromedp.MouseClickNode(e.node))
}

func (e *cdpElement) ClickJS(ctx context.Context) error {
	return e.call(ctx, `function() { this.click(); }`, nil)
}

func (e *cdpElement) QueryAll(ctx context.Context, selector string) ([]Element, error) {
	return e.page.queryAll(ctx, selector, chromedp.FromNode(e.node))
}
