// Package browsertest provides in-memory Page and Element doubles.
//
// A fake page holds a static selector -> elements table. WaitVisible never
// blocks: a missing or hidden selector is an immediate ErrNoMatch, which is
// what a timed-out wait looks like to callers. Like a query-by-selector wait,
// only the first element registered for a selector is considered.
package browsertest

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/anatolykoptev/go_recap/internal/engine/browser"
)

// ErrClickRejected is a convenient native-click failure for tests.
var ErrClickRejected = errors.New("element is not clickable at point")

// Page is a fake browser.Page.
type Page struct {
	mu         sync.Mutex
	elements   map[string][]*Element
	title      string
	timeout    time.Duration
	navErrs    []error
	onNavigate func(p *Page, url string)

	visits []string
	waits  []string
	scroll int
	closes int
}

var _ browser.Page = (*Page)(nil)

// NewPage returns an empty page with a 1s default timeout.
func NewPage() *Page {
	return &Page{elements: map[string][]*Element{}, timeout: time.Second}
}

// Add registers elements matching selector.
func (p *Page) Add(selector string, els ...*Element) *Page {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.elements[selector] = append(p.elements[selector], els...)
	return p
}

// Remove drops every element registered for selector.
func (p *Page) Remove(selector string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.elements, selector)
}

// SetTitle sets document.title.
func (p *Page) SetTitle(title string) *Page {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.title = title
	return p
}

// FailNavigation makes the next len(errs) Navigate calls fail in order.
func (p *Page) FailNavigation(errs ...error) *Page {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.navErrs = append(p.navErrs, errs...)
	return p
}

// OnNavigate runs fn after every successful Navigate.
func (p *Page) OnNavigate(fn func(p *Page, url string)) *Page {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onNavigate = fn
	return p
}

func (p *Page) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	p.visits = append(p.visits, url)
	if len(p.navErrs) > 0 {
		err := p.navErrs[0]
		p.navErrs = p.navErrs[1:]
		p.mu.Unlock()
		return err
	}
	fn := p.onNavigate
	p.mu.Unlock()
	if fn != nil {
		fn(p, url)
	}
	return nil
}

func (p *Page) WaitVisible(ctx context.Context, selector string, _ time.Duration) (browser.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.waits = append(p.waits, selector)
	els := p.elements[selector]
	if len(els) == 0 || els[0].isHidden() {
		return nil, browser.ErrNoMatch
	}
	return els[0], nil
}

func (p *Page) QueryAll(ctx context.Context, selector string) ([]browser.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return toElements(p.elements[selector]), nil
}

func (p *Page) ScrollBy(ctx context.Context, _ int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.scroll++
	return ctx.Err()
}

func (p *Page) Title(context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.title, nil
}

func (p *Page) DefaultTimeout() time.Duration { return p.timeout }

func (p *Page) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closes++
	return nil
}

// Visits returns every URL passed to Navigate.
func (p *Page) Visits() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.visits...)
}

// Waits returns every selector passed to WaitVisible, in call order.
func (p *Page) Waits() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.waits...)
}

// Scrolls returns the number of ScrollBy calls.
func (p *Page) Scrolls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.scroll
}

// Closed reports whether Close was called at least once.
func (p *Page) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closes > 0
}

// Element is a fake browser.Element.
type Element struct {
	mu       sync.Mutex
	text     string
	attrs    map[string]string
	children map[string][]*Element
	hidden   bool
	clickErr error
	onClick  func()
	clicks   int
	jsClicks int
}

var _ browser.Element = (*Element)(nil)

// NewElement returns a visible element with the given text.
func NewElement(text string) *Element {
	return &Element{text: text, attrs: map[string]string{}, children: map[string][]*Element{}}
}

// WithAttr sets an attribute.
func (e *Element) WithAttr(name, value string) *Element {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.attrs[name] = value
	return e
}

// WithChild registers descendants matching selector.
func (e *Element) WithChild(selector string, els ...*Element) *Element {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.children[selector] = append(e.children[selector], els...)
	return e
}

// Hide makes the element invisible to WaitVisible.
func (e *Element) Hide() *Element {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.hidden = true
	return e
}

// RejectClicks makes native clicks fail with err. Script clicks still work.
func (e *Element) RejectClicks(err error) *Element {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.clickErr = err
	return e
}

// OnClick runs fn after every successful click.
func (e *Element) OnClick(fn func()) *Element {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onClick = fn
	return e
}

// Clicks returns successful native clicks.
func (e *Element) Clicks() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.clicks
}

// JSClicks returns script clicks.
func (e *Element) JSClicks() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.jsClicks
}

func (e *Element) isHidden() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.hidden
}

func (e *Element) Text(ctx context.Context) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.text, ctx.Err()
}

func (e *Element) Attr(ctx context.Context, name string) (string, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	v, ok := e.attrs[name]
	return v, ok, ctx.Err()
}

func (e *Element) Click(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e.mu.Lock()
	if e.clickErr != nil {
		err := e.clickErr
		e.mu.Unlock()
		return err
	}
	e.clicks++
	fn := e.onClick
	e.mu.Unlock()
	if fn != nil {
		fn()
	}
	return nil
}

func (e *Element) ClickJS(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e.mu.Lock()
	e.jsClicks++
	fn := e.onClick
	e.mu.Unlock()
	if fn != nil {
		fn()
	}
	return nil
}

func (e *Element) QueryAll(ctx context.Context, selector string) ([]browser.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return toElements(e.children[selector]), nil
}

func toElements(els []*Element) []browser.Element {
	out := make([]browser.Element, len(els))
	for i, el := range els {
		out[i] = el
	}
	return out
}

// Browser is a fake page source. Pages are handed out in the order given;
// once they run out, fresh empty pages are created.
type Browser struct {
	mu         sync.Mutex
	pending    []*Page
	acquired   []*Page
	closes     int
	acquireErr error
}

// NewBrowser returns a browser that serves pages in order.
func NewBrowser(pages ...*Page) *Browser {
	return &Browser{pending: pages}
}

// FailAcquire makes every AcquirePage fail with err.
func (b *Browser) FailAcquire(err error) *Browser {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.acquireErr = err
	return b
}

func (b *Browser) AcquirePage(ctx context.Context) (browser.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.acquireErr != nil {
		return nil, b.acquireErr
	}
	var p *Page
	if len(b.pending) > 0 {
		p, b.pending = b.pending[0], b.pending[1:]
	} else {
		p = NewPage()
	}
	b.acquired = append(b.acquired, p)
	return p, nil
}

// Close counts calls; it never fails.
func (b *Browser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closes++
	return nil
}

// Acquired returns every page handed out so far.
func (b *Browser) Acquired() []*Page {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*Page(nil), b.acquired...)
}

// Closes returns how many times Close was called.
func (b *Browser) Closes() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closes
}
