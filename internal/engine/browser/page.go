// Package browser owns the headless Chrome process and the resilient locator
// used by every scraping step.
//
// Extraction code only sees the Page and Element interfaces; the chromedp
// implementation lives in cdp.go and an in-memory double in browsertest.
package browser

import (
	"context"
	"errors"
	"time"
)

// ErrNoMatch is returned by WaitVisible when nothing visible matched in time.
var ErrNoMatch = errors.New("no visible match")

// Page is one isolated tab.
type Page interface {
	// Navigate loads url and waits for DOMContentLoaded.
	Navigate(ctx context.Context, url string) error
	// WaitVisible waits up to timeout for the first visible element matching selector.
	// It returns ErrNoMatch on timeout.
	WaitVisible(ctx context.Context, selector string, timeout time.Duration) (Element, error)
	// QueryAll returns every element matching selector without waiting.
	QueryAll(ctx context.Context, selector string) ([]Element, error)
	// ScrollBy scrolls the window vertically by dy pixels.
	ScrollBy(ctx context.Context, dy int) error
	// Title returns document.title.
	Title(ctx context.Context) (string, error)
	// DefaultTimeout is the page-level wait budget.
	DefaultTimeout() time.Duration
	// Close releases the tab. Safe to call more than once.
	Close() error
}

// Element is a handle on one DOM node.
type Element interface {
	// Text returns the trimmed textContent.
	Text(ctx context.Context) (string, error)
	// Attr returns an attribute value and whether it was present.
	Attr(ctx context.Context, name string) (string, bool, error)
	// Click dispatches a native mouse click.
	Click(ctx context.Context) error
	// ClickJS calls element.click() from script, for controls that reject native clicks.
	ClickJS(ctx context.Context) error
	// QueryAll returns descendants matching selector without waiting.
	QueryAll(ctx context.Context, selector string) ([]Element, error)
}

// Acquirer hands out pages. *Session implements it.
type Acquirer interface {
	AcquirePage(ctx context.Context) (Page, error)
}
