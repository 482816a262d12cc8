package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/anatolykoptev/go_recap/internal/engine"
)

// ErrNotFound matches every *NotFoundError via errors.Is.
var ErrNotFound = errors.New("element not found")

// Candidate is one selector strategy with its own visibility budget.
// Zero Timeout means the page default.
type Candidate struct {
	Selector string
	Timeout  time.Duration
}

// Target is a semantic UI element ("transcript button") and its ordered strategies.
type Target struct {
	Name       string
	Candidates []Candidate
}

// Outcome of a single strategy trial.
type Outcome string

const (
	OutcomeHit   Outcome = "hit"
	OutcomeMiss  Outcome = "miss"
	OutcomeError Outcome = "error"
)

// Attempt records one strategy trial for diagnostics.
type Attempt struct {
	Strategy string
	Outcome  Outcome
	Err      error
}

// NotFoundError is returned when every candidate of a target missed.
type NotFoundError struct {
	Target   string
	Attempts []Attempt
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: no candidate matched (%d tried)", e.Target, len(e.Attempts))
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// IsNotFound reports whether err is a locator miss.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// Locate tries candidates strictly in order, each waiting up to its own timeout
// for a visible match. The first hit wins and later candidates are never
// evaluated. Errors other than a miss are recorded and treated as a miss unless
// ctx itself is done.
func Locate(ctx context.Context, page Page, t Target) (Element, error) {
	attempts := make([]Attempt, 0, len(t.Candidates))
	for _, c := range t.Candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		el, err := page.WaitVisible(ctx, c.Selector, timeoutFor(page, c))
		a := record(t.Name, c.Selector, err)
		attempts = append(attempts, a)
		if a.Outcome == OutcomeHit {
			engine.IncrLocatorHits()
			return el, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	engine.IncrLocatorMisses()
	return nil, &NotFoundError{Target: t.Name, Attempts: attempts}
}

// LocateIn looks for the first candidate matching under root, without waiting.
func LocateIn(ctx context.Context, root Element, t Target) (Element, error) {
	attempts := make([]Attempt, 0, len(t.Candidates))
	for _, c := range t.Candidates {
		els, err := root.QueryAll(ctx, c.Selector)
		if err == nil && len(els) == 0 {
			err = ErrNoMatch
		}
		a := record(t.Name, c.Selector, err)
		attempts = append(attempts, a)
		if a.Outcome == OutcomeHit {
			return els[0], nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	return nil, &NotFoundError{Target: t.Name, Attempts: attempts}
}

// TextIn returns the first non-empty text among candidates under root.
func TextIn(ctx context.Context, root Element, t Target) (string, error) {
	attempts := make([]Attempt, 0, len(t.Candidates))
	for _, c := range t.Candidates {
		els, err := root.QueryAll(ctx, c.Selector)
		if err != nil {
			attempts = append(attempts, record(t.Name, c.Selector, err))
			continue
		}
		for _, el := range els {
			txt, err := el.Text(ctx)
			if err == nil && txt != "" {
				record(t.Name, c.Selector, nil)
				return txt, nil
			}
		}
		attempts = append(attempts, record(t.Name, c.Selector, ErrNoMatch))
	}
	return "", &NotFoundError{Target: t.Name, Attempts: attempts}
}

// AttrIn returns the first non-empty attribute value among candidates under root.
func AttrIn(ctx context.Context, root Element, t Target, name string) (string, error) {
	attempts := make([]Attempt, 0, len(t.Candidates))
	for _, c := range t.Candidates {
		els, err := root.QueryAll(ctx, c.Selector)
		if err != nil {
			attempts = append(attempts, record(t.Name, c.Selector, err))
			continue
		}
		for _, el := range els {
			v, ok, err := el.Attr(ctx, name)
			if err == nil && ok && v != "" {
				record(t.Name, c.Selector, nil)
				return v, nil
			}
		}
		attempts = append(attempts, record(t.Name, c.Selector, ErrNoMatch))
	}
	return "", &NotFoundError{Target: t.Name, Attempts: attempts}
}

// Race waits for every candidate concurrently and returns the first visible
// match with its candidate index. The losers are cancelled.
func Race(ctx context.Context, page Page, t Target) (Element, int, error) {
	if len(t.Candidates) == 0 {
		return nil, -1, &NotFoundError{Target: t.Name}
	}
	raceCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	type result struct {
		idx int
		el  Element
		err error
	}
	results := make(chan result, len(t.Candidates))
	for i, c := range t.Candidates {
		go func() {
			el, err := page.WaitVisible(raceCtx, c.Selector, timeoutFor(page, c))
			results <- result{idx: i, el: el, err: err}
		}()
	}

	attempts := make([]Attempt, 0, len(t.Candidates))
	for range t.Candidates {
		r := <-results
		a := record(t.Name, t.Candidates[r.idx].Selector, r.err)
		attempts = append(attempts, a)
		if a.Outcome == OutcomeHit {
			engine.IncrLocatorHits()
			return r.el, r.idx, nil
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, -1, err
	}
	engine.IncrLocatorMisses()
	return nil, -1, &NotFoundError{Target: t.Name, Attempts: attempts}
}

func timeoutFor(page Page, c Candidate) time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return page.DefaultTimeout()
}

func record(target, selector string, err error) Attempt {
	a := Attempt{Strategy: selector, Outcome: OutcomeHit}
	switch {
	case err == nil:
	case errors.Is(err, ErrNoMatch):
		a.Outcome = OutcomeMiss
	default:
		a.Outcome, a.Err = OutcomeError, err
	}
	attrs := []any{
		slog.String("target", target),
		slog.String("strategy", selector),
		slog.String("outcome", string(a.Outcome)),
	}
	if a.Err != nil {
		attrs = append(attrs, slog.Any("error", a.Err))
	}
	slog.Debug("locator attempt", attrs...)
	return a
}
