package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strings"
	"time"
)

// RetryConfig controls retry behavior. It is the single backoff policy shared by
// page navigation and the AI gateway.
type RetryConfig struct {
	MaxRetries  int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64

	// Retryable decides whether an error is worth another attempt.
	// nil means isRetryable (network errors, timeouts, retryable HTTP status).
	Retryable func(error) bool

	// Sleep suspends between attempts. nil means a context-aware timer.
	Sleep func(ctx context.Context, d time.Duration) error
}

// DefaultRetryConfig is suitable for page navigation.
var DefaultRetryConfig = RetryConfig{
	MaxRetries:  3,
	InitialWait: 2 * time.Second,
	MaxWait:     10 * time.Second,
	Multiplier:  2.0,
}

// ThrottleRetryConfig returns the AI gateway policy: retry only on throttling,
// base delay doubling per attempt.
func ThrottleRetryConfig(maxRetries int, base time.Duration) RetryConfig {
	return RetryConfig{
		MaxRetries:  maxRetries,
		InitialWait: base,
		MaxWait:     2 * time.Minute,
		Multiplier:  2.0,
		Retryable:   IsThrottled,
	}
}

// Delay returns the wait before retry number attempt (0-based).
func (rc RetryConfig) Delay(attempt int) time.Duration {
	mult := rc.Multiplier
	if mult <= 0 {
		mult = 2
	}
	wait := time.Duration(float64(rc.InitialWait) * math.Pow(mult, float64(attempt)))
	if rc.MaxWait > 0 && wait > rc.MaxWait {
		wait = rc.MaxWait
	}
	return wait
}

// RetryDo retries fn up to MaxRetries times with exponential backoff.
// Retries only on retryable errors; returns immediately on non-retryable or context cancellation.
// When retries run out the last error is returned wrapped in ErrRetriesExhausted.
func RetryDo[T any](ctx context.Context, rc RetryConfig, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	retryable := rc.Retryable
	if retryable == nil {
		retryable = isRetryable
	}
	sleep := rc.Sleep
	if sleep == nil {
		sleep = SleepContext
	}

	for attempt := 0; attempt <= rc.MaxRetries; attempt++ {
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !retryable(err) {
			return zero, err
		}

		if attempt < rc.MaxRetries {
			wait := rc.Delay(attempt)
			slog.Debug("retrying", slog.Int("attempt", attempt+1), slog.Duration("wait", wait), slog.Any("error", err))
			if err := sleep(ctx, wait); err != nil {
				return zero, err
			}
		}
	}
	return zero, fmt.Errorf("%w: %w", ErrRetriesExhausted, lastErr)
}

// ErrRetriesExhausted marks an error that was still retryable when the ceiling was hit.
var ErrRetriesExhausted = errors.New("retries exhausted")

// SleepContext waits for d or until ctx is done.
func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// StatusError is a non-2xx HTTP answer from an upstream API.
type StatusError struct {
	StatusCode int
	Body       string // truncated snippet
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("HTTP %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

// IsThrottled reports whether err is a throttling signal (HTTP 429 or a
// provider "rate limit" message from a client that does not expose status codes).
func IsThrottled(err error) bool {
	if err == nil {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode == http.StatusTooManyRequests
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "too many requests")
}

// isRetryable returns true for transient errors worth retrying.
func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var se *StatusError
	if errors.As(err, &se) {
		return isRetryableStatus(se.StatusCode)
	}

	// Connection errors (dial failures, connection refused, etc.)
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}

	// Chrome reports network failures as net::ERR_* strings.
	return strings.Contains(err.Error(), "net::ERR_")
}

// isRetryableStatus returns true for HTTP status codes worth retrying.
func isRetryableStatus(code int) bool {
	switch code {
	case 429, 500, 502, 503, 504:
		return true
	}
	return false
}
