package engine

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"
)

// recordSleep returns a Sleep func that records waits without blocking.
func recordSleep(waits *[]time.Duration) func(context.Context, time.Duration) error {
	return func(ctx context.Context, d time.Duration) error {
		*waits = append(*waits, d)
		return ctx.Err()
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"http 429", &StatusError{StatusCode: 429}, true},
		{"http 502", &StatusError{StatusCode: 502}, true},
		{"http 404", &StatusError{StatusCode: 404}, false},
		{"regular error", errors.New("something"), false},
		{"timeout", &net.DNSError{IsTimeout: true}, true},
		{"op error", &net.OpError{Op: "dial", Err: errors.New("refused")}, true},
		{"deadline", fmt.Errorf("navigate: %w", context.DeadlineExceeded), true},
		{"canceled", context.Canceled, false},
		{"chrome net error", errors.New("page load error net::ERR_CONNECTION_RESET"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isRetryable(tt.err); got != tt.want {
				t.Errorf("isRetryable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsThrottled(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"status 429", &StatusError{StatusCode: 429}, true},
		{"status 500", &StatusError{StatusCode: 500}, false},
		{"wrapped 429", fmt.Errorf("groq: %w", &StatusError{StatusCode: 429}), true},
		{"message 429", errors.New("llm: status 429: slow down"), true},
		{"rate limit text", errors.New("Rate limit reached for model"), true},
		{"nil", nil, false},
		{"other", errors.New("invalid api key"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsThrottled(tt.err); got != tt.want {
				t.Errorf("IsThrottled() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRetryConfigDelay(t *testing.T) {
	rc := RetryConfig{InitialWait: time.Second, MaxWait: 5 * time.Second, Multiplier: 2}
	want := []time.Duration{time.Second, 2 * time.Second, 4 * time.Second, 5 * time.Second}
	for i, w := range want {
		if got := rc.Delay(i); got != w {
			t.Errorf("Delay(%d) = %v, want %v", i, got, w)
		}
	}
}

func TestRetryDoSuccess(t *testing.T) {
	rc := RetryConfig{MaxRetries: 3, InitialWait: time.Millisecond, MaxWait: 10 * time.Millisecond, Multiplier: 2}
	calls := 0
	got, err := RetryDo(context.Background(), rc, func() (string, error) {
		calls++
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ok" {
		t.Errorf("got %q, want %q", got, "ok")
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestRetryDoRetryThenSuccess(t *testing.T) {
	var waits []time.Duration
	rc := RetryConfig{MaxRetries: 3, InitialWait: time.Millisecond, MaxWait: 10 * time.Millisecond, Multiplier: 2, Sleep: recordSleep(&waits)}
	calls := 0
	got, err := RetryDo(context.Background(), rc, func() (string, error) {
		calls++
		if calls < 3 {
			return "", &StatusError{StatusCode: 503}
		}
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ok" {
		t.Errorf("got %q, want %q", got, "ok")
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
	if len(waits) != 2 || waits[0] >= waits[1] {
		t.Errorf("expected two increasing waits, got %v", waits)
	}
}

func TestRetryDoExhausted(t *testing.T) {
	var waits []time.Duration
	rc := RetryConfig{MaxRetries: 2, InitialWait: time.Millisecond, MaxWait: 10 * time.Millisecond, Multiplier: 2, Sleep: recordSleep(&waits)}
	calls := 0
	_, err := RetryDo(context.Background(), rc, func() (string, error) {
		calls++
		return "", &StatusError{StatusCode: 502}
	})
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if !errors.Is(err, ErrRetriesExhausted) {
		t.Errorf("expected ErrRetriesExhausted, got %v", err)
	}
	if calls != 3 { // initial + 2 retries
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestRetryDoNonRetryable(t *testing.T) {
	rc := RetryConfig{MaxRetries: 3, InitialWait: time.Millisecond, MaxWait: 10 * time.Millisecond, Multiplier: 2}
	calls := 0
	_, err := RetryDo(context.Background(), rc, func() (string, error) {
		calls++
		return "", errors.New("permanent error")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, ErrRetriesExhausted) {
		t.Error("non-retryable error must not be marked exhausted")
	}
	if calls != 1 {
		t.Errorf("expected 1 call (no retry for non-retryable), got %d", calls)
	}
}

func TestRetryDoCustomRetryable(t *testing.T) {
	var waits []time.Duration
	rc := ThrottleRetryConfig(3, time.Second)
	rc.Sleep = recordSleep(&waits)

	calls := 0
	_, err := RetryDo(context.Background(), rc, func() (int, error) {
		calls++
		return 0, &StatusError{StatusCode: 503} // retryable by default, not a throttle
	})
	if err == nil || calls != 1 {
		t.Fatalf("throttle policy must not retry 503: calls=%d err=%v", calls, err)
	}
}

func TestRetryDoContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // cancel immediately

	rc := RetryConfig{MaxRetries: 3, InitialWait: time.Millisecond, MaxWait: 10 * time.Millisecond, Multiplier: 2}
	_, err := RetryDo(ctx, rc, func() (string, error) {
		return "", &StatusError{StatusCode: 503}
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
