package llm

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/anatolykoptev/go_recap/internal/engine"
)

// ErrEmptyResponse is returned when a provider answers with blank text.
var ErrEmptyResponse = errors.New("empty model response")

// GatewayOptions configures NewGateway.
type GatewayOptions struct {
	Defaults Options             // applied to zero fields of each call
	Limiter  *engine.RateLimiter // every attempt passes it; nil = unlimited
	Retry    engine.RetryConfig  // throttle policy; zero = ThrottleRetryConfig(3, 2s)
}

// Gateway fronts exactly one provider with rate limiting and throttle retry.
type Gateway struct {
	provider Provider
	defaults Options
	limiter  *engine.RateLimiter
	retry    engine.RetryConfig
}

// NewGateway wraps p.
func NewGateway(p Provider, opts GatewayOptions) *Gateway {
	if opts.Retry.Retryable == nil {
		maxRetries, base := opts.Retry.MaxRetries, opts.Retry.InitialWait
		if maxRetries == 0 && base == 0 {
			maxRetries, base = 3, engine.DefaultRetryConfig.InitialWait
		}
		sleep := opts.Retry.Sleep
		opts.Retry = engine.ThrottleRetryConfig(maxRetries, base)
		opts.Retry.Sleep = sleep
	}
	if opts.Defaults.Temperature == 0 {
		opts.Defaults.Temperature = 0.7
	}
	if opts.Defaults.MaxTokens == 0 {
		opts.Defaults.MaxTokens = 1024
	}
	return &Gateway{
		provider: p,
		defaults: opts.Defaults,
		limiter:  opts.Limiter,
		retry:    opts.Retry,
	}
}

// New selects the highest-priority configured provider from cfg and wraps it.
// It fails with a config error when no credential is set.
func New(cfg engine.Config, hc *http.Client) (*Gateway, error) {
	pc, err := Select(cfg)
	if err != nil {
		return nil, err
	}
	p, err := NewProvider(pc, hc)
	if err != nil {
		return nil, err
	}
	slog.Info("llm: provider selected", slog.String("provider", pc.Name), slog.String("model", pc.Model))
	return NewGateway(p, GatewayOptions{
		Defaults: Options{Temperature: cfg.LLMTemperature, MaxTokens: cfg.LLMMaxTokens},
		Limiter:  engine.NewRateLimiter("ai", cfg.AIRateLimit, cfg.AIRateWindow),
		Retry:    engine.ThrottleRetryConfig(cfg.AIMaxRetries, cfg.AIRetryBase),
	}), nil
}

// Provider returns the active provider name.
func (g *Gateway) Provider() string { return g.provider.Name() }

// Generate sends prompt to the provider. Throttling is retried with doubling
// backoff up to the ceiling; every other error returns at once. Errors are
// engine.Error values: Transient past the ceiling, Unknown otherwise.
func (g *Gateway) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	if opts.Temperature == 0 {
		opts.Temperature = g.defaults.Temperature
	}
	if opts.MaxTokens == 0 {
		opts.MaxTokens = g.defaults.MaxTokens
	}
	name := g.provider.Name()

	text, err := engine.RetryDo(ctx, g.retry, func() (string, error) {
		if wait, err := g.limiter.Wait(ctx); err != nil {
			return "", err
		} else if wait > 0 {
			slog.Debug("llm: rate limited", slog.String("provider", name), slog.Duration("waited", wait))
		}

		engine.IncrLLMCalls()
		out, err := g.provider.Generate(ctx, prompt, opts)
		if err != nil {
			engine.IncrLLMErrors()
			if engine.IsThrottled(err) {
				engine.IncrLLMThrottled()
				slog.Warn("llm: throttled", slog.String("provider", name), slog.Any("error", err))
			}
			return "", err
		}
		return out, nil
	})
	if err != nil {
		if errors.Is(err, engine.ErrRetriesExhausted) {
			return "", engine.Transient("llm", err)
		}
		slog.Error("llm: generate failed", slog.String("provider", name), slog.Any("error", err))
		return "", engine.Wrap("llm", err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", engine.Wrap("llm", ErrEmptyResponse)
	}
	slog.Debug("llm: generated",
		slog.String("provider", name),
		slog.Int("prompt_chars", len(prompt)),
		slog.String("preview", engine.TruncateRunes(text, 80, "...")))
	return text, nil
}
