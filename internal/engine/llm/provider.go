// Package llm is the AI gateway: one Generate contract over interchangeable
// model providers, picked once at startup by credential priority.
package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/anatolykoptev/go_recap/internal/engine"
)

// Provider names, in priority order.
const (
	ProviderGroq      = "groq"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGoogle    = "google"
)

// Default models per provider.
const (
	DefaultGroqModel      = "llama-3.3-70b-versatile"
	DefaultOpenAIModel    = "gpt-4o-mini"
	DefaultAnthropicModel = "claude-3-5-haiku-20241022"
	DefaultGeminiModel    = "gemini-1.5-flash"
)

// Options are per-call generation settings. Zero fields take the gateway defaults.
type Options struct {
	Temperature float64
	MaxTokens   int
}

// Provider is one model backend.
type Provider interface {
	Name() string
	Generate(ctx context.Context, prompt string, opts Options) (string, error)
}

// ProviderConfig is one configured backend. Lower Rank wins.
type ProviderConfig struct {
	Name    string
	APIKey  string
	Model   string
	Rank    int
	BaseURL string // empty = provider default
}

// Configured lists every provider with a credential, highest priority first.
func Configured(cfg engine.Config) []ProviderConfig {
	all := []ProviderConfig{
		{Name: ProviderGroq, APIKey: cfg.GroqAPIKey, Model: orDefault(cfg.GroqModel, DefaultGroqModel)},
		{Name: ProviderOpenAI, APIKey: cfg.OpenAIAPIKey, Model: orDefault(cfg.OpenAIModel, DefaultOpenAIModel)},
		{Name: ProviderAnthropic, APIKey: cfg.AnthropicAPIKey, Model: orDefault(cfg.AnthropicModel, DefaultAnthropicModel)},
		{Name: ProviderGoogle, APIKey: cfg.GoogleAPIKey, Model: orDefault(cfg.GeminiModel, DefaultGeminiModel)},
	}
	var out []ProviderConfig
	for i, pc := range all {
		if pc.APIKey == "" {
			continue
		}
		pc.Rank = i + 1
		out = append(out, pc)
	}
	return out
}

// Select returns the highest-priority configured provider. No credential at
// all is a fatal configuration error.
func Select(cfg engine.Config) (ProviderConfig, error) {
	configured := Configured(cfg)
	if len(configured) == 0 {
		return ProviderConfig{}, engine.ConfigError(
			"no AI provider configured: set GROQ_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY or GOOGLE_GENERATIVE_AI_API_KEY")
	}
	return configured[0], nil
}

// NewProvider builds the implementation for pc. A nil hc gets a 60s client.
func NewProvider(pc ProviderConfig, hc *http.Client) (Provider, error) {
	if hc == nil {
		hc = &http.Client{Timeout: 60 * time.Second}
	}
	switch pc.Name {
	case ProviderGroq:
		return newOpenAICompatible(pc.Name, orDefault(pc.BaseURL, groqBaseURL), pc.APIKey, pc.Model, hc), nil
	case ProviderOpenAI:
		return newOpenAICompatible(pc.Name, orDefault(pc.BaseURL, openAIBaseURL), pc.APIKey, pc.Model, hc), nil
	case ProviderAnthropic:
		return newAnthropic(orDefault(pc.BaseURL, anthropicBaseURL), pc.APIKey, pc.Model, hc), nil
	case ProviderGoogle:
		return newGemini(orDefault(pc.BaseURL, geminiBaseURL), pc.APIKey, pc.Model, hc), nil
	}
	return nil, engine.ConfigError(fmt.Sprintf("unknown AI provider %q", pc.Name))
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
