package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anatolykoptev/go_recap/internal/engine"
)

func TestSelectPriority(t *testing.T) {
	tests := []struct {
		name      string
		groq      string
		openai    string
		anthropic string
		google    string
		want      string
	}{
		{"all set", "g", "o", "a", "gg", ProviderGroq},
		{"no groq", "", "o", "a", "gg", ProviderOpenAI},
		{"anthropic and google", "", "", "a", "gg", ProviderAnthropic},
		{"google only", "", "", "", "gg", ProviderGoogle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := engine.DefaultConfig()
			cfg.GroqAPIKey, cfg.OpenAIAPIKey, cfg.AnthropicAPIKey, cfg.GoogleAPIKey = tt.groq, tt.openai, tt.anthropic, tt.google

			pc, err := Select(cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, pc.Name)
		})
	}
}

func TestConfiguredModelsAndRanks(t *testing.T) {
	cfg := engine.DefaultConfig()
	cfg.GroqAPIKey = "g"
	cfg.GoogleAPIKey = "gg"
	cfg.GeminiModel = "gemini-2.0-flash"

	got := Configured(cfg)
	require.Len(t, got, 2)
	assert.Equal(t, ProviderConfig{Name: ProviderGroq, APIKey: "g", Model: DefaultGroqModel, Rank: 1}, got[0])
	assert.Equal(t, ProviderConfig{Name: ProviderGoogle, APIKey: "gg", Model: "gemini-2.0-flash", Rank: 4}, got[1])
}

func TestSelectNone(t *testing.T) {
	_, err := Select(engine.DefaultConfig())
	assert.True(t, errors.Is(err, engine.ErrConfig))
}

func TestNewProviderUnknown(t *testing.T) {
	_, err := NewProvider(ProviderConfig{Name: "mystery"}, nil)
	assert.True(t, errors.Is(err, engine.ErrConfig))
}

func TestAnthropicRequestShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "key-a", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))

		var req anthropicRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "claude-test", req.Model)
		assert.Equal(t, 300, req.MaxTokens)
		assert.InDelta(t, 0.5, req.Temperature, 1e-9)
		assert.Equal(t, []anthropicMessage{{Role: "user", Content: "hello"}}, req.Messages)

		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"Hi "},{"type":"text","text":"there"}]}`))
	}))
	defer srv.Close()

	p, err := NewProvider(ProviderConfig{Name: ProviderAnthropic, APIKey: "key-a", Model: "claude-test", BaseURL: srv.URL}, srv.Client())
	require.NoError(t, err)

	got, err := p.Generate(context.Background(), "hello", Options{Temperature: 0.5, MaxTokens: 300})
	require.NoError(t, err)
	assert.Equal(t, "Hi there", got)
}

func TestGeminiRequestShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/gemini-test:generateContent", r.URL.Path)
		assert.Equal(t, "key-g", r.Header.Get("x-goog-api-key"))

		var req geminiRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 1)
		assert.Equal(t, "hello", req.Contents[0].Parts[0].Text)
		assert.Equal(t, 40, req.GenerationConfig.TopK)
		assert.InDelta(t, 0.8, req.GenerationConfig.TopP, 1e-9)
		assert.Equal(t, 1024, req.GenerationConfig.MaxOutputTokens)
		assert.Equal(t, geminiSafety, req.SafetySettings)

		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Gemini says hi"}]},"finishReason":"STOP"}]}`))
	}))
	defer srv.Close()

	p, err := NewProvider(ProviderConfig{Name: ProviderGoogle, APIKey: "key-g", Model: "gemini-test", BaseURL: srv.URL}, srv.Client())
	require.NoError(t, err)

	got, err := p.Generate(context.Background(), "hello", Options{Temperature: 0.7, MaxTokens: 1024})
	require.NoError(t, err)
	assert.Equal(t, "Gemini says hi", got)
}

func TestProviderThrottleStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"quota"}}`))
	}))
	defer srv.Close()

	for _, name := range []string{ProviderAnthropic, ProviderGoogle} {
		p, err := NewProvider(ProviderConfig{Name: name, APIKey: "k", Model: "m", BaseURL: srv.URL}, srv.Client())
		require.NoError(t, err)

		_, err = p.Generate(context.Background(), "x", Options{MaxTokens: 10})
		require.Error(t, err, name)
		assert.True(t, engine.IsThrottled(err), name)

		var se *engine.StatusError
		require.True(t, errors.As(err, &se), name)
		assert.Contains(t, se.Body, "quota")
	}
}

func TestGeminiBlockedPrompt(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"promptFeedback":{"blockReason":"SAFETY"}}`))
	}))
	defer srv.Close()

	p, err := NewProvider(ProviderConfig{Name: ProviderGoogle, APIKey: "k", Model: "m", BaseURL: srv.URL}, srv.Client())
	require.NoError(t, err)

	_, err = p.Generate(context.Background(), "x", Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SAFETY")
	assert.False(t, engine.IsThrottled(err))
}
