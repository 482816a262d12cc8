package commands

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/anatolykoptev/go-kit/env"

	"github.com/anatolykoptev/go_recap/internal/engine"
	"github.com/anatolykoptev/go_recap/internal/pipeline"
)

// loadConfig reads engine configuration from the environment.
func loadConfig() engine.Config {
	d := engine.DefaultConfig()
	return engine.Config{
		GroqAPIKey:      env.Str("GROQ_API_KEY", ""),
		OpenAIAPIKey:    env.Str("OPENAI_API_KEY", ""),
		AnthropicAPIKey: env.Str("ANTHROPIC_API_KEY", ""),
		GoogleAPIKey:    env.Str("GOOGLE_GENERATIVE_AI_API_KEY", env.Str("GEMINI_API_KEY", "")),
		GroqModel:       env.Str("GROQ_MODEL", ""),
		OpenAIModel:     env.Str("OPENAI_MODEL", ""),
		AnthropicModel:  env.Str("ANTHROPIC_MODEL", ""),
		GeminiModel:     env.Str("GEMINI_MODEL", ""),
		LLMTemperature:  env.Float("LLM_TEMPERATURE", d.LLMTemperature),
		LLMMaxTokens:    env.Int("LLM_MAX_TOKENS", d.LLMMaxTokens),

		AIMaxRetries:   env.Int("AI_MAX_RETRIES", d.AIMaxRetries),
		AIRetryBase:    env.Duration("AI_RETRY_BASE", d.AIRetryBase),
		AIRateLimit:    env.Int("AI_RATE_LIMIT", d.AIRateLimit),
		AIRateWindow:   env.Duration("AI_RATE_WINDOW", d.AIRateWindow),
		SiteRateLimit:  env.Int("SITE_RATE_LIMIT", d.SiteRateLimit),
		SiteRateWindow: env.Duration("SITE_RATE_WINDOW", d.SiteRateWindow),

		MaxChunkSize: env.Int("MAX_CHUNK_SIZE", d.MaxChunkSize),
		TargetWords:  env.Int("TARGET_WORDS", d.TargetWords),
		ChunkDelay:   env.Duration("CHUNK_DELAY", d.ChunkDelay),

		PageTimeout:    env.Duration("PAGE_TIMEOUT", d.PageTimeout),
		ElementTimeout: env.Duration("ELEMENT_TIMEOUT", d.ElementTimeout),
		ChromePath:     env.Str("CHROME_PATH", ""),
		Headless:       parseBool(env.Str("HEADLESS", ""), d.Headless),
	}
}

func parseBool(s string, def bool) bool {
	if s == "" {
		return def
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		slog.Warn("config: invalid boolean, using default", slog.String("value", s), slog.Bool("default", def))
		return def
	}
	return b
}

// newHTTPClient is the client shared by the AI providers.
func newHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 60 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        20,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     60 * time.Second,
		},
	}
}

// newRunner builds the production runner from the environment.
func newRunner() (*pipeline.Runner, error) {
	return pipeline.New(loadConfig(), newHTTPClient())
}
