package engine

import "time"

// Config holds all engine configuration, injected from main.
type Config struct {
	GroqAPIKey      string
	OpenAIAPIKey    string
	AnthropicAPIKey string
	GoogleAPIKey    string // GOOGLE_GENERATIVE_AI_API_KEY, falls back to GEMINI_API_KEY
	GroqModel       string
	OpenAIModel     string
	AnthropicModel  string
	GeminiModel     string
	LLMTemperature  float64
	LLMMaxTokens    int

	AIMaxRetries   int
	AIRetryBase    time.Duration
	AIRateLimit    int
	AIRateWindow   time.Duration
	SiteRateLimit  int
	SiteRateWindow time.Duration

	MaxChunkSize int
	TargetWords  int
	ChunkDelay   time.Duration

	PageTimeout    time.Duration
	ElementTimeout time.Duration
	ChromePath     string // empty = let chromedp find Chrome
	Headless       bool
}

// DefaultConfig returns the tunables used when the environment sets nothing.
func DefaultConfig() Config {
	return Config{
		LLMTemperature: 0.7,
		LLMMaxTokens:   1024,
		AIMaxRetries:   3,
		AIRetryBase:    2 * time.Second,
		AIRateLimit:    10,
		AIRateWindow:   time.Minute,
		SiteRateLimit:  20,
		SiteRateWindow: time.Minute,
		MaxChunkSize:   5000,
		TargetWords:    500,
		ChunkDelay:     time.Second,
		PageTimeout:    30 * time.Second,
		ElementTimeout: 10 * time.Second,
		Headless:       true,
	}
}
