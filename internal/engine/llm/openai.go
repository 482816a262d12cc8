package llm

import (
	"context"
	"net/http"

	kitllm "github.com/anatolykoptev/go-kit/llm"
)

const (
	groqBaseURL   = "https://api.groq.com/openai/v1"
	openAIBaseURL = "https://api.openai.com/v1"
)

// openAICompatible serves Groq and OpenAI, which share the chat completions API.
type openAICompatible struct {
	name   string
	client *kitllm.Client
}

func newOpenAICompatible(name, baseURL, apiKey, model string, hc *http.Client) *openAICompatible {
	return &openAICompatible{
		name:   name,
		client: kitllm.NewClient(baseURL, apiKey, model, kitllm.WithHTTPClient(hc)),
	}
}

func (p *openAICompatible) Name() string { return p.name }

func (p *openAICompatible) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	return p.client.Complete(ctx, "", prompt,
		kitllm.WithChatTemperature(opts.Temperature),
		kitllm.WithChatMaxTokens(opts.MaxTokens),
	)
}
