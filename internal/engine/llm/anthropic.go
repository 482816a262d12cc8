package llm

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

const (
	anthropicBaseURL = "https://api.anthropic.com"
	anthropicVersion = "2023-06-01"
)

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float64            `json:"temperature"`
	Messages    []anthropicMessage `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// anthropic calls the Messages API.
type anthropic struct {
	baseURL string
	apiKey  string
	model   string
	hc      *http.Client
}

func newAnthropic(baseURL, apiKey, model string, hc *http.Client) *anthropic {
	return &anthropic{baseURL: strings.TrimRight(baseURL, "/"), apiKey: apiKey, model: model, hc: hc}
}

func (p *anthropic) Name() string { return ProviderAnthropic }

func (p *anthropic) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	req := anthropicRequest{
		Model:       p.model,
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
		Messages:    []anthropicMessage{{Role: "user", Content: prompt}},
	}
	var resp anthropicResponse
	err := postJSON(ctx, p.hc, p.baseURL+"/v1/messages", map[string]string{
		"x-api-key":         p.apiKey,
		"anthropic-version": anthropicVersion,
	}, req, &resp)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", errors.New("anthropic: response has no text content")
	}
	return sb.String(), nil
}
