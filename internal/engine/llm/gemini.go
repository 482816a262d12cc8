package llm

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com"

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopK            int     `json:"topK"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiSafetySetting struct {
	Category  string `json:"category"`
	Threshold string `json:"threshold"`
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
	SafetySettings   []geminiSafetySetting  `json:"safetySettings"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

var geminiSafety = []geminiSafetySetting{
	{Category: "HARM_CATEGORY_HARASSMENT", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
	{Category: "HARM_CATEGORY_HATE_SPEECH", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
}

// gemini calls generateContent.
type gemini struct {
	baseURL string
	apiKey  string
	model   string
	hc      *http.Client
}

func newGemini(baseURL, apiKey, model string, hc *http.Client) *gemini {
	return &gemini{baseURL: strings.TrimRight(baseURL, "/"), apiKey: apiKey, model: model, hc: hc}
}

func (p *gemini) Name() string { return ProviderGoogle }

func (p *gemini) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	req := geminiRequest{
		Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: geminiGenerationConfig{
			Temperature:     opts.Temperature,
			TopK:            40,
			TopP:            0.8,
			MaxOutputTokens: opts.MaxTokens,
		},
		SafetySettings: geminiSafety,
	}
	endpoint := p.baseURL + "/v1beta/models/" + url.PathEscape(p.model) + ":generateContent"

	var resp geminiResponse
	if err := postJSON(ctx, p.hc, endpoint, map[string]string{"x-goog-api-key": p.apiKey}, req, &resp); err != nil {
		return "", err
	}

	if resp.PromptFeedback.BlockReason != "" {
		return "", errors.New("gemini: prompt blocked: " + resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 {
		return "", errors.New("gemini: no candidates in response")
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	if sb.Len() == 0 {
		return "", errors.New("gemini: empty candidate (finish reason " + resp.Candidates[0].FinishReason + ")")
	}
	return sb.String(), nil
}
