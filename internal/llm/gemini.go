package llm

import (
	"context"
	"fmt"
	"strings"
)

// GeminiClient speaks the generateContent protocol of the Gemini API.
type GeminiClient struct {
	core           *httpCore
	baseURL        string
	apiKey         string
	model          string
	thinkingBudget *int
}

func NewGemini(baseURL, apiKey, model string, thinkingBudget *int, opts ...Option) (*GeminiClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("gemini: api key is required")
	}
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("gemini: model is required")
	}
	return &GeminiClient{
		core:           newHTTPCore(opts...),
		baseURL:        strings.TrimRight(baseURL, "/"),
		apiKey:         apiKey,
		model:          model,
		thinkingBudget: thinkingBudget,
	}, nil
}

func (c *GeminiClient) Provider() string { return "google" }
func (c *GeminiClient) Model() string    { return c.model }

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
	Role  string       `json:"role,omitempty"`
}

type geminiThinkingConfig struct {
	ThinkingBudget int `json:"thinkingBudget"`
}

type geminiGenerationConfig struct {
	Temperature    float64               `json:"temperature"`
	ThinkingConfig *geminiThinkingConfig `json:"thinkingConfig,omitempty"`
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func (c *GeminiClient) FEN(ctx context.Context, pgnText string) (string, error) {
	req := geminiRequest{
		Contents:         []geminiContent{{Parts: []geminiPart{{Text: BuildPrompt(pgnText)}}}},
		GenerationConfig: geminiGenerationConfig{Temperature: 1.0},
	}
	// Thinking budgets only exist on the 2.5 generation.
	if c.thinkingBudget != nil && strings.Contains(c.model, "2.5") {
		req.GenerationConfig.ThinkingConfig = &geminiThinkingConfig{ThinkingBudget: *c.thinkingBudget}
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)
	headers := map[string]string{"x-goog-api-key": c.apiKey}
	var resp geminiResponse
	if err := c.core.postJSON(ctx, url, headers, req, &resp); err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini generate: empty candidates")
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		b.WriteString(part.Text)
	}
	return strings.TrimSpace(b.String()), nil
}
