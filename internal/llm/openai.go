package llm

import (
	"context"
	"fmt"
	"strings"
)

// flexModels run on OpenAI's flex service tier for cheaper long completions.
var flexModels = map[string]bool{
	"o3":                 true,
	"o3-2025-04-16":      true,
	"o4-mini":            true,
	"o4-mini-2025-04-16": true,
}

// OpenAIClient speaks the chat-completions protocol. DeepSeek exposes the
// same surface, so the same client serves both via the base URL.
type OpenAIClient struct {
	core     *httpCore
	baseURL  string
	apiKey   string
	provider string
	model    string
}

func NewOpenAI(baseURL, apiKey, model string, opts ...Option) (*OpenAIClient, error) {
	return newChatClient("openai", baseURL, apiKey, model, opts...)
}

func NewDeepSeek(baseURL, apiKey, model string, opts ...Option) (*OpenAIClient, error) {
	return newChatClient("deepseek", baseURL, apiKey, model, opts...)
}

func newChatClient(provider, baseURL, apiKey, model string, opts ...Option) (*OpenAIClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("%s: api key is required", provider)
	}
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("%s: model is required", provider)
	}
	return &OpenAIClient{
		core:     newHTTPCore(opts...),
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiKey:   apiKey,
		provider: provider,
		model:    model,
	}, nil
}

func (c *OpenAIClient) Provider() string { return c.provider }
func (c *OpenAIClient) Model() string    { return c.model }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	ServiceTier string        `json:"service_tier,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *OpenAIClient) FEN(ctx context.Context, pgnText string) (string, error) {
	req := chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: BuildPrompt(pgnText)}},
		Temperature: 1.0,
	}
	if c.provider == "openai" && flexModels[c.model] {
		req.ServiceTier = "flex"
	}

	var resp chatResponse
	headers := map[string]string{"Authorization": "Bearer " + c.apiKey}
	if err := c.core.postJSON(ctx, c.baseURL+"/chat/completions", headers, req, &resp); err != nil {
		return "", fmt.Errorf("%s completion: %w", c.provider, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s completion: empty choices", c.provider)
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
