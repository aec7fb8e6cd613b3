package llm

import (
	"fmt"
	"strings"
)

// NewForProvider builds the right client for a provider name from the suite
// file: "openai", "deepseek" or "google".
func NewForProvider(provider, baseURL, apiKey, model string, thinkingBudget *int, opts ...Option) (Client, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "openai":
		return NewOpenAI(baseURL, apiKey, model, opts...)
	case "deepseek":
		return NewDeepSeek(baseURL, apiKey, model, opts...)
	case "google":
		return NewGemini(baseURL, apiKey, model, thinkingBudget, opts...)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}
