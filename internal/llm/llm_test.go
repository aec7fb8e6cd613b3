package llm

import (
	"strings"
	"testing"
)

func TestBuildPrompt(t *testing.T) {
	p := BuildPrompt("1. e4 e5 *\n")
	if !strings.Contains(p, "1. e4 e5 *") {
		t.Fatalf("prompt missing PGN text: %q", p)
	}
	if !strings.Contains(p, "ONLY return the FEN string") {
		t.Fatalf("prompt missing instructions")
	}
	if strings.Contains(p, "{pgn_text}") {
		t.Fatalf("placeholder not substituted")
	}
}

func TestNewForProvider(t *testing.T) {
	budget := 512
	cases := []struct {
		provider string
		wantErr  bool
	}{
		{"openai", false},
		{"deepseek", false},
		{"google", false},
		{"GOOGLE", false},
		{"anthropic", true},
	}
	for _, tc := range cases {
		c, err := NewForProvider(tc.provider, "https://example.test", "key", "some-model", &budget)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("provider %q: expected error", tc.provider)
			}
			continue
		}
		if err != nil {
			t.Fatalf("provider %q: %v", tc.provider, err)
		}
		if c.Model() != "some-model" {
			t.Fatalf("provider %q: model = %q", tc.provider, c.Model())
		}
	}
}

func TestNewClientsRequireKey(t *testing.T) {
	if _, err := NewOpenAI("https://example.test", "", "gpt-4.1-mini"); err == nil {
		t.Fatalf("expected error without api key")
	}
	if _, err := NewGemini("https://example.test", "", "gemini-2.0-flash-001", nil); err == nil {
		t.Fatalf("expected error without api key")
	}
}

func TestFlexTierSelection(t *testing.T) {
	c, err := NewOpenAI("https://example.test", "key", "o4-mini")
	if err != nil {
		t.Fatalf("NewOpenAI: %v", err)
	}
	if !flexModels[c.model] {
		t.Fatalf("o4-mini should be a flex model")
	}
	d, err := NewDeepSeek("https://example.test", "key", "o4-mini")
	if err != nil {
		t.Fatalf("NewDeepSeek: %v", err)
	}
	if d.provider != "deepseek" {
		t.Fatalf("provider = %q", d.provider)
	}
}
