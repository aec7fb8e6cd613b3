package config

import (
	"fmt"
	"os"
	"strings"

	yaml "gopkg.in/yaml.v3"
)

// Run is one model evaluation pass from the suite file.
type Run struct {
	Provider       string `yaml:"provider"`
	Model          string `yaml:"model"`
	ThinkingBudget *int   `yaml:"thinking_budget,omitempty"`
	ExtractFEN     *bool  `yaml:"extract_fen,omitempty"`
	StartIndex     int    `yaml:"start_index,omitempty"`
	EndIndex       int    `yaml:"end_index,omitempty"`
	OutputFile     string `yaml:"output_file,omitempty"`
}

// Suite is the YAML model-suite document.
type Suite struct {
	Runs []Run `yaml:"runs"`
}

// LoadSuite reads and validates a suite file.
func LoadSuite(path string) (*Suite, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read suite file: %w", err)
	}
	var s Suite
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("parse suite file: %w", err)
	}
	if len(s.Runs) == 0 {
		return nil, fmt.Errorf("suite file %s declares no runs", path)
	}
	for i := range s.Runs {
		r := &s.Runs[i]
		r.Provider = strings.ToLower(strings.TrimSpace(r.Provider))
		r.Model = strings.TrimSpace(r.Model)
		switch r.Provider {
		case "openai", "google", "deepseek":
		default:
			return nil, fmt.Errorf("run %d: unsupported provider %q", i, r.Provider)
		}
		if r.Model == "" {
			return nil, fmt.Errorf("run %d: model is required", i)
		}
		if r.EndIndex == 0 {
			r.EndIndex = 1000
		}
		if r.EndIndex < r.StartIndex {
			return nil, fmt.Errorf("run %d: end_index %d before start_index %d", i, r.EndIndex, r.StartIndex)
		}
	}
	return &s, nil
}
