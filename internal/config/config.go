// Package config loads benchmark configuration from the environment plus an
// optional YAML suite file describing the model runs.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type AppConfig struct {
	OpenAIBaseURL   string
	OpenAIAPIKey    string
	DeepSeekBaseURL string
	DeepSeekAPIKey  string
	GeminiBaseURL   string
	GeminiAPIKey    string

	PGNDir    string
	OutputDir string
	SuiteFile string

	MaxWorkers        int
	RequestTimeoutSec int

	ExtractFEN        bool
	HalfmoveTolerance int
	FullmoveTolerance int
	SimilarityFloor   float64

	RedisURL    string
	DatabaseURL string
}

func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		OpenAIBaseURL:     "https://api.openai.com/v1",
		DeepSeekBaseURL:   "https://api.deepseek.com/v1",
		GeminiBaseURL:     "https://generativelanguage.googleapis.com",
		PGNDir:            "data/truncated",
		OutputDir:         "model_logs",
		MaxWorkers:        5,
		RequestTimeoutSec: 900,
		SimilarityFloor:   0.5,
	}

	cfg.OpenAIAPIKey = strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	cfg.DeepSeekAPIKey = strings.TrimSpace(os.Getenv("DEEPSEEK_API_KEY"))
	cfg.GeminiAPIKey = strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))

	if v := strings.TrimSpace(os.Getenv("OPENAI_BASE_URL")); v != "" {
		cfg.OpenAIBaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("DEEPSEEK_BASE_URL")); v != "" {
		cfg.DeepSeekBaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("GEMINI_BASE_URL")); v != "" {
		cfg.GeminiBaseURL = v
	}

	if v := strings.TrimSpace(os.Getenv("BENCH_PGN_DIR")); v != "" {
		cfg.PGNDir = v
	}
	if v := strings.TrimSpace(os.Getenv("BENCH_OUTPUT_DIR")); v != "" {
		cfg.OutputDir = v
	}
	cfg.SuiteFile = strings.TrimSpace(os.Getenv("BENCH_SUITE_FILE"))

	if v := strings.TrimSpace(os.Getenv("BENCH_MAX_WORKERS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxWorkers = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("BENCH_REQUEST_TIMEOUT")); v != "" { // seconds
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RequestTimeoutSec = n
		}
	}

	if v := strings.TrimSpace(os.Getenv("BENCH_EXTRACT_FEN")); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.ExtractFEN = b
		}
	}
	if v := strings.TrimSpace(os.Getenv("BENCH_HALFMOVE_TOLERANCE")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.HalfmoveTolerance = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("BENCH_FULLMOVE_TOLERANCE")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.FullmoveTolerance = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("BENCH_SIMILARITY_FLOOR")); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 || f > 1 {
			return nil, fmt.Errorf("BENCH_SIMILARITY_FLOOR must be in [0,1], got %q", v)
		}
		cfg.SimilarityFloor = f
	}

	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))
	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))

	return cfg, nil
}
