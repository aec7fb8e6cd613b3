package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/paranoidandroid2124/pgn2fen-benchmark/internal/bench"
	appcfg "github.com/paranoidandroid2124/pgn2fen-benchmark/internal/config"
	"github.com/paranoidandroid2124/pgn2fen-benchmark/internal/dataset"
	"github.com/paranoidandroid2124/pgn2fen-benchmark/internal/llm"
	"github.com/paranoidandroid2124/pgn2fen-benchmark/internal/obslog"
	"github.com/paranoidandroid2124/pgn2fen-benchmark/internal/store"
	"github.com/paranoidandroid2124/pgn2fen-benchmark/pkg/fen"
)

func main() {
	suitePath := flag.String("suite", "", "YAML suite file (overrides BENCH_SUITE_FILE)")
	pgnDir := flag.String("pgn-dir", "", "directory of benchmark PGN inputs (overrides BENCH_PGN_DIR)")
	flag.Parse()

	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if *suitePath != "" {
		cfg.SuiteFile = *suitePath
	}
	if *pgnDir != "" {
		cfg.PGNDir = *pgnDir
	}
	if cfg.SuiteFile == "" {
		log.Fatalf("no suite file: pass -suite or set BENCH_SUITE_FILE")
	}

	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	logger := obslog.L()
	defer func() { _ = logger.Sync() }()

	suite, err := appcfg.LoadSuite(cfg.SuiteFile)
	if err != nil {
		logger.Fatal("suite load failed", zap.String("file", cfg.SuiteFile), zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var resume *store.ResumeIndex
	if cfg.RedisURL != "" {
		resume, err = store.NewResumeIndexFromURL(cfg.RedisURL)
		if err != nil {
			logger.Fatal("redis init failed", zap.Error(err))
		}
	}
	var repo *store.Repository
	if cfg.DatabaseURL != "" {
		repo, err = store.NewRepository(cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("postgres init failed", zap.Error(err))
		}
		defer func() { _ = repo.Close() }()
	}

	exitCode := 0
	for i, run := range suite.Runs {
		if err := ctx.Err(); err != nil {
			logger.Warn("interrupted, remaining runs skipped", zap.Int("remaining", len(suite.Runs)-i))
			exitCode = 1
			break
		}
		if err := executeRun(ctx, cfg, run, resume, repo, logger); err != nil {
			logger.Error("run failed",
				zap.String("provider", run.Provider),
				zap.String("model", run.Model),
				zap.Error(err))
			exitCode = 1
		}
	}
	os.Exit(exitCode)
}

func executeRun(ctx context.Context, cfg *appcfg.AppConfig, run appcfg.Run, resume *store.ResumeIndex, repo *store.Repository, logger *zap.Logger) error {
	client, err := buildClient(cfg, run)
	if err != nil {
		return err
	}

	paths, err := dataset.ListPGNs(cfg.PGNDir, run.StartIndex, run.EndIndex)
	if err != nil {
		return fmt.Errorf("list inputs: %w", err)
	}
	if len(paths) == 0 {
		return fmt.Errorf("no PGN inputs in %s for range [%d,%d)", cfg.PGNDir, run.StartIndex, run.EndIndex)
	}

	outPath := run.OutputFile
	if outPath == "" {
		outPath = filepath.Join(cfg.OutputDir, fmt.Sprintf("%s_%s.jsonl", run.Provider, sanitizeModel(run.Model)))
	}
	sink, err := store.OpenJSONL(outPath)
	if err != nil {
		return fmt.Errorf("open output: %w", err)
	}
	defer func() { _ = sink.Close() }()

	// Earlier results in the same JSONL file also count as done, so a rerun
	// after a crash picks up where it stopped even without Redis.
	prior, err := store.LoadExperiments(outPath)
	if err != nil {
		return fmt.Errorf("scan prior output: %w", err)
	}
	paths = bench.FilterPending(paths, store.ProcessedFiles(prior))

	extract := cfg.ExtractFEN
	if run.ExtractFEN != nil {
		extract = *run.ExtractFEN
	}
	runner := bench.NewRunner(client, sink, bench.Options{
		Compare: fen.Config{
			ExtractFEN:        extract,
			HalfmoveTolerance: cfg.HalfmoveTolerance,
			FullmoveTolerance: cfg.FullmoveTolerance,
			SimilarityFloor:   cfg.SimilarityFloor,
		},
		MaxWorkers: cfg.MaxWorkers,
	}, logger)
	if resume != nil {
		runner.AttachResume(resume)
	}
	if repo != nil {
		runner.AttachRepository(repo)
	}

	logger.Info("run starting",
		zap.String("provider", run.Provider),
		zap.String("model", run.Model),
		zap.Int("inputs", len(paths)),
		zap.String("output", outPath))

	started := time.Now()
	summary, err := runner.Run(ctx, paths)
	logger.Info("run finished",
		zap.String("model", run.Model),
		zap.Int("processed", summary.Processed),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed),
		zap.Int("full_correct", summary.FullCorrect),
		zap.Duration("elapsed", time.Since(started)))
	return err
}

func buildClient(cfg *appcfg.AppConfig, run appcfg.Run) (llm.Client, error) {
	var baseURL, apiKey string
	switch run.Provider {
	case "openai":
		baseURL, apiKey = cfg.OpenAIBaseURL, cfg.OpenAIAPIKey
	case "deepseek":
		baseURL, apiKey = cfg.DeepSeekBaseURL, cfg.DeepSeekAPIKey
	case "google":
		baseURL, apiKey = cfg.GeminiBaseURL, cfg.GeminiAPIKey
	default:
		return nil, fmt.Errorf("unsupported provider: %s", run.Provider)
	}
	if apiKey == "" {
		return nil, fmt.Errorf("no API key configured for provider %s", run.Provider)
	}
	return llm.NewForProvider(run.Provider, baseURL, apiKey, run.Model, run.ThinkingBudget,
		llm.WithTimeout(time.Duration(cfg.RequestTimeoutSec)*time.Second))
}

func sanitizeModel(model string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		default:
			return '_'
		}
	}, model)
}
