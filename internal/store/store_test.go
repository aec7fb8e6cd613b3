package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/paranoidandroid2124/pgn2fen-benchmark/pkg/benchdto"
	"github.com/paranoidandroid2124/pgn2fen-benchmark/pkg/fen"
)

func sampleExperiment(file string) *benchdto.Experiment {
	rec, _ := fen.Compare(
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		fen.Config{},
	)
	return &benchdto.Experiment{
		ID:    "exp-" + file,
		RunID: "run-1",
		Game: benchdto.GameInfo{
			Timestamp:    time.Now().UTC(),
			InputPGNFile: "data/truncated/" + file,
			InputFEN:     "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
			Halfmoves:    0,
		},
		Model: benchdto.ModelInfo{
			Provider: "google",
			Model:    "gemini-2.0-flash-001",
			RawText:  "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
			FEN:      "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		},
		Evaluation: rec,
	}
}

func TestJSONLAppendAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "run.jsonl")
	sink, err := OpenJSONL(path)
	if err != nil {
		t.Fatalf("OpenJSONL: %v", err)
	}
	for _, name := range []string{"halfmoves0001_001.pgn", "halfmoves0002_001.pgn"} {
		if err := sink.Append(sampleExperiment(name)); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	exps, err := LoadExperiments(path)
	if err != nil {
		t.Fatalf("LoadExperiments: %v", err)
	}
	if len(exps) != 2 {
		t.Fatalf("expected 2 experiments, got %d", len(exps))
	}
	if !exps[0].Evaluation.FullCorrectness {
		t.Fatalf("evaluation lost in round trip: %+v", exps[0].Evaluation)
	}

	done := ProcessedFiles(exps)
	if !done["halfmoves0001_001.pgn"] || !done["halfmoves0002_001.pgn"] {
		t.Fatalf("processed index incomplete: %v", done)
	}
}

func TestJSONLAppendResumesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.jsonl")
	first, err := OpenJSONL(path)
	if err != nil {
		t.Fatalf("OpenJSONL: %v", err)
	}
	if err := first.Append(sampleExperiment("a.pgn")); err != nil {
		t.Fatalf("Append: %v", err)
	}
	_ = first.Close()

	second, err := OpenJSONL(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if err := second.Append(sampleExperiment("b.pgn")); err != nil {
		t.Fatalf("Append after reopen: %v", err)
	}
	_ = second.Close()

	exps, err := LoadExperiments(path)
	if err != nil {
		t.Fatalf("LoadExperiments: %v", err)
	}
	if len(exps) != 2 {
		t.Fatalf("append must not truncate, got %d records", len(exps))
	}
}

func newTestIndex(t *testing.T) (*ResumeIndex, func()) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewResumeIndex(rdb), func() { mr.Close() }
}

func TestResumeIndex(t *testing.T) {
	idx, cleanup := newTestIndex(t)
	defer cleanup()
	ctx := context.Background()

	const runKey = "google_gemini-2.0-flash-001"
	done, err := idx.IsDone(ctx, runKey, "a.pgn")
	if err != nil {
		t.Fatalf("IsDone: %v", err)
	}
	if done {
		t.Fatalf("fresh index should be empty")
	}

	if err := idx.MarkDone(ctx, runKey, "a.pgn"); err != nil {
		t.Fatalf("MarkDone: %v", err)
	}
	done, err = idx.IsDone(ctx, runKey, "a.pgn")
	if err != nil || !done {
		t.Fatalf("expected a.pgn done, got %v err=%v", done, err)
	}

	// A different run does not see the mark.
	done, err = idx.IsDone(ctx, "openai_o4-mini", "a.pgn")
	if err != nil || done {
		t.Fatalf("runs must not share resume state")
	}
}

func TestResumeIndexSeed(t *testing.T) {
	idx, cleanup := newTestIndex(t)
	defer cleanup()
	ctx := context.Background()

	if err := idx.Seed(ctx, "run", map[string]bool{"a.pgn": true, "b.pgn": true}); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	files, err := idx.Done(ctx, "run")
	if err != nil {
		t.Fatalf("Done: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 seeded files, got %v", files)
	}
}
