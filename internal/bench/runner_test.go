package bench

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/paranoidandroid2124/pgn2fen-benchmark/internal/dataset"
	"github.com/paranoidandroid2124/pgn2fen-benchmark/internal/store"
	"github.com/paranoidandroid2124/pgn2fen-benchmark/pkg/fen"
)

const testPGN = `[Event "Test"]
[Result "1-0"]

1. e4 e5 2. Nf3 Nc6 1-0
`

type fakeClient struct {
	wrapInProse bool
	failEvery   bool
}

func (f *fakeClient) Provider() string { return "fake" }
func (f *fakeClient) Model() string    { return "echo-1" }

func (f *fakeClient) FEN(_ context.Context, pgnText string) (string, error) {
	if f.failEvery {
		return "", errors.New("synthetic outage")
	}
	truth, _, err := dataset.GroundTruth(pgnText)
	if err != nil {
		return "", err
	}
	if f.wrapInProse {
		return "After careful analysis the position is:\n" + truth + "\nGood luck!", nil
	}
	return truth, nil
}

func writePGNs(t *testing.T, n int) (string, []string) {
	t.Helper()
	dir := t.TempDir()
	var paths []string
	for i := 0; i < n; i++ {
		path := filepath.Join(dir, filepath.Base(t.Name())+string(rune('a'+i))+".pgn")
		if err := os.WriteFile(path, []byte(testPGN), 0o644); err != nil {
			t.Fatalf("write pgn: %v", err)
		}
		paths = append(paths, path)
	}
	return dir, paths
}

func newSink(t *testing.T) *store.JSONLSink {
	t.Helper()
	sink, err := store.OpenJSONL(filepath.Join(t.TempDir(), "run.jsonl"))
	if err != nil {
		t.Fatalf("OpenJSONL: %v", err)
	}
	t.Cleanup(func() { _ = sink.Close() })
	return sink
}

func TestRunnerScoresPerfectEcho(t *testing.T) {
	_, paths := writePGNs(t, 3)
	sink := newSink(t)
	r := NewRunner(&fakeClient{}, sink, Options{MaxWorkers: 2}, nil)

	summary, err := r.Run(context.Background(), paths)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Processed != 3 || summary.Failed != 0 {
		t.Fatalf("summary = %+v", summary)
	}
	if summary.FullCorrect != 3 {
		t.Fatalf("echo client should be fully correct: %+v", summary)
	}

	exps, err := store.LoadExperiments(sink.Path())
	if err != nil {
		t.Fatalf("LoadExperiments: %v", err)
	}
	if len(exps) != 3 {
		t.Fatalf("expected 3 experiments, got %d", len(exps))
	}
	for _, exp := range exps {
		if exp.Game.Halfmoves != 4 {
			t.Fatalf("halfmoves not carried: %+v", exp.Game)
		}
		if !exp.Evaluation.FullCorrectness || exp.Evaluation.Similarity != 1.0 {
			t.Fatalf("evaluation wrong: %+v", exp.Evaluation)
		}
		if exp.Model.FEN == "" {
			t.Fatalf("answered FEN should be recognized")
		}
		if exp.ID == "" || exp.RunID == "" {
			t.Fatalf("ids missing: %+v", exp)
		}
	}
}

func TestRunnerExtractsFromProse(t *testing.T) {
	_, paths := writePGNs(t, 1)
	sink := newSink(t)
	r := NewRunner(&fakeClient{wrapInProse: true}, sink, Options{
		Compare: fen.Config{ExtractFEN: true},
	}, nil)

	summary, err := r.Run(context.Background(), paths)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.FullCorrect != 1 {
		t.Fatalf("extraction should recover the answer: %+v", summary)
	}
}

func TestRunnerCountsFailures(t *testing.T) {
	_, paths := writePGNs(t, 2)
	sink := newSink(t)
	r := NewRunner(&fakeClient{failEvery: true}, sink, Options{}, nil)

	summary, err := r.Run(context.Background(), paths)
	if err != nil {
		t.Fatalf("Run should not fail on per-input errors: %v", err)
	}
	if summary.Failed != 2 || summary.Processed != 0 {
		t.Fatalf("summary = %+v", summary)
	}
}

func TestRunnerRejectsBadConfig(t *testing.T) {
	sink := newSink(t)
	r := NewRunner(&fakeClient{}, sink, Options{Compare: fen.Config{SimilarityFloor: 2}}, nil)
	if _, err := r.Run(context.Background(), nil); err == nil {
		t.Fatalf("expected config error")
	}
}

func TestRunnerResumeSkips(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	defer mr.Close()
	idx := store.NewResumeIndex(redis.NewClient(&redis.Options{Addr: mr.Addr()}))

	_, paths := writePGNs(t, 2)
	sink := newSink(t)
	r := NewRunner(&fakeClient{}, sink, Options{}, nil)
	r.AttachResume(idx)

	if err := idx.MarkDone(context.Background(), r.RunKey(), filepath.Base(paths[0])); err != nil {
		t.Fatalf("MarkDone: %v", err)
	}

	summary, err := r.Run(context.Background(), paths)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Skipped != 1 || summary.Processed != 1 {
		t.Fatalf("summary = %+v", summary)
	}
}

func TestFilterPending(t *testing.T) {
	paths := []string{"/x/a.pgn", "/x/b.pgn", "/x/c.pgn"}
	pending := FilterPending(paths, map[string]bool{"b.pgn": true})
	if len(pending) != 2 || pending[0] != "/x/a.pgn" || pending[1] != "/x/c.pgn" {
		t.Fatalf("pending = %v", pending)
	}
	if got := FilterPending(paths, nil); len(got) != 3 {
		t.Fatalf("nil done set should pass through")
	}
}
