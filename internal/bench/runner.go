// Package bench drives a model over a set of benchmark PGN inputs and scores
// every answer. One experiment record is produced per input file.
package bench

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/paranoidandroid2124/pgn2fen-benchmark/internal/dataset"
	"github.com/paranoidandroid2124/pgn2fen-benchmark/internal/llm"
	"github.com/paranoidandroid2124/pgn2fen-benchmark/internal/store"
	"github.com/paranoidandroid2124/pgn2fen-benchmark/pkg/benchdto"
	"github.com/paranoidandroid2124/pgn2fen-benchmark/pkg/fen"
)

// Options tunes one benchmark run.
type Options struct {
	Compare    fen.Config
	MaxWorkers int
	RunID      string
}

// Summary reports what a run did.
type Summary struct {
	Processed   int
	Skipped     int
	Failed      int
	FullCorrect int
}

// Runner fans benchmark inputs out to a bounded worker pool, queries the
// model once per input and writes a scored experiment to the sinks.
type Runner struct {
	client llm.Client
	sink   *store.JSONLSink
	opts   Options
	log    *zap.Logger

	resume *store.ResumeIndex
	repo   *store.Repository

	mu      sync.Mutex
	summary Summary
}

func NewRunner(client llm.Client, sink *store.JSONLSink, opts Options, log *zap.Logger) *Runner {
	if opts.MaxWorkers <= 0 {
		opts.MaxWorkers = 5
	}
	if strings.TrimSpace(opts.RunID) == "" {
		opts.RunID = uuid.NewString()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{client: client, sink: sink, opts: opts, log: log}
}

// AttachResume enables the Redis resume index for this run.
func (r *Runner) AttachResume(idx *store.ResumeIndex) { r.resume = idx }

// AttachRepository mirrors experiments into Postgres alongside the JSONL log.
func (r *Runner) AttachRepository(repo *store.Repository) { r.repo = repo }

// RunKey identifies the (provider, model) pair for resume bookkeeping.
func (r *Runner) RunKey() string {
	return r.client.Provider() + "_" + r.client.Model()
}

// FilterPending drops inputs already present in the processed set.
func FilterPending(paths []string, done map[string]bool) []string {
	if len(done) == 0 {
		return paths
	}
	pending := make([]string, 0, len(paths))
	for _, p := range paths {
		if !done[filepath.Base(p)] {
			pending = append(pending, p)
		}
	}
	return pending
}

// Run processes every PGN input. A failing input is logged and counted, never
// fatal; the only error returned up front is an invalid comparison config or
// a cancelled context.
func (r *Runner) Run(ctx context.Context, pgnFiles []string) (Summary, error) {
	if err := r.opts.Compare.Validate(); err != nil {
		return Summary{}, err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.MaxWorkers)

	for _, path := range pgnFiles {
		path := path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r.processOne(ctx, path)
			return nil
		})
	}
	err := g.Wait()

	r.mu.Lock()
	summary := r.summary
	r.mu.Unlock()
	return summary, err
}

func (r *Runner) processOne(ctx context.Context, path string) {
	base := filepath.Base(path)
	if r.resume != nil {
		done, err := r.resume.IsDone(ctx, r.RunKey(), base)
		if err != nil {
			r.log.Warn("resume lookup failed", zap.String("file", base), zap.Error(err))
		} else if done {
			r.count(func(s *Summary) { s.Skipped++ })
			return
		}
	}

	game, err := dataset.LoadGame(path)
	if err != nil {
		r.log.Error("load game failed", zap.String("file", base), zap.Error(err))
		r.count(func(s *Summary) { s.Failed++ })
		return
	}

	rawText, err := r.client.FEN(ctx, game.PGNText)
	if err != nil {
		r.log.Error("model query failed",
			zap.String("file", base),
			zap.String("model", r.client.Model()),
			zap.Error(err))
		r.count(func(s *Summary) { s.Failed++ })
		return
	}

	rec, err := fen.Compare(game.TruthFEN, rawText, r.opts.Compare)
	if err != nil {
		// Config was validated before the fan-out; this cannot happen.
		r.log.Error("compare failed", zap.String("file", base), zap.Error(err))
		r.count(func(s *Summary) { s.Failed++ })
		return
	}
	rec.Halfmoves = game.Halfmoves

	exp := &benchdto.Experiment{
		ID:    uuid.NewString(),
		RunID: r.opts.RunID,
		Game: benchdto.GameInfo{
			Timestamp:    time.Now().UTC(),
			InputPGNFile: path,
			InputFEN:     game.TruthFEN,
			Halfmoves:    game.Halfmoves,
		},
		Model: benchdto.ModelInfo{
			Provider: r.client.Provider(),
			Model:    r.client.Model(),
			RawText:  rawText,
			FEN:      answeredFEN(rawText, r.opts.Compare.ExtractFEN),
		},
		Evaluation: rec,
	}

	if err := r.sink.Append(exp); err != nil {
		r.log.Error("append experiment failed", zap.String("file", base), zap.Error(err))
		r.count(func(s *Summary) { s.Failed++ })
		return
	}
	if r.repo != nil {
		if err := r.repo.SaveExperiment(ctx, exp); err != nil {
			r.log.Warn("postgres mirror failed", zap.String("file", base), zap.Error(err))
		}
	}
	if r.resume != nil {
		if err := r.resume.MarkDone(ctx, r.RunKey(), base); err != nil {
			r.log.Warn("resume mark failed", zap.String("file", base), zap.Error(err))
		}
	}

	r.count(func(s *Summary) {
		s.Processed++
		if rec.FullCorrectness {
			s.FullCorrect++
		}
	})
	r.log.Info("scored",
		zap.String("file", base),
		zap.Int("halfmoves", game.Halfmoves),
		zap.Bool("full_correctness", rec.FullCorrectness),
		zap.Float64("similarity", rec.Similarity))
}

// answeredFEN records the FEN the model is considered to have answered, when
// one could be recognized in the response at all.
func answeredFEN(rawText string, extract bool) string {
	candidate := strings.TrimSpace(rawText)
	if extract {
		candidate = fen.Extract(rawText)
	}
	if fen.Shaped(candidate) {
		return candidate
	}
	return ""
}

func (r *Runner) count(update func(*Summary)) {
	r.mu.Lock()
	update(&r.summary)
	r.mu.Unlock()
}
