package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/paranoidandroid2124/pgn2fen-benchmark/internal/boardimg"
	"github.com/paranoidandroid2124/pgn2fen-benchmark/internal/report"
	"github.com/paranoidandroid2124/pgn2fen-benchmark/internal/store"
	"github.com/paranoidandroid2124/pgn2fen-benchmark/pkg/benchdto"
	"github.com/paranoidandroid2124/pgn2fen-benchmark/pkg/fen"
)

func main() {
	diffDir := flag.String("diff-dir", "", "write board-diff PNGs for imperfect placements into this directory")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: fenreport [-diff-dir DIR] RESULTS.jsonl [RESULTS.jsonl ...]")
		os.Exit(2)
	}

	exitCode := 0
	for _, path := range flag.Args() {
		exps, err := store.LoadExperiments(path)
		if err != nil {
			log.Printf("%s: %v", path, err)
			exitCode = 1
			continue
		}
		if len(exps) == 0 {
			log.Printf("%s: no experiments", path)
			continue
		}

		fmt.Printf("== %s (%s / %s, %d experiments)\n\n",
			filepath.Base(path), exps[0].Model.Provider, exps[0].Model.Model, len(exps))
		fmt.Print(report.RenderTable(report.BucketTable(exps, report.DefaultBuckets)))
		fmt.Println()

		if *diffDir != "" {
			if err := writeDiffs(*diffDir, exps); err != nil {
				log.Printf("%s: diff images: %v", path, err)
				exitCode = 1
			}
		}
	}
	os.Exit(exitCode)
}

// writeDiffs renders one PNG per experiment whose placement parsed but did
// not match the truth exactly.
func writeDiffs(dir string, exps []*benchdto.Experiment) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, exp := range exps {
		ev := exp.Evaluation
		if ev.Placement.Outcome == fen.Exact || ev.Placement.Outcome == fen.Unparseable {
			continue
		}
		truth := fen.Parse(exp.Game.InputFEN)
		candidate := fen.Parse(exp.Model.FEN)
		if truth.Board == nil || candidate.Board == nil {
			continue
		}
		png, err := boardimg.RenderDiff(truth.Board, candidate.Board)
		if err != nil {
			return fmt.Errorf("render %s: %w", exp.ID, err)
		}
		name := strings.TrimSuffix(filepath.Base(exp.Game.InputPGNFile), ".pgn")
		out := filepath.Join(dir, fmt.Sprintf("%s_%s.png", name, exp.ID[:8]))
		if err := os.WriteFile(out, png, 0o644); err != nil {
			return err
		}
	}
	return nil
}
