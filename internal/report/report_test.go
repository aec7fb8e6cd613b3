package report

import (
	"strings"
	"testing"

	"github.com/paranoidandroid2124/pgn2fen-benchmark/pkg/benchdto"
	"github.com/paranoidandroid2124/pgn2fen-benchmark/pkg/fen"
)

const truthFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

func exp(t *testing.T, candidate string, halfmoves int) *benchdto.Experiment {
	t.Helper()
	rec, err := fen.Compare(truthFEN, candidate, fen.Config{})
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	rec.Halfmoves = halfmoves
	return &benchdto.Experiment{
		Game:       benchdto.GameInfo{Halfmoves: halfmoves},
		Evaluation: rec,
	}
}

func TestTally(t *testing.T) {
	exps := []*benchdto.Experiment{
		exp(t, truthFEN, 5),
		exp(t, strings.Replace(truthFEN, " w ", " b ", 1), 8),
		exp(t, "no fen at all", 9),
		exp(t, truthFEN, 35), // outside the bucket
	}
	c := Tally(exps, 0, 10)
	if c.N != 3 {
		t.Fatalf("N = %d, want 3", c.N)
	}
	if c.FullCorrectness != 1 {
		t.Fatalf("full correctness = %d, want 1", c.FullCorrectness)
	}
	if c.PiecePlacement != 2 {
		t.Fatalf("placement correct = %d, want 2", c.PiecePlacement)
	}
	if c.Turn != 1 {
		t.Fatalf("turn correct = %d, want 1", c.Turn)
	}
	if c.SimilarityNumber != 2 {
		t.Fatalf("similarity defined for %d, want 2 (garbled answer has none)", c.SimilarityNumber)
	}
	if c.MeanHalfmoves != (5.0+8.0+9.0)/3.0 {
		t.Fatalf("mean halfmoves = %v", c.MeanHalfmoves)
	}
}

func TestBucketTableAndRender(t *testing.T) {
	exps := []*benchdto.Experiment{
		exp(t, truthFEN, 3),
		exp(t, truthFEN, 15),
		exp(t, "garbage", 55),
	}
	rows := BucketTable(exps, nil)
	if len(rows) != len(DefaultBuckets) {
		t.Fatalf("expected %d rows, got %d", len(DefaultBuckets), len(rows))
	}
	if rows[0].Counts.N != 1 || rows[1].Counts.N != 1 || rows[3].Counts.N != 1 {
		t.Fatalf("bucket assignment wrong: %+v", rows)
	}

	table := RenderTable(rows)
	if !strings.Contains(table, "0-10") || !strings.Contains(table, "81-100") {
		t.Fatalf("table missing bucket labels:\n%s", table)
	}
	if !strings.Contains(table, "Full%") {
		t.Fatalf("table missing header:\n%s", table)
	}
}

func TestBucketContains(t *testing.T) {
	b := Bucket{11, 20}
	if b.Contains(10) || !b.Contains(11) || !b.Contains(20) || b.Contains(21) {
		t.Fatalf("inclusive bounds broken")
	}
}
