// Package report aggregates scored experiments into per-halfmove-bucket
// accuracy tables for downstream analysis.
package report

import (
	"fmt"
	"strings"

	"github.com/paranoidandroid2124/pgn2fen-benchmark/pkg/benchdto"
)

// Bucket is an inclusive halfmove range.
type Bucket struct {
	Min int
	Max int
}

func (b Bucket) Label() string { return fmt.Sprintf("%d-%d", b.Min, b.Max) }

func (b Bucket) Contains(halfmoves int) bool {
	return halfmoves >= b.Min && halfmoves <= b.Max
}

// DefaultBuckets are the reporting ranges used across the benchmark.
var DefaultBuckets = []Bucket{
	{0, 10}, {11, 20}, {21, 40}, {41, 60}, {61, 80}, {81, 100},
}

// Counts accumulates per-field correctness over a set of experiments.
type Counts struct {
	N                int
	FullCorrectness  int
	PiecePlacement   int
	Turn             int
	Castling         int
	EnPassant        int
	HalfmoveClock    int
	FullmoveNumber   int
	MeanHalfmoves    float64
	MeanSimilarity   float64
	SimilarityNumber int
}

// Tally counts correctness over the experiments with halfmove counts inside
// [min, max]. Clock fields count a partial grade as correct, since partials
// there can only come from an explicitly configured tolerance.
func Tally(exps []*benchdto.Experiment, min, max int) Counts {
	var c Counts
	sumHalfmoves := 0
	sumSimilarity := 0.0
	for _, exp := range exps {
		if exp == nil || exp.Game.Halfmoves < min || exp.Game.Halfmoves > max {
			continue
		}
		ev := exp.Evaluation
		c.N++
		sumHalfmoves += exp.Game.Halfmoves
		if ev.FullCorrectness {
			c.FullCorrectness++
		}
		if ev.PlacementCorrect {
			c.PiecePlacement++
		}
		if ev.Turn.Correct(false) {
			c.Turn++
		}
		if ev.Castling.Correct(false) {
			c.Castling++
		}
		if ev.EnPassant.Correct(false) {
			c.EnPassant++
		}
		if ev.Halfmove.Correct(true) {
			c.HalfmoveClock++
		}
		if ev.Fullmove.Correct(true) {
			c.FullmoveNumber++
		}
		if ev.SimilarityDefined {
			sumSimilarity += ev.Similarity
			c.SimilarityNumber++
		}
	}
	if c.N > 0 {
		c.MeanHalfmoves = float64(sumHalfmoves) / float64(c.N)
	}
	if c.SimilarityNumber > 0 {
		c.MeanSimilarity = sumSimilarity / float64(c.SimilarityNumber)
	}
	return c
}

// Row is the tallied accuracy of one halfmove bucket.
type Row struct {
	Bucket Bucket
	Counts Counts
}

// BucketTable tallies the experiments into the given buckets (DefaultBuckets
// when nil).
func BucketTable(exps []*benchdto.Experiment, buckets []Bucket) []Row {
	if buckets == nil {
		buckets = DefaultBuckets
	}
	rows := make([]Row, 0, len(buckets))
	for _, b := range buckets {
		rows = append(rows, Row{Bucket: b, Counts: Tally(exps, b.Min, b.Max)})
	}
	return rows
}

// RenderTable renders bucket rows as an aligned text table with accuracy
// percentages per FEN field.
func RenderTable(rows []Row) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-10s %5s %7s %7s %7s %7s %7s %7s %7s %8s\n",
		"Halfmoves", "N", "Full%", "Board%", "Turn%", "Castl%", "EnPas%", "HmClk%", "FmNum%", "MeanSim")
	for _, row := range rows {
		c := row.Counts
		if c.N == 0 {
			fmt.Fprintf(&b, "%-10s %5d %s\n", row.Bucket.Label(), 0, "      -       -       -       -       -       -       -        -")
			continue
		}
		fmt.Fprintf(&b, "%-10s %5d %7.1f %7.1f %7.1f %7.1f %7.1f %7.1f %7.1f %8.3f\n",
			row.Bucket.Label(),
			c.N,
			pct(c.FullCorrectness, c.N),
			pct(c.PiecePlacement, c.N),
			pct(c.Turn, c.N),
			pct(c.Castling, c.N),
			pct(c.EnPassant, c.N),
			pct(c.HalfmoveClock, c.N),
			pct(c.FullmoveNumber, c.N),
			c.MeanSimilarity,
		)
	}
	return b.String()
}

func pct(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return 100 * float64(n) / float64(total)
}
