// Package fen parses and scores Forsyth-Edwards Notation strings produced by
// language models against ground-truth positions. Every FEN field parses and
// compares independently, so a malformed clock never blocks scoring of the
// piece placement. All functions are pure and safe for concurrent use.
package fen

import (
	"fmt"
	"strings"
)

// Outcome grades a single field comparison.
type Outcome string

const (
	// Exact means the fields match after canonicalization.
	Exact Outcome = "exact"
	// Equivalent means the fields differ textually but encode the same
	// position under an accepted alternate notation convention.
	Equivalent Outcome = "equivalent"
	// Partial means the fields differ within a configured tolerance, or the
	// piece placement matches above the similarity floor.
	Partial Outcome = "partial"
	// Mismatch means both fields parsed but disagree.
	Mismatch Outcome = "mismatch"
	// Unparseable means the candidate field could not be recovered.
	Unparseable Outcome = "unparseable"
)

// Board is the expanded piece placement: 64 cells ordered rank 8 to rank 1,
// file a to h. A cell holds a FEN piece letter or 0 when empty.
type Board [64]byte

// At returns the cell for the given file (0=a) and rank (0=rank 1).
func (b *Board) At(file, rank int) byte {
	return b[(7-rank)*8+file]
}

// StrField is a FEN text field that parsed or did not. Raw keeps the original
// token even when invalid, for diagnostics.
type StrField struct {
	Value string
	Raw   string
	Valid bool
}

// IntField is a FEN clock field that parsed or did not.
type IntField struct {
	Value int
	Raw   string
	Valid bool
}

// ParsedFEN is the per-field parse result of a FEN string. Fields fail
// independently; Board is nil only when the placement itself was invalid.
type ParsedFEN struct {
	Placement StrField
	Board     *Board
	Turn      StrField
	Castling  StrField
	EnPassant StrField
	Halfmove  IntField
	Fullmove  IntField
}

// FieldResult is the graded comparison of one FEN field.
type FieldResult struct {
	Outcome   Outcome `json:"outcome"`
	Truth     string  `json:"truth,omitempty"`
	Candidate string  `json:"candidate,omitempty"`
}

// Correct reports whether the field counts toward full correctness.
// Partial outcomes count only on the clock fields, where they can only arise
// from an explicitly configured tolerance.
func (r FieldResult) Correct(allowPartial bool) bool {
	switch r.Outcome {
	case Exact, Equivalent:
		return true
	case Partial:
		return allowPartial
	default:
		return false
	}
}

// Record is the aggregate comparison of a candidate FEN against the ground
// truth. It is immutable after construction and serializable field by field.
type Record struct {
	Placement FieldResult `json:"piece_placement"`
	Turn      FieldResult `json:"turn"`
	Castling  FieldResult `json:"castling"`
	EnPassant FieldResult `json:"en_passant"`
	Halfmove  FieldResult `json:"halfmove_clock"`
	Fullmove  FieldResult `json:"fullmove_number"`

	// FullCorrectness is true iff every field is exact or equivalent, with
	// clock fields additionally admitted at a configured tolerance.
	FullCorrectness bool `json:"full_correctness"`
	// PlacementCorrect is true iff the piece placement alone is exact.
	PlacementCorrect bool `json:"piece_placement_correct"`

	// Similarity is the fraction of the 64 cells matching the truth board.
	// It is meaningful only when SimilarityDefined is set; an unrecoverable
	// candidate board is a different outcome than zero matching cells.
	Similarity        float64 `json:"piece_placement_similarity"`
	SimilarityDefined bool    `json:"similarity_defined"`
	MatchingCells     int     `json:"matching_cells"`

	// Halfmoves is the ply count of the source game, carried through for
	// downstream bucketing.
	Halfmoves int `json:"halfmoves,omitempty"`
}

// Config tunes the comparator. The zero value is the strict default: no clock
// tolerance, similarity floor 0 (any recovered board scores at least partial).
type Config struct {
	// ExtractFEN runs the extraction filter over the candidate text before
	// parsing, for models that wrap the answer in prose.
	ExtractFEN bool
	// HalfmoveTolerance admits an off-by-N halfmove clock as partial.
	HalfmoveTolerance int
	// FullmoveTolerance admits an off-by-N fullmove number as partial.
	FullmoveTolerance int
	// SimilarityFloor is the minimum matching-cell fraction for a non-exact
	// placement to grade partial instead of mismatch. Must be in [0,1].
	SimilarityFloor float64
}

// Validate checks the configuration bounds.
func (c Config) Validate() error {
	if c.SimilarityFloor < 0 || c.SimilarityFloor > 1 {
		return fmt.Errorf("fen: similarity floor %v outside [0,1]", c.SimilarityFloor)
	}
	if c.HalfmoveTolerance < 0 {
		return fmt.Errorf("fen: negative halfmove tolerance %d", c.HalfmoveTolerance)
	}
	if c.FullmoveTolerance < 0 {
		return fmt.Errorf("fen: negative fullmove tolerance %d", c.FullmoveTolerance)
	}
	return nil
}

// Compare scores a candidate FEN (or free text containing one, with
// cfg.ExtractFEN) against the ground-truth FEN. Malformed candidate text is
// never an error: it surfaces as unparseable field outcomes. The only error
// condition is an invalid Config.
func Compare(truth, candidate string, cfg Config) (Record, error) {
	if err := cfg.Validate(); err != nil {
		return Record{}, err
	}
	if cfg.ExtractFEN {
		candidate = Extract(candidate)
	}
	t := Parse(truth)
	c := Parse(strings.TrimSpace(candidate))
	return score(t, c, cfg), nil
}
