// Package benchdto holds the wire shapes shared by the benchmark runner, the
// result sinks and the report layer. One Experiment is written per
// (model, game, halfmove-count) triple.
package benchdto

import (
	"time"

	"github.com/paranoidandroid2124/pgn2fen-benchmark/pkg/fen"
)

// GameInfo describes the benchmark input that produced an experiment.
type GameInfo struct {
	Timestamp    time.Time `json:"datetime"`
	InputPGNFile string    `json:"input_pgn_file"`
	InputFEN     string    `json:"input_fen"`
	Halfmoves    int       `json:"number_of_halfmoves"`
}

// ModelInfo describes the model that answered and what it said.
type ModelInfo struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
	RawText  string `json:"llm_raw_text"`
	FEN      string `json:"llm_fen,omitempty"`
}

// Experiment is one scored model answer.
type Experiment struct {
	ID         string     `json:"id"`
	RunID      string     `json:"run_id"`
	Game       GameInfo   `json:"game_info"`
	Model      ModelInfo  `json:"llm_info"`
	Evaluation fen.Record `json:"evaluation"`
}
