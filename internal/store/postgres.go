package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/paranoidandroid2124/pgn2fen-benchmark/pkg/benchdto"
)

// Repository mirrors the JSONL log into Postgres so accuracy tables can be
// built with plain SQL.
type Repository struct {
	db *sql.DB
}

func NewRepository(databaseURL string) (*Repository, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(16)
	db.SetMaxIdleConns(8)
	db.SetConnMaxLifetime(30 * time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// SaveExperiment upserts one scored answer. Re-running a suite overwrites the
// previous row for the same experiment ID.
func (r *Repository) SaveExperiment(ctx context.Context, exp *benchdto.Experiment) error {
	if r == nil || r.db == nil || exp == nil {
		return nil
	}
	evaluation, err := json.Marshal(exp.Evaluation)
	if err != nil {
		return fmt.Errorf("marshal evaluation: %w", err)
	}

	const query = `
		INSERT INTO experiments (
			id,
			run_id,
			provider,
			model,
			input_pgn_file,
			input_fen,
			llm_fen,
			llm_raw_text,
			halfmoves,
			full_correctness,
			piece_placement_correct,
			similarity,
			similarity_defined,
			evaluation,
			created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14::jsonb, $15)
		ON CONFLICT (id) DO UPDATE SET
			llm_fen = EXCLUDED.llm_fen,
			llm_raw_text = EXCLUDED.llm_raw_text,
			full_correctness = EXCLUDED.full_correctness,
			piece_placement_correct = EXCLUDED.piece_placement_correct,
			similarity = EXCLUDED.similarity,
			similarity_defined = EXCLUDED.similarity_defined,
			evaluation = EXCLUDED.evaluation`

	var similarity sql.NullFloat64
	if exp.Evaluation.SimilarityDefined {
		similarity = sql.NullFloat64{Float64: exp.Evaluation.Similarity, Valid: true}
	}

	_, err = r.db.ExecContext(
		ctx,
		query,
		exp.ID,
		exp.RunID,
		exp.Model.Provider,
		exp.Model.Model,
		exp.Game.InputPGNFile,
		exp.Game.InputFEN,
		exp.Model.FEN,
		exp.Model.RawText,
		exp.Game.Halfmoves,
		exp.Evaluation.FullCorrectness,
		exp.Evaluation.PlacementCorrect,
		similarity,
		exp.Evaluation.SimilarityDefined,
		evaluation,
		exp.Game.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("upsert experiment: %w", err)
	}
	return nil
}
