// Package dataset prepares benchmark inputs: it loads PGN files, derives the
// ground-truth FEN by replaying the mainline with the chess library, and
// truncates games to a target halfmove count. Move legality and PGN syntax
// are wholly the library's concern; nothing here inspects move text.
package dataset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	nchess "github.com/corentings/chess/v2"
)

// ErrTooShort is returned when a game has fewer halfmoves than requested.
var ErrTooShort = errors.New("dataset: game shorter than requested halfmove count")

// Game is one benchmark input: the PGN transcript plus the position it ends in.
type Game struct {
	Path      string
	PGNText   string
	TruthFEN  string
	Halfmoves int
}

// LoadGame reads a PGN file and replays its mainline to the final position.
func LoadGame(path string) (*Game, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pgn: %w", err)
	}
	fen, halfmoves, err := GroundTruth(string(raw))
	if err != nil {
		return nil, fmt.Errorf("replay %s: %w", filepath.Base(path), err)
	}
	return &Game{
		Path:      path,
		PGNText:   string(raw),
		TruthFEN:  fen,
		Halfmoves: halfmoves,
	}, nil
}

// GroundTruth replays a PGN transcript and returns the final FEN and the
// mainline halfmove count.
func GroundTruth(pgnText string) (string, int, error) {
	opt, err := nchess.PGN(strings.NewReader(pgnText))
	if err != nil {
		return "", 0, fmt.Errorf("parse pgn: %w", err)
	}
	game := nchess.NewGame(opt)
	return game.FEN(), len(game.Moves()), nil
}

// ListPGNs returns the sorted .pgn paths in dir, sliced to [start, end).
func ListPGNs(dir string, start, end int) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read pgn dir: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".pgn") {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	if start < 0 {
		start = 0
	}
	if start > len(paths) {
		start = len(paths)
	}
	if end > len(paths) || end <= 0 {
		end = len(paths)
	}
	if end < start {
		end = start
	}
	return paths[start:end], nil
}

// Truncate rewrites a PGN transcript down to its first halfmoves plies,
// keeping the listed header tags and marking the game in progress. Headers
// that would leak the outcome to the model are dropped by naming them in
// dropTags.
func Truncate(pgnText string, halfmoves int, dropTags []string) (string, error) {
	if halfmoves < 1 {
		return "", fmt.Errorf("dataset: halfmove count must be positive, got %d", halfmoves)
	}
	opt, err := nchess.PGN(strings.NewReader(pgnText))
	if err != nil {
		return "", fmt.Errorf("parse pgn: %w", err)
	}
	game := nchess.NewGame(opt)
	moves := game.Moves()
	if len(moves) < halfmoves {
		return "", ErrTooShort
	}
	positions := game.Positions()

	drop := map[string]bool{"result": true}
	for _, t := range dropTags {
		drop[strings.ToLower(strings.TrimSpace(t))] = true
	}

	tags := game.TagPairs()
	keys := make([]string, 0, len(tags))
	for k := range tags {
		if drop[strings.ToLower(k)] {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "[%s %q]\n", k, tags[k])
	}
	b.WriteString("[Result \"*\"]\n\n")

	for i := 0; i < halfmoves; i++ {
		if i%2 == 0 {
			fmt.Fprintf(&b, "%d. ", i/2+1)
		}
		san := nchess.AlgebraicNotation{}.Encode(positions[i], moves[i])
		b.WriteString(san)
		b.WriteString(" ")
	}
	b.WriteString("*\n")
	return b.String(), nil
}

// FENValid strictly validates a FEN string with the chess library. It does
// not check position legality beyond what the library enforces.
func FENValid(fen string) bool {
	_, err := nchess.FEN(fen)
	return err == nil
}
