package boardimg

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/paranoidandroid2124/pgn2fen-benchmark/pkg/fen"
)

func board(t *testing.T, fenStr string) *fen.Board {
	t.Helper()
	p := fen.Parse(fenStr)
	if p.Board == nil {
		t.Fatalf("board not recovered from %q", fenStr)
	}
	return p.Board
}

func TestRenderDiff(t *testing.T) {
	truth := board(t, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	candidate := board(t, "rnbqkbnr/ppppp1pp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")

	raw, err := RenderDiff(truth, candidate)
	if err != nil {
		t.Fatalf("RenderDiff: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	want := boardSize + margin*2
	if img.Bounds().Dx() != want || img.Bounds().Dy() != want {
		t.Fatalf("bounds = %v, want %dx%d", img.Bounds(), want, want)
	}

	same, err := RenderDiff(truth, truth)
	if err != nil {
		t.Fatalf("RenderDiff identical: %v", err)
	}
	if bytes.Equal(raw, same) {
		t.Fatalf("mismatch highlight should change the image")
	}
}

func TestRenderDiffRequiresBoards(t *testing.T) {
	truth := board(t, "8/8/8/8/8/8/8/8 w - - 0 1")
	if _, err := RenderDiff(truth, nil); err == nil {
		t.Fatalf("expected error for missing candidate board")
	}
	if _, err := RenderDiff(nil, truth); err == nil {
		t.Fatalf("expected error for missing truth board")
	}
}
