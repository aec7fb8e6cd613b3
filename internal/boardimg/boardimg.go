// Package boardimg renders a candidate board as a PNG with the squares that
// disagree with the ground truth highlighted. The report layer attaches these
// images to per-game inspection artifacts.
package boardimg

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	imagedraw "image/draw"
	"image/png"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/paranoidandroid2124/pgn2fen-benchmark/pkg/fen"
)

const (
	squareSize   = 48
	boardSquares = 8
	boardSize    = squareSize * boardSquares
	margin       = 24
)

var (
	lightSquare    = color.RGBA{233, 207, 163, 255}
	darkSquare     = color.RGBA{187, 136, 96, 255}
	mismatchFill   = color.NRGBA{R: 214, G: 69, B: 65, A: 120}
	whitePieceText = color.NRGBA{R: 250, G: 250, B: 250, A: 255}
	blackPieceText = color.NRGBA{R: 24, G: 24, B: 24, A: 255}
	coordinateText = color.NRGBA{R: 90, G: 90, B: 90, A: 255}
	background     = color.RGBA{246, 246, 244, 255}
)

// RenderDiff draws the candidate board and shades every cell that differs
// from the truth board. Both boards must have been recovered by the parser.
func RenderDiff(truth, candidate *fen.Board) ([]byte, error) {
	if truth == nil || candidate == nil {
		return nil, fmt.Errorf("boardimg: both boards are required")
	}

	total := boardSize + margin*2
	img := image.NewRGBA(image.Rect(0, 0, total, total))
	imagedraw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, imagedraw.Src)

	origin := image.Point{X: margin, Y: margin}
	drawSquares(img, origin)
	drawPieces(img, candidate, origin)
	drawMismatches(img, truth, candidate, origin)
	drawCoordinates(img, origin)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func squareRect(origin image.Point, file, rankIdx int) image.Rectangle {
	x := origin.X + file*squareSize
	y := origin.Y + rankIdx*squareSize
	return image.Rect(x, y, x+squareSize, y+squareSize)
}

func drawSquares(img *image.RGBA, origin image.Point) {
	for rankIdx := 0; rankIdx < boardSquares; rankIdx++ {
		for file := 0; file < boardSquares; file++ {
			fill := lightSquare
			if (rankIdx+file)%2 == 1 {
				fill = darkSquare
			}
			imagedraw.Draw(img, squareRect(origin, file, rankIdx), image.NewUniform(fill), image.Point{}, imagedraw.Src)
		}
	}
}

func drawPieces(img *image.RGBA, board *fen.Board, origin image.Point) {
	for i, cell := range board {
		if cell == 0 {
			continue
		}
		rankIdx, file := i/8, i%8
		textColor := blackPieceText
		if cell >= 'A' && cell <= 'Z' {
			textColor = whitePieceText
		}
		rect := squareRect(origin, file, rankIdx)
		drawGlyph(img, string(cell), rect, textColor)
	}
}

func drawMismatches(img *image.RGBA, truth, candidate *fen.Board, origin image.Point) {
	for i := range truth {
		if truth[i] == candidate[i] {
			continue
		}
		rankIdx, file := i/8, i%8
		rect := squareRect(origin, file, rankIdx)
		imagedraw.Draw(img, rect, image.NewUniform(mismatchFill), image.Point{}, imagedraw.Over)
	}
}

func drawCoordinates(img *image.RGBA, origin image.Point) {
	for file := 0; file < boardSquares; file++ {
		label := string(rune('a' + file))
		x := origin.X + file*squareSize + squareSize/2 - 3
		y := origin.Y + boardSize + 16
		drawText(img, label, x, y, coordinateText)
	}
	for rankIdx := 0; rankIdx < boardSquares; rankIdx++ {
		label := string(rune('8' - rankIdx))
		x := origin.X - 14
		y := origin.Y + rankIdx*squareSize + squareSize/2 + 4
		drawText(img, label, x, y, coordinateText)
	}
}

func drawGlyph(img *image.RGBA, s string, rect image.Rectangle, c color.Color) {
	face := basicfont.Face7x13
	width := font.MeasureString(face, s).Ceil()
	x := rect.Min.X + (rect.Dx()-width)/2
	y := rect.Min.Y + rect.Dy()/2 + face.Metrics().Ascent.Ceil()/2
	drawText(img, s, x, y, c)
}

func drawText(img *image.RGBA, s string, x, y int, c color.Color) {
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}
