package fen

import (
	"strconv"
	"strings"
)

// Parse splits a FEN string into its six fields, each parsing independently.
// Fewer than six tokens never fails the whole record: the first token is
// always taken as the piece placement, the last two tokens of a 3..5 token
// string are taken as the clocks, and the middle tokens are classified by
// their grammar. Missing or unrecognizable fields are marked invalid.
func Parse(s string) ParsedFEN {
	var p ParsedFEN
	tokens := strings.Fields(s)
	if len(tokens) == 0 {
		return p
	}

	p.Placement, p.Board = parsePlacement(tokens[0])

	switch {
	case len(tokens) >= 6:
		p.Turn = parseTurn(tokens[1])
		p.Castling = parseCastling(tokens[2])
		p.EnPassant = parseEnPassant(tokens[3], p.Turn)
		p.Halfmove = parseClock(tokens[4])
		p.Fullmove = parseClock(tokens[5])
	case len(tokens) >= 3:
		// Short answers from models usually drop the middle fields, not the
		// clocks, so align the tail and classify whatever sits between.
		p.Halfmove = parseClock(tokens[len(tokens)-2])
		p.Fullmove = parseClock(tokens[len(tokens)-1])
		p.Turn, p.Castling, p.EnPassant = classifyMiddle(tokens[1 : len(tokens)-2])
	default:
		p.Turn, p.Castling, p.EnPassant = classifyMiddle(tokens[1:])
	}
	return p
}

// classifyMiddle assigns leftover tokens of a short FEN to the turn, castling
// and en passant fields by their grammar.
func classifyMiddle(tokens []string) (turn, castling, enPassant StrField) {
	for _, tok := range tokens {
		switch {
		case !turn.Valid && (tok == "w" || tok == "b"):
			turn = StrField{Value: tok, Raw: tok, Valid: true}
		case !castling.Valid && validCastling(tok):
			castling = StrField{Value: canonicalCastling(tok), Raw: tok, Valid: true}
		case !enPassant.Valid && validEnPassantAnyTurn(tok):
			enPassant = StrField{Value: tok, Raw: tok, Valid: true}
		}
	}
	return turn, castling, enPassant
}

func parsePlacement(tok string) (StrField, *Board) {
	f := StrField{Raw: tok}
	ranks := strings.Split(tok, "/")
	if len(ranks) != 8 {
		return f, nil
	}
	var b Board
	for i, rank := range ranks {
		cell := 0
		for _, r := range rank {
			switch {
			case r >= '1' && r <= '8':
				cell += int(r - '0')
			case strings.ContainsRune("pnbrqkPNBRQK", r):
				if cell >= 8 {
					return f, nil
				}
				b[i*8+cell] = byte(r)
				cell++
			default:
				return f, nil
			}
			if cell > 8 {
				return f, nil
			}
		}
		if cell != 8 {
			return f, nil
		}
	}
	f.Value = tok
	f.Valid = true
	return f, &b
}

func parseTurn(tok string) StrField {
	f := StrField{Raw: tok}
	if tok == "w" || tok == "b" {
		f.Value = tok
		f.Valid = true
	}
	return f
}

func parseCastling(tok string) StrField {
	f := StrField{Raw: tok}
	if validCastling(tok) {
		f.Value = canonicalCastling(tok)
		f.Valid = true
	}
	return f
}

func validCastling(tok string) bool {
	if tok == "-" {
		return true
	}
	if tok == "" || len(tok) > 4 {
		return false
	}
	seen := map[rune]bool{}
	for _, r := range tok {
		if !strings.ContainsRune("KQkq", r) || seen[r] {
			return false
		}
		seen[r] = true
	}
	return true
}

// canonicalCastling reorders the rights letters into KQkq order. The letter
// order carries no meaning and generators disagree on it.
func canonicalCastling(tok string) string {
	if tok == "-" {
		return tok
	}
	var b strings.Builder
	for _, r := range "KQkq" {
		if strings.ContainsRune(tok, r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func parseEnPassant(tok string, turn StrField) StrField {
	f := StrField{Raw: tok}
	switch {
	case tok == "-":
		f.Value = tok
		f.Valid = true
	case turn.Valid && validEnPassantFor(tok, turn.Value):
		f.Value = tok
		f.Valid = true
	case !turn.Valid && validEnPassantAnyTurn(tok):
		f.Value = tok
		f.Valid = true
	}
	return f
}

// validEnPassantFor checks the square against the side to move: a skipped
// pawn square sits on rank 6 when white is to move, rank 3 when black is.
func validEnPassantFor(tok, turn string) bool {
	if len(tok) != 2 || tok[0] < 'a' || tok[0] > 'h' {
		return false
	}
	if turn == "w" {
		return tok[1] == '6'
	}
	return tok[1] == '3'
}

func validEnPassantAnyTurn(tok string) bool {
	return len(tok) == 2 && tok[0] >= 'a' && tok[0] <= 'h' && (tok[1] == '3' || tok[1] == '6')
}

func parseClock(tok string) IntField {
	f := IntField{Raw: tok}
	n, err := strconv.Atoi(tok)
	if err != nil || n < 0 {
		return f
	}
	f.Value = n
	f.Valid = true
	return f
}
