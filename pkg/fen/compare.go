package fen

// score combines the six field comparisons into a Record.
func score(t, c ParsedFEN, cfg Config) Record {
	rec := Record{
		Turn:     compareStr(t.Turn, c.Turn),
		Castling: compareStr(t.Castling, c.Castling),
		Halfmove: compareClock(t.Halfmove, c.Halfmove, cfg.HalfmoveTolerance),
		Fullmove: compareClock(t.Fullmove, c.Fullmove, cfg.FullmoveTolerance),
	}
	rec.EnPassant = compareEnPassant(t.EnPassant, c.EnPassant)
	rec.Placement, rec.MatchingCells, rec.SimilarityDefined = comparePlacement(t, c, cfg.SimilarityFloor)
	if rec.SimilarityDefined {
		rec.Similarity = float64(rec.MatchingCells) / 64
	}
	rec.PlacementCorrect = rec.Placement.Outcome == Exact

	// Partial grades exist on the clocks only when a tolerance explicitly
	// admitted them, so they count toward full correctness; a partial piece
	// placement never does.
	rec.FullCorrectness = rec.Placement.Correct(false) &&
		rec.Turn.Correct(false) &&
		rec.Castling.Correct(false) &&
		rec.EnPassant.Correct(false) &&
		rec.Halfmove.Correct(cfg.HalfmoveTolerance > 0) &&
		rec.Fullmove.Correct(cfg.FullmoveTolerance > 0)
	return rec
}

func comparePlacement(t, c ParsedFEN, floor float64) (FieldResult, int, bool) {
	res := FieldResult{Truth: t.Placement.Raw, Candidate: c.Placement.Raw}
	if t.Board == nil || c.Board == nil {
		res.Outcome = Unparseable
		return res, 0, false
	}
	matching := 0
	for i := range t.Board {
		if t.Board[i] == c.Board[i] {
			matching++
		}
	}
	switch {
	case matching == 64:
		res.Outcome = Exact
	case float64(matching)/64 >= floor:
		res.Outcome = Partial
	default:
		res.Outcome = Mismatch
	}
	return res, matching, true
}

func compareStr(t, c StrField) FieldResult {
	res := FieldResult{Truth: t.Raw, Candidate: c.Raw}
	switch {
	case !t.Valid || !c.Valid:
		res.Outcome = Unparseable
	case t.Value == c.Value:
		res.Outcome = Exact
	default:
		res.Outcome = Mismatch
	}
	return res
}

// compareEnPassant tolerates the two conventions found in the wild: some
// generators set the field after every two-square pawn advance, others (the
// ground-truth side here) only when an en passant capture is actually legal.
// A truth of "-" therefore accepts any self-consistent candidate square as
// equivalent; a truth square demands that exact square.
func compareEnPassant(t, c StrField) FieldResult {
	res := FieldResult{Truth: t.Raw, Candidate: c.Raw}
	switch {
	case !t.Valid || !c.Valid:
		res.Outcome = Unparseable
	case t.Value == c.Value:
		res.Outcome = Exact
	case t.Value == "-":
		res.Outcome = Equivalent
	default:
		res.Outcome = Mismatch
	}
	return res
}

func compareClock(t, c IntField, tolerance int) FieldResult {
	res := FieldResult{Truth: t.Raw, Candidate: c.Raw}
	switch {
	case !t.Valid || !c.Valid:
		res.Outcome = Unparseable
	case t.Value == c.Value:
		res.Outcome = Exact
	case abs(t.Value-c.Value) <= tolerance:
		res.Outcome = Partial
	default:
		res.Outcome = Mismatch
	}
	return res
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
