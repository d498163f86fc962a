package board

// SealedDiagonal reports whether a diagonal step from s in direction diag is blocked by a
// sealed corner (§4.D "Wall checks for sliders" / GLOSSARY "Corner seal"). The corner between
// s and its diagonal neighbour is shared by four cells: s, the diagonal target s', and the two
// cells reached from s by the diagonal's row-only and column-only component (sRow, sCol). Four
// wall booleans meet at that corner:
//
//	near-row  = wall between s and sRow   (s's edge along the diagonal's row component)
//	near-col  = wall between s and sCol   (s's edge along the diagonal's column component)
//	far-row   = wall between s' and sRow  (s''s edge back towards sRow)
//	far-col   = wall between s' and sCol  (s''s edge back towards sCol)
//
// The corner is sealed by any of four two-wall conjunctions, enumerated explicitly per the
// source's policy rather than algebraically simplified:
//
//	(a) s's own two participating edges:   near-row && near-col
//	(b) s''s own two participating edges:  far-row  && far-col
//	(c) a straight wall across the corner: near-row && far-col (both cross the row-axis step)
//	(d) the other straight wall:           near-col && far-row (both cross the column-axis step)
//
// A missing wall reference (the diagonal runs off the board) counts as present, consistent
// with the straight-slide convention; in practice s' is only reachable when all four cells
// are on the board, so this only matters defensively.
func SealedDiagonal(w *WallGraph, s Square, diag Diagonal) bool {
	rowDir, colDir := components(diag)

	sPrime, ok := s.StepDiagonal(diag)
	if !ok {
		return true
	}

	nearRow := w.Blocked(s, rowDir)
	nearCol := w.Blocked(s, colDir)
	farRow := w.Blocked(sPrime, opposite(colDir))
	farCol := w.Blocked(sPrime, opposite(rowDir))

	a := nearRow && nearCol
	b := farRow && farCol
	c := nearRow && farCol
	d := nearCol && farRow

	return a || b || c || d
}
