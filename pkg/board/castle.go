package board

// Castling preconditions and literal destinations (§4.D, §8). Both castles are tied to this
// engine's own frame: the king always starts at square 60 (own back rank, e-file) regardless
// of actual color, since a single Board always lays this engine's own pieces on rows 6-7.
//
// The source has a known queenside bug (§9 Open Questions): it writes the rook to square 57
// twice and leaves square 56 occupied. This implementation does not reproduce it -- queenside
// castling moves the king to 58 and the rook to 59, emptying both origin squares 60 and 56.
const (
	kingHome       = Square(60)
	kingsideRook   = Square(63)
	kingsideKing   = Square(62)
	kingsideRookTo = Square(61)

	queensideRook   = Square(56)
	queensideKing   = Square(58)
	queensideRookTo = Square(59)
)

// CanCastleKingside reports whether color c may castle kingside: king has never moved, the
// kingside rook is in place, and both intervening squares are empty. No wall or cooldown
// checks apply to castling.
func (b *Board) CanCastleKingside(c Color) bool {
	if b.kingMoved {
		return false
	}
	if b.PieceAt(kingHome) != NewPiece(c, King) {
		return false
	}
	if b.PieceAt(kingsideRook) != NewPiece(c, Rook) {
		return false
	}
	return b.PieceAt(kingsideRookTo).IsEmpty() && b.PieceAt(kingsideKing).IsEmpty()
}

// CastleKingside performs the kingside castle for color c and latches kingMoved.
func (b *Board) CastleKingside(c Color) {
	b.SetPiece(kingHome, Empty)
	b.SetPiece(kingsideRook, Empty)
	b.SetPiece(kingsideKing, NewPiece(c, King))
	b.SetPiece(kingsideRookTo, NewPiece(c, Rook))
	b.SetKingMoved()
}

// CanCastleQueenside reports whether color c may castle queenside, symmetric to
// CanCastleKingside.
func (b *Board) CanCastleQueenside(c Color) bool {
	if b.kingMoved {
		return false
	}
	if b.PieceAt(kingHome) != NewPiece(c, King) {
		return false
	}
	if b.PieceAt(queensideRook) != NewPiece(c, Rook) {
		return false
	}
	between1 := NewSquare(kingHome.Row(), kingHome.Col()-1) // 59
	between2 := NewSquare(kingHome.Row(), kingHome.Col()-2) // 58
	between3 := NewSquare(kingHome.Row(), kingHome.Col()-3) // 57
	return b.PieceAt(between1).IsEmpty() && b.PieceAt(between2).IsEmpty() && b.PieceAt(between3).IsEmpty()
}

// CastleQueenside performs the queenside castle for color c and latches kingMoved. King lands
// on 58, rook on 59; both origin squares (60 and 56) are emptied.
func (b *Board) CastleQueenside(c Color) {
	b.SetPiece(kingHome, Empty)
	b.SetPiece(queensideRook, Empty)
	b.SetPiece(queensideKing, NewPiece(c, King))
	b.SetPiece(queensideRookTo, NewPiece(c, Rook))
	b.SetKingMoved()
}

// IsCastleKingsideMove reports whether (from, to) denotes a kingside castle attempt.
func IsCastleKingsideMove(from, to Square) bool {
	return from == kingHome && to == kingsideKing
}

// IsCastleQueensideMove reports whether (from, to) denotes a queenside castle attempt.
func IsCastleQueensideMove(from, to Square) bool {
	return from == kingHome && to == queensideKing
}
