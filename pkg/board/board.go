// Package board implements the board model, wall graph, cooldowns, en-passant window and the
// move validator/mutator at the heart of the variant (spec components A-F).
package board

// Board represents the 64-cell grid plus its wall graph, from a single engine's own
// perspective: this engine's pieces start on rows 6-7, the opponent's on rows 0-1, regardless
// of which actual color this engine is playing (§3 Perspective). Not thread-safe; callers
// (pkg/engine) serialize access.
type Board struct {
	cells [int(NumSquares)]Piece
	walls *WallGraph

	// player is the color this engine is playing. Own pieces (color == player) always sit on
	// rows 6-7; the opponent's on rows 0-1. The source achieves this with an array reversal
	// when player is black; this lays the rows out directly instead.
	player Color

	// kingMoved disables castling for this engine's own king once any king move is made.
	kingMoved bool
}

// NewBoard returns a board laid out in the initial chess position, from player's perspective.
func NewBoard(player Color) *Board {
	b := &Board{walls: NewWallGraph()}
	b.Reset(player)
	return b
}

// Reset lays out the initial chess position -- player's own pieces on rows 6-7, the opponent's
// on rows 0-1 -- and clears all walls and castling state.
func (b *Board) Reset(player Color) {
	for i := range b.cells {
		b.cells[i] = Empty
	}
	b.walls = NewWallGraph()
	b.player = player
	b.kingMoved = false

	own, opp := player, player.Opponent()
	backRank := []Kind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for col, k := range backRank {
		b.cells[NewSquare(7, col)] = NewPiece(own, k)
		b.cells[NewSquare(0, col)] = NewPiece(opp, k)
	}
	for col := 0; col < 8; col++ {
		b.cells[NewSquare(6, col)] = NewPiece(own, Pawn)
		b.cells[NewSquare(1, col)] = NewPiece(opp, Pawn)
	}
}

// Player returns the color this engine is playing (its own pieces' color).
func (b *Board) Player() Color {
	return b.player
}

// PieceAt returns the occupant of cell i.
func (b *Board) PieceAt(i Square) Piece {
	return b.cells[i]
}

// SetPiece places p at cell i, replacing any prior occupant.
func (b *Board) SetPiece(i Square, p Piece) {
	b.cells[i] = p
}

// Walls describes the four edges of a single cell, as reported to a caller (walls_at). An
// edge is false both when no wall has been built and when the edge is a board boundary (no
// wall reference exists there, per invariant W2): this is the public query surface, distinct
// from the internal Blocked convention used by the move validator.
type Walls struct {
	Up, Down, Left, Right bool
}

// WallsAt returns the wall state of all four edges of cell i.
func (b *Board) WallsAt(i Square) Walls {
	up, _ := b.walls.Has(i, Up)
	down, _ := b.walls.Has(i, Down)
	left, _ := b.walls.Has(i, Left)
	right, _ := b.walls.Has(i, Right)
	return Walls{Up: up, Down: down, Left: left, Right: right}
}

// IsWallAt reports whether a wall exists on the single given edge of cell i.
func (b *Board) IsWallAt(i Square, d Direction) bool {
	present, _ := b.walls.Has(i, d)
	return present
}

// WallSet sets the wall on edge (i, d); returns false iff d points off the board (W2).
func (b *Board) WallSet(i Square, d Direction, v bool) bool {
	return b.walls.Set(i, d, v)
}

// Walls exposes the underlying wall graph for the move validator.
func (b *Board) Walls() *WallGraph {
	return b.walls
}

// KingMoved reports whether this engine's own king has moved (disables castling).
func (b *Board) KingMoved() bool {
	return b.kingMoved
}

// SetKingMoved latches the king-moved flag. Never reset once set.
func (b *Board) SetKingMoved() {
	b.kingMoved = true
}

// PieceCount returns the number of pieces of color c still on the board. The source's
// piecesLeft counter is ambiguous about whose pieces it tracks (it is decremented on captures
// made by the local player, which tracks the opponent's remaining pieces, not "this engine's
// own"). This implementation instead derives the count directly from the board on every call,
// which satisfies invariant I2 ("piece_count equals the number of this-engine-coloured pieces
// on the board") by construction rather than by careful bookkeeping.
func (b *Board) PieceCount(c Color) int {
	n := 0
	for _, p := range b.cells {
		if pc, ok := p.Color(); ok && pc == c {
			n++
		}
	}
	return n
}

// HasKing reports whether color c still has a king on the board.
func (b *Board) HasKing(c Color) bool {
	for _, p := range b.cells {
		if pc, k, ok := p.Split(); ok && pc == c && k == King {
			return true
		}
	}
	return false
}

// Clone returns an independent copy of the board, safe to hand to a caller that must not
// observe subsequent mutation (e.g. an engine's get_board()).
func (b *Board) Clone() *Board {
	walls := *b.walls
	return &Board{cells: b.cells, walls: &walls, player: b.player, kingMoved: b.kingMoved}
}

// KingSquare returns the square of color c's king, if present.
func (b *Board) KingSquare(c Color) (Square, bool) {
	for i, p := range b.cells {
		if pc, k, ok := p.Split(); ok && pc == c && k == King {
			return Square(i), true
		}
	}
	return ZeroSquare, false
}
