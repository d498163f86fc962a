package board

import "time"

// PromotionLatch holds a single pending promotion slot (§4.D "Mutation"). While set, every
// local move-attempt entry point returns invalid until Promote resolves it.
type PromotionLatch struct {
	From, To Square
	set      bool
}

// Game is the move validator + mutator (component D): a Board plus the cooldown set and
// en-passant window that gate and drive it, and the promotion latch and move counter that its
// mutations thread through. Not safe for concurrent use (§5 Concurrency & Resource Model) --
// callers (pkg/engine) serialize access on the main loop.
type Game struct {
	board     *Board
	cooldowns *CooldownSet
	enpassant *EnPassantWindow
	moveCount int
	latch     PromotionLatch
}

// NewGame returns a freshly reset game for player, with the given per-cell move cooldown.
func NewGame(player Color, cooldown time.Duration) *Game {
	return &Game{
		board:     NewBoard(player),
		cooldowns: NewCooldownSet(cooldown),
		enpassant: NewEnPassantWindow(),
	}
}

func (g *Game) Board() *Board { return g.board }

// MoveCount returns the monotonic count of completed moves (wall builds do not advance it).
func (g *Game) MoveCount() int { return g.moveCount }

// WaitingForPromotion reports the pending promotion slot, if any.
func (g *Game) WaitingForPromotion() (from, to Square, ok bool) {
	return g.latch.From, g.latch.To, g.latch.set
}

// UnderPositionOf returns the square one row closer to this engine's own back rank than
// square: given the landing square of a pawn's two-square advance, this is the square the
// pawn passed over, i.e. the square an en-passant capture actually vacates. ok is false when
// square is already on row 7, where no such square exists on the board.
func (g *Game) UnderPositionOf(square Square) (Square, bool) {
	if square.Row() == 7 {
		return ZeroSquare, false
	}
	return NewSquare(square.Row()+1, square.Col()), true
}

// DidOpponentLose reports whether no opponent-coloured king remains on the board.
func (g *Game) DidOpponentLose() bool {
	return !g.board.HasKing(g.board.Player().Opponent())
}

// AddEnPassantOpportunity opens an en-passant window on the receiving side, in response to a
// peer's ENPS message. The wire's own move-index field is not used here (§9 open question);
// the window is timed against this engine's own move counter instead.
func (g *Game) AddEnPassantOpportunity(square Square, _ int) {
	g.enpassant.Open(square, g.moveCount)
}

// CheckTimeouts sweeps expired cooldown entries as of now. Intended to be called once per
// driver iteration (§5).
func (g *Game) CheckTimeouts(now time.Time) {
	g.cooldowns.Sweep(now)
}

// MovePiece attempts a local move and reports its outcome (§4.D). When it returns Invalid it
// leaves the board unchanged.
func (g *Game) MovePiece(from, to Square, now time.Time) MoveResult {
	if g.latch.set {
		return Invalid
	}
	if to == from {
		return Invalid
	}
	piece := g.board.PieceAt(from)
	c, k, ok := piece.Split()
	if !ok || c != g.board.Player() {
		return Invalid
	}
	if g.cooldowns.IsDown(from, now) {
		return Invalid
	}

	switch k {
	case Pawn:
		return g.movePawn(from, to, now)
	case Rook:
		return g.moveStraight(from, to, now, true)
	case Bishop:
		return g.moveDiagonal(from, to, now)
	case Knight:
		return g.moveKnight(from, to, now)
	case Queen:
		if _, ok := StraightDirection(from, to); ok {
			return g.moveStraight(from, to, now, false)
		}
		return g.moveDiagonal(from, to, now)
	case King:
		return g.moveKing(from, to, now)
	default:
		return Invalid
	}
}

func (g *Game) movePawn(from, to Square, now time.Time) MoveResult {
	fr, fc := from.Row(), from.Col()
	tr, tc := to.Row(), to.Col()

	if !g.board.IsWallAt(from, Up) {
		if tc == fc && tr == fr-1 && g.board.PieceAt(to).IsEmpty() {
			g.applyMove(from, to, now)
			if tr == 0 {
				g.latch = PromotionLatch{From: from, To: to, set: true}
				return Promotion
			}
			return Success
		}

		if tc == fc && fr == 6 && tr == fr-2 {
			mid := NewSquare(fr-1, fc)
			if g.board.PieceAt(mid).IsEmpty() && g.board.PieceAt(to).IsEmpty() {
				g.applyMove(from, to, now)
				return EnPassantOpportunity
			}
		}
	}

	if tr == fr-1 && (tc == fc-1 || tc == fc+1) {
		diag := UpLeft
		if tc == fc+1 {
			diag = UpRight
		}
		if SealedDiagonal(g.board.Walls(), from, diag) {
			return Invalid
		}

		if g.enpassant.Available(to, g.moveCount) {
			g.applyMove(from, to, now)
			if under, ok := g.UnderPositionOf(to); ok {
				g.board.SetPiece(under, Empty)
			}
			return Capture
		}
		if pc, ok := g.board.PieceAt(to).Color(); ok && pc == g.board.Player().Opponent() {
			g.applyMove(from, to, now)
			if tr == 0 {
				g.latch = PromotionLatch{From: from, To: to, set: true}
				return PromotionCapture
			}
			return Capture
		}
	}

	return Invalid
}

func (g *Game) moveKnight(from, to Square, now time.Time) MoveResult {
	dr := abs(to.Row() - from.Row())
	dc := abs(to.Col() - from.Col())
	if (dr == 2 && dc == 1) || (dr == 1 && dc == 2) {
		return g.landOn(from, to, now)
	}
	return Invalid
}

// moveKing handles both the one-square step and castling. Every king move that is made sets
// kingMoved; an attempt that returns Invalid leaves it untouched.
func (g *Game) moveKing(from, to Square, now time.Time) MoveResult {
	dr := abs(to.Row() - from.Row())
	dc := abs(to.Col() - from.Col())
	if dr <= 1 && dc <= 1 {
		r := g.landOn(from, to, now)
		if r != Invalid {
			g.board.SetKingMoved()
		}
		return r
	}

	player := g.board.Player()
	if IsCastleKingsideMove(from, to) && g.board.CanCastleKingside(player) {
		g.board.CastleKingside(player)
		g.finishCastle(to, now)
		return Success
	}
	if IsCastleQueensideMove(from, to) && g.board.CanCastleQueenside(player) {
		g.board.CastleQueenside(player)
		g.finishCastle(to, now)
		return Success
	}
	return Invalid
}

// finishCastle applies the same bookkeeping a regular successful move gets (§4.D "Mutation",
// invariants I4/I6): the en-passant window ages by one move, the move counter advances, and
// the king's new square is put in cooldown -- which is what makes a further move_piece(62, 63)
// right after castling invalid (§8 scenario 5), not a separate "castling disables itself" rule.
func (g *Game) finishCastle(kingTo Square, now time.Time) {
	g.enpassant.Sweep(g.moveCount)
	g.moveCount++
	g.cooldowns.Arm(kingTo, now)
}

// moveStraight slides from -> to along a shared row or column. When canBreak is true (rook),
// a wall encountered mid-slide is cleared and the slide continues; otherwise (queen) a wall
// stops the slide with Invalid.
func (g *Game) moveStraight(from, to Square, now time.Time, canBreak bool) MoveResult {
	dir, ok := StraightDirection(from, to)
	if !ok {
		return Invalid
	}

	var broken []Square
	current := from
	for current != to {
		next, onBoard := current.Step(dir)
		if !onBoard {
			return Invalid
		}
		if !g.board.PieceAt(next).IsEmpty() && next != to {
			return Invalid
		}

		if canBreak {
			broken = append(broken, current)
		} else if g.board.Walls().Blocked(current, dir) {
			return Invalid
		}

		current = next
	}
	if pc, ok := g.board.PieceAt(to).Color(); ok && pc == g.board.Player() {
		return Invalid
	}
	for _, s := range broken {
		g.board.WallSet(s, dir, false)
	}
	return g.landOn(from, to, now)
}

// moveDiagonal slides from -> to along a shared diagonal. Never breaks walls; a sealed corner
// stops the slide with Invalid.
func (g *Game) moveDiagonal(from, to Square, now time.Time) MoveResult {
	diag, ok := DiagonalDirection(from, to)
	if !ok {
		return Invalid
	}

	current := from
	for current != to {
		if SealedDiagonal(g.board.Walls(), current, diag) {
			return Invalid
		}
		next, onBoard := current.StepDiagonal(diag)
		if !onBoard {
			return Invalid
		}
		if !g.board.PieceAt(next).IsEmpty() && next != to {
			return Invalid
		}
		current = next
	}
	return g.landOn(from, to, now)
}

// landOn resolves the final step of any move onto to: success if empty, capture if an
// opponent piece, invalid if blocked by this engine's own piece.
func (g *Game) landOn(from, to Square, now time.Time) MoveResult {
	target := g.board.PieceAt(to)
	if target.IsEmpty() {
		g.applyMove(from, to, now)
		return Success
	}
	if pc, ok := target.Color(); ok && pc == g.board.Player().Opponent() {
		g.applyMove(from, to, now)
		return Capture
	}
	return Invalid
}

// applyMove is the single mutation primitive (§4.D "Mutation"): relocate the piece, sweep
// stale en-passant entries, advance the move counter, and arm cooldown on the destination.
func (g *Game) applyMove(from, to Square, now time.Time) {
	g.board.SetPiece(to, g.board.PieceAt(from))
	g.board.SetPiece(from, Empty)
	g.enpassant.Sweep(g.moveCount)
	g.moveCount++
	g.cooldowns.Arm(to, now)
}

// OpponentMove applies a peer's already-validated move with no checks of its own (§4.D
// "Opponent-apply paths"). The source's equivalent is a blind move_piece_no_check with no
// en-passant handling at all, which leaves a phantom captured pawn behind on the
// double-advancer's own board once its opponent's en-passant reply is mirrored back (that
// mirrored move never carries a local en-passant-window entry to key off of, since this
// engine's own window is only ever populated by an inbound ENPS for moves it is on the
// receiving end of, never for its own prior advance). A diagonal pawn move onto an empty
// square is only ever possible as an en-passant capture -- any other diagonal pawn move
// requires an occupied target -- so that geometry alone identifies the case, and the captured
// pawn, which stands on the capturer's starting row in the destination's column, is also
// cleared.
func (g *Game) OpponentMove(from, to Square, now time.Time) {
	if _, k, ok := g.board.PieceAt(from).Split(); ok && k == Pawn && g.board.PieceAt(to).IsEmpty() &&
		abs(to.Row()-from.Row()) == 1 && abs(to.Col()-from.Col()) == 1 {
		g.board.SetPiece(NewSquare(from.Row(), to.Col()), Empty)
	}
	g.applyMove(from, to, now)
}

// Promote resolves the pending promotion latch to kind. No-op if nothing is pending.
func (g *Game) Promote(kind Kind) {
	if !g.latch.set {
		return
	}
	g.board.SetPiece(g.latch.To, NewPiece(g.board.Player(), kind))
	g.latch = PromotionLatch{}
}

// OpponentPromote applies a peer's already-resolved promotion with no checks.
func (g *Game) OpponentPromote(from, to Square, kind Kind) {
	g.board.SetPiece(from, Empty)
	g.board.SetPiece(to, NewPiece(g.board.Player().Opponent(), kind))
}

// BuildWall attempts to build a wall between from and adjacent, which must be exactly one of
// from's four cardinal neighbours, and from must hold this engine's own pawn (§4.E). No
// cooldown precondition applies to wall builds, only to piece moves.
func (g *Game) BuildWall(from, adjacent Square, now time.Time) WallResult {
	if g.latch.set {
		return WallInvalid
	}
	if g.board.PieceAt(from) != NewPiece(g.board.Player(), Pawn) {
		return WallInvalid
	}
	dir, ok := StraightDirection(from, adjacent)
	if !ok {
		return WallInvalid
	}
	if next, onBoard := from.Step(dir); !onBoard || next != adjacent {
		return WallInvalid
	}
	if g.board.IsWallAt(from, dir) {
		return WallExists
	}
	g.board.WallSet(from, dir, true)
	g.cooldowns.Arm(from, now)
	return WallSuccess
}

// BuildWallOpponent applies a peer's already-validated wall build with no checks. Unlike a
// local build, this does not arm cooldown -- cooldown on a wall build only ever freezes the
// building engine's own pawn (§4.B).
func (g *Game) BuildWallOpponent(from, adjacent Square) {
	dir, ok := StraightDirection(from, adjacent)
	if !ok {
		return
	}
	g.board.WallSet(from, dir, true)
}
