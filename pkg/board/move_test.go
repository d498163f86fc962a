package board_test

import (
	"testing"
	"time"

	"github.com/fortresschess/fortress/pkg/board"
	"github.com/stretchr/testify/assert"
)

// Scenario 1 (§8): opening pawn push reports an en-passant opportunity, whose skipped square
// is 44, and advances the move counter.
func TestMovePieceOpeningPawnPush(t *testing.T) {
	g := board.NewGame(board.White, time.Second)
	now := time.Now()

	r := g.MovePiece(52, 36, now)
	assert.Equal(t, board.EnPassantOpportunity, r)
	assert.Equal(t, board.NewPiece(board.White, board.Pawn), g.Board().PieceAt(36))
	assert.True(t, g.Board().PieceAt(52).IsEmpty())
	assert.Equal(t, 1, g.MoveCount())

	under, ok := g.UnderPositionOf(36)
	assert.True(t, ok)
	assert.Equal(t, board.Square(44), under)
}

func TestMovePieceDoubleAdvanceOnlyFromStartingRow(t *testing.T) {
	g := board.NewGame(board.White, time.Second)
	now := time.Now()

	assert.Equal(t, board.EnPassantOpportunity, g.MovePiece(52, 36, now))
	// pawn now sits on 36 (row 4), not the starting row; a further two-square advance is invalid.
	assert.Equal(t, board.Invalid, g.MovePiece(36, 20, now))
}

func TestMovePieceDoubleAdvanceBlockedByOccupiedMidSquare(t *testing.T) {
	g := board.NewGame(board.White, time.Second)
	now := time.Now()
	g.Board().SetPiece(44, board.NewPiece(board.Black, board.Knight))

	assert.Equal(t, board.Invalid, g.MovePiece(52, 36, now))
}

func TestMovePieceDoubleAdvanceBlockedByUpWall(t *testing.T) {
	g := board.NewGame(board.White, time.Second)
	now := time.Now()
	g.Board().WallSet(52, board.Up, true)

	assert.Equal(t, board.Invalid, g.MovePiece(52, 36, now))
	assert.Equal(t, board.Invalid, g.MovePiece(52, 44, now), "single push also blocked by up-wall")
}

// Scenario 2 (§8): en-passant capture. Per §5's ordering guarantee, ENPS arrives before the TO
// that created it: the window is opened first, then the opponent's double advance from 11 to
// 27 (skipping square 19) is applied, and only then does the player's diagonal pawn move onto
// 19 capture en passant.
func TestMovePieceEnPassantCapture(t *testing.T) {
	g := board.NewGame(board.White, time.Second)
	now := time.Now()

	// set up a white pawn at 28 that can capture en passant onto 19.
	g.Board().SetPiece(28, board.NewPiece(board.White, board.Pawn))
	g.Board().SetPiece(20, board.Empty)

	g.AddEnPassantOpportunity(19, 0)
	g.OpponentMove(11, 27, now)

	r := g.MovePiece(28, 19, now)
	assert.Equal(t, board.Capture, r)
	assert.True(t, g.Board().PieceAt(27).IsEmpty(), "captured pawn removed from under square")
	assert.Equal(t, board.NewPiece(board.White, board.Pawn), g.Board().PieceAt(19))
}

func TestMovePieceEnPassantWindowExpiresAfterOneMove(t *testing.T) {
	g := board.NewGame(board.White, time.Second)
	now := time.Now()

	g.Board().SetPiece(28, board.NewPiece(board.White, board.Pawn))
	g.AddEnPassantOpportunity(19, 0)

	// two further moves age the window out past its one-move lifetime before it is consumed.
	g.OpponentMove(1, 18, now)
	g.OpponentMove(6, 21, now)

	r := g.MovePiece(28, 19, now)
	assert.Equal(t, board.Invalid, r, "en-passant capture must not be available once stale")
}

// Scenario 3 (§8): a pawn wall build sets the shared edge, observed from both cells.
func TestBuildWallSharedEdge(t *testing.T) {
	g := board.NewGame(board.White, time.Second)
	now := time.Now()

	r := g.BuildWall(52, 44, now)
	assert.Equal(t, board.WallSuccess, r)
	assert.True(t, g.Board().WallsAt(52).Up)
	assert.True(t, g.Board().WallsAt(44).Down)
	assert.Equal(t, 0, g.MoveCount(), "wall builds do not advance the move counter (I6)")
}

func TestBuildWallAlreadyExists(t *testing.T) {
	g := board.NewGame(board.White, time.Second)
	now := time.Now()

	assert.Equal(t, board.WallSuccess, g.BuildWall(52, 44, now))
	assert.Equal(t, board.WallExists, g.BuildWall(52, 44, now))
}

func TestBuildWallRequiresOwnPawnAndAdjacency(t *testing.T) {
	g := board.NewGame(board.White, time.Second)
	now := time.Now()

	assert.Equal(t, board.WallInvalid, g.BuildWall(60, 61, now), "king, not a pawn")
	assert.Equal(t, board.WallInvalid, g.BuildWall(52, 35, now), "not a cardinal neighbour")
}

// Scenario 4 (§8): a rook sliding past a wall clears it, and its twin, then continues.
func TestMoveRookBreaksWall(t *testing.T) {
	g := board.NewGame(board.White, time.Second)
	now := time.Now()

	g.Board().SetPiece(56, board.NewPiece(board.White, board.Rook))
	g.Board().SetPiece(48, board.Empty)
	g.Board().SetPiece(40, board.Empty)
	g.Board().SetPiece(32, board.Empty)
	g.Board().WallSet(48, board.Up, true) // edge between 48 and 40

	r := g.MovePiece(56, 32, now)
	assert.Equal(t, board.Success, r)
	assert.False(t, g.Board().IsWallAt(48, board.Up), "wall cleared by the rook's pass-through")
	assert.False(t, g.Board().IsWallAt(40, board.Down), "twin edge cleared too (I1)")
	assert.Equal(t, board.NewPiece(board.White, board.Rook), g.Board().PieceAt(32))
}

func TestMoveRookStopsAtOwnPiece(t *testing.T) {
	g := board.NewGame(board.White, time.Second)
	now := time.Now()

	g.Board().SetPiece(56, board.NewPiece(board.White, board.Rook))
	g.Board().SetPiece(48, board.NewPiece(board.White, board.Pawn))

	assert.Equal(t, board.Invalid, g.MovePiece(56, 40, now))
}

func TestMoveRookCapturesOpponentAndStops(t *testing.T) {
	g := board.NewGame(board.White, time.Second)
	now := time.Now()

	g.Board().SetPiece(56, board.NewPiece(board.White, board.Rook))
	g.Board().SetPiece(48, board.Empty)
	g.Board().SetPiece(40, board.NewPiece(board.Black, board.Knight))

	assert.Equal(t, board.Capture, g.MovePiece(56, 40, now))
	assert.Equal(t, board.NewPiece(board.White, board.Rook), g.Board().PieceAt(40))
}

// Queen straight slides do not break walls; a wall in the path stops the slide.
func TestMoveQueenStraightBlockedByWallDoesNotBreakIt(t *testing.T) {
	g := board.NewGame(board.White, time.Second)
	now := time.Now()

	g.Board().SetPiece(59, board.NewPiece(board.White, board.Queen))
	g.Board().SetPiece(51, board.Empty)
	g.Board().SetPiece(43, board.Empty)
	g.Board().WallSet(51, board.Up, true)

	assert.Equal(t, board.Invalid, g.MovePiece(59, 43, now))
	assert.True(t, g.Board().IsWallAt(51, board.Up), "queen must not break walls")
}

// Bishop diagonal slides are stopped by a sealed corner.
func TestMoveBishopBlockedBySealedCorner(t *testing.T) {
	g := board.NewGame(board.White, time.Second)
	now := time.Now()

	g.Board().SetPiece(61, board.NewPiece(board.White, board.Bishop))
	g.Board().SetPiece(52, board.Empty)
	g.Board().WallSet(52, board.Down, true)
	g.Board().WallSet(52, board.Right, true)

	assert.Equal(t, board.Invalid, g.MovePiece(61, 52, now))
}

func TestMoveKnightIgnoresWalls(t *testing.T) {
	g := board.NewGame(board.White, time.Second)
	now := time.Now()

	g.Board().WallSet(62, board.Up, true)
	g.Board().WallSet(62, board.Left, true)
	g.Board().WallSet(62, board.Right, true)

	assert.Equal(t, board.Success, g.MovePiece(62, 45, now))
}

func TestMoveKnightRejectsNonLShape(t *testing.T) {
	g := board.NewGame(board.White, time.Second)
	now := time.Now()

	assert.Equal(t, board.Invalid, g.MovePiece(62, 61, now))
}

// Scenario 5 (§8): kingside castling, then castling disabled forever after.
func TestMoveKingCastleKingsideThenDisabled(t *testing.T) {
	g := board.NewGame(board.White, time.Second)
	now := time.Now()
	g.Board().SetPiece(61, board.Empty)
	g.Board().SetPiece(62, board.Empty)

	r := g.MovePiece(60, 62, now)
	assert.Equal(t, board.Success, r)
	assert.Equal(t, board.NewPiece(board.White, board.King), g.Board().PieceAt(62))
	assert.Equal(t, board.NewPiece(board.White, board.Rook), g.Board().PieceAt(61))
	assert.True(t, g.Board().KingMoved())

	assert.Equal(t, board.Invalid, g.MovePiece(62, 63, now))
}

func TestMoveKingOneSquareAlwaysLatchesKingMoved(t *testing.T) {
	g := board.NewGame(board.White, time.Second)
	now := time.Now()
	g.Board().SetPiece(52, board.Empty) // clear the pawn in front of the king

	assert.Equal(t, board.Success, g.MovePiece(60, 52, now))
	assert.True(t, g.Board().KingMoved())
}

// Scenario 6 (§8): promotion with capture latches the promotion slot and blocks further moves.
func TestMovePawnPromotionWithCaptureLatchesUntilResolved(t *testing.T) {
	g := board.NewGame(board.White, time.Second)
	now := time.Now()

	g.Board().SetPiece(9, board.NewPiece(board.White, board.Pawn))
	g.Board().SetPiece(0, board.NewPiece(board.Black, board.Rook))

	r := g.MovePiece(9, 0, now)
	assert.Equal(t, board.PromotionCapture, r)

	from, to, ok := g.WaitingForPromotion()
	assert.True(t, ok)
	assert.Equal(t, board.Square(9), from)
	assert.Equal(t, board.Square(0), to)

	assert.Equal(t, board.Invalid, g.MovePiece(52, 36, now), "I3: every move_piece call is invalid while latched")

	g.Promote(board.Queen)
	_, _, ok = g.WaitingForPromotion()
	assert.False(t, ok)
	assert.Equal(t, board.NewPiece(board.White, board.Queen), g.Board().PieceAt(0))
}

func TestMovePawnPromotionWithoutCapture(t *testing.T) {
	g := board.NewGame(board.White, time.Second)
	now := time.Now()

	g.Board().SetPiece(9, board.NewPiece(board.White, board.Pawn))
	g.Board().SetPiece(1, board.Empty)

	r := g.MovePiece(9, 1, now)
	assert.Equal(t, board.Promotion, r)

	g.Promote(board.Rook)
	assert.Equal(t, board.NewPiece(board.White, board.Rook), g.Board().PieceAt(1))
}

func TestMoveCooldownBlocksImmediateReuse(t *testing.T) {
	g := board.NewGame(board.White, time.Second)
	now := time.Now()

	assert.Equal(t, board.EnPassantOpportunity, g.MovePiece(52, 36, now))
	assert.Equal(t, board.Invalid, g.MovePiece(36, 28, now), "piece just moved is in cooldown")
	assert.Equal(t, board.Success, g.MovePiece(36, 28, now.Add(2*time.Second)), "cooldown has expired")
}

// OpponentMove never re-validates and never gates on cooldown, but still arms it (§4.D).
func TestOpponentMoveAppliesWithoutValidationAndArmsCooldown(t *testing.T) {
	g := board.NewGame(board.White, time.Second)
	now := time.Now()

	g.OpponentMove(9, 33, now) // a three-square advance, geometrically illegal for a pawn
	assert.True(t, g.Board().PieceAt(9).IsEmpty())
	assert.Equal(t, board.NewPiece(board.Black, board.Pawn), g.Board().PieceAt(33))
	assert.Equal(t, 1, g.MoveCount())

	// a piece of ours placed on 33 is frozen by the cooldown the opponent move armed there.
	g.Board().SetPiece(33, board.NewPiece(board.White, board.Queen))
	assert.Equal(t, board.Invalid, g.MovePiece(33, 41, now), "cooldown armed on 33 by the opponent move")
}

func TestOpponentMoveClearsCapturedPawnOnEnPassantGeometry(t *testing.T) {
	g := board.NewGame(board.White, time.Second)
	now := time.Now()

	g.Board().SetPiece(28, board.NewPiece(board.Black, board.Pawn))
	g.Board().SetPiece(19, board.Empty)
	g.Board().SetPiece(27, board.NewPiece(board.White, board.Pawn))

	g.OpponentMove(28, 19, now)
	assert.Equal(t, board.NewPiece(board.Black, board.Pawn), g.Board().PieceAt(19))
	assert.True(t, g.Board().PieceAt(27).IsEmpty(), "phantom pawn one row behind the landing square is cleared")
}

func TestOpponentPromoteAppliesWithoutValidation(t *testing.T) {
	g := board.NewGame(board.White, time.Second)

	g.OpponentPromote(1, 9, board.Queen)
	assert.True(t, g.Board().PieceAt(1).IsEmpty())
	assert.Equal(t, board.NewPiece(board.Black, board.Queen), g.Board().PieceAt(9))
}

func TestBuildWallOpponentDoesNotArmCooldown(t *testing.T) {
	g := board.NewGame(board.White, time.Second)
	now := time.Now()

	// the wall is built on 52's left edge, which does not block its forward push.
	g.BuildWallOpponent(52, 51)
	assert.True(t, g.Board().WallsAt(52).Left)
	assert.Equal(t, board.Success, g.MovePiece(52, 44, now), "opponent wall build must not cooldown the builder's own side")
}

func TestDidOpponentLose(t *testing.T) {
	g := board.NewGame(board.White, time.Second)
	assert.False(t, g.DidOpponentLose())

	g.Board().SetPiece(4, board.Empty) // remove the black king
	assert.True(t, g.DidOpponentLose())
}

func TestMovePieceRejectsNonOwnPieceAndSameSquare(t *testing.T) {
	g := board.NewGame(board.White, time.Second)
	now := time.Now()

	assert.Equal(t, board.Invalid, g.MovePiece(1, 9, now), "square 1 holds the opponent's pawn")
	assert.Equal(t, board.Invalid, g.MovePiece(52, 52, now), "to == from")
	assert.Equal(t, board.Invalid, g.MovePiece(28, 20, now), "square 28 is empty")
}
