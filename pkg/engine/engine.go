// Package engine wraps the move validator/mutator (pkg/board) into the thread-safe, logged
// entry points a transport adapter calls (§6 External Interfaces): one Engine per connected
// player, owned by that client's main loop.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fortresschess/fortress/pkg/board"
	"github.com/seekerror/build"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
)

var version = build.NewVersion(0, 1, 0)

// DefaultTimeout is the per-cell move cooldown used when WithTimeout is not given.
const DefaultTimeout = 2 * time.Second

// Options are engine creation options.
type Options struct {
	// Timeout is the per-cell cooldown duration armed by every successful move or local wall
	// build (§4.B). Unset falls back to DefaultTimeout.
	Timeout lang.Optional[time.Duration]
}

func (o Options) String() string {
	d, ok := o.Timeout.V()
	if !ok {
		d = DefaultTimeout
	}
	return fmt.Sprintf("{timeout=%v}", d)
}

// Option is an engine creation option.
type Option func(*Options)

// WithTimeout overrides the default per-cell move cooldown.
func WithTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.Timeout = lang.Some(d)
	}
}

// Engine is this client's view of the game: a single board.Game guarded by a mutex, since
// move-attempt and opponent-apply entry points are not reentrant and must not overlap (§5).
type Engine struct {
	mu   sync.Mutex
	game *board.Game
	opts Options
}

// New returns an engine for player, laid out in the initial position from player's own
// perspective (own pieces on rows 6-7 regardless of color).
func New(ctx context.Context, player board.Color, opts ...Option) *Engine {
	var o Options
	for _, fn := range opts {
		fn(&o)
	}
	timeout, ok := o.Timeout.V()
	if !ok {
		timeout = DefaultTimeout
	}

	e := &Engine{game: board.NewGame(player, timeout), opts: o}
	logw.Infof(ctx, "Initialized engine %v: player=%v, opts=%v", version, player, o)
	return e
}

// MovePiece attempts a local move.
func (e *Engine) MovePiece(ctx context.Context, from, to board.Square) board.MoveResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	r := e.game.MovePiece(from, to, time.Now())
	logw.Debugf(ctx, "move_piece(%v, %v) -> %v", from, to, r)
	return r
}

// OpponentMove applies a peer's already-validated move.
func (e *Engine) OpponentMove(ctx context.Context, from, to board.Square) {
	e.mu.Lock()
	defer e.mu.Unlock()

	logw.Debugf(ctx, "opponent_move(%v, %v)", from, to)
	e.game.OpponentMove(from, to, time.Now())
}

// Promote resolves a pending promotion latch to kind.
func (e *Engine) Promote(ctx context.Context, kind board.Kind) {
	e.mu.Lock()
	defer e.mu.Unlock()

	logw.Debugf(ctx, "promote(%v)", kind)
	e.game.Promote(kind)
}

// OpponentPromote applies a peer's already-resolved promotion.
func (e *Engine) OpponentPromote(ctx context.Context, from, to board.Square, kind board.Kind) {
	e.mu.Lock()
	defer e.mu.Unlock()

	logw.Debugf(ctx, "opponent_promote(%v, %v, %v)", from, to, kind)
	e.game.OpponentPromote(from, to, kind)
}

// BuildWall attempts a local wall build.
func (e *Engine) BuildWall(ctx context.Context, from, adjacent board.Square) board.WallResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	r := e.game.BuildWall(from, adjacent, time.Now())
	logw.Debugf(ctx, "build_wall(%v, %v) -> %v", from, adjacent, r)
	return r
}

// BuildWallOpponent applies a peer's already-validated wall build.
func (e *Engine) BuildWallOpponent(ctx context.Context, from, adjacent board.Square) {
	e.mu.Lock()
	defer e.mu.Unlock()

	logw.Debugf(ctx, "build_wall_opponent(%v, %v)", from, adjacent)
	e.game.BuildWallOpponent(from, adjacent)
}

// AddEnPassantOpportunity opens an en-passant window in response to a peer's ENPS message.
func (e *Engine) AddEnPassantOpportunity(ctx context.Context, square board.Square, moveIndex int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	logw.Debugf(ctx, "add_en_passant_opportunity(%v, %v)", square, moveIndex)
	e.game.AddEnPassantOpportunity(square, moveIndex)
}

// PieceAt returns the occupant of cell i.
func (e *Engine) PieceAt(i board.Square) board.Piece {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.game.Board().PieceAt(i)
}

// WallsAt returns the wall state of all four edges of cell i.
func (e *Engine) WallsAt(i board.Square) board.Walls {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.game.Board().WallsAt(i)
}

// IsWallAt reports whether a wall exists on the given edge of cell i.
func (e *Engine) IsWallAt(i board.Square, d board.Direction) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.game.Board().IsWallAt(i, d)
}

// GetBoard returns a snapshot of the board, safe from subsequent mutation.
func (e *Engine) GetBoard() *board.Board {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.game.Board().Clone()
}

// PieceCount returns the number of this engine's own pieces still on the board.
func (e *Engine) PieceCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.game.Board().PieceCount(e.game.Board().Player())
}

// GetWaitingForPromotion reports the pending promotion slot, if any.
func (e *Engine) GetWaitingForPromotion() (from, to board.Square, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.game.WaitingForPromotion()
}

// DidOpponentLose reports whether no opponent-coloured king remains on the board.
func (e *Engine) DidOpponentLose() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.game.DidOpponentLose()
}

// GetGameMovesCount returns the monotonic count of completed moves.
func (e *Engine) GetGameMovesCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.game.MoveCount()
}

// GetUnderPositionOf returns the square a two-square pawn advance landing on square passed
// over, i.e. the square an en-passant capture targeting square would vacate.
func (e *Engine) GetUnderPositionOf(square board.Square) (board.Square, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.game.UnderPositionOf(square)
}

// Reverse maps square to its mirror image across both axes (§4.F). Stateless; does not need
// the lock, but is exposed on Engine for parity with the rest of the external interface.
func (e *Engine) Reverse(square board.Square) board.Square {
	return square.Reverse()
}

// CheckTimeouts sweeps expired cooldown entries. Intended to be called once per driver
// iteration (§5).
func (e *Engine) CheckTimeouts(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.game.CheckTimeouts(time.Now())
}
