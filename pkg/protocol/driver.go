package protocol

import (
	"context"

	"github.com/fortresschess/fortress/pkg/board"
	"github.com/fortresschess/fortress/pkg/engine"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/util/iox"
	"go.uber.org/atomic"
)

// UnknownMessagePolicy controls how a Driver reacts to a line it cannot parse (§7 Error
// Handling Design). The source always disconnects; DisconnectOnUnknown preserves that.
type UnknownMessagePolicy uint8

const (
	DisconnectOnUnknown UnknownMessagePolicy = iota
	IgnoreUnknown
)

// Outcome is the terminal state of a game as observed by this Driver.
type Outcome uint32

const (
	Ongoing Outcome = iota
	Won
	Lost
	Disconnected
)

func (o Outcome) String() string {
	switch o {
	case Won:
		return "won"
	case Lost:
		return "lost"
	case Disconnected:
		return "disconnected"
	default:
		return "ongoing"
	}
}

// Driver pumps a peer's inbound wire lines into an engine.Engine's opponent-apply entry
// points, and offers move-attempt wrappers that apply locally, encode the matching wire
// message(s), and push them onto out. Grounded on the teacher's channel-driven protocol
// drivers (pkg/engine/console's goroutine-over-a-channel shape and its embedded
// iox.AsyncCloser): a single goroutine reads in until it closes, dispatching on the decoded
// message kind.
type Driver struct {
	iox.AsyncCloser

	e      *engine.Engine
	policy UnknownMessagePolicy

	out chan<- string

	outcome atomic.Uint32
}

// Option is a Driver creation option.
type Option func(*Driver)

// WithUnknownMessagePolicy overrides the default disconnect-on-unknown-message behaviour.
func WithUnknownMessagePolicy(p UnknownMessagePolicy) Option {
	return func(d *Driver) {
		d.policy = p
	}
}

// NewDriver starts a goroutine applying peer messages from in to e, and returns the driver
// plus a channel of wire lines this side wants sent to the peer.
func NewDriver(ctx context.Context, e *engine.Engine, in <-chan string, opts ...Option) (*Driver, <-chan string) {
	out := make(chan string, 100)
	d := &Driver{
		AsyncCloser: iox.NewAsyncCloser(),
		e:           e,
		out:         out,
	}
	for _, fn := range opts {
		fn(d)
	}
	go d.process(ctx, in)

	return d, out
}

// Outcome returns the terminal state of the game, or Ongoing if still in progress.
func (d *Driver) Outcome() Outcome {
	return Outcome(d.outcome.Load())
}

func (d *Driver) process(ctx context.Context, in <-chan string) {
	defer d.Close()
	defer close(d.out)

	logw.Infof(ctx, "Peer protocol driver initialized")

	for {
		select {
		case line, ok := <-in:
			if !ok {
				logw.Infof(ctx, "Peer stream closed")
				d.outcome.Store(uint32(Disconnected))
				return
			}
			if d.dispatch(ctx, line) {
				return
			}

		case <-d.Closed():
			return
		}
	}
}

// dispatch applies a single inbound line. It returns true if the driver should stop.
func (d *Driver) dispatch(ctx context.Context, line string) bool {
	msg := Parse(line)
	logw.Debugf(ctx, "<< %v (%v)", line, msg.Kind)

	switch msg.Kind {
	case Move:
		d.e.OpponentMove(ctx, msg.From.Reverse(), msg.To.Reverse())
	case EnPassant:
		d.e.AddEnPassantOpportunity(ctx, msg.Square.Reverse(), msg.MoveIndex)
	case Wall:
		d.e.BuildWallOpponent(ctx, msg.From.Reverse(), msg.Adjacent.Reverse())
	case Promotion:
		d.e.OpponentPromote(ctx, msg.From.Reverse(), msg.To.Reverse(), msg.PromoteKind)
	case Loss:
		d.outcome.Store(uint32(Lost))
		logw.Infof(ctx, "Opponent resigned: you lost")
		return true
	case ColorAssignment:
		logw.Debugf(ctx, "Unexpected mid-session colour assignment: %v", line)
	default:
		logw.Infof(ctx, "Unknown message %q", line)
		if d.policy == DisconnectOnUnknown {
			d.outcome.Store(uint32(Disconnected))
			return true
		}
	}
	return false
}

// MovePiece applies a local move and, if successful, sends the corresponding wire message(s)
// -- an ENPS before the TO for a double pawn advance, matching §5's ordering guarantee. Squares
// go out in this engine's own local frame (§4.F): Reverse belongs to the receiver, on dispatch,
// not to the sender here -- the two would otherwise cancel out and leave the receiver applying
// the sender's raw local coordinates to its own mirrored board.
func (d *Driver) MovePiece(ctx context.Context, from, to board.Square) board.MoveResult {
	moveIndex := d.e.GetGameMovesCount()
	r := d.e.MovePiece(ctx, from, to)
	switch r {
	case board.Invalid:
		return r
	case board.EnPassantOpportunity:
		under, ok := d.e.GetUnderPositionOf(to)
		if ok {
			d.send(ctx, EncodeEnPassant(under, moveIndex))
		}
		d.send(ctx, EncodeMove(from, to))
	default:
		d.send(ctx, EncodeMove(from, to))
	}
	d.checkWin(ctx)
	return r
}

// BuildWall attempts a local wall build and, on success, sends the matching WALL message.
func (d *Driver) BuildWall(ctx context.Context, from, adjacent board.Square) board.WallResult {
	r := d.e.BuildWall(ctx, from, adjacent)
	if r == board.WallSuccess {
		d.send(ctx, EncodeWall(from, adjacent))
	}
	d.checkWin(ctx)
	return r
}

// Promote resolves a pending local promotion and sends the matching PROM message.
func (d *Driver) Promote(ctx context.Context, kind board.Kind) {
	from, to, ok := d.e.GetWaitingForPromotion()
	if !ok {
		return
	}
	d.e.Promote(ctx, kind)
	d.send(ctx, EncodePromotion(from, to, kind))
	d.checkWin(ctx)
}

// checkWin sends LOSE to the peer and marks this side as having won the moment the opponent's
// king has no square left on the board (§4.D "Win check"), mirroring the source's check after
// every local move attempt.
func (d *Driver) checkWin(ctx context.Context) {
	if d.Outcome() != Ongoing {
		return
	}
	if d.e.DidOpponentLose() {
		d.send(ctx, EncodeLoss())
		d.outcome.Store(uint32(Won))
		logw.Infof(ctx, "Opponent has no king left: you won")
	}
}

func (d *Driver) send(ctx context.Context, line string) {
	select {
	case d.out <- line:
		logw.Debugf(ctx, ">> %v", line)
	case <-d.Closed():
	}
}

// CheckTimeouts sweeps expired cooldown entries. Call once per driver iteration from the
// owning main loop (§5); it does not run on its own timer.
func (d *Driver) CheckTimeouts(ctx context.Context) {
	d.e.CheckTimeouts(ctx)
}
