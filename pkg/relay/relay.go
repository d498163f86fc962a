// Package relay implements the stateless peer relay (component H): a WebSocket endpoint that
// pairs incoming connections two at a time, assigns colours once per pair, and then forwards
// bytes verbatim between the pair until either side disconnects (on an idle pair, a failed
// keepalive ping counts as a disconnect). The relay never parses a wire message -- it uses
// pkg/protocol only to encode the colour assignment and is otherwise pure plumbing.
package relay

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/fortresschess/fortress/pkg/board"
	"github.com/fortresschess/fortress/pkg/protocol"
	"github.com/gorilla/websocket"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/util/contextx"
	"github.com/seekerror/stdlib/pkg/util/iox"
)

// keepalive is how often an idle pair is pinged to detect a peer that dropped without a clean
// close frame.
const keepalive = 30 * time.Second

// Server accepts WebSocket connections and pairs them two at a time (§4.H). The zero value is
// not usable; construct with New.
type Server struct {
	upgrader websocket.Upgrader

	mu      sync.Mutex
	waiting *websocket.Conn
}

// New returns a relay server ready to be mounted as an http.Handler.
func New() *Server {
	return &Server{
		upgrader: websocket.Upgrader{
			// The relay forwards opaque bytes between two clients of the same variant; it has
			// no browser-facing origin policy to enforce.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// ServeHTTP upgrades the request to a WebSocket connection and hands it to the pairer.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logw.Errorf(r.Context(), "Upgrade failed: %v", err)
		return
	}
	s.accept(r.Context(), conn)
}

// accept implements the pairing rule: the first connection of a pair waits; the second
// completes the pair, and both are sent their one-time colour assignment before forwarding
// begins. A peer that disconnects while waiting for its opponent is only noticed once that
// opponent arrives and the first write to it fails -- acceptable here since matchmaking beyond
// pair-next-two is explicitly out of scope.
func (s *Server) accept(ctx context.Context, conn *websocket.Conn) {
	s.mu.Lock()
	waiting := s.waiting
	if waiting == nil {
		s.waiting = conn
		s.mu.Unlock()
		logw.Infof(ctx, "Peer connected, waiting for an opponent")
		return
	}
	s.waiting = nil
	s.mu.Unlock()

	logw.Infof(ctx, "Pairing two peers")
	if err := waiting.WriteMessage(websocket.TextMessage, []byte(protocol.EncodeColorAssignment(board.Black))); err != nil {
		logw.Errorf(ctx, "Colour assignment to first peer failed: %v", err)
		_ = waiting.Close()
		_ = conn.Close()
		return
	}
	if err := conn.WriteMessage(websocket.TextMessage, []byte(protocol.EncodeColorAssignment(board.White))); err != nil {
		logw.Errorf(ctx, "Colour assignment to second peer failed: %v", err)
		_ = waiting.Close()
		_ = conn.Close()
		return
	}

	s.forward(ctx, waiting, conn)
}

// forward pumps messages between a and b until one side fails, including a keepalive ping
// that fails after the pair has been silent for keepalive. Grounded on the teacher's use of iox.AsyncCloser for
// close-once shutdown signaling and iox.Pulse for "has there been any activity" liveness
// (cmd/livechess-uci/main.go's adaptor), plus contextx.WithQuitCancel to scope the keepalive
// goroutine's lifetime to the pair (pkg/search/searchctl/iterative.go's use of the same helper
// to scope a search to its halt signal).
func (s *Server) forward(ctx context.Context, a, b *websocket.Conn) {
	closer := iox.NewAsyncCloser()
	wctx, cancel := contextx.WithQuitCancel(ctx, closer.Closed())
	defer cancel()

	pulse := iox.NewPulse()
	done := make(chan struct{}, 2)
	go pipe(wctx, a, b, pulse, done)
	go pipe(wctx, b, a, pulse, done)
	go watchIdle(wctx, closer, pulse, a, b)

	select {
	case <-done:
	case <-closer.Closed():
	}
	_ = a.Close()
	_ = b.Close()
}

// pipe forwards every message read from src to dst, verbatim, until a read or write fails or
// ctx is cancelled, emitting pulse on every message observed.
func pipe(ctx context.Context, src, dst *websocket.Conn, pulse *iox.Pulse, done chan<- struct{}) {
	defer func() { done <- struct{}{} }()

	for {
		if contextx.IsCancelled(ctx) {
			return
		}
		mt, data, err := src.ReadMessage()
		if err != nil {
			logw.Infof(ctx, "Peer disconnected: %v", err)
			return
		}
		pulse.Emit()
		if err := dst.WriteMessage(mt, data); err != nil {
			logw.Infof(ctx, "Forward to peer failed: %v", err)
			return
		}
	}
}

// watchIdle pings both peers once no traffic has flowed for keepalive; a failed ping closes the
// pair rather than leaving a half-dead forwarding loop blocked on a read that will never return.
func watchIdle(ctx context.Context, closer iox.AsyncCloser, pulse *iox.Pulse, a, b *websocket.Conn) {
	ticker := time.NewTicker(keepalive)
	defer ticker.Stop()

	idle := true
	for {
		select {
		case <-pulse.Chan():
			// traffic observed; idle window resets on the next tick.
			idle = false
		case <-ticker.C:
			if !idle {
				idle = true
				continue
			}
			deadline := time.Now().Add(5 * time.Second)
			if err := a.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				logw.Infof(ctx, "Keepalive ping failed, closing pair: %v", err)
				closer.Close()
				return
			}
			if err := b.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				logw.Infof(ctx, "Keepalive ping failed, closing pair: %v", err)
				closer.Close()
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
