package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/fortresschess/fortress/pkg/board"
	"github.com/fortresschess/fortress/pkg/engine"
	"github.com/fortresschess/fortress/pkg/protocol"
	"github.com/gorilla/websocket"
	"github.com/seekerror/logw"
)

var (
	host = flag.String("host", "localhost", "Relay host")
	port = flag.Int("port", 8080, "Relay port")
)

func init() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: fortress-client [options]

fortress-client dials a fortress-relay, waits for its colour assignment, and
then plays a text-driven session against whichever peer it is paired with.
Stdin commands (square indices are 0-63, row-major, own perspective):
  move <from> <to>
  wall <from> <adjacent>
  promote <q|r|b|n>
  quit
Options:
`)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	ctx := context.Background()

	addr := url.URL{Scheme: "ws", Host: fmt.Sprintf("%s:%d", *host, *port), Path: "/"}
	conn, _, err := websocket.DefaultDialer.Dial(addr.String(), nil)
	if err != nil {
		logw.Exitf(ctx, "Dial %v failed: %v", addr.String(), err)
	}

	_, first, err := conn.ReadMessage()
	if err != nil {
		logw.Exitf(ctx, "Colour assignment failed: %v", err)
	}
	msg := protocol.Parse(string(first))
	if msg.Kind != protocol.ColorAssignment {
		logw.Exitf(ctx, "Unexpected first message: %q", first)
	}
	player := msg.Color
	logw.Infof(ctx, "Assigned colour: %v", player)

	e := engine.New(ctx, player)

	in := make(chan string, 100)
	go func() {
		defer close(in)
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				logw.Infof(ctx, "Connection closed: %v", err)
				return
			}
			in <- string(data)
		}
	}()

	driver, out := protocol.NewDriver(ctx, e, in)
	go func() {
		for line := range out {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(line)); err != nil {
				logw.Errorf(ctx, "Send failed: %v", err)
				driver.Close()
				return
			}
		}
	}()

	go commandLoop(ctx, driver)

	<-driver.Closed()
	logw.Infof(ctx, "Game over: %v", driver.Outcome())
}

// commandLoop reads move/wall/promote commands from stdin and applies them through driver until
// stdin closes, the user quits, or the driver itself closes (peer disconnect, loss, win).
func commandLoop(ctx context.Context, d *protocol.Driver) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch strings.ToLower(fields[0]) {
		case "move":
			from, to, ok := parseTwoSquares(fields)
			if !ok {
				fmt.Println("usage: move <from> <to>")
				continue
			}
			fmt.Println(d.MovePiece(ctx, from, to))

		case "wall":
			from, adjacent, ok := parseTwoSquares(fields)
			if !ok {
				fmt.Println("usage: wall <from> <adjacent>")
				continue
			}
			fmt.Println(d.BuildWall(ctx, from, adjacent))

		case "promote":
			if len(fields) != 2 || len(fields[1]) == 0 {
				fmt.Println("usage: promote <q|r|b|n>")
				continue
			}
			kind, ok := board.ParseKind([]rune(strings.ToUpper(fields[1]))[0])
			if !ok {
				fmt.Println("invalid promotion kind")
				continue
			}
			d.Promote(ctx, kind)

		case "quit":
			d.Close()
			return

		default:
			fmt.Println("unknown command")
		}
	}
	d.Close()
}

func parseTwoSquares(fields []string) (a, b board.Square, ok bool) {
	if len(fields) != 3 {
		return 0, 0, false
	}
	x, err1 := strconv.Atoi(fields[1])
	y, err2 := strconv.Atoi(fields[2])
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	a, b = board.Square(x), board.Square(y)
	return a, b, a.IsValid() && b.IsValid()
}
