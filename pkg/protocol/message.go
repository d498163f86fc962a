// Package protocol implements the peer wire codec (component G): single-line, whitespace
// tokenized text messages exchanged directly between the two mirrored engine instances, with
// the relay only ever forwarding bytes.
//
// The source classifies a line by substring search (contains("PROM") checked before
// contains("TO"), since "TO" is a substring of several other messages) and explicitly warns
// implementers to preserve that ordering. A first-token prefix match sidesteps the ordering
// hazard entirely, which is the form used here.
package protocol

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fortresschess/fortress/pkg/board"
)

// Kind identifies a wire message's type.
type Kind uint8

const (
	Unknown Kind = iota
	ColorAssignment
	Move
	EnPassant
	Wall
	Promotion
	Loss
)

func (k Kind) String() string {
	switch k {
	case ColorAssignment:
		return "color"
	case Move:
		return "move"
	case EnPassant:
		return "en_passant"
	case Wall:
		return "wall"
	case Promotion:
		return "promotion"
	case Loss:
		return "loss"
	default:
		return "unknown"
	}
}

// Message is a single decoded wire line. Which fields are meaningful depends on Kind; all
// square-valued fields are in the sender's frame (§4.F) -- the receiver must call Reverse on
// them before handing them to its own engine.
type Message struct {
	Kind Kind

	Color board.Color // ColorAssignment

	From, To board.Square // Move, Promotion
	Adjacent board.Square // Wall

	Square    board.Square // EnPassant
	MoveIndex int          // EnPassant

	PromoteKind board.Kind // Promotion

	// Raw is the original line, populated on Unknown so a caller can log it.
	Raw string
}

// EncodeColorAssignment renders the server->client one-time colour assignment.
func EncodeColorAssignment(c board.Color) string {
	if c == board.White {
		return "WHITE"
	}
	return "BLACK"
}

// EncodeMove renders a TO message.
func EncodeMove(from, to board.Square) string {
	return fmt.Sprintf("TO %d %d", from, to)
}

// EncodeEnPassant renders an ENPS message. Per §5's ordering guarantee, this must be sent
// before the TO that created the opportunity.
func EncodeEnPassant(square board.Square, moveIndex int) string {
	return fmt.Sprintf("ENPS %d %d", square, moveIndex)
}

// EncodeWall renders a WALL message.
func EncodeWall(from, adjacent board.Square) string {
	return fmt.Sprintf("WALL %d %d", from, adjacent)
}

// EncodePromotion renders a PROM message.
func EncodePromotion(from, to board.Square, kind board.Kind) string {
	return fmt.Sprintf("PROM %d %d %s", from, to, strings.ToUpper(kind.String()))
}

// EncodeLoss renders a LOSE message.
func EncodeLoss() string {
	return "LOSE"
}

// Parse decodes a single wire line. A line whose first token matches none of the known kinds
// decodes to Kind == Unknown, which the peer protocol treats as an opponent disconnect (§7).
func Parse(line string) Message {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Message{Kind: Unknown, Raw: line}
	}

	switch fields[0] {
	case "WHITE":
		return Message{Kind: ColorAssignment, Color: board.White}
	case "BLACK":
		return Message{Kind: ColorAssignment, Color: board.Black}
	case "TO":
		from, to, ok := parseTwoSquares(fields)
		if !ok {
			return Message{Kind: Unknown, Raw: line}
		}
		return Message{Kind: Move, From: from, To: to}
	case "ENPS":
		if len(fields) < 3 {
			return Message{Kind: Unknown, Raw: line}
		}
		square, ok1 := parseSquare(fields[1])
		idx, err := strconv.Atoi(fields[2])
		if !ok1 || err != nil {
			return Message{Kind: Unknown, Raw: line}
		}
		return Message{Kind: EnPassant, Square: square, MoveIndex: idx}
	case "WALL":
		from, adjacent, ok := parseTwoSquares(fields)
		if !ok {
			return Message{Kind: Unknown, Raw: line}
		}
		return Message{Kind: Wall, From: from, Adjacent: adjacent}
	case "PROM":
		if len(fields) < 4 {
			return Message{Kind: Unknown, Raw: line}
		}
		from, to, ok := parseTwoSquares(fields)
		if !ok {
			return Message{Kind: Unknown, Raw: line}
		}
		r := []rune(fields[3])
		if len(r) == 0 {
			return Message{Kind: Unknown, Raw: line}
		}
		kind, ok := board.ParseKind(r[0])
		if !ok {
			return Message{Kind: Unknown, Raw: line}
		}
		return Message{Kind: Promotion, From: from, To: to, PromoteKind: kind}
	case "LOSE":
		return Message{Kind: Loss}
	default:
		return Message{Kind: Unknown, Raw: line}
	}
}

func parseTwoSquares(fields []string) (a, b board.Square, ok bool) {
	if len(fields) < 3 {
		return 0, 0, false
	}
	a, ok1 := parseSquare(fields[1])
	b, ok2 := parseSquare(fields[2])
	return a, b, ok1 && ok2
}

func parseSquare(s string) (board.Square, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n >= int(board.NumSquares) {
		return 0, false
	}
	return board.Square(n), true
}
