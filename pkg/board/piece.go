package board

import "strings"

// Kind represents a piece kind without color: King, Pawn, etc. 3 bits.
type Kind uint8

const (
	NoKind Kind = iota
	Pawn
	Bishop
	Knight
	Rook
	Queen
	King
)

func (k Kind) String() string {
	switch k {
	case NoKind:
		return "-"
	case Pawn:
		return "p"
	case Bishop:
		return "b"
	case Knight:
		return "n"
	case Rook:
		return "r"
	case Queen:
		return "q"
	case King:
		return "k"
	default:
		return "?"
	}
}

// ParseKind parses a promotion kind letter, as used on the wire (§4.G: "kind ∈ {Q,R,B,K}").
func ParseKind(r rune) (Kind, bool) {
	switch r {
	case 'q', 'Q':
		return Queen, true
	case 'r', 'R':
		return Rook, true
	case 'b', 'B':
		return Bishop, true
	case 'k', 'K', 'n', 'N':
		return Knight, true
	default:
		return NoKind, false
	}
}

// Piece is a cell occupant: empty, or a colored kind. Cell identity is kept as a single
// value, per the data model's "set of {empty, white king, ..., black pawn}" (§3).
type Piece uint8

const (
	Empty Piece = iota
	WhiteKing
	WhiteQueen
	WhiteBishop
	WhiteKnight
	WhiteRook
	WhitePawn
	BlackKing
	BlackQueen
	BlackBishop
	BlackKnight
	BlackRook
	BlackPawn
)

// NewPiece builds the combined occupant value for a color+kind. NoKind always yields Empty.
func NewPiece(c Color, k Kind) Piece {
	if k == NoKind {
		return Empty
	}
	if c == White {
		switch k {
		case King:
			return WhiteKing
		case Queen:
			return WhiteQueen
		case Bishop:
			return WhiteBishop
		case Knight:
			return WhiteKnight
		case Rook:
			return WhiteRook
		case Pawn:
			return WhitePawn
		}
	} else {
		switch k {
		case King:
			return BlackKing
		case Queen:
			return BlackQueen
		case Bishop:
			return BlackBishop
		case Knight:
			return BlackKnight
		case Rook:
			return BlackRook
		case Pawn:
			return BlackPawn
		}
	}
	return Empty
}

// Split returns the color and kind of the occupant. ok is false iff the cell is Empty.
func (p Piece) Split() (Color, Kind, bool) {
	switch p {
	case WhiteKing:
		return White, King, true
	case WhiteQueen:
		return White, Queen, true
	case WhiteBishop:
		return White, Bishop, true
	case WhiteKnight:
		return White, Knight, true
	case WhiteRook:
		return White, Rook, true
	case WhitePawn:
		return White, Pawn, true
	case BlackKing:
		return Black, King, true
	case BlackQueen:
		return Black, Queen, true
	case BlackBishop:
		return Black, Bishop, true
	case BlackKnight:
		return Black, Knight, true
	case BlackRook:
		return Black, Rook, true
	case BlackPawn:
		return Black, Pawn, true
	default:
		return ZeroColor, NoKind, false
	}
}

func (p Piece) Kind() Kind {
	_, k, _ := p.Split()
	return k
}

func (p Piece) Color() (Color, bool) {
	c, _, ok := p.Split()
	return c, ok
}

func (p Piece) IsEmpty() bool {
	return p == Empty
}

func (p Piece) String() string {
	c, k, ok := p.Split()
	if !ok {
		return "."
	}
	s := k.String()
	if c == White {
		return strings.ToUpper(s)
	}
	return s
}
