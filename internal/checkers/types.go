package checkers

import (
	"fmt"
	"strings"
)

// Size is the board edge length.
const Size = 8

// Side identifies one of the two competing teams.
type Side string

const (
	White Side = "white"
	Black Side = "black"
)

// Valid reports whether s is one of the two sides.
func (s Side) Valid() bool { return s == White || s == Black }

// Opponent returns the other side.
func (s Side) Opponent() Side {
	if s == White {
		return Black
	}
	return White
}

// Forward is the row delta of a non-promoted piece: white walks down, black walks up.
func (s Side) Forward() int {
	if s == White {
		return 1
	}
	return -1
}

// PromotionRow is the farthest row for the side's direction of travel.
func (s Side) PromotionRow() int {
	if s == White {
		return Size - 1
	}
	return 0
}

// Label is the upper-case name used in notices ("WHITE wins.").
func (s Side) Label() string { return strings.ToUpper(string(s)) }

func (s Side) index() int {
	if s == Black {
		return 1
	}
	return 0
}

// ParseSide accepts "white"/"w" and "black"/"b" in any case.
func ParseSide(v string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "white", "w":
		return White, nil
	case "black", "b":
		return Black, nil
	}
	return "", fmt.Errorf("unknown side %q", v)
}

// Coord addresses a cell. Row 0 is the top of the board.
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// InBounds reports whether c lies on the board.
func (c Coord) InBounds() bool {
	return c.Row >= 0 && c.Row < Size && c.Col >= 0 && c.Col < Size
}

// Offset returns c shifted by (dr, dc).
func (c Coord) Offset(dr, dc int) Coord { return Coord{Row: c.Row + dr, Col: c.Col + dc} }

// String encodes c the way clicks carry it: "row col".
func (c Coord) String() string { return fmt.Sprintf("%d %d", c.Row, c.Col) }

// IsDark reports whether the cell is one of the playable squares of the initial layout.
func IsDark(row, col int) bool { return (row+col)%2 == 0 }

// MoveKind tags a Move variant.
type MoveKind uint8

const (
	Advance MoveKind = iota + 1
	Capture
)

func (k MoveKind) String() string {
	switch k {
	case Advance:
		return "advance"
	case Capture:
		return "capture"
	default:
		return "unknown"
	}
}

// Move is a legal destination for a piece. Captured is only meaningful for Capture.
type Move struct {
	Kind     MoveKind `json:"kind"`
	To       Coord    `json:"to"`
	Captured Coord    `json:"captured"`
}

// IsCapture reports whether the move jumps an opposing piece.
func (m Move) IsCapture() bool { return m.Kind == Capture }

// Jumped returns the coordinate of the piece removed by a capture.
func (m Move) Jumped() (Coord, bool) {
	switch m.Kind {
	case Capture:
		return m.Captured, true
	case Advance:
		return Coord{}, false
	default:
		return Coord{}, false
	}
}

// PieceID is a stable arena index. Zero means "no piece".
type PieceID int

// Piece is a single token. Pieces live in the match arena and are never resurrected.
type Piece struct {
	ID       PieceID
	Side     Side
	Pos      Coord
	Alive    bool
	Promoted bool

	moves      []Move
	canCapture bool
}

// Moves returns a copy of the cached legal moves.
func (p *Piece) Moves() []Move {
	return append([]Move(nil), p.moves...)
}

// CanCapture reports whether at least one cached move is a capture.
func (p *Piece) CanCapture() bool { return p.canCapture }

// roster is the per-side aggregate: membership by ID, ownership stays with the arena.
type roster struct {
	side       Side
	pieces     []PieceID
	canCapture bool
}

func (r *roster) remove(id PieceID) {
	for i, pid := range r.pieces {
		if pid == id {
			r.pieces = append(r.pieces[:i], r.pieces[i+1:]...)
			return
		}
	}
}
