package checkers

import (
	"fmt"
	"sort"
)

// PieceState is the serialisable form of a piece, dead ones included so that
// identifiers stay monotonic across a restore.
type PieceState struct {
	ID       PieceID `json:"id"`
	Side     Side    `json:"side"`
	Row      int     `json:"row"`
	Col      int     `json:"col"`
	Alive    bool    `json:"alive"`
	Promoted bool    `json:"promoted,omitempty"`
}

// Snapshot captures everything needed to rebuild a Match. Cached move lists
// and aggregate flags are derived and therefore not stored.
type Snapshot struct {
	Pieces    []PieceState `json:"pieces"`
	Active    Side         `json:"active"`
	Selected  *Coord       `json:"selected,omitempty"`
	Chain     PieceID      `json:"chain,omitempty"`
	Ended     bool         `json:"ended,omitempty"`
	Winner    Side         `json:"winner,omitempty"`
	MoveCount int          `json:"move_count"`
}

// Snapshot returns the serialisable state of m.
func (m *Match) Snapshot() Snapshot {
	s := Snapshot{
		Pieces:    make([]PieceState, 0, len(m.pieces)),
		Active:    m.active,
		Chain:     m.chain,
		Ended:     m.ended,
		Winner:    m.winner,
		MoveCount: m.moveCount,
	}
	for _, p := range m.pieces {
		s.Pieces = append(s.Pieces, PieceState{
			ID:       p.ID,
			Side:     p.Side,
			Row:      p.Pos.Row,
			Col:      p.Pos.Col,
			Alive:    p.Alive,
			Promoted: p.Promoted,
		})
	}
	if m.hasSelected {
		sel := m.selected
		s.Selected = &sel
	}
	return s
}

// Restore rebuilds a match from a snapshot, validating the grid invariants and
// recomputing every derived flag.
func Restore(s Snapshot) (*Match, error) {
	if !s.Active.Valid() {
		return nil, fmt.Errorf("%w: active side %q", ErrInvalidLayout, s.Active)
	}
	states := append([]PieceState(nil), s.Pieces...)
	sort.Slice(states, func(i, j int) bool { return states[i].ID < states[j].ID })

	m := newEmptyMatch(s.Active)
	for i, ps := range states {
		if ps.ID != PieceID(i+1) {
			return nil, fmt.Errorf("%w: piece ids must be 1..%d without gaps, got %d", ErrInvalidLayout, len(states), ps.ID)
		}
		if !ps.Side.Valid() {
			return nil, fmt.Errorf("%w: piece %d has side %q", ErrInvalidLayout, ps.ID, ps.Side)
		}
		pos := Coord{Row: ps.Row, Col: ps.Col}
		if !ps.Alive {
			m.pieces = append(m.pieces, Piece{ID: ps.ID, Side: ps.Side, Pos: pos, Promoted: ps.Promoted})
			continue
		}
		if !pos.InBounds() {
			return nil, fmt.Errorf("%w: piece %d at %s is off the board", ErrInvalidLayout, ps.ID, pos)
		}
		if m.grid[pos.Row][pos.Col] != 0 {
			return nil, fmt.Errorf("%w: cell %s holds two pieces", ErrInvalidLayout, pos)
		}
		// a man is promoted the moment it lands on the far row
		if !ps.Promoted && pos.Row == ps.Side.PromotionRow() {
			return nil, fmt.Errorf("%w: unpromoted piece %d on promotion row", ErrInvalidLayout, ps.ID)
		}
		m.place(ps.Side, pos, ps.Promoted)
	}

	m.moveCount = s.MoveCount
	winner, won := m.checkWin()
	switch {
	case s.Ended && !s.Winner.Valid():
		return nil, fmt.Errorf("%w: ended match without winner", ErrInvalidLayout)
	case s.Ended && (!won || winner != s.Winner):
		return nil, fmt.Errorf("%w: ended with winner %q but %d white / %d black pieces", ErrInvalidLayout, s.Winner, m.Count(White), m.Count(Black))
	case !s.Ended && won:
		return nil, fmt.Errorf("%w: %s has no pieces left but the match is not ended", ErrInvalidLayout, winner.Opponent())
	}
	m.ended = s.Ended
	m.winner = s.Winner
	m.updatePossibleMoves()

	if s.Chain != 0 {
		p := m.piece(s.Chain)
		if p == nil || !p.Alive || p.Side != m.active {
			return nil, fmt.Errorf("%w: chain piece %d", ErrInvalidLayout, s.Chain)
		}
		m.chain = s.Chain
	}
	if s.Selected != nil && !m.ended {
		p := m.at(*s.Selected)
		if p == nil || p.Side != m.active {
			return nil, fmt.Errorf("%w: selection %s", ErrInvalidLayout, *s.Selected)
		}
		m.toggleSelect(*s.Selected)
	}
	return m, nil
}

// PieceSpec places a piece in a custom layout.
type PieceSpec struct {
	Side     Side
	Row      int
	Col      int
	Promoted bool
}

// NewMatchFromLayout builds a match from an arbitrary position, for fixtures and
// puzzles. Pieces are numbered in the given order.
func NewMatchFromLayout(active Side, specs []PieceSpec) (*Match, error) {
	s := Snapshot{Active: active, Pieces: make([]PieceState, 0, len(specs))}
	present := map[Side]bool{}
	for i, sp := range specs {
		present[sp.Side] = true
		s.Pieces = append(s.Pieces, PieceState{
			ID:       PieceID(i + 1),
			Side:     sp.Side,
			Row:      sp.Row,
			Col:      sp.Col,
			Alive:    true,
			Promoted: sp.Promoted,
		})
	}
	// a layout holding only one side is already decided
	if len(present) == 1 {
		for side := range present {
			s.Ended, s.Winner = true, side
		}
	}
	return Restore(s)
}
