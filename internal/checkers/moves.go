package checkers

// delta is a single diagonal step.
type delta struct{ dr, dc int }

func candidateDirections(side Side, promoted bool) []delta {
	if promoted {
		return []delta{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}
	}
	f := side.Forward()
	return []delta{{f, -1}, {f, 1}}
}

// computeLegalMoves replaces the piece's cached move list. It reads the grid but
// mutates nothing except the piece itself.
func (m *Match) computeLegalMoves(id PieceID) {
	p := m.piece(id)
	if p == nil {
		return
	}
	p.moves = p.moves[:0]
	p.canCapture = false

	for _, d := range candidateDirections(p.Side, p.Promoted) {
		target := p.Pos.Offset(d.dr, d.dc)
		if !target.InBounds() {
			continue
		}
		occupant := m.at(target)
		if occupant == nil {
			p.moves = append(p.moves, Move{Kind: Advance, To: target})
			continue
		}
		if occupant.Side == p.Side {
			continue
		}
		landing := target.Offset(d.dr, d.dc)
		if !landing.InBounds() || m.at(landing) != nil {
			continue
		}
		p.moves = append(p.moves, Move{Kind: Capture, To: landing, Captured: target})
		p.canCapture = true
	}
}

// evaluate recomputes every live piece of a side and its aggregate capture flag.
func (m *Match) evaluate(side Side) {
	r := m.roster(side)
	r.canCapture = false
	for _, id := range r.pieces {
		p := m.piece(id)
		if p == nil {
			continue
		}
		if !p.Alive {
			p.canCapture = false
			p.moves = p.moves[:0]
			continue
		}
		m.computeLegalMoves(id)
		if p.canCapture {
			r.canCapture = true
		}
	}
}

// updatePossibleMoves re-evaluates both sides and mirrors the active side's flag.
func (m *Match) updatePossibleMoves() {
	m.evaluate(White)
	m.evaluate(Black)
	m.captureRequired = m.roster(m.active).canCapture
}

// displayMoves is the destination set shown for a selected piece: captures only
// when the piece has one, otherwise everything.
func displayMoves(p *Piece) []Move {
	if !p.canCapture {
		return p.Moves()
	}
	out := make([]Move, 0, len(p.moves))
	for _, mv := range p.moves {
		switch mv.Kind {
		case Capture:
			out = append(out, mv)
		case Advance:
		}
	}
	return out
}
