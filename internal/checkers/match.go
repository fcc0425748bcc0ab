package checkers

// Phase is the controller state.
type Phase string

const (
	PhaseIdle     Phase = "no_selection"
	PhaseSelected Phase = "piece_selected"
	PhaseEnded    Phase = "match_ended"
)

// ClickKind says which transition an accepted click produced.
type ClickKind uint8

const (
	ClickSelected ClickKind = iota + 1
	ClickDeselected
	ClickMoved
)

// ClickResult describes an accepted click.
type ClickResult struct {
	Kind     ClickKind
	Piece    PieceID
	From     Coord
	To       Coord
	Targets  []Move
	Captured *Coord
	Promoted bool
	TurnKept bool
	Ended    bool
	Winner   Side
	Next     Side
}

// Match owns the grid, the piece arena and both rosters. It is not safe for
// concurrent use; callers serialise clicks.
type Match struct {
	pieces  []Piece
	grid    [Size][Size]PieceID
	rosters [2]roster

	active          Side
	captureRequired bool
	chain           PieceID

	selected    Coord
	hasSelected bool
	highlighted [Size][Size]bool

	ended     bool
	winner    Side
	moveCount int
}

// NewMatch builds the initial 12-vs-12 board with white to move.
func NewMatch() *Match {
	m := newEmptyMatch(White)
	for row := 0; row < 3; row++ {
		for col := 0; col < Size; col++ {
			if IsDark(row, col) {
				m.place(White, Coord{Row: row, Col: col}, false)
			}
		}
	}
	for row := Size - 3; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if IsDark(row, col) {
				m.place(Black, Coord{Row: row, Col: col}, false)
			}
		}
	}
	m.updatePossibleMoves()
	return m
}

func newEmptyMatch(active Side) *Match {
	return &Match{
		active:  active,
		rosters: [2]roster{{side: White}, {side: Black}},
	}
}

func (m *Match) place(side Side, at Coord, promoted bool) PieceID {
	id := PieceID(len(m.pieces) + 1)
	m.pieces = append(m.pieces, Piece{ID: id, Side: side, Pos: at, Alive: true, Promoted: promoted})
	m.grid[at.Row][at.Col] = id
	r := m.roster(side)
	r.pieces = append(r.pieces, id)
	return id
}

func (m *Match) piece(id PieceID) *Piece {
	if id <= 0 || int(id) > len(m.pieces) {
		return nil
	}
	return &m.pieces[id-1]
}

func (m *Match) at(c Coord) *Piece {
	if !c.InBounds() {
		return nil
	}
	return m.piece(m.grid[c.Row][c.Col])
}

func (m *Match) roster(side Side) *roster { return &m.rosters[side.index()] }

// Active is the side to move.
func (m *Match) Active() Side { return m.active }

// Ended reports whether one side has run out of pieces.
func (m *Match) Ended() bool { return m.ended }

// Winner returns the winning side once the match has ended.
func (m *Match) Winner() (Side, bool) {
	if !m.ended {
		return "", false
	}
	return m.winner, true
}

// CaptureRequired mirrors the active side's aggregate capture flag.
func (m *Match) CaptureRequired() bool { return m.captureRequired }

// ChainPiece is the piece that must continue a capture chain, if any.
func (m *Match) ChainPiece() (PieceID, bool) { return m.chain, m.chain != 0 }

// Selected returns the selected cell.
func (m *Match) Selected() (Coord, bool) { return m.selected, m.hasSelected }

// Highlighted reports whether c is a displayed destination of the selection.
func (m *Match) Highlighted(c Coord) bool {
	return c.InBounds() && m.highlighted[c.Row][c.Col]
}

// MoveCount is the number of accepted moves (captures in a chain count individually).
func (m *Match) MoveCount() int { return m.moveCount }

// Phase reports the controller state.
func (m *Match) Phase() Phase {
	switch {
	case m.ended:
		return PhaseEnded
	case m.hasSelected:
		return PhaseSelected
	default:
		return PhaseIdle
	}
}

// Count is the number of live pieces of a side.
func (m *Match) Count(side Side) int { return len(m.roster(side).pieces) }

// PieceAt returns a copy of the piece on c.
func (m *Match) PieceAt(c Coord) (Piece, bool) {
	p := m.at(c)
	if p == nil {
		return Piece{}, false
	}
	cp := *p
	cp.moves = p.Moves()
	return cp, true
}

// Pieces returns copies of the live pieces of a side in roster order.
func (m *Match) Pieces(side Side) []Piece {
	r := m.roster(side)
	out := make([]Piece, 0, len(r.pieces))
	for _, id := range r.pieces {
		p := m.piece(id)
		cp := *p
		cp.moves = p.Moves()
		out = append(out, cp)
	}
	return out
}

// Blocked reports an active side that still has pieces but no legal move.
// Such a position is not terminal; see DESIGN.md.
func (m *Match) Blocked() bool {
	if m.ended {
		return false
	}
	r := m.roster(m.active)
	if len(r.pieces) == 0 {
		return false
	}
	for _, id := range r.pieces {
		if len(m.piece(id).moves) > 0 {
			return false
		}
	}
	return true
}

// HandleClick dispatches a click on c: a piece cell attempts selection, a
// highlighted empty cell attempts the move, anything else is rejected.
func (m *Match) HandleClick(c Coord) (ClickResult, error) {
	if m.ended {
		return ClickResult{}, ErrMatchEnded
	}
	if !c.InBounds() {
		return ClickResult{}, ErrOutOfBounds
	}
	if m.at(c) != nil {
		return m.Select(c)
	}
	if !m.hasSelected {
		return ClickResult{}, ErrNoSelection
	}
	if !m.highlighted[c.Row][c.Col] {
		return ClickResult{}, ErrNotHighlighted
	}
	return m.MovePiece(m.selected, c)
}

// Select picks the piece on c, subject to ownership, chain and forced-capture
// rules. Selecting the already selected piece clears the selection.
func (m *Match) Select(c Coord) (ClickResult, error) {
	if m.ended {
		return ClickResult{}, ErrMatchEnded
	}
	if !c.InBounds() {
		return ClickResult{}, ErrOutOfBounds
	}
	p := m.at(c)
	if p == nil {
		return ClickResult{}, ErrEmptyCell
	}
	if p.Side != m.active {
		return ClickResult{}, ErrOpponentPiece
	}
	if m.chain != 0 && p.ID != m.chain {
		return ClickResult{}, ErrChainPiece
	}
	if m.captureRequired && !p.canCapture {
		return ClickResult{}, ErrCaptureRequired
	}
	if m.hasSelected && m.selected == c {
		m.clearSelection()
		return ClickResult{Kind: ClickDeselected, Piece: p.ID, From: c, Next: m.active}, nil
	}
	targets := m.toggleSelect(c)
	return ClickResult{Kind: ClickSelected, Piece: p.ID, From: c, Targets: targets, Next: m.active}, nil
}

func (m *Match) toggleSelect(c Coord) []Move {
	m.clearHighlights()
	m.selected = c
	m.hasSelected = true
	targets := displayMoves(m.at(c))
	for _, mv := range targets {
		m.highlighted[mv.To.Row][mv.To.Col] = true
	}
	return targets
}

func (m *Match) clearHighlights() {
	m.highlighted = [Size][Size]bool{}
}

func (m *Match) clearSelection() {
	m.hasSelected = false
	m.selected = Coord{}
	m.clearHighlights()
}

// MovePiece moves the selected piece on from to to. The destination must be one
// of the piece's displayed moves; anything else is rejected without mutation.
func (m *Match) MovePiece(from, to Coord) (ClickResult, error) {
	if m.ended {
		return ClickResult{}, ErrMatchEnded
	}
	if !m.hasSelected || m.selected != from {
		return ClickResult{}, ErrNoSelection
	}
	if !to.InBounds() {
		return ClickResult{}, ErrOutOfBounds
	}
	p := m.at(from)
	if p == nil {
		return ClickResult{}, ErrNoSelection
	}
	mv, ok := findMove(displayMoves(p), to)
	if !ok {
		return ClickResult{}, ErrIllegalMove
	}

	var victim *Piece
	switch mv.Kind {
	case Capture:
		mid, ok := midpoint(from, to)
		if !ok || mid != mv.Captured {
			return ClickResult{}, ErrIllegalMove
		}
		victim = m.at(mid)
		if victim == nil || victim.Side == p.Side {
			return ClickResult{}, ErrIllegalMove
		}
	case Advance:
		if abs(to.Row-from.Row) != 1 || abs(to.Col-from.Col) != 1 {
			return ClickResult{}, ErrIllegalMove
		}
	default:
		return ClickResult{}, ErrIllegalMove
	}

	res := ClickResult{Kind: ClickMoved, Piece: p.ID, From: from, To: to}

	m.grid[from.Row][from.Col] = 0
	m.grid[to.Row][to.Col] = p.ID
	p.Pos = to

	if !p.Promoted && to.Row == p.Side.PromotionRow() {
		p.Promoted = true
		res.Promoted = true
	}
	if victim != nil {
		captured := victim.Pos
		m.removePiece(victim.ID)
		res.Captured = &captured
	}
	m.moveCount++

	mover := m.active
	m.chain = 0
	if victim != nil {
		m.evaluate(mover)
		if p.canCapture {
			m.chain = p.ID
			res.TurnKept = true
		}
	}
	if !res.TurnKept {
		m.active = mover.Opponent()
	}

	m.updatePossibleMoves()
	m.clearSelection()

	if winner, ok := m.checkWin(); ok {
		m.ended = true
		m.winner = winner
		m.chain = 0
		res.Ended = true
		res.Winner = winner
	}
	res.Next = m.active
	return res, nil
}

func (m *Match) removePiece(id PieceID) {
	p := m.piece(id)
	if p == nil || !p.Alive {
		return
	}
	if m.grid[p.Pos.Row][p.Pos.Col] == id {
		m.grid[p.Pos.Row][p.Pos.Col] = 0
	}
	m.roster(p.Side).remove(id)
	p.Alive = false
	p.moves = nil
	p.canCapture = false
}

// checkWin reports the winner when exactly one side still has pieces.
func (m *Match) checkWin() (Side, bool) {
	white, black := m.Count(White), m.Count(Black)
	switch {
	case white > 0 && black > 0:
		return "", false
	case white > 0:
		return White, true
	case black > 0:
		return Black, true
	default:
		return "", false
	}
}

func findMove(moves []Move, to Coord) (Move, bool) {
	for _, mv := range moves {
		if mv.To == to {
			return mv, true
		}
	}
	return Move{}, false
}

// midpoint returns the jumped cell of a two-step diagonal.
func midpoint(from, to Coord) (Coord, bool) {
	dr, dc := to.Row-from.Row, to.Col-from.Col
	if abs(dr) != 2 || abs(dc) != 2 {
		return Coord{}, false
	}
	return Coord{Row: from.Row + dr/2, Col: from.Col + dc/2}, true
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
