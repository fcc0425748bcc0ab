package checkers

import (
	"errors"
	"reflect"
	"testing"
)

func mustLayout(t *testing.T, active Side, specs ...PieceSpec) *Match {
	t.Helper()
	m, err := NewMatchFromLayout(active, specs)
	if err != nil {
		t.Fatalf("NewMatchFromLayout: %v", err)
	}
	return m
}

func mustClick(t *testing.T, m *Match, row, col int) ClickResult {
	t.Helper()
	res, err := m.HandleClick(Coord{Row: row, Col: col})
	if err != nil {
		t.Fatalf("click %d %d: %v", row, col, err)
	}
	return res
}

func TestNewMatchInitialLayout(t *testing.T) {
	m := NewMatch()
	if m.Active() != White {
		t.Fatalf("expected white to move first, got %s", m.Active())
	}
	if m.Count(White) != 12 || m.Count(Black) != 12 {
		t.Fatalf("expected 12 pieces per side, got white=%d black=%d", m.Count(White), m.Count(Black))
	}
	for _, p := range m.Pieces(White) {
		if p.Pos.Row > 2 || !IsDark(p.Pos.Row, p.Pos.Col) {
			t.Fatalf("white piece %d misplaced at %s", p.ID, p.Pos)
		}
	}
	for _, p := range m.Pieces(Black) {
		if p.Pos.Row < 5 || !IsDark(p.Pos.Row, p.Pos.Col) {
			t.Fatalf("black piece %d misplaced at %s", p.ID, p.Pos)
		}
	}
	if m.CaptureRequired() || m.Ended() || m.Phase() != PhaseIdle {
		t.Fatalf("unexpected initial state: capture=%v ended=%v phase=%s", m.CaptureRequired(), m.Ended(), m.Phase())
	}
	ids := map[PieceID]bool{}
	for _, side := range []Side{White, Black} {
		for _, p := range m.Pieces(side) {
			if ids[p.ID] {
				t.Fatalf("duplicate piece id %d", p.ID)
			}
			ids[p.ID] = true
		}
	}
}

func TestInitialFrontRowMoves(t *testing.T) {
	m := NewMatch()
	p, ok := m.PieceAt(Coord{Row: 2, Col: 2})
	if !ok {
		t.Fatalf("expected piece at 2 2")
	}
	want := []Move{{Kind: Advance, To: Coord{Row: 3, Col: 1}}, {Kind: Advance, To: Coord{Row: 3, Col: 3}}}
	if !reflect.DeepEqual(p.Moves(), want) {
		t.Fatalf("unexpected moves: %+v", p.Moves())
	}
	back, _ := m.PieceAt(Coord{Row: 1, Col: 1})
	if len(back.Moves()) != 0 {
		t.Fatalf("blocked back-row piece should have no moves, got %+v", back.Moves())
	}
	edge, _ := m.PieceAt(Coord{Row: 2, Col: 0})
	if len(edge.Moves()) != 1 || edge.Moves()[0].To != (Coord{Row: 3, Col: 1}) {
		t.Fatalf("edge piece should only move to 3 1, got %+v", edge.Moves())
	}
}

func TestSelectOpponentPieceRejected(t *testing.T) {
	m := NewMatch()
	before := m.Snapshot()
	if _, err := m.HandleClick(Coord{Row: 5, Col: 1}); !errors.Is(err, ErrOpponentPiece) {
		t.Fatalf("expected ErrOpponentPiece, got %v", err)
	}
	if !reflect.DeepEqual(before, m.Snapshot()) {
		t.Fatalf("rejected click mutated state")
	}
}

func TestSelectionHighlightsAndReselect(t *testing.T) {
	m := NewMatch()
	res := mustClick(t, m, 2, 2)
	if res.Kind != ClickSelected || len(res.Targets) != 2 {
		t.Fatalf("unexpected select result: %+v", res)
	}
	if !m.Highlighted(Coord{Row: 3, Col: 1}) || !m.Highlighted(Coord{Row: 3, Col: 3}) {
		t.Fatalf("expected both destinations highlighted")
	}

	mustClick(t, m, 2, 4)
	if sel, ok := m.Selected(); !ok || sel != (Coord{Row: 2, Col: 4}) {
		t.Fatalf("expected selection to move to 2 4, got %v %v", sel, ok)
	}
	if m.Highlighted(Coord{Row: 3, Col: 1}) {
		t.Fatalf("stale highlight left after reselect")
	}
	if !m.Highlighted(Coord{Row: 3, Col: 5}) {
		t.Fatalf("expected 3 5 highlighted")
	}

	res = mustClick(t, m, 2, 4)
	if res.Kind != ClickDeselected || m.Phase() != PhaseIdle {
		t.Fatalf("re-clicking the selected piece should clear selection: %+v phase=%s", res, m.Phase())
	}
	if m.Highlighted(Coord{Row: 3, Col: 5}) {
		t.Fatalf("highlights should be cleared on deselect")
	}
}

func TestClickEmptyCellWithoutSelection(t *testing.T) {
	m := NewMatch()
	if _, err := m.HandleClick(Coord{Row: 4, Col: 4}); !errors.Is(err, ErrNoSelection) {
		t.Fatalf("expected ErrNoSelection, got %v", err)
	}
	mustClick(t, m, 2, 2)
	if _, err := m.HandleClick(Coord{Row: 4, Col: 4}); !errors.Is(err, ErrNotHighlighted) {
		t.Fatalf("expected ErrNotHighlighted, got %v", err)
	}
	if _, err := m.HandleClick(Coord{Row: 8, Col: 0}); !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("expected ErrOutOfBounds, got %v", err)
	}
}

func TestSimpleMovePassesTurn(t *testing.T) {
	m := NewMatch()
	mustClick(t, m, 2, 2)
	res := mustClick(t, m, 3, 3)
	if res.Kind != ClickMoved || res.Captured != nil || res.TurnKept {
		t.Fatalf("unexpected move result: %+v", res)
	}
	if m.Active() != Black || res.Next != Black {
		t.Fatalf("turn should pass to black, got %s", m.Active())
	}
	if _, ok := m.PieceAt(Coord{Row: 2, Col: 2}); ok {
		t.Fatalf("origin cell should be empty")
	}
	if p, ok := m.PieceAt(Coord{Row: 3, Col: 3}); !ok || p.Pos != (Coord{Row: 3, Col: 3}) {
		t.Fatalf("piece position not updated: %+v", p)
	}
	if m.Phase() != PhaseIdle || m.MoveCount() != 1 {
		t.Fatalf("selection should be cleared after a move; phase=%s moves=%d", m.Phase(), m.MoveCount())
	}
}

func TestCaptureMoveReported(t *testing.T) {
	m := mustLayout(t, White,
		PieceSpec{Side: White, Row: 2, Col: 1},
		PieceSpec{Side: Black, Row: 3, Col: 2},
		PieceSpec{Side: Black, Row: 7, Col: 0},
	)
	p, _ := m.PieceAt(Coord{Row: 2, Col: 1})
	if !p.CanCapture() || !m.CaptureRequired() {
		t.Fatalf("expected capture available")
	}
	var capture *Move
	for _, mv := range p.Moves() {
		if mv.IsCapture() {
			mv := mv
			capture = &mv
		}
	}
	if capture == nil || capture.To != (Coord{Row: 4, Col: 3}) {
		t.Fatalf("expected capture landing on 4 3, got %+v", p.Moves())
	}
	if jumped, ok := capture.Jumped(); !ok || jumped != (Coord{Row: 3, Col: 2}) {
		t.Fatalf("expected jumped piece at 3 2, got %v", jumped)
	}
}

func TestCaptureSuppressesAdvancesInDisplay(t *testing.T) {
	m := mustLayout(t, White,
		PieceSpec{Side: White, Row: 2, Col: 1},
		PieceSpec{Side: Black, Row: 3, Col: 2},
		PieceSpec{Side: Black, Row: 7, Col: 0},
	)
	res := mustClick(t, m, 2, 1)
	if len(res.Targets) != 1 || res.Targets[0].Kind != Capture {
		t.Fatalf("expected only the capture to be displayed, got %+v", res.Targets)
	}
	if m.Highlighted(Coord{Row: 3, Col: 0}) {
		t.Fatalf("simple advance must not be highlighted while a capture exists")
	}
	before := m.Snapshot()
	if _, err := m.HandleClick(Coord{Row: 3, Col: 0}); !errors.Is(err, ErrNotHighlighted) {
		t.Fatalf("expected ErrNotHighlighted for suppressed advance, got %v", err)
	}
	if !reflect.DeepEqual(before, m.Snapshot()) {
		t.Fatalf("rejected move mutated state")
	}
	if _, err := m.MovePiece(Coord{Row: 2, Col: 1}, Coord{Row: 3, Col: 0}); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("expected ErrIllegalMove from MovePiece, got %v", err)
	}
}

func TestForcedCaptureRejectsNonCapturingPiece(t *testing.T) {
	m := mustLayout(t, White,
		PieceSpec{Side: White, Row: 2, Col: 1},
		PieceSpec{Side: White, Row: 2, Col: 5},
		PieceSpec{Side: Black, Row: 3, Col: 2},
		PieceSpec{Side: Black, Row: 6, Col: 6},
	)
	before := m.Snapshot()
	if _, err := m.HandleClick(Coord{Row: 2, Col: 5}); !errors.Is(err, ErrCaptureRequired) {
		t.Fatalf("expected ErrCaptureRequired, got %v", err)
	}
	if !reflect.DeepEqual(before, m.Snapshot()) || m.Phase() != PhaseIdle {
		t.Fatalf("rejected selection mutated state")
	}
	if res := mustClick(t, m, 2, 1); res.Kind != ClickSelected {
		t.Fatalf("capturing piece should be selectable: %+v", res)
	}
}

func TestCaptureRemovesPieceAndEndsMatch(t *testing.T) {
	m := mustLayout(t, White,
		PieceSpec{Side: White, Row: 2, Col: 1},
		PieceSpec{Side: Black, Row: 3, Col: 2},
	)
	mustClick(t, m, 2, 1)
	res := mustClick(t, m, 4, 3)
	if res.Captured == nil || *res.Captured != (Coord{Row: 3, Col: 2}) {
		t.Fatalf("expected captured 3 2, got %+v", res.Captured)
	}
	if _, ok := m.PieceAt(Coord{Row: 3, Col: 2}); ok {
		t.Fatalf("captured piece still on the board")
	}
	if m.Count(Black) != 0 {
		t.Fatalf("black roster should be empty, got %d", m.Count(Black))
	}
	if !res.Ended || !m.Ended() || m.Phase() != PhaseEnded {
		t.Fatalf("match should end when black has no pieces")
	}
	if w, ok := m.Winner(); !ok || w != White || res.Winner != White {
		t.Fatalf("expected white winner, got %v", w)
	}

	snap := m.Snapshot()
	for _, c := range []Coord{{Row: 4, Col: 3}, {Row: 0, Col: 0}, {Row: 9, Col: 9}} {
		if _, err := m.HandleClick(c); !errors.Is(err, ErrMatchEnded) {
			t.Fatalf("click after end: expected ErrMatchEnded, got %v", err)
		}
	}
	if !reflect.DeepEqual(snap, m.Snapshot()) {
		t.Fatalf("clicks after the end changed state")
	}
	for _, ps := range snap.Pieces {
		if ps.ID == 2 && ps.Alive {
			t.Fatalf("captured piece should be marked not alive")
		}
	}
}

func TestChainCaptureKeepsTurn(t *testing.T) {
	m := mustLayout(t, White,
		PieceSpec{Side: White, Row: 2, Col: 1},
		PieceSpec{Side: White, Row: 0, Col: 7},
		PieceSpec{Side: Black, Row: 3, Col: 2},
		PieceSpec{Side: Black, Row: 5, Col: 4},
		PieceSpec{Side: Black, Row: 7, Col: 0},
	)
	mustClick(t, m, 2, 1)
	res := mustClick(t, m, 4, 3)
	if !res.TurnKept || m.Active() != White {
		t.Fatalf("expected white to keep the turn, got kept=%v active=%s", res.TurnKept, m.Active())
	}
	if id, ok := m.ChainPiece(); !ok || id != res.Piece {
		t.Fatalf("expected chain piece %d, got %d", res.Piece, id)
	}
	if !m.CaptureRequired() {
		t.Fatalf("capture restriction should remain on during a chain")
	}
	if _, err := m.HandleClick(Coord{Row: 0, Col: 7}); !errors.Is(err, ErrChainPiece) {
		t.Fatalf("expected ErrChainPiece for another piece, got %v", err)
	}

	mustClick(t, m, 4, 3)
	res = mustClick(t, m, 6, 5)
	if res.TurnKept || m.Active() != Black {
		t.Fatalf("chain should end and pass turn to black, kept=%v active=%s", res.TurnKept, m.Active())
	}
	if _, ok := m.ChainPiece(); ok {
		t.Fatalf("chain piece should be cleared")
	}
	if m.Count(Black) != 1 || m.Ended() {
		t.Fatalf("expected one black piece left and match running")
	}
}

func TestCaptureByOtherPieceDoesNotKeepTurn(t *testing.T) {
	m := mustLayout(t, White,
		PieceSpec{Side: White, Row: 2, Col: 1},
		PieceSpec{Side: White, Row: 4, Col: 5},
		PieceSpec{Side: Black, Row: 3, Col: 2},
		PieceSpec{Side: Black, Row: 5, Col: 6},
	)
	mustClick(t, m, 2, 1)
	res := mustClick(t, m, 4, 3)
	if res.TurnKept {
		t.Fatalf("turn retention only applies to the moved piece")
	}
	if m.Active() != Black {
		t.Fatalf("turn should pass to black, got %s", m.Active())
	}
}

func TestCaptureBlockedLandingAndEdge(t *testing.T) {
	m := mustLayout(t, White,
		PieceSpec{Side: White, Row: 2, Col: 1},
		PieceSpec{Side: Black, Row: 3, Col: 2},
		PieceSpec{Side: Black, Row: 4, Col: 3},
		PieceSpec{Side: White, Row: 2, Col: 6},
		PieceSpec{Side: Black, Row: 3, Col: 7},
	)
	if m.CaptureRequired() {
		t.Fatalf("no capture should be available")
	}
	p, _ := m.PieceAt(Coord{Row: 2, Col: 1})
	if want := []Move{{Kind: Advance, To: Coord{Row: 3, Col: 0}}}; !reflect.DeepEqual(p.Moves(), want) {
		t.Fatalf("blocked landing: got %+v", p.Moves())
	}
	edge, _ := m.PieceAt(Coord{Row: 2, Col: 6})
	if want := []Move{{Kind: Advance, To: Coord{Row: 3, Col: 5}}}; !reflect.DeepEqual(edge.Moves(), want) {
		t.Fatalf("edge landing: got %+v", edge.Moves())
	}
}

func TestManCannotMoveOrCaptureBackward(t *testing.T) {
	m := mustLayout(t, White,
		PieceSpec{Side: White, Row: 4, Col: 4},
		PieceSpec{Side: Black, Row: 3, Col: 3},
	)
	p, _ := m.PieceAt(Coord{Row: 4, Col: 4})
	for _, mv := range p.Moves() {
		if mv.To.Row <= 4 {
			t.Fatalf("white man moved backward: %+v", mv)
		}
	}
	if p.CanCapture() {
		t.Fatalf("white man must not capture backward")
	}
}

func TestKingCapturesBackward(t *testing.T) {
	m := mustLayout(t, White,
		PieceSpec{Side: White, Row: 4, Col: 4, Promoted: true},
		PieceSpec{Side: Black, Row: 3, Col: 3},
	)
	p, _ := m.PieceAt(Coord{Row: 4, Col: 4})
	if !p.CanCapture() {
		t.Fatalf("king should capture backward")
	}
	if len(p.Moves()) != 4 {
		t.Fatalf("expected 3 advances and 1 capture, got %+v", p.Moves())
	}
}

func TestPromotionIsMonotonic(t *testing.T) {
	m := mustLayout(t, Black,
		PieceSpec{Side: Black, Row: 1, Col: 2},
		PieceSpec{Side: White, Row: 4, Col: 4},
	)
	mustClick(t, m, 1, 2)
	res := mustClick(t, m, 0, 1)
	if !res.Promoted {
		t.Fatalf("black reaching row 0 should promote")
	}
	king, _ := m.PieceAt(Coord{Row: 0, Col: 1})
	if !king.Promoted {
		t.Fatalf("piece should be promoted")
	}
	backward := 0
	for _, mv := range king.Moves() {
		if mv.To.Row == 1 {
			backward++
		}
	}
	if backward != 2 {
		t.Fatalf("promoted black piece should gain backward moves, got %+v", king.Moves())
	}

	mustClick(t, m, 4, 4)
	mustClick(t, m, 5, 5)
	mustClick(t, m, 0, 1)
	res = mustClick(t, m, 1, 2)
	if res.Promoted {
		t.Fatalf("promotion should only be reported once")
	}
	king, _ = m.PieceAt(Coord{Row: 1, Col: 2})
	if !king.Promoted {
		t.Fatalf("promotion must be permanent")
	}

	white, _ := m.PieceAt(Coord{Row: 5, Col: 5})
	if white.Promoted {
		t.Fatalf("white only promotes on row 7")
	}
}

func TestBlockedSideIsNotTerminal(t *testing.T) {
	m := mustLayout(t, White,
		PieceSpec{Side: White, Row: 6, Col: 1},
		PieceSpec{Side: Black, Row: 7, Col: 0},
		PieceSpec{Side: Black, Row: 7, Col: 2},
	)
	if m.CaptureRequired() {
		t.Fatalf("no landing cell exists past row 7")
	}
	if !m.Blocked() {
		t.Fatalf("white man on row 6 walled in by black men has no moves; expected blocked")
	}
	if m.Ended() {
		t.Fatalf("a blocked side is not a terminal condition")
	}
}
