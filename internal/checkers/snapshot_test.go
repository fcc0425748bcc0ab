package checkers

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestSnapshotRestoreMidChain(t *testing.T) {
	m := mustLayout(t, White,
		PieceSpec{Side: White, Row: 2, Col: 1},
		PieceSpec{Side: White, Row: 0, Col: 7},
		PieceSpec{Side: Black, Row: 3, Col: 2},
		PieceSpec{Side: Black, Row: 5, Col: 4},
		PieceSpec{Side: Black, Row: 7, Col: 0},
	)
	mustClick(t, m, 2, 1)
	mustClick(t, m, 4, 3)
	mustClick(t, m, 4, 3)

	raw, err := json.Marshal(m.Snapshot())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	restored, err := Restore(snap)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if !reflect.DeepEqual(m.Snapshot(), restored.Snapshot()) {
		t.Fatalf("snapshot changed across restore:\n%+v\n%+v", m.Snapshot(), restored.Snapshot())
	}
	if m.String() != restored.String() {
		t.Fatalf("board differs after restore:\n%s\n%s", m.String(), restored.String())
	}
	if !restored.Highlighted(Coord{Row: 6, Col: 5}) {
		t.Fatalf("selection highlights should be recomputed on restore")
	}
	if _, err := restored.HandleClick(Coord{Row: 0, Col: 7}); !errors.Is(err, ErrChainPiece) {
		t.Fatalf("chain restriction lost across restore: %v", err)
	}
	res, err := restored.HandleClick(Coord{Row: 6, Col: 5})
	if err != nil || res.Captured == nil {
		t.Fatalf("restored match should continue the chain: %+v %v", res, err)
	}
}

func TestRestoreRejectsBrokenLayouts(t *testing.T) {
	cases := map[string]Snapshot{
		"bad active": {Active: "red"},
		"id gap": {Active: White, Pieces: []PieceState{
			{ID: 1, Side: White, Row: 0, Col: 0, Alive: true},
			{ID: 3, Side: Black, Row: 7, Col: 7, Alive: true},
		}},
		"shared cell": {Active: White, Pieces: []PieceState{
			{ID: 1, Side: White, Row: 0, Col: 0, Alive: true},
			{ID: 2, Side: Black, Row: 0, Col: 0, Alive: true},
		}},
		"off board": {Active: White, Pieces: []PieceState{
			{ID: 1, Side: White, Row: 8, Col: 0, Alive: true},
		}},
		"bad side": {Active: White, Pieces: []PieceState{
			{ID: 1, Side: "green", Row: 0, Col: 0, Alive: true},
		}},
		"ended without winner": {Active: White, Ended: true, Pieces: []PieceState{
			{ID: 1, Side: White, Row: 0, Col: 0, Alive: true},
		}},
		"ended with both sides on board": {Active: Black, Ended: true, Winner: White, Pieces: []PieceState{
			{ID: 1, Side: White, Row: 0, Col: 0, Alive: true},
			{ID: 2, Side: Black, Row: 7, Col: 7, Alive: true},
		}},
		"ended for the side with no pieces": {Active: White, Ended: true, Winner: Black, Pieces: []PieceState{
			{ID: 1, Side: White, Row: 2, Col: 2, Alive: true},
			{ID: 2, Side: Black, Row: 3, Col: 3, Alive: false},
		}},
		"one side gone but not ended": {Active: White, Pieces: []PieceState{
			{ID: 1, Side: White, Row: 2, Col: 2, Alive: true},
		}},
		"white man on row 7": {Active: Black, Pieces: []PieceState{
			{ID: 1, Side: White, Row: 7, Col: 1, Alive: true},
			{ID: 2, Side: Black, Row: 5, Col: 5, Alive: true},
		}},
		"black man on row 0": {Active: White, Pieces: []PieceState{
			{ID: 1, Side: White, Row: 2, Col: 2, Alive: true},
			{ID: 2, Side: Black, Row: 0, Col: 2, Alive: true},
		}},
		"chain on inactive side": {Active: White, Chain: 2, Pieces: []PieceState{
			{ID: 1, Side: White, Row: 0, Col: 0, Alive: true},
			{ID: 2, Side: Black, Row: 7, Col: 7, Alive: true},
		}},
		"selection on opponent": {Active: White, Selected: &Coord{Row: 7, Col: 7}, Pieces: []PieceState{
			{ID: 1, Side: White, Row: 0, Col: 0, Alive: true},
			{ID: 2, Side: Black, Row: 7, Col: 7, Alive: true},
		}},
	}
	for name, snap := range cases {
		if _, err := Restore(snap); !errors.Is(err, ErrInvalidLayout) {
			t.Fatalf("%s: expected ErrInvalidLayout, got %v", name, err)
		}
	}
}

func TestRestoreKeepsDeadPieces(t *testing.T) {
	m := mustLayout(t, White,
		PieceSpec{Side: White, Row: 2, Col: 1},
		PieceSpec{Side: Black, Row: 3, Col: 2},
		PieceSpec{Side: Black, Row: 7, Col: 0},
	)
	mustClick(t, m, 2, 1)
	mustClick(t, m, 4, 3)

	restored, err := Restore(m.Snapshot())
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if restored.Count(Black) != 1 || len(restored.Snapshot().Pieces) != 3 {
		t.Fatalf("dead piece should stay in the arena but not the roster")
	}
	if _, ok := restored.PieceAt(Coord{Row: 3, Col: 2}); ok {
		t.Fatalf("dead piece reappeared on the grid")
	}
}

func TestRestoreAcceptsConsistentEndings(t *testing.T) {
	ended, err := Restore(Snapshot{Active: White, Ended: true, Winner: White, Pieces: []PieceState{
		{ID: 1, Side: White, Row: 7, Col: 1, Alive: true, Promoted: true},
		{ID: 2, Side: Black, Row: 6, Col: 2, Alive: false},
	}})
	if err != nil {
		t.Fatalf("restore ended match: %v", err)
	}
	if w, ok := ended.Winner(); !ok || w != White {
		t.Fatalf("expected white winner, got %q %v", w, ok)
	}

	open, err := Restore(NewMatch().Snapshot())
	if err != nil || open.Ended() {
		t.Fatalf("opening position should restore as live: %v", err)
	}
}

func TestLayoutWithOneSideIsEnded(t *testing.T) {
	m := mustLayout(t, Black, PieceSpec{Side: Black, Row: 4, Col: 4})
	if !m.Ended() {
		t.Fatalf("a layout with a single side should be ended")
	}
	if w, _ := m.Winner(); w != Black {
		t.Fatalf("expected black winner, got %q", w)
	}
}

func TestMoveJSONKeepsCapturedCell(t *testing.T) {
	raw, err := json.Marshal(Move{Kind: Capture, To: Coord{Row: 4, Col: 4}, Captured: Coord{Row: 3, Col: 3}})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(raw), `"captured":{"row":3,"col":3}`) {
		t.Fatalf("captured cell missing from %s", raw)
	}
	var back Move
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if c, ok := back.Jumped(); !ok || c != (Coord{Row: 3, Col: 3}) {
		t.Fatalf("captured cell lost in %s", raw)
	}
}
