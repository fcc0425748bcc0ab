package checkers

import (
	"strings"
	"testing"
)

func TestStringInitialBoard(t *testing.T) {
	out := NewMatch().String()
	if n := strings.Count(out, "w"); n != 12 {
		t.Fatalf("expected 12 white men in text board, got %d\n%s", n, out)
	}
	if n := strings.Count(out, "b"); n != 12 {
		t.Fatalf("expected 12 black men in text board, got %d\n%s", n, out)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != Size+1 {
		t.Fatalf("expected header plus %d rows, got %d", Size, len(lines))
	}
	if !strings.HasPrefix(lines[1], "0   w ") {
		t.Fatalf("row 0 should start with a white man on column 0: %q", lines[1])
	}
}

func TestCellsReflectSelection(t *testing.T) {
	m := NewMatch()
	mustClick(t, m, 2, 2)
	cells := m.Cells()
	if !cells[2][2].Selected || !cells[2][2].Occupied || cells[2][2].Side != White {
		t.Fatalf("selected cell not marked: %+v", cells[2][2])
	}
	if !cells[3][1].Highlighted || cells[3][1].Occupied {
		t.Fatalf("destination not highlighted: %+v", cells[3][1])
	}
	if !strings.Contains(m.String(), "[w]") {
		t.Fatalf("text board should bracket the selection:\n%s", m.String())
	}
	if strings.Count(m.String(), "*") != 2 {
		t.Fatalf("expected two highlighted destinations:\n%s", m.String())
	}
}

func TestKingGlyph(t *testing.T) {
	m := mustLayout(t, White,
		PieceSpec{Side: White, Row: 4, Col: 4, Promoted: true},
		PieceSpec{Side: Black, Row: 7, Col: 7},
	)
	if !strings.Contains(m.String(), "W") {
		t.Fatalf("promoted piece should render upper-case:\n%s", m.String())
	}
}
