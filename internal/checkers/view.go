package checkers

import "strings"

// CellView is the render-facing projection of one cell. Selected and
// Highlighted are UI state only.
type CellView struct {
	Row         int
	Col         int
	Dark        bool
	Occupied    bool
	Side        Side
	Promoted    bool
	CanCapture  bool
	Selected    bool
	Highlighted bool
}

// Cells returns the full grid, row-major.
func (m *Match) Cells() [Size][Size]CellView {
	var out [Size][Size]CellView
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			c := CellView{
				Row:         row,
				Col:         col,
				Dark:        IsDark(row, col),
				Selected:    m.hasSelected && m.selected.Row == row && m.selected.Col == col,
				Highlighted: m.highlighted[row][col],
			}
			if p := m.piece(m.grid[row][col]); p != nil {
				c.Occupied = true
				c.Side = p.Side
				c.Promoted = p.Promoted
				c.CanCapture = p.canCapture
			}
			out[row][col] = c
		}
	}
	return out
}

// String draws the board as text: w/b for men, W/B for kings, * for
// highlighted destinations and brackets around the selected piece.
func (m *Match) String() string {
	var b strings.Builder
	b.WriteString("   ")
	for col := 0; col < Size; col++ {
		b.WriteString(" ")
		b.WriteByte(byte('0' + col))
		b.WriteString(" ")
	}
	b.WriteByte('\n')
	cells := m.Cells()
	for row := 0; row < Size; row++ {
		b.WriteByte(byte('0' + row))
		b.WriteString("  ")
		for col := 0; col < Size; col++ {
			c := cells[row][col]
			glyph := " "
			switch {
			case c.Occupied:
				glyph = pieceGlyph(c.Side, c.Promoted)
			case c.Highlighted:
				glyph = "*"
			case c.Dark:
				glyph = "."
			}
			if c.Selected {
				b.WriteString("[" + glyph + "]")
			} else {
				b.WriteString(" " + glyph + " ")
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func pieceGlyph(side Side, promoted bool) string {
	g := "w"
	if side == Black {
		g = "b"
	}
	if promoted {
		return strings.ToUpper(g)
	}
	return g
}
