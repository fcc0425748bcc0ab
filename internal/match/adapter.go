package match

import (
	"context"
	"fmt"

	"github.com/park285/Checkers-KakaoTalk-bot/internal/checkers"
	"github.com/park285/Checkers-KakaoTalk-bot/internal/service/board"
	"github.com/park285/Checkers-KakaoTalk-bot/pkg/checkersdto"
)

// BoardView projects the engine grid into the render DTO.
func BoardView(g *checkers.Match) checkersdto.BoardView {
	cells := g.Cells()
	view := checkersdto.BoardView{
		Cells:           make([][]checkersdto.CellView, checkers.Size),
		Active:          string(g.Active()),
		CaptureRequired: g.CaptureRequired(),
		Ended:           g.Ended(),
	}
	if w, ok := g.Winner(); ok {
		view.Winner = string(w)
	}
	for row := range cells {
		view.Cells[row] = make([]checkersdto.CellView, checkers.Size)
		for col, c := range cells[row] {
			view.Cells[row][col] = checkersdto.CellView{
				Dark:        c.Dark,
				Occupied:    c.Occupied,
				Side:        string(c.Side),
				King:        c.Promoted,
				CanCapture:  c.CanCapture,
				Selected:    c.Selected,
				Highlighted: c.Highlighted,
			}
		}
	}
	return view
}

// ToDTO renders the session's board and returns it with the summary fields the
// presenter needs.
func (m *Manager) ToDTO(ctx context.Context, s *Session) (*checkersdto.SessionState, error) {
	if m == nil || s == nil {
		return nil, nil
	}
	g, err := s.Match()
	if err != nil {
		return nil, fmt.Errorf("restore match: %w", err)
	}
	view := BoardView(g)
	opts := board.RenderOptions{
		HUDHeader: hudHeader(s),
		HUDTurn:   hudTurn(g),
	}
	state := &checkersdto.SessionState{
		SessionID:       s.ID,
		Room:            s.Room,
		MoveCount:       g.MoveCount(),
		Active:          string(g.Active()),
		Ended:           g.Ended(),
		Blocked:         g.Blocked(),
		CaptureRequired: g.CaptureRequired(),
		Pieces:          checkersdto.PieceCount{White: g.Count(checkers.White), Black: g.Count(checkers.Black)},
		Board:           view,
	}
	if _, ok := g.ChainPiece(); ok {
		state.ChainActive = true
	}
	if w, ok := g.Winner(); ok {
		state.Winner = string(w)
	}
	if last, ok := s.LastMove(); ok {
		from := checkersdto.Coord{Row: last.From.Row, Col: last.From.Col}
		to := checkersdto.Coord{Row: last.To.Row, Col: last.To.Col}
		state.LastFrom, state.LastTo = &from, &to
		opts.LastMove = &board.MoveHighlight{From: from, To: to}
	}

	png, err := m.renderer.RenderPNG(ctx, view, opts)
	if err != nil {
		return nil, err
	}
	state.BoardImage = png
	return state, nil
}

func hudHeader(s *Session) string {
	id := s.ID
	if len(id) > 8 {
		id = id[:8]
	}
	if id == "" {
		return "Checkers"
	}
	return "Checkers #" + id
}

func hudTurn(g *checkers.Match) string {
	if w, ok := g.Winner(); ok {
		return w.Label() + " wins."
	}
	text := fmt.Sprintf("%s to move - move %d", g.Active().Label(), g.MoveCount()+1)
	if _, ok := g.ChainPiece(); ok {
		text += " (keep capturing)"
	} else if g.CaptureRequired() {
		text += " (capture)"
	}
	return text
}
