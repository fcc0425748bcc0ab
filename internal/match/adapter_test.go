package match

import (
	"bytes"
	"context"
	"image/png"
	"strings"
	"testing"

	"github.com/park285/Checkers-KakaoTalk-bot/internal/checkers"
)

func TestToDTORendersBoard(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()
	if _, _, err := m.Start(ctx, "room"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	sess, _, err := m.Play(ctx, "room", at(2, 2), at(3, 3))
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	dto, err := m.ToDTO(ctx, sess)
	if err != nil || dto == nil {
		t.Fatalf("ToDTO: %v", err)
	}
	if _, err := png.Decode(bytes.NewReader(dto.BoardImage)); err != nil {
		t.Fatalf("board image is not a png: %v", err)
	}
	if dto.Active != "black" || dto.MoveCount != 1 || dto.SessionID != sess.ID {
		t.Fatalf("unexpected dto: %+v", dto)
	}
	if dto.LastFrom == nil || dto.LastTo == nil || dto.LastTo.Row != 3 || dto.LastTo.Col != 3 {
		t.Fatalf("last move missing: %+v %+v", dto.LastFrom, dto.LastTo)
	}
	if dto.Pieces.White != 12 || dto.Pieces.Black != 12 {
		t.Fatalf("unexpected piece counts: %+v", dto.Pieces)
	}
}

func TestBoardViewProjection(t *testing.T) {
	g, err := checkers.NewMatchFromLayout(checkers.White, []checkers.PieceSpec{
		{Side: checkers.White, Row: 2, Col: 1},
		{Side: checkers.Black, Row: 3, Col: 2, Promoted: true},
	})
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	if _, err := g.HandleClick(checkers.Coord{Row: 2, Col: 1}); err != nil {
		t.Fatalf("select: %v", err)
	}
	view := BoardView(g)
	if len(view.Cells) != checkers.Size || len(view.Cells[0]) != checkers.Size {
		t.Fatalf("view has wrong shape")
	}
	if c := view.Cells[2][1]; !c.Selected || !c.CanCapture || c.Side != "white" {
		t.Fatalf("selected piece not projected: %+v", c)
	}
	if c := view.Cells[3][2]; !c.King || c.Side != "black" {
		t.Fatalf("king not projected: %+v", c)
	}
	if !view.Cells[4][3].Highlighted || view.Cells[3][0].Highlighted {
		t.Fatalf("only the capture landing should be highlighted")
	}
	if !view.CaptureRequired || view.Active != "white" {
		t.Fatalf("unexpected flags: %+v", view)
	}
}

func TestHUDTurnText(t *testing.T) {
	g := checkers.NewMatch()
	if got := hudTurn(g); !strings.HasPrefix(got, "WHITE to move") {
		t.Fatalf("unexpected hud turn %q", got)
	}
	ended, _ := checkers.NewMatchFromLayout(checkers.Black, []checkers.PieceSpec{{Side: checkers.Black, Row: 4, Col: 4}})
	if got := hudTurn(ended); got != "BLACK wins." {
		t.Fatalf("unexpected ended hud %q", got)
	}
}
