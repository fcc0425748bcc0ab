package board

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	imagedraw "image/draw"
	"image/png"
	"strconv"
	"strings"

	"github.com/park285/Checkers-KakaoTalk-bot/pkg/checkersdto"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// Size is the number of cells along one edge.
const Size = 8

type MoveHighlight struct {
	From checkersdto.Coord
	To   checkersdto.Coord
}

type RenderOptions struct {
	LastMove  *MoveHighlight
	HUDHeader string
	HUDTurn   string
}

type Renderer interface {
	RenderPNG(ctx context.Context, view checkersdto.BoardView, opts RenderOptions) ([]byte, error)
}

type svgBoardRenderer struct {
	face font.Face
}

func NewSVGBoardRenderer() Renderer {
	return &svgBoardRenderer{face: basicfont.Face7x13}
}

func (r *svgBoardRenderer) RenderPNG(ctx context.Context, view checkersdto.BoardView, opts RenderOptions) ([]byte, error) {
	if len(view.Cells) != Size {
		return nil, fmt.Errorf("board view has %d rows, want %d", len(view.Cells), Size)
	}
	for i, row := range view.Cells {
		if len(row) != Size {
			return nil, fmt.Errorf("board view row %d has %d cells, want %d", i, len(row), Size)
		}
	}

	const (
		squareSize      = 64
		boardSize       = squareSize * Size
		sideMargin      = 32
		topMargin       = 96
		bottomMargin    = 32
		titleHeight     = 32
		turnPanelHeight = 26
		gapPanels       = 8
		gapToBoard      = 14
		panelRadius     = 10
		paddingX        = 20
		titleMinWidth   = 240
		turnMinWidth    = 140
		shadowOffsetY   = 4
	)

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	totalWidth := boardSize + sideMargin*2
	totalHeight := boardSize + topMargin + bottomMargin
	origin := image.Point{X: sideMargin, Y: topMargin}
	boardRect := image.Rect(origin.X, origin.Y, origin.X+boardSize, origin.Y+boardSize)

	img := image.NewRGBA(image.Rect(0, 0, totalWidth, totalHeight))
	imagedraw.Draw(img, img.Bounds(), image.NewUniform(backgroundColor), image.Point{}, imagedraw.Src)

	hud := hudLayout{
		radius:        panelRadius,
		titleHeight:   titleHeight,
		turnHeight:    turnPanelHeight,
		gapPanels:     gapPanels,
		gapToBoard:    gapToBoard,
		paddingX:      paddingX,
		titleMinWidth: titleMinWidth,
		turnMinWidth:  turnMinWidth,
		shadowOffsetY: shadowOffsetY,
	}
	r.drawHUD(img, view, opts, boardRect, hud)
	drawBoardShadow(img, boardRect)
	drawSquares(img, view, squareSize, origin)
	drawLastMove(img, opts.LastMove, squareSize, origin)
	if err := drawPieces(img, view, squareSize, origin); err != nil {
		return nil, err
	}
	drawTargets(img, view, squareSize, origin)
	r.drawCoordinates(img, squareSize, origin, sideMargin)

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	var pngBuf bytes.Buffer
	if err := png.Encode(&pngBuf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return pngBuf.Bytes(), nil
}

var (
	backgroundColor     = color.RGBA{R: 22, G: 24, B: 34, A: 255}
	lightSquare         = color.RGBA{233, 207, 163, 255}
	darkSquare          = color.RGBA{187, 136, 96, 255}
	selectedFill        = color.NRGBA{R: 255, G: 228, B: 120, A: 150}
	lastMoveFill        = color.NRGBA{R: 148, G: 207, B: 255, A: 110}
	targetDotColor      = color.NRGBA{R: 40, G: 160, B: 90, A: 170}
	captureTargetColor  = color.NRGBA{R: 220, G: 60, B: 60, A: 170}
	captureRingColor    = color.NRGBA{R: 230, G: 50, B: 50, A: 230}
	hudPanelColor       = color.NRGBA{R: 28, G: 31, B: 46, A: 250}
	hudTurnPanelColor   = color.NRGBA{R: 32, G: 35, B: 52, A: 245}
	hudShadowColor      = color.NRGBA{0, 0, 0, 50}
	hudTextPrimary      = color.NRGBA{R: 236, G: 239, B: 255, A: 255}
	hudTurnTextColor    = color.NRGBA{R: 204, G: 210, B: 236, A: 255}
	boardShadowColor    = color.NRGBA{0, 0, 0, 60}
	coordinateTextColor = color.NRGBA{R: 8, G: 214, B: 120, A: 255}
)

func cellRect(row, col, squareSize int, origin image.Point) image.Rectangle {
	x := origin.X + col*squareSize
	y := origin.Y + row*squareSize
	return image.Rect(x, y, x+squareSize, y+squareSize)
}

func cellCenter(row, col, squareSize int, origin image.Point) image.Point {
	rect := cellRect(row, col, squareSize, origin)
	return image.Point{X: rect.Min.X + squareSize/2, Y: rect.Min.Y + squareSize/2}
}

func drawBoardShadow(img *image.RGBA, boardRect image.Rectangle) {
	shadowRect := image.Rect(boardRect.Min.X+4, boardRect.Min.Y+6, boardRect.Max.X+8, boardRect.Max.Y+10)
	imagedraw.Draw(img, shadowRect, image.NewUniform(boardShadowColor), image.Point{}, imagedraw.Over)
}

func drawSquares(img *image.RGBA, view checkersdto.BoardView, squareSize int, origin image.Point) {
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			cell := view.Cells[row][col]
			clr := lightSquare
			if cell.Dark {
				clr = darkSquare
			}
			rect := cellRect(row, col, squareSize, origin)
			imagedraw.Draw(img, rect, image.NewUniform(clr), image.Point{}, imagedraw.Src)
			if cell.Selected {
				imagedraw.Draw(img, rect, image.NewUniform(selectedFill), image.Point{}, imagedraw.Over)
			}
		}
	}
}

func drawLastMove(img *image.RGBA, mv *MoveHighlight, squareSize int, origin image.Point) {
	if mv == nil {
		return
	}
	for _, c := range []checkersdto.Coord{mv.From, mv.To} {
		if c.Row < 0 || c.Row >= Size || c.Col < 0 || c.Col >= Size {
			return
		}
	}
	fill := image.NewUniform(lastMoveFill)
	imagedraw.Draw(img, cellRect(mv.From.Row, mv.From.Col, squareSize, origin), fill, image.Point{}, imagedraw.Over)
	imagedraw.Draw(img, cellRect(mv.To.Row, mv.To.Col, squareSize, origin), fill, image.Point{}, imagedraw.Over)
}

func drawPieces(img *image.RGBA, view checkersdto.BoardView, squareSize int, origin image.Point) error {
	pieceSize := squareSize - squareSize/8
	inset := (squareSize - pieceSize) / 2
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			cell := view.Cells[row][col]
			if !cell.Occupied {
				continue
			}
			glyph, err := renderPieceImage(pieceKind{side: cell.Side, king: cell.King}, pieceSize)
			if err != nil {
				return err
			}
			rect := cellRect(row, col, squareSize, origin)
			dst := image.Rect(rect.Min.X+inset, rect.Min.Y+inset, rect.Min.X+inset+pieceSize, rect.Min.Y+inset+pieceSize)
			imagedraw.Draw(img, dst, glyph, image.Point{}, imagedraw.Over)

			// Capture markers only apply to the side to move.
			if cell.CanCapture && cell.Side == view.Active && !view.Ended {
				center := cellCenter(row, col, squareSize, origin)
				drawRing(img, center, squareSize/2-2, 3, captureRingColor)
			}
		}
	}
	return nil
}

func drawTargets(img *image.RGBA, view checkersdto.BoardView, squareSize int, origin image.Point) {
	dot := targetDotColor
	if view.CaptureRequired {
		dot = captureTargetColor
	}
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if !view.Cells[row][col].Highlighted {
				continue
			}
			drawDisc(img, cellCenter(row, col, squareSize, origin), squareSize/6, dot)
		}
	}
}

type hudLayout struct {
	radius        int
	titleHeight   int
	turnHeight    int
	gapPanels     int
	gapToBoard    int
	paddingX      int
	titleMinWidth int
	turnMinWidth  int
	shadowOffsetY int
}

func (r *svgBoardRenderer) drawHUD(img *image.RGBA, view checkersdto.BoardView, opts RenderOptions, boardRect image.Rectangle, l hudLayout) {
	drawer := &font.Drawer{Dst: img, Face: r.face}

	title := strings.TrimSpace(opts.HUDHeader)
	if title == "" {
		title = "Checkers"
	}
	turnText := strings.TrimSpace(opts.HUDTurn)
	if turnText == "" {
		turnText = defaultTurnText(view)
	}

	turnBottom := boardRect.Min.Y - l.gapToBoard
	turnTop := turnBottom - l.turnHeight
	titleBottom := turnTop - l.gapPanels
	titleTop := titleBottom - l.titleHeight

	titleWidth := maxInt(l.titleMinWidth, drawer.MeasureString(title).Round()+l.paddingX*2)
	if titleWidth > boardRect.Dx() {
		titleWidth = boardRect.Dx()
	}
	turnWidth := maxInt(l.turnMinWidth, drawer.MeasureString(turnText).Round()+l.paddingX*2)
	if turnWidth > boardRect.Dx() {
		turnWidth = boardRect.Dx()
	}

	titleLeft := boardRect.Min.X + (boardRect.Dx()-titleWidth)/2
	titleRect := image.Rect(titleLeft, titleTop, titleLeft+titleWidth, titleBottom)
	turnLeft := boardRect.Min.X + (boardRect.Dx()-turnWidth)/2
	turnRect := image.Rect(turnLeft, turnTop, turnLeft+turnWidth, turnBottom)

	drawRoundedPanel(img, titleRect.Add(image.Pt(0, l.shadowOffsetY)), l.radius, hudShadowColor)
	drawRoundedPanel(img, turnRect.Add(image.Pt(0, l.shadowOffsetY)), l.radius, hudShadowColor)
	drawRoundedPanel(img, titleRect, l.radius, hudPanelColor)
	drawRoundedPanel(img, turnRect, l.radius, hudTurnPanelColor)

	title = truncateWithEllipsis(r.face, title, titleRect.Dx()-l.paddingX*2)
	turnText = truncateWithEllipsis(r.face, turnText, turnRect.Dx()-l.paddingX*2)
	drawCenteredString(drawer, titleRect, title, hudTextPrimary)
	drawCenteredString(drawer, turnRect, turnText, hudTurnTextColor)
}

func defaultTurnText(view checkersdto.BoardView) string {
	if view.Ended {
		return strings.ToUpper(view.Winner) + " wins."
	}
	text := strings.ToUpper(view.Active) + " to move"
	if view.CaptureRequired {
		text += " (capture)"
	}
	return text
}

// drawCoordinates labels rows on the left edge and columns under the board
// using the same numbers players type.
func (r *svgBoardRenderer) drawCoordinates(img *image.RGBA, squareSize int, origin image.Point, margin int) {
	drawer := &font.Drawer{Dst: img, Face: r.face, Src: image.NewUniform(coordinateTextColor)}
	ascent := r.face.Metrics().Ascent.Ceil()
	boardEndY := origin.Y + Size*squareSize
	for i := 0; i < Size; i++ {
		label := strconv.Itoa(i)
		center := origin.Y + i*squareSize + squareSize/2
		drawCenteredText(drawer, label, origin.X-margin/2, center+ascent/2)
		drawCenteredText(drawer, label, origin.X+i*squareSize+squareSize/2, boardEndY+ascent+4)
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
