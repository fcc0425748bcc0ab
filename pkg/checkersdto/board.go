package checkersdto

// Coord is a board cell, row 0 at the top.
type Coord struct {
	Row int
	Col int
}

// CellView is one cell as the renderer sees it.
type CellView struct {
	Dark        bool
	Occupied    bool
	Side        string
	King        bool
	CanCapture  bool
	Selected    bool
	Highlighted bool
}

// BoardView is a render-ready board: Cells is row-major.
type BoardView struct {
	Cells           [][]CellView
	Active          string
	CaptureRequired bool
	Ended           bool
	Winner          string
}
