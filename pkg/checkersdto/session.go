package checkersdto

type PieceCount struct {
	White int
	Black int
}

type SessionState struct {
	SessionID       string
	Room            string
	MoveCount       int
	Active          string
	Winner          string
	Ended           bool
	Blocked         bool
	CaptureRequired bool
	ChainActive     bool
	Pieces          PieceCount
	Board           BoardView
	BoardImage      []byte
	LastFrom        *Coord
	LastTo          *Coord
}
