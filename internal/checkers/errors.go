package checkers

import "errors"

// Rejections leave the match untouched; callers may surface them to the user.
var (
	ErrMatchEnded      = errors.New("match has ended")
	ErrOutOfBounds     = errors.New("cell is outside the board")
	ErrOpponentPiece   = errors.New("piece belongs to the inactive side")
	ErrCaptureRequired = errors.New("a capture is available; select a capturing piece")
	ErrChainPiece      = errors.New("capture chain must continue with the same piece")
	ErrNoSelection     = errors.New("no piece selected")
	ErrEmptyCell       = errors.New("cell has no piece")
	ErrNotHighlighted  = errors.New("cell is not a legal destination")
	ErrIllegalMove     = errors.New("illegal move")
	ErrInvalidLayout   = errors.New("invalid board layout")
)
