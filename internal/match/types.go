package match

import (
	"time"

	"github.com/park285/Checkers-KakaoTalk-bot/internal/checkers"
)

// MoveRecord is one accepted move; a multi-jump produces one record per jump.
type MoveRecord struct {
	Side     checkers.Side   `json:"side"`
	From     checkers.Coord  `json:"from"`
	To       checkers.Coord  `json:"to"`
	Captured *checkers.Coord `json:"captured,omitempty"`
	Promoted bool            `json:"promoted,omitempty"`
}

// Session is the stored state of the match hosted in one room.
type Session struct {
	ID        string            `json:"id"`
	Room      string            `json:"room"`
	Snapshot  checkers.Snapshot `json:"snapshot"`
	History   []MoveRecord      `json:"history"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// Match rebuilds the engine state held by s.
func (s *Session) Match() (*checkers.Match, error) {
	return checkers.Restore(s.Snapshot)
}

// LastMove returns the most recent accepted move, if any.
func (s *Session) LastMove() (MoveRecord, bool) {
	if s == nil || len(s.History) == 0 {
		return MoveRecord{}, false
	}
	return s.History[len(s.History)-1], true
}
