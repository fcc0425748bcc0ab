package match

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/park285/Checkers-KakaoTalk-bot/internal/checkers"
	"github.com/park285/Checkers-KakaoTalk-bot/internal/obslog"
	"github.com/park285/Checkers-KakaoTalk-bot/internal/service/board"
)

const DefaultTTL = 24 * time.Hour

var (
	ErrNotInitialized   = errors.New("match manager not initialized")
	ErrNoMatch          = errors.New("no match in this room")
	ErrConcurrentUpdate = errors.New("match changed concurrently")
)

// Manager keeps one match per room in Redis. Each command reloads the match,
// applies clicks and writes it back under WATCH.
type Manager struct {
	rdb      *redis.Client
	renderer board.Renderer
	ttl      time.Duration
	now      func() time.Time
	ownsConn bool
}

type Option func(*Manager)

func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

func WithRenderer(r board.Renderer) Option {
	return func(m *Manager) {
		if r != nil {
			m.renderer = r
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

func NewManager(redisURL string, opts ...Option) (*Manager, error) {
	if strings.TrimSpace(redisURL) == "" {
		return nil, fmt.Errorf("REDIS_URL required for match manager")
	}
	ropts, err := ParseRedisURL(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(ropts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	m := NewManagerWithClient(rdb, opts...)
	m.ownsConn = true
	return m, nil
}

// NewManagerWithClient wraps an existing client; Close leaves it open.
func NewManagerWithClient(rdb *redis.Client, opts ...Option) *Manager {
	m := &Manager{
		rdb:      rdb,
		renderer: board.NewSVGBoardRenderer(),
		ttl:      DefaultTTL,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) Close() error {
	if m == nil || m.rdb == nil || !m.ownsConn {
		return nil
	}
	return m.rdb.Close()
}

func (m *Manager) newSession(room string) *Session {
	now := m.now()
	return &Session{
		ID:        uuid.NewString(),
		Room:      strings.TrimSpace(room),
		Snapshot:  checkers.NewMatch().Snapshot(),
		History:   []MoveRecord{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Start returns the room's match, creating a fresh one when none exists.
// created reports whether a new match was made.
func (m *Manager) Start(ctx context.Context, room string) (sess *Session, created bool, err error) {
	if m == nil || m.rdb == nil {
		return nil, false, ErrNotInitialized
	}
	if strings.TrimSpace(room) == "" {
		return nil, false, fmt.Errorf("room required")
	}
	fresh := m.newSession(room)
	raw, err := json.Marshal(fresh)
	if err != nil {
		return nil, false, err
	}
	ok, err := m.rdb.SetNX(ctx, sessionKey(room), raw, m.ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("start match: %w", err)
	}
	if ok {
		obslog.L().Info("checkers_match_start",
			zap.String("room", fresh.Room),
			zap.String("session_id", fresh.ID),
		)
		return fresh, true, nil
	}
	cur, err := m.Get(ctx, room)
	if err != nil {
		return nil, false, err
	}
	if cur == nil {
		// expired between SETNX and GET
		return nil, false, ErrConcurrentUpdate
	}
	return cur, false, nil
}

// Restart discards whatever the room holds and stores a brand-new match.
func (m *Manager) Restart(ctx context.Context, room string) (*Session, error) {
	if m == nil || m.rdb == nil {
		return nil, ErrNotInitialized
	}
	if strings.TrimSpace(room) == "" {
		return nil, fmt.Errorf("room required")
	}
	prevID := ""
	if prev, err := m.Get(ctx, room); err == nil && prev != nil {
		prevID = prev.ID
	}
	sess := m.newSession(room)
	if err := m.save(ctx, sess); err != nil {
		return nil, err
	}
	obslog.L().Info("checkers_match_restart",
		zap.String("room", sess.Room),
		zap.String("session_id", sess.ID),
		zap.String("previous_id", prevID),
	)
	return sess, nil
}

// Get returns the room's match or nil when none is stored.
func (m *Manager) Get(ctx context.Context, room string) (*Session, error) {
	if m == nil || m.rdb == nil {
		return nil, ErrNotInitialized
	}
	raw, err := m.rdb.Get(ctx, sessionKey(room)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load match: %w", err)
	}
	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode match: %w", err)
	}
	return &s, nil
}

// End deletes the room's match. It reports whether one existed.
func (m *Manager) End(ctx context.Context, room string) (bool, error) {
	if m == nil || m.rdb == nil {
		return false, ErrNotInitialized
	}
	n, err := m.rdb.Del(ctx, sessionKey(room)).Result()
	if err != nil {
		return false, fmt.Errorf("end match: %w", err)
	}
	if n > 0 {
		obslog.L().Info("checkers_match_end", zap.String("room", strings.TrimSpace(room)))
	}
	return n > 0, nil
}

// Click applies one click to the room's match. Engine rejections are returned
// as-is and leave the stored match untouched.
func (m *Manager) Click(ctx context.Context, room string, at checkers.Coord) (*Session, checkers.ClickResult, error) {
	var res checkers.ClickResult
	sess, err := m.update(ctx, room, func(g *checkers.Match) error {
		r, err := g.HandleClick(at)
		if err != nil {
			return err
		}
		res = r
		return nil
	}, &res)
	if err != nil {
		return sess, checkers.ClickResult{}, err
	}
	return sess, res, nil
}

// Play selects from (unless it is already selected) and then clicks to, in a
// single transaction. Either both clicks apply or neither does. A second click
// that only changes the selection is refused with checkers.ErrIllegalMove.
func (m *Manager) Play(ctx context.Context, room string, from, to checkers.Coord) (*Session, checkers.ClickResult, error) {
	var res checkers.ClickResult
	sess, err := m.update(ctx, room, func(g *checkers.Match) error {
		if sel, ok := g.Selected(); !ok || sel != from {
			r, err := g.HandleClick(from)
			if err != nil {
				return err
			}
			if r.Kind != checkers.ClickSelected {
				return checkers.ErrNoSelection
			}
		}
		r, err := g.HandleClick(to)
		if err != nil {
			return err
		}
		if r.Kind != checkers.ClickMoved {
			return fmt.Errorf("%w: %s is not a destination of %s", checkers.ErrIllegalMove, to, from)
		}
		res = r
		return nil
	}, &res)
	if err != nil {
		return sess, checkers.ClickResult{}, err
	}
	return sess, res, nil
}

func (m *Manager) update(ctx context.Context, room string, apply func(*checkers.Match) error, res *checkers.ClickResult) (*Session, error) {
	if m == nil || m.rdb == nil {
		return nil, ErrNotInitialized
	}
	key := sessionKey(room)
	var out *Session

	err := m.rdb.Watch(ctx, func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return ErrNoMatch
		}
		if err != nil {
			return err
		}
		var cur Session
		if err := json.Unmarshal(raw, &cur); err != nil {
			return fmt.Errorf("decode match: %w", err)
		}
		out = &cur
		g, err := cur.Match()
		if err != nil {
			return err
		}
		mover := g.Active()
		if err := apply(g); err != nil {
			return err
		}

		cur.Snapshot = g.Snapshot()
		cur.UpdatedAt = m.now()
		if res.Kind == checkers.ClickMoved {
			cur.History = append(cur.History, MoveRecord{
				Side:     mover,
				From:     res.From,
				To:       res.To,
				Captured: res.Captured,
				Promoted: res.Promoted,
			})
		}

		next, err := json.Marshal(&cur)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, next, m.ttl)
			return nil
		})
		return err
	}, key)

	if err != nil {
		if errors.Is(err, redis.TxFailedErr) {
			obslog.L().Warn("checkers_click_conflict", zap.String("room", strings.TrimSpace(room)))
			return out, ErrConcurrentUpdate
		}
		if isRejection(err) {
			obslog.L().Debug("checkers_click_rejected",
				zap.String("room", strings.TrimSpace(room)),
				zap.Error(err),
			)
		}
		return out, err
	}

	obslog.L().Info("checkers_click",
		zap.String("room", out.Room),
		zap.String("session_id", out.ID),
		zap.String("kind", clickKindName(res.Kind)),
		zap.String("from", res.From.String()),
		zap.String("to", res.To.String()),
		zap.Bool("captured", res.Captured != nil),
		zap.Bool("turn_kept", res.TurnKept),
		zap.String("next", string(res.Next)),
		zap.Bool("ended", res.Ended),
	)
	return out, nil
}

func (m *Manager) save(ctx context.Context, s *Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	if err := m.rdb.Set(ctx, sessionKey(s.Room), raw, m.ttl).Err(); err != nil {
		return fmt.Errorf("save match: %w", err)
	}
	return nil
}

func isRejection(err error) bool {
	for _, target := range []error{
		checkers.ErrMatchEnded,
		checkers.ErrOutOfBounds,
		checkers.ErrOpponentPiece,
		checkers.ErrCaptureRequired,
		checkers.ErrChainPiece,
		checkers.ErrNoSelection,
		checkers.ErrEmptyCell,
		checkers.ErrNotHighlighted,
		checkers.ErrIllegalMove,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func clickKindName(k checkers.ClickKind) string {
	switch k {
	case checkers.ClickSelected:
		return "select"
	case checkers.ClickDeselected:
		return "deselect"
	case checkers.ClickMoved:
		return "move"
	default:
		return "unknown"
	}
}
