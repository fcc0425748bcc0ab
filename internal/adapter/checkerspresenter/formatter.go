package checkerspresenter

import (
	"errors"
	"strings"

	"github.com/park285/Checkers-KakaoTalk-bot/internal/checkers"
	"github.com/park285/Checkers-KakaoTalk-bot/internal/match"
	"github.com/park285/Checkers-KakaoTalk-bot/internal/msgcat"
	"github.com/park285/Checkers-KakaoTalk-bot/internal/util"
	"github.com/park285/Checkers-KakaoTalk-bot/pkg/checkersdto"
)

// ErrBadCoordinate marks command arguments that are not "row col" pairs.
var ErrBadCoordinate = errors.New("bad coordinate")

// PrefixProvider exposes the Prefix that Kakao messages should use.
type PrefixProvider interface {
	Prefix() string
}

// StaticPrefix is a fixed PrefixProvider.
type StaticPrefix string

func (p StaticPrefix) Prefix() string { return string(p) }

// Formatter renders checkers results into Kakao-friendly text from the message catalog.
type Formatter struct {
	catalog        *msgcat.Catalog
	prefixProvider PrefixProvider
}

func NewFormatter(catalog *msgcat.Catalog, provider PrefixProvider) *Formatter {
	return &Formatter{catalog: catalog, prefixProvider: provider}
}

func (f *Formatter) Prefix() string {
	if f == nil || f.prefixProvider == nil {
		return ""
	}
	return strings.TrimSpace(f.prefixProvider.Prefix())
}

func (f *Formatter) render(key string, data any) string {
	if f == nil {
		return key
	}
	return f.catalog.RenderOr(key, data, key)
}

// Help folds everything after the title behind Kakao's "see more".
func (f *Formatter) Help() string {
	return util.FoldAfterFirstLine(f.render("help", map[string]any{"Prefix": f.Prefix()}))
}

// Start announces a new or reused match followed by the status caption.
func (f *Formatter) Start(state *checkersdto.SessionState, created bool) string {
	key := "start.existing"
	if created {
		key = "start.created"
	}
	return joinLines(f.render(key, nil), f.Status(state))
}

func (f *Formatter) Restart(state *checkersdto.SessionState) string {
	return joinLines(f.render("restart.done", nil), f.Status(state))
}

func (f *Formatter) End(ended bool) string {
	if ended {
		return f.render("end.done", nil)
	}
	return f.render("end.none", nil)
}

// Status is the caption sent with every board image.
func (f *Formatter) Status(state *checkersdto.SessionState) string {
	if state == nil {
		return ""
	}
	if state.Ended {
		return f.render("result.win", map[string]any{"Side": sideLabel(state.Winner)})
	}
	lines := []string{f.render("board.caption", map[string]any{
		"Side":  sideLabel(state.Active),
		"Moves": state.MoveCount,
		"White": state.Pieces.White,
		"Black": state.Pieces.Black,
	})}
	switch {
	case state.ChainActive:
		lines = append(lines, f.render("click.turn_kept", nil))
	case state.CaptureRequired:
		lines = append(lines, f.render("board.capture_required", nil))
	case state.Blocked:
		lines = append(lines, f.render("board.blocked", map[string]any{"Side": sideLabel(state.Active)}))
	}
	return joinLines(lines...)
}

// Click describes an accepted click. Moves carry the resulting status; selections only list targets.
func (f *Formatter) Click(res checkers.ClickResult, state *checkersdto.SessionState) string {
	switch res.Kind {
	case checkers.ClickSelected:
		if len(res.Targets) == 0 {
			return f.render("click.selected_none", map[string]any{"From": res.From.String()})
		}
		return f.render("click.selected", map[string]any{"From": res.From.String(), "Targets": formatTargets(res.Targets)})
	case checkers.ClickDeselected:
		return f.render("click.deselected", map[string]any{"From": res.From.String()})
	case checkers.ClickMoved:
		mover := res.Next
		if !res.TurnKept {
			mover = mover.Opponent()
		}
		data := map[string]any{"Side": mover.Label(), "From": res.From.String(), "To": res.To.String()}
		var lines []string
		if res.Captured != nil {
			data["Captured"] = res.Captured.String()
			lines = append(lines, f.render("click.captured", data))
		} else {
			lines = append(lines, f.render("click.moved", data))
		}
		if res.Promoted {
			lines = append(lines, f.render("click.promoted", nil))
		}
		return joinLines(append(lines, f.Status(state))...)
	default:
		return ""
	}
}

// Classify maps an error to its catalog key. Unknown errors become error.internal.
func Classify(err error) checkersdto.DomainError {
	codes := []struct {
		target    error
		code      string
		retryable bool
	}{
		{checkers.ErrMatchEnded, "error.match_ended", false},
		{checkers.ErrOutOfBounds, "error.out_of_bounds", true},
		{checkers.ErrOpponentPiece, "error.opponent_piece", true},
		{checkers.ErrCaptureRequired, "error.capture_required", true},
		{checkers.ErrChainPiece, "error.chain_piece", true},
		{checkers.ErrNoSelection, "error.no_selection", true},
		{checkers.ErrEmptyCell, "error.empty_cell", true},
		{checkers.ErrNotHighlighted, "error.not_highlighted", true},
		{checkers.ErrIllegalMove, "error.illegal_move", true},
		{match.ErrNoMatch, "error.no_match", false},
		{match.ErrConcurrentUpdate, "error.concurrent", true},
		{ErrBadCoordinate, "error.bad_coord", true},
	}
	for _, c := range codes {
		if errors.Is(err, c.target) {
			return checkersdto.DomainError{Code: c.code, Message: err.Error(), Retryable: c.retryable}
		}
	}
	msg := "checkers service error"
	if err != nil {
		msg = err.Error()
	}
	return checkersdto.DomainError{Code: "error.internal", Message: msg}
}

// Error renders err for the chat. active is the side to move, used by error.opponent_piece.
func (f *Formatter) Error(err error, active string) string {
	de := Classify(err)
	return f.render(de.Code, map[string]any{"Prefix": f.Prefix(), "Side": sideLabel(active)})
}

func sideLabel(side string) string {
	if side == "" {
		return "-"
	}
	return checkers.Side(side).Label()
}

func formatTargets(moves []checkers.Move) string {
	parts := make([]string, 0, len(moves))
	for _, mv := range moves {
		parts = append(parts, "("+mv.To.String()+")")
	}
	return strings.Join(parts, ", ")
}

func joinLines(lines ...string) string {
	out := lines[:0:0]
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			out = append(out, l)
		}
	}
	return strings.Join(out, "\n")
}
