package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/park285/Checkers-KakaoTalk-bot/internal/adapter/checkerspresenter"
	"github.com/park285/Checkers-KakaoTalk-bot/internal/checkers"
	"github.com/park285/Checkers-KakaoTalk-bot/internal/match"
)

type commandKind int

const (
	cmdHelp commandKind = iota + 1
	cmdStart
	cmdRestart
	cmdStatus
	cmdEnd
	cmdClick
	cmdPlay
)

type command struct {
	kind   commandKind
	coords []checkers.Coord
	err    error
}

var gameKeywords = map[string]bool{"체커": true, "checkers": true}

// parseCommand reads "<prefix>체커 ..." messages. ok is false for text the bot should ignore.
func parseCommand(prefix, text string) (cmd command, ok bool) {
	text = strings.TrimSpace(text)
	if prefix == "" || !strings.HasPrefix(text, prefix) {
		return command{}, false
	}
	parts := strings.Fields(strings.TrimPrefix(text, prefix))
	if len(parts) == 0 {
		return command{}, false
	}
	head := strings.ToLower(parts[0])
	if head == "help" || head == "도움말" {
		return command{kind: cmdHelp}, true
	}
	if !gameKeywords[head] {
		return command{}, false
	}
	args := parts[1:]
	if len(args) == 0 {
		return command{kind: cmdHelp}, true
	}

	switch strings.ToLower(args[0]) {
	case "시작", "start":
		return command{kind: cmdStart}, true
	case "재시작", "restart":
		return command{kind: cmdRestart}, true
	case "현황", "status", "보드":
		return command{kind: cmdStatus}, true
	case "종료", "end":
		return command{kind: cmdEnd}, true
	case "도움말", "help":
		return command{kind: cmdHelp}, true
	}

	coords, err := checkers.ParseCoords(args)
	if err != nil {
		if !errors.Is(err, checkers.ErrOutOfBounds) {
			err = fmt.Errorf("%w: %v", checkerspresenter.ErrBadCoordinate, err)
		}
		return command{kind: cmdClick, err: err}, true
	}
	switch len(coords) {
	case 1:
		return command{kind: cmdClick, coords: coords}, true
	case 2:
		return command{kind: cmdPlay, coords: coords}, true
	default:
		return command{kind: cmdClick, err: fmt.Errorf("%w: %d cells", checkerspresenter.ErrBadCoordinate, len(coords))}, true
	}
}

// handler turns parsed commands into registry calls and chat replies.
type handler struct {
	matches   *match.Manager
	formatter *checkerspresenter.Formatter
	presenter *checkerspresenter.Presenter
	logger    *zap.Logger
}

func (h *handler) handle(ctx context.Context, room, text string) {
	cmd, ok := parseCommand(h.formatter.Prefix(), text)
	if !ok {
		return
	}
	if err := h.dispatch(ctx, room, cmd); err != nil {
		h.logger.Warn("checkers_reply_failed", zap.String("room", room), zap.Error(err))
	}
}

func (h *handler) dispatch(ctx context.Context, room string, cmd command) error {
	if cmd.err != nil {
		return h.presenter.Text(room, h.formatter.Error(cmd.err, ""))
	}

	switch cmd.kind {
	case cmdHelp:
		return h.presenter.Text(room, h.formatter.Help())
	case cmdStart:
		sess, created, err := h.matches.Start(ctx, room)
		if err != nil {
			return h.fail(room, "", err)
		}
		state, err := h.matches.ToDTO(ctx, sess)
		if err != nil {
			return h.fail(room, "", err)
		}
		return h.presenter.Board(room, h.formatter.Start(state, created), state)
	case cmdRestart:
		sess, err := h.matches.Restart(ctx, room)
		if err != nil {
			return h.fail(room, "", err)
		}
		state, err := h.matches.ToDTO(ctx, sess)
		if err != nil {
			return h.fail(room, "", err)
		}
		return h.presenter.Board(room, h.formatter.Restart(state), state)
	case cmdStatus:
		sess, err := h.matches.Get(ctx, room)
		if err == nil && sess == nil {
			err = match.ErrNoMatch
		}
		if err != nil {
			return h.fail(room, "", err)
		}
		state, err := h.matches.ToDTO(ctx, sess)
		if err != nil {
			return h.fail(room, "", err)
		}
		return h.presenter.Board(room, h.formatter.Status(state), state)
	case cmdEnd:
		ended, err := h.matches.End(ctx, room)
		if err != nil {
			return h.fail(room, "", err)
		}
		return h.presenter.Text(room, h.formatter.End(ended))
	case cmdClick, cmdPlay:
		var (
			sess *match.Session
			res  checkers.ClickResult
			err  error
		)
		if cmd.kind == cmdPlay {
			sess, res, err = h.matches.Play(ctx, room, cmd.coords[0], cmd.coords[1])
		} else {
			sess, res, err = h.matches.Click(ctx, room, cmd.coords[0])
		}
		if err != nil {
			active := ""
			if sess != nil {
				active = string(sess.Snapshot.Active)
			}
			return h.fail(room, active, err)
		}
		state, err := h.matches.ToDTO(ctx, sess)
		if err != nil {
			return h.fail(room, "", err)
		}
		return h.presenter.Board(room, h.formatter.Click(res, state), state)
	default:
		return nil
	}
}

// fail replies with the catalog text for err. Errors outside the catalog are logged.
func (h *handler) fail(room, active string, err error) error {
	if de := checkerspresenter.Classify(err); de.Code == "error.internal" {
		h.logger.Error("checkers_command_failed", zap.String("room", room), zap.Error(err))
	}
	return h.presenter.Text(room, h.formatter.Error(err, active))
}
