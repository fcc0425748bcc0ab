package checkerspresenter

import (
	"encoding/base64"
	"strings"

	"github.com/park285/Checkers-KakaoTalk-bot/pkg/checkersdto"
)

// Presenter delivers formatted messages and board images without coupling to the command layer.
type Presenter struct {
	sendMessage func(room, message string) error
	sendImage   func(room, imageBase64 string) error
}

func NewPresenter(sendMessage func(room, message string) error, sendImage func(room, imageBase64 string) error) *Presenter {
	return &Presenter{
		sendMessage: sendMessage,
		sendImage:   sendImage,
	}
}

// Text sends message alone; blank messages are dropped.
func (p *Presenter) Text(room, message string) error {
	if p == nil || p.sendMessage == nil || strings.TrimSpace(message) == "" {
		return nil
	}
	return p.sendMessage(room, message)
}

// Board sends the caption first, then the rendered board when one is attached.
func (p *Presenter) Board(room, message string, state *checkersdto.SessionState) error {
	if p == nil {
		return nil
	}
	if err := p.Text(room, message); err != nil {
		return err
	}
	if state != nil && len(state.BoardImage) > 0 && p.sendImage != nil {
		encoded := base64.StdEncoding.EncodeToString(state.BoardImage)
		if err := p.sendImage(room, encoded); err != nil {
			return err
		}
	}
	return nil
}
