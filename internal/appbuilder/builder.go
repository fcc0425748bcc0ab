package appbuilder

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/park285/Checkers-KakaoTalk-bot/internal/adapter/checkerspresenter"
	"github.com/park285/Checkers-KakaoTalk-bot/internal/config"
	"github.com/park285/Checkers-KakaoTalk-bot/internal/match"
	"github.com/park285/Checkers-KakaoTalk-bot/internal/msgcat"
	"github.com/park285/Checkers-KakaoTalk-bot/internal/service/board"
)

type Deps struct {
	Matches   *match.Manager
	Catalog   *msgcat.Catalog
	Formatter *checkerspresenter.Formatter
	Renderer  board.Renderer
}

func New(cfg *config.AppConfig, logger *zap.Logger) (*Deps, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	// Messages (embedded defaults + optional overrides)
	catalog, err := msgcat.New(cfg.MessagesDir)
	if err != nil {
		return nil, fmt.Errorf("init messages: %w", err)
	}

	renderer := board.NewSVGBoardRenderer()

	// Match registry (Redis required)
	matches, err := match.NewManager(cfg.RedisURL,
		match.WithTTL(cfg.SessionTTL),
		match.WithRenderer(renderer),
	)
	if err != nil {
		return nil, fmt.Errorf("init match registry: %w", err)
	}

	logger.Info("checkers_deps_ready",
		zap.Duration("session_ttl", cfg.SessionTTL),
		zap.Int("messages", len(catalog.Keys())),
		zap.Bool("messages_override", cfg.MessagesDir != ""),
	)

	return &Deps{
		Matches:   matches,
		Catalog:   catalog,
		Formatter: checkerspresenter.NewFormatter(catalog, checkerspresenter.StaticPrefix(cfg.BotPrefix)),
		Renderer:  renderer,
	}, nil
}

// Close releases the Redis connection.
func (d *Deps) Close() error {
	if d == nil || d.Matches == nil {
		return nil
	}
	return d.Matches.Close()
}
