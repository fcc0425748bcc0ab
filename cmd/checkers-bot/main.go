package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/park285/Checkers-KakaoTalk-bot/internal/adapter/checkerspresenter"
	"github.com/park285/Checkers-KakaoTalk-bot/internal/appbuilder"
	appcfg "github.com/park285/Checkers-KakaoTalk-bot/internal/config"
	"github.com/park285/Checkers-KakaoTalk-bot/internal/irisfast"
	"github.com/park285/Checkers-KakaoTalk-bot/internal/obslog"
)

const commandTimeout = 15 * time.Second

func main() {
	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer obslog.Sync()
	logger := obslog.L()

	headers := func() map[string]string {
		h := map[string]string{}
		if cfg.XUserID != "" {
			h["X-User-Id"] = cfg.XUserID
		}
		if cfg.XUserEmail != "" {
			h["X-User-Email"] = cfg.XUserEmail
		}
		if cfg.XSessionID != "" {
			h["X-Session-Id"] = cfg.XSessionID
		}
		return h
	}

	client := irisfast.NewClient(cfg.IrisBaseURL, irisfast.WithHeaderProvider(headers))
	probeIris(client, logger)

	ws := irisfast.NewWebSocket(cfg.IrisWSURL, 5, time.Second)
	ws.SetHeaderProvider(headers)
	ws.OnStateChange(func(state irisfast.WebSocketState) {
		logger.Info("ws_state", zap.String("state", state.String()))
	})

	egress := irisfast.NewEgress(cfg.IrisEgress, cfg.EgressDryRun, client, ws, logger)

	deps, err := appbuilder.New(cfg, logger)
	if err != nil {
		logger.Fatal("checkers init error", zap.Error(err))
	}
	defer func() { _ = deps.Close() }()

	presenter := checkerspresenter.NewPresenter(
		func(room, message string) error { return egress.SendText(context.Background(), room, message) },
		func(room, imageBase64 string) error { return egress.SendImage(context.Background(), room, imageBase64) },
	)
	h := &handler{
		matches:   deps.Matches,
		formatter: deps.Formatter,
		presenter: presenter,
		logger:    logger,
	}

	ws.OnMessage(func(msg *irisfast.Message) {
		if msg == nil || strings.TrimSpace(msg.Msg) == "" {
			return
		}
		if !cfg.RoomAllowed(msg.Room) {
			logger.Debug("ignore_room", zap.String("room", msg.Room))
			return
		}
		if !strings.HasPrefix(strings.TrimSpace(msg.Msg), cfg.BotPrefix) {
			return
		}
		// Avoid blocking the WS loop
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
			defer cancel()
			logger.Debug("command", zap.String("room", msg.Room), zap.String("sender", msg.SenderName()), zap.String("text", msg.Msg))
			h.handle(ctx, msg.Room, msg.Msg)
		}()
	})

	cctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := ws.Connect(cctx); err != nil {
		cancel()
		logger.Fatal("ws connect error", zap.Error(err))
	}
	cancel()
	logger.Info("checkers_bot_ready",
		zap.String("egress", cfg.IrisEgress),
		zap.Int("allowed_rooms", len(cfg.AllowedRooms)),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	sctx, scancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer scancel()
	_ = ws.Close(sctx)
}

// probeIris logs the relay config; failures are not fatal, the websocket retries on its own.
func probeIris(client *irisfast.Client, logger *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	cfg, err := client.GetConfig(ctx)
	if err != nil {
		logger.Warn("iris_config_error", zap.Error(err))
		return
	}
	logger.Info("iris_config",
		zap.String("bot_name", cfg.BotName),
		zap.Int("port", cfg.Port),
		zap.Int("message_rate", cfg.MessageRate),
	)
}
