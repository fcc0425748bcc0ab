package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type AppConfig struct {
	IrisBaseURL  string
	IrisWSURL    string
	IrisEgress   string // http | ws | auto
	EgressDryRun bool

	BotPrefix string

	XUserID    string
	XUserEmail string
	XSessionID string

	RedisURL string

	AllowedRooms []string

	SessionTTL  time.Duration
	MessagesDir string
}

const defaultSessionTTL = 24 * time.Hour

func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		IrisEgress: "auto",
		SessionTTL: defaultSessionTTL,
	}

	cfg.IrisBaseURL = strings.TrimSpace(os.Getenv("IRIS_BASE_URL"))
	cfg.IrisWSURL = strings.TrimSpace(os.Getenv("IRIS_WS_URL"))
	cfg.BotPrefix = strings.TrimSpace(os.Getenv("BOT_PREFIX"))

	cfg.XUserID = strings.TrimSpace(os.Getenv("X_USER_ID"))
	cfg.XUserEmail = strings.TrimSpace(os.Getenv("X_USER_EMAIL"))
	cfg.XSessionID = strings.TrimSpace(os.Getenv("X_SESSION_ID"))

	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))
	cfg.MessagesDir = strings.TrimSpace(os.Getenv("MESSAGES_DIR"))

	cfg.AllowedRooms = splitList(os.Getenv("ALLOWED_ROOMS"))
	if len(cfg.AllowedRooms) == 0 {
		cfg.AllowedRooms = splitList(os.Getenv("CHECKERS_ALLOWED_ROOMS"))
	}

	if v := strings.ToLower(strings.TrimSpace(os.Getenv("IRIS_EGRESS"))); v != "" {
		switch v {
		case "http", "ws", "auto":
			cfg.IrisEgress = v
		default:
			return nil, fmt.Errorf("IRIS_EGRESS must be http, ws or auto, got %q", v)
		}
	}
	if v := strings.TrimSpace(os.Getenv("EGRESS_DRYRUN")); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.EgressDryRun = b
		}
	}
	// seconds, or a Go duration such as 90m
	if v := strings.TrimSpace(os.Getenv("CHECKERS_SESSION_TTL")); v != "" {
		ttl, err := parseTTL(v)
		if err != nil {
			return nil, fmt.Errorf("CHECKERS_SESSION_TTL: %w", err)
		}
		cfg.SessionTTL = ttl
	}

	if cfg.IrisBaseURL == "" {
		return nil, errors.New("IRIS_BASE_URL is required")
	}
	if cfg.IrisWSURL == "" {
		return nil, errors.New("IRIS_WS_URL is required")
	}
	if cfg.BotPrefix == "" {
		return nil, errors.New("BOT_PREFIX is required")
	}
	if cfg.RedisURL == "" {
		return nil, errors.New("REDIS_URL is required")
	}

	return cfg, nil
}

// RoomAllowed reports whether the bot may answer in room. An empty allow list admits every room.
func (c *AppConfig) RoomAllowed(room string) bool {
	if c == nil || len(c.AllowedRooms) == 0 {
		return true
	}
	room = strings.TrimSpace(room)
	for _, r := range c.AllowedRooms {
		if r == room {
			return true
		}
	}
	return false
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func parseTTL(v string) (time.Duration, error) {
	if n, err := strconv.Atoi(v); err == nil {
		if n <= 0 {
			return 0, fmt.Errorf("must be positive, got %d", n)
		}
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("must be positive, got %s", d)
	}
	return d, nil
}
