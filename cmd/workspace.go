package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/chriserin/team/internal/broadcast"
	"github.com/chriserin/team/internal/config"
	"github.com/chriserin/team/internal/db"
	"github.com/chriserin/team/internal/log"
	"github.com/chriserin/team/internal/store"
)

var errNoWorkspace = errors.New("run `team init` first")

// workspace is the opened state a command works against.
type workspace struct {
	cfg     config.Config
	teams   *store.TeamStore
	logger  *slog.Logger
	closers []func() error
}

func openWorkspace() (*workspace, error) {
	if _, err := os.Stat(workspaceDir); os.IsNotExist(err) {
		return nil, errNoWorkspace
	}

	cfg, err := config.Load(workspaceDir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logger := log.Init(log.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
	})

	ws := &workspace{cfg: cfg, logger: logger}

	var svc store.ConfigService
	switch cfg.Storage.Backend {
	case "redis":
		rc, err := store.NewRedisConfig(cfg.Storage.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("connecting to redis: %w", err)
		}
		ws.closers = append(ws.closers, rc.Close)
		svc = rc
	default:
		sqlDB, err := db.Open(cfg.DBPath(workspaceDir))
		if err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}
		ws.closers = append(ws.closers, sqlDB.Close)
		svc = store.NewSQLiteConfig(sqlDB)
	}

	ws.teams = store.NewTeamStore(svc, store.Options{
		Segment:     cfg.Service.Segment,
		Version:     cfg.Service.Version,
		MaxAttempts: cfg.Load.MaxAttempts,
		RetryDelay:  cfg.Load.RetryDelay(),
		Logger:      log.WithComponent("store"),
	})
	return ws, nil
}

// broadcaster connects to the configured pub/sub channel. It returns nil
// when broadcasting is not configured.
func (ws *workspace) broadcaster() (*broadcast.RedisBroadcaster, error) {
	if ws.cfg.Broadcast.RedisURL == "" {
		return nil, nil
	}
	rb, err := broadcast.NewRedisBroadcaster(ws.cfg.Broadcast.RedisURL, ws.cfg.Broadcast.Channel, log.WithComponent("broadcast"))
	if err != nil {
		return nil, fmt.Errorf("connecting to broadcast channel: %w", err)
	}
	ws.closers = append(ws.closers, rb.Close)
	return rb, nil
}

// publisher is the broadcaster, or a no-op when none is configured.
func (ws *workspace) publisher() (broadcast.Publisher, error) {
	rb, err := ws.broadcaster()
	if err != nil {
		return nil, err
	}
	if rb == nil {
		return broadcast.Nop{}, nil
	}
	return rb, nil
}

func (ws *workspace) Close() {
	for i := len(ws.closers) - 1; i >= 0; i-- {
		ws.closers[i]()
	}
}
