package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/chriserin/team/internal/parser"
	"github.com/chriserin/team/internal/store"
	"github.com/chriserin/team/internal/ui"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Render the saved team and re-render whenever it changes",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return RunWatch(ctx, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

type subscriber interface {
	Subscribe(ctx context.Context) (<-chan []byte, error)
}

func RunWatch(ctx context.Context, w io.Writer) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	rb, err := ws.broadcaster()
	if err != nil {
		return err
	}
	var sub subscriber
	if rb != nil {
		sub = rb
	}
	logger := ws.logger.With(slog.String("component", "watch"))
	if sub == nil {
		logger.Warn("broadcast not configured, relying on stored team only")
	}
	return watchTeam(ctx, w, ws.teams, sub, ws.cfg.Load.PollInterval(), logger)
}

// watcher re-renders the team whenever a broadcast arrives or the stored
// version changes.
type watcher struct {
	w        io.Writer
	teams    *store.TeamStore
	logger   *slog.Logger
	r        ui.Renderer
	lastID   int64
	lastDoc  []byte
	rendered bool
}

// watchTeam renders the saved team, then renders each team received from sub
// and each new stored version seen every interval, until ctx is done or the
// subscription ends. A nil sub and a zero interval render once.
func watchTeam(ctx context.Context, w io.Writer, teams *store.TeamStore, sub subscriber, interval time.Duration, logger *slog.Logger) error {
	wt := &watcher{w: w, teams: teams, logger: logger}

	id, team, err := teams.LoadLatest(ctx)
	var de *parser.DecodeError
	switch {
	case err == nil:
		wt.lastID = id
		wt.show(team)
	case errors.Is(err, store.ErrNotFound):
		fmt.Fprintln(w, "no team saved yet")
	case errors.As(err, &de):
		wt.lastID = id
	default:
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("loading team: %w", err)
	}

	var msgs <-chan []byte
	if sub != nil {
		msgs, err = sub.Subscribe(ctx)
		if err != nil {
			return err
		}
	}

	var tick <-chan time.Time
	if interval > 0 {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	if msgs == nil && tick == nil {
		fmt.Fprintln(w, "broadcast and polling disabled, not watching for updates")
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			team, err := parser.DecodeTeam(msg)
			if err != nil {
				logger.Warn("ignoring invalid broadcast", "err", err)
				continue
			}
			wt.show(team)
		case <-tick:
			wt.poll(ctx)
		}
	}
}

// poll renders the stored team when its version id has changed.
func (wt *watcher) poll(ctx context.Context) {
	rev, err := wt.teams.Revision(ctx)
	if err != nil || rev == wt.lastID {
		if err != nil && !errors.Is(err, store.ErrNotFound) && ctx.Err() == nil {
			wt.logger.Warn("checking stored team failed", "err", err)
		}
		return
	}

	id, team, err := wt.teams.Latest(ctx)
	var de *parser.DecodeError
	switch {
	case errors.As(err, &de):
		// logged by the store; remember it so it is reported once
		wt.lastID = id
		return
	case err != nil:
		return
	}
	wt.lastID = id
	wt.show(team)
}

// show renders team unless it is the team already on screen.
func (wt *watcher) show(team []parser.Member) {
	doc, err := parser.EncodeTeam(team)
	if err == nil && wt.rendered && bytes.Equal(doc, wt.lastDoc) {
		return
	}

	if wt.rendered {
		fmt.Fprintln(wt.w)
	}
	if err := wt.r.Render(wt.w, team); errors.Is(err, ui.ErrRenderInProgress) {
		wt.logger.Debug("render already in progress, skipping update")
		return
	}
	wt.lastDoc = doc
	wt.rendered = true
}
