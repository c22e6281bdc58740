package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/chriserin/team/internal/log"
	"github.com/chriserin/team/internal/server"
	"github.com/spf13/cobra"
)

var serveAddrFlag string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the parser and the saved team over HTTP and websockets",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return RunServe(ctx, serveAddrFlag)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddrFlag, "addr", "", "Listen address (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// RunServe serves until ctx is cancelled, then shuts down gracefully.
func RunServe(ctx context.Context, addr string) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	if addr == "" {
		addr = ws.cfg.Server.Addr
	}

	pub, err := ws.publisher()
	if err != nil {
		return err
	}

	srv := server.New(addr, ws.teams, pub, log.WithComponent("server"))

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serving on %s: %w", addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	ws.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}
