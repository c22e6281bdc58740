package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/chriserin/team/internal/parser"
	"github.com/chriserin/team/internal/store"
	"github.com/chriserin/team/internal/ui"
	"github.com/spf13/cobra"
)

var saveCmd = &cobra.Command{
	Use:   "save [file]",
	Short: "Parse a team export, store it and broadcast it",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readTeamText(cmd.InOrStdin(), args)
		if err != nil {
			return err
		}
		return RunSave(cmd.Context(), cmd.OutOrStdout(), text)
	},
}

func init() {
	rootCmd.AddCommand(saveCmd)
}

func RunSave(ctx context.Context, w io.Writer, text string) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	res := parser.Parse(text)
	ui.Diagnostics(w, res.Errors)
	if len(res.Team) == 0 {
		return store.ErrEmptyTeam
	}

	data, err := ws.teams.Save(ctx, res.Team)
	if err != nil {
		return fmt.Errorf("saving team: %w", err)
	}

	pub, err := ws.publisher()
	if err != nil {
		ws.logger.Warn("broadcast unavailable", "err", err)
	} else if err := pub.Publish(ctx, data); err != nil {
		ws.logger.Warn("broadcast failed", "err", err)
	}

	ui.SavedLine(w, ws.teams.Segment(), len(res.Team))
	return nil
}
