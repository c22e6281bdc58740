package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/chriserin/team/internal/parser"
	"github.com/chriserin/team/internal/ui"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List saved versions of the team",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunHistory(cmd.Context(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
}

type historyRow struct {
	id      int64
	version string
	members int
	at      string
}

func RunHistory(ctx context.Context, w io.Writer) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	entries, err := ws.teams.History(ctx)
	if err != nil {
		return fmt.Errorf("querying history: %w", err)
	}

	if len(entries) == 0 {
		fmt.Fprintln(w, "no saved versions")
		return nil
	}

	var rows []historyRow
	idWidth, versionWidth := 0, 0
	for _, e := range entries {
		r := historyRow{
			id:      e.ID,
			version: e.Version,
			at:      e.UpdatedAt.Local().Format("2006-01-02 15:04:05"),
		}
		// unreadable documents still get a row
		if team, err := parser.DecodeTeam([]byte(e.Content)); err == nil {
			r.members = len(team)
		}
		rows = append(rows, r)

		if n := len(fmt.Sprintf("#%d", r.id)); n > idWidth {
			idWidth = n
		}
		if n := len(r.version) + 1; n > versionWidth {
			versionWidth = n
		}
	}

	for _, r := range rows {
		ui.HistoryRow(w, r.id, r.version, r.members, r.at, idWidth, versionWidth)
	}
	return nil
}
