package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/chriserin/team/internal/parser"
	"github.com/chriserin/team/internal/store"
	"github.com/chriserin/team/internal/ui"
	"github.com/spf13/cobra"
)

var (
	showJSONFlag bool
	showTextFlag bool
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the saved team",
	RunE: func(cmd *cobra.Command, args []string) error {
		format := ""
		switch {
		case showJSONFlag && showTextFlag:
			return fmt.Errorf("--json and --text are mutually exclusive")
		case showJSONFlag:
			format = "json"
		case showTextFlag:
			format = "text"
		}
		return RunShow(cmd.Context(), cmd.OutOrStdout(), format)
	},
}

func init() {
	showCmd.Flags().BoolVar(&showJSONFlag, "json", false, "Print the stored team document")
	showCmd.Flags().BoolVar(&showTextFlag, "text", false, "Print the team as export text")
	rootCmd.AddCommand(showCmd)
}

// RunShow loads the saved team and prints it. format is "" for the styled
// view, "json" for the stored document or "text" for export text.
func RunShow(ctx context.Context, w io.Writer, format string) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	team, err := ws.teams.Load(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("no team saved in %s, run `team save` first", ws.teams.Segment())
	}
	if err != nil {
		return fmt.Errorf("loading team: %w", err)
	}

	switch format {
	case "json":
		data, err := parser.EncodeTeam(team)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(data))
	case "text":
		fmt.Fprint(w, parser.Format(team))
	case "":
		var r ui.Renderer
		return r.Render(w, team)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
	return nil
}
