package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/chriserin/team/internal/parser"
	"github.com/chriserin/team/internal/ui"
	"github.com/spf13/cobra"
)

var parseJSONFlag bool

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a team export and print the result",
	Long:  "Parse a Pokémon Showdown team export from a file, or stdin when no file (or -) is given.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readTeamText(cmd.InOrStdin(), args)
		if err != nil {
			return err
		}
		return RunParse(cmd.OutOrStdout(), text, parseJSONFlag)
	},
}

func init() {
	parseCmd.Flags().BoolVar(&parseJSONFlag, "json", false, "Print the parse result as JSON")
	rootCmd.AddCommand(parseCmd)
}

func RunParse(w io.Writer, text string, asJSON bool) error {
	res := parser.Parse(text)

	if asJSON {
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding result: %w", err)
		}
		fmt.Fprintln(w, string(data))
		return nil
	}

	var r ui.Renderer
	if err := r.Render(w, res.Team); err != nil {
		return err
	}
	if len(res.Errors) > 0 {
		fmt.Fprintln(w)
		ui.Diagnostics(w, res.Errors)
	}
	fmt.Fprintln(w)
	ui.SummaryLine(w, len(res.Team), len(res.Errors))
	return nil
}

// readTeamText reads the named file, or stdin when args is empty or "-".
func readTeamText(stdin io.Reader, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", args[0], err)
	}
	return string(data), nil
}
