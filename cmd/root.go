package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// workspaceDir holds config.yaml and the sqlite database.
var workspaceDir = ".team"

var rootCmd = &cobra.Command{
	Use:          "team",
	Short:        "Parse, store and broadcast Pokémon Showdown team exports",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&workspaceDir, "dir", workspaceDir, "workspace directory")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
