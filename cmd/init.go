package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chriserin/team/internal/config"
	"github.com/chriserin/team/internal/db"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a team workspace in the current directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunInit(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func RunInit(w io.Writer) error {
	dirName := filepath.ToSlash(workspaceDir)

	// workspace directory
	_, err := os.Stat(workspaceDir)
	dirExists := err == nil
	if err := os.MkdirAll(workspaceDir, 0o755); err != nil {
		return fmt.Errorf("creating %s directory: %w", dirName, err)
	}
	if dirExists {
		fmt.Fprintf(w, "%s/ already exists\n", dirName)
	} else {
		fmt.Fprintf(w, "%s/ created\n", dirName)
	}

	// config
	cfgPath := filepath.ToSlash(filepath.Join(workspaceDir, config.FileName))
	if _, err := os.Stat(cfgPath); err == nil {
		fmt.Fprintf(w, "%s already exists\n", cfgPath)
	} else {
		if err := config.Save(workspaceDir, config.Defaults()); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}
		fmt.Fprintf(w, "%s created\n", cfgPath)
	}

	cfg, err := config.Load(workspaceDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if cfg.Storage.Backend != "sqlite" {
		fmt.Fprintf(w, "storage backend is %s, no database created\n", cfg.Storage.Backend)
		return nil
	}

	// database
	dbPath := cfg.DBPath(workspaceDir)
	dbName := filepath.ToSlash(dbPath)
	_, err = os.Stat(dbPath)
	dbExists := err == nil
	sqlDB, err := db.Open(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	sqlDB.Close()
	if dbExists {
		fmt.Fprintf(w, "%s already exists\n", dbName)
	} else {
		fmt.Fprintf(w, "%s created\n", dbName)
	}

	if filepath.IsAbs(dbPath) {
		return nil
	}

	// gitignore
	msgs, err := ensureGitignore(dbName)
	if err != nil {
		return fmt.Errorf("updating .gitignore: %w", err)
	}
	for _, msg := range msgs {
		fmt.Fprintln(w, msg)
	}

	return nil
}

func ensureGitignore(entry string) ([]string, error) {
	data, err := os.ReadFile(".gitignore")
	if os.IsNotExist(err) {
		if err := os.WriteFile(".gitignore", []byte(entry+"\n"), 0o644); err != nil {
			return nil, err
		}
		return []string{".gitignore created", entry + " added to .gitignore"}, nil
	}
	if err != nil {
		return nil, err
	}

	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == entry {
			return []string{entry + " already in .gitignore"}, nil
		}
	}

	content := string(data)
	if len(content) > 0 && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	content += entry + "\n"

	if err := os.WriteFile(".gitignore", []byte(content), 0o644); err != nil {
		return nil, err
	}
	return []string{entry + " added to .gitignore"}, nil
}
