package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chriserin/team/internal/config"
	"github.com/chriserin/team/internal/db"
)

func inTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(orig) })
	return dir
}

func runInit(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, RunInit(&buf))
	return buf.String()
}

func withWorkspaceDir(t *testing.T, dir string) {
	t.Helper()
	orig := workspaceDir
	workspaceDir = dir
	t.Cleanup(func() { workspaceDir = orig })
}

func TestInit_CreatesWorkspaceDirectory(t *testing.T) {
	dir := inTempDir(t)
	out := runInit(t)

	info, err := os.Stat(filepath.Join(dir, ".team"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Contains(t, out, ".team/ created")
}

func TestInit_WorkspaceDirectoryAlreadyExists(t *testing.T) {
	dir := inTempDir(t)
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".team"), 0o755))

	out := runInit(t)

	assert.Contains(t, out, ".team/ already exists")
}

func TestInit_WritesDefaultConfig(t *testing.T) {
	inTempDir(t)
	out := runInit(t)

	cfg, err := config.Load(".team")
	require.NoError(t, err)
	assert.Equal(t, config.Defaults(), cfg)
	assert.Contains(t, out, ".team/config.yaml created")
}

func TestInit_KeepsExistingConfig(t *testing.T) {
	inTempDir(t)
	require.NoError(t, os.Mkdir(".team", 0o755))
	require.NoError(t, os.WriteFile(".team/config.yaml", []byte("config_service:\n  segment: developer\n"), 0o644))

	out := runInit(t)

	data, err := os.ReadFile(".team/config.yaml")
	require.NoError(t, err)
	assert.Equal(t, "config_service:\n  segment: developer\n", string(data))
	assert.Contains(t, out, ".team/config.yaml already exists")
}

func TestInit_InitializesSQLiteDatabase(t *testing.T) {
	dir := inTempDir(t)
	out := runInit(t)

	dbPath := filepath.Join(dir, ".team", "team.db")
	_, err := os.Stat(dbPath)
	require.NoError(t, err)

	sqlDB, err := db.Open(dbPath)
	require.NoError(t, err)
	defer sqlDB.Close()

	var mode string
	require.NoError(t, sqlDB.QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)
	assert.Contains(t, out, ".team/team.db created")
}

func TestInit_DatabaseAlreadyExists(t *testing.T) {
	inTempDir(t)
	runInit(t)

	out := runInit(t)
	assert.Contains(t, out, ".team/team.db already exists")
}

func TestInit_AppliesMigrations(t *testing.T) {
	inTempDir(t)
	runInit(t)

	sqlDB, err := db.Open(".team/team.db")
	require.NoError(t, err)
	defer sqlDB.Close()

	var version int
	require.NoError(t, sqlDB.QueryRow("SELECT version FROM schema_version").Scan(&version))
	assert.Equal(t, len(db.All), version)
}

func TestInit_CustomDirectory(t *testing.T) {
	inTempDir(t)
	withWorkspaceDir(t, "overlay")

	out := runInit(t)

	_, err := os.Stat("overlay/team.db")
	require.NoError(t, err)
	assert.Contains(t, out, "overlay/ created")
	assert.Contains(t, out, "overlay/team.db added to .gitignore")
}

func TestInit_AddsToGitignore(t *testing.T) {
	dir := inTempDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitignore"), []byte("node_modules\n"), 0o644))

	out := runInit(t)

	data, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err)
	assert.Contains(t, string(data), ".team/team.db\n")
	assert.Contains(t, string(data), "node_modules\n")
	assert.Contains(t, out, ".team/team.db added to .gitignore")
}

func TestInit_GitignoreAlreadyHasEntry(t *testing.T) {
	dir := inTempDir(t)
	original := "node_modules\n.team/team.db\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(original), 0o644))

	out := runInit(t)

	data, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err)
	assert.Equal(t, original, string(data))
	assert.Contains(t, out, ".team/team.db already in .gitignore")
}

func TestInit_GitignoreWithoutTrailingNewline(t *testing.T) {
	dir := inTempDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitignore"), []byte("node_modules"), 0o644))

	runInit(t)

	data, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err)
	assert.Equal(t, "node_modules\n.team/team.db\n", string(data))
}

func TestInit_NoGitignoreExists(t *testing.T) {
	dir := inTempDir(t)
	out := runInit(t)

	data, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err)
	assert.Equal(t, ".team/team.db\n", string(data))
	assert.Contains(t, out, ".gitignore created")
	assert.Contains(t, out, ".team/team.db added to .gitignore")
}
