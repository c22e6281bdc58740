package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chriserin/team/internal/db"
	"github.com/chriserin/team/internal/store"
)

func runSave(t *testing.T, text string) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, RunSave(context.Background(), &buf, text))
	return buf.String()
}

func TestSave_RequiresInit(t *testing.T) {
	inTempDir(t)

	var buf bytes.Buffer
	err := RunSave(context.Background(), &buf, sampleTeam)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "run `team init` first")
}

func TestSave_StoresTeam(t *testing.T) {
	inTempDir(t)
	runInit(t)

	out := runSave(t, sampleTeam)
	assert.Contains(t, out, "2 members saved to broadcaster")

	sqlDB, err := db.Open(".team/team.db")
	require.NoError(t, err)
	defer sqlDB.Close()

	cfg, err := store.NewSQLiteConfig(sqlDB).Get(context.Background(), "broadcaster")
	require.NoError(t, err)
	assert.Equal(t, "1", cfg.Version)
	assert.Contains(t, cfg.Content, `"nickname":"Sparky"`)
	assert.Contains(t, cfg.Content, `"species":"Garchomp"`)
}

func TestSave_PrintsDiagnosticsAndStillSaves(t *testing.T) {
	inTempDir(t)
	runInit(t)

	out := runSave(t, "Pikachu\nFoo: Bar")

	assert.Contains(t, out, `Entry 1: Unrecognized line: "Foo: Bar".`)
	assert.Contains(t, out, "1 member saved to broadcaster")
}

func TestSave_RefusesEmptyTeam(t *testing.T) {
	inTempDir(t)
	runInit(t)

	var buf bytes.Buffer
	err := RunSave(context.Background(), &buf, "(M)\n\n() @ Leftovers")

	require.ErrorIs(t, err, store.ErrEmptyTeam)
	assert.Contains(t, buf.String(), `Entry 1: No valid species found in: "(M)".`)
	assert.Contains(t, buf.String(), `Entry 2: No valid species found in: "() @ Leftovers".`)

	var hist bytes.Buffer
	require.NoError(t, RunHistory(context.Background(), &hist))
	assert.Contains(t, hist.String(), "no saved versions")
}

func TestSave_UsesConfiguredSegment(t *testing.T) {
	inTempDir(t)
	runInit(t)
	require.NoError(t, writeConfig(".team", "config_service:\n  segment: developer\n  version: \"2\"\n"))

	out := runSave(t, "Pikachu")
	assert.Contains(t, out, "1 member saved to developer")

	hist := runHistory(t)
	assert.Contains(t, hist, "v2")
}
