package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chriserin/team/internal/config"
	"github.com/chriserin/team/internal/parser"
)

func writeConfig(dir, content string) error {
	return os.WriteFile(filepath.Join(dir, config.FileName), []byte(content), 0o644)
}

func runShow(t *testing.T, format string) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, RunShow(context.Background(), &buf, format))
	return buf.String()
}

func TestShow_RequiresInit(t *testing.T) {
	inTempDir(t)

	var buf bytes.Buffer
	err := RunShow(context.Background(), &buf, "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "run `team init` first")
}

func TestShow_NothingSaved(t *testing.T) {
	inTempDir(t)
	runInit(t)
	t.Setenv(config.EnvLoadAttempts, "1")

	var buf bytes.Buffer
	err := RunShow(context.Background(), &buf, "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no team saved in broadcaster")
}

func TestShow_RetriesUntilTeamIsSaved(t *testing.T) {
	inTempDir(t)
	runInit(t)
	require.NoError(t, writeConfig(".team", "load:\n  max_attempts: 50\n  retry_delay_ms: 20\n"))

	done := make(chan struct{})
	var out bytes.Buffer
	var showErr error
	go func() {
		defer close(done)
		showErr = RunShow(context.Background(), &out, "")
	}()

	runSave(t, "Pikachu")
	<-done

	require.NoError(t, showErr)
	assert.Contains(t, out.String(), "Pikachu")
}

func TestShow_RendersSavedTeam(t *testing.T) {
	inTempDir(t)
	runInit(t)
	runSave(t, sampleTeam)

	out := runShow(t, "")

	assert.Contains(t, out, "Sparky (M)")
	assert.Contains(t, out, "Light Ball")
	assert.Contains(t, out, "Ability: Static")
	assert.Contains(t, out, "Garchomp")
	assert.Contains(t, out, "- Earthquake")
}

func TestShow_LatestSaveWins(t *testing.T) {
	inTempDir(t)
	runInit(t)
	runSave(t, "Pikachu")
	runSave(t, "Garchomp")

	out := runShow(t, "")

	assert.Contains(t, out, "Garchomp")
	assert.NotContains(t, out, "Pikachu")
}

func TestShow_JSON(t *testing.T) {
	inTempDir(t)
	runInit(t)
	runSave(t, "Pikachu @ Light Ball\nAbility: Static")

	out := runShow(t, "json")

	assert.JSONEq(t, `[{"species":"Pikachu","gender":"","item":"Light Ball","ability":"Static"}]`, out)
}

func TestShow_Text(t *testing.T) {
	inTempDir(t)
	runInit(t)
	runSave(t, sampleTeam)

	out := runShow(t, "text")

	assert.Equal(t, sampleTeam, out)
	reparsed := parser.Parse(out)
	assert.Empty(t, reparsed.Errors)
	assert.Len(t, reparsed.Team, 2)
}

func TestShow_UnknownFormat(t *testing.T) {
	inTempDir(t)
	runInit(t)
	runSave(t, "Pikachu")

	var buf bytes.Buffer
	err := RunShow(context.Background(), &buf, "yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown format "yaml"`)
}
