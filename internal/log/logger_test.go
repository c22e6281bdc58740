package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("loud"))
}

func TestInit_ConsoleFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := Init(Options{Level: "warn", Writer: &buf})

	l.Info("hidden")
	l.Warn("shown", "entry", 2)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "entry=2")
	assert.Contains(t, out, "app=team")
}

func TestInit_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Format: "json", Writer: &buf})

	WithComponent("store").Info("saved", "members", 6)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "saved", rec["msg"])
	assert.Equal(t, "store", rec["component"])
	assert.Equal(t, float64(6), rec["members"])
}

func TestInit_FileSink(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "team.log")
	l := Init(Options{Writer: &buf, File: path})

	l.Info("to both")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `"msg":"to both"`))
	assert.Contains(t, buf.String(), "to both")
}

func TestL_ReturnsInstalledLogger(t *testing.T) {
	var buf bytes.Buffer
	installed := Init(Options{Writer: &buf})
	assert.Same(t, installed, L())
}
