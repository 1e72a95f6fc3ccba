package logger

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/ryan-gang/kindle-sendto/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"Warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"ERROR":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "warn")

	log.Info("hidden")
	log.Debugf("hidden %d", 1)
	log.Warnf("staged %d files", 2)
	log.Error("boom", 42)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "staged 2 files")
	assert.Contains(t, out, "boom 42")
}

func TestWithAddsAttributes(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "info").With("request_id", "abc")
	log.Info("accepted")
	assert.Contains(t, buf.String(), "request_id=abc")
	assert.NoError(t, log.Close())
}

func TestNewLoggerWritesFile(t *testing.T) {
	cfg := config.NewConfig()
	cfg.LogPath = filepath.Join(t.TempDir(), "logs", "kindle-send.log")

	log, err := NewLogger(config.NewConfigProvider(cfg))
	require.NoError(t, err)
	log.Info("hello file")
	require.NoError(t, log.Close())

	assert.FileExists(t, cfg.LogPath)
}
