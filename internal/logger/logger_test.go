package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iEmiya/ruaddress/config"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("whatever"))
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(config.LogConfig{Level: "warn", Format: "json"}, &buf)

	l.Info("dropped")
	l.Warn("record skipped", "code", "500000000000000")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "record skipped", entry["msg"])
	assert.Equal(t, "500000000000000", entry["code"])
}

func TestNewText(t *testing.T) {
	var buf bytes.Buffer
	l := New(config.LogConfig{Level: "debug", Format: "text"}, &buf)
	l.Debug("opened", "dir", "/tmp")
	assert.Contains(t, buf.String(), "msg=opened dir=/tmp")
}
