package app

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casekit/caseflow/internal/config"
)

func TestNewLogger_SetsDefault(t *testing.T) {
	logger := NewLogger(config.LogConfig{Level: "info", Format: "json"})
	require.NotNil(t, logger)
	assert.Equal(t, logger.Handler(), slog.Default().Handler())
}

func TestNewLogger_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, config.LogConfig{Level: "info", Format: "json"})
	logger.Info("hello", "case_id", "abc")

	var m map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &m))
	assert.Equal(t, "hello", m["msg"])
	assert.Equal(t, "abc", m["case_id"])
	assert.NotContains(t, m, "source", "json format omits source locations")
}

func TestNewLogger_TextIncludesSource(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, config.LogConfig{Level: "info", Format: "text"})
	logger.Info("hello")

	assert.Contains(t, buf.String(), "source=")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run("level_"+tt.in, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(&buf, config.LogConfig{Level: tt.in, Format: "json"})

			logger.Log(context.TODO(), tt.want, "at level")
			assert.NotZero(t, buf.Len(), "expected output at level %v", tt.want)

			buf.Reset()
			logger.Log(context.TODO(), tt.want-1, "below level")
			assert.Zero(t, buf.Len(), "level below %v should be suppressed: %s", tt.want, buf.String())
		})
	}
}
