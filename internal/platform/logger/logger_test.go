package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/phrazzld/estate-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  slog.Level
		ok    bool
	}{
		{"debug", "debug", slog.LevelDebug, true},
		{"upper case", "WARN", slog.LevelWarn, true},
		{"error", "error", slog.LevelError, true},
		{"unknown falls back to info", "loud", slog.LevelInfo, false},
		{"empty falls back to info", "", slog.LevelInfo, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := logger.ParseLevel(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestNewWritesJSONAtLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := logger.New(&buf, "warn")

	l.Info("dropped")
	l.Warn("kept", "property_id", "abc")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "kept", entry["msg"])
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "abc", entry["property_id"])
}

func TestContextRoundTrip(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := logger.New(&buf, "debug").With("trace_id", "t-1")
	ctx := logger.WithLogger(context.Background(), l)

	assert.Same(t, l, logger.FromContext(ctx))

	fallback := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	assert.Same(t, fallback, logger.FromContextOrDefault(context.Background(), fallback))
	assert.Same(t, l, logger.FromContextOrDefault(ctx, fallback))
}
