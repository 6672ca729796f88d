package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/phrazzld/estate-api/internal/config"
)

// ParseLevel converts a configured level name into a slog.Level.
// The second return value is false when the name is not recognized,
// in which case slog.LevelInfo is returned.
func ParseLevel(name string) (slog.Level, bool) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// New creates a JSON logger writing to w at the given level.
func New(w io.Writer, levelName string) *slog.Logger {
	level, _ := ParseLevel(levelName)
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// Setup initializes and configures the application's logging system based on
// the provided configuration. It creates a structured JSON logger with the
// appropriate log level and sets it as the default logger for the application.
func Setup(cfg config.ServerConfig) (*slog.Logger, error) {
	if _, ok := ParseLevel(cfg.LogLevel); !ok {
		// The JSON logger does not exist yet, so warn on stderr with a text handler.
		tmpLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		tmpLogger.Warn("invalid log level configured, using default level",
			"configured_level", cfg.LogLevel,
			"default_level", "info")
	}

	logger := New(os.Stdout, cfg.LogLevel)

	// Set this logger as the default so slog.Info and friends share its handler.
	slog.SetDefault(logger)

	return logger, nil
}
