package logging

import (
	"log/slog"
	"os"
	"strings"
)

// LevelFromEnv maps LOG_LEVEL (debug|info|warn|error, case-insensitive) to a
// slog.Level, defaulting to info. Every handler in the process is built from
// this one value so stdout and the DB sink never disagree on verbosity.
func LevelFromEnv() slog.Level {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Setup initializes the global slog logger with JSON output to stdout at the
// LOG_LEVEL-selected level.
func Setup() {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: LevelFromEnv(),
	})
	slog.SetDefault(slog.New(handler))
}
