package log

import (
	"log/slog"
	"os"
	"strings"
)

// Setup builds a text slog logger tagged with the component name and
// installs it as the process default. Level comes from LOG_LEVEL
// (debug|info|warn|error), defaulting to info.
func Setup(component string) *slog.Logger {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: levelFromEnv(),
	})).With("component", component)
	slog.SetDefault(logger)
	return logger
}

func levelFromEnv() slog.Level {
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
