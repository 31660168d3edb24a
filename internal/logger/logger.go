package logger

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Log level names accepted by NewLogger and the config layer
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// Logger is the logging contract every layer depends on
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)

	With(args ...any) Logger
	WithGroup(name string) Logger
}

// NewLogger creates a text logger writing to stdout
func NewLogger(level string) Logger {
	h := slog.NewTextHandler(os.Stdout, handlerOpts(level))
	return &slogAdapter{logger: slog.New(h)}
}

// NewJSONLogger creates a JSON logger writing to stdout
func NewJSONLogger(level string) Logger {
	h := slog.NewJSONHandler(os.Stdout, handlerOpts(level))
	return &slogAdapter{logger: slog.New(h)}
}

// NewNoOpLogger creates a logger that discards everything
func NewNoOpLogger() Logger {
	return &slogAdapter{logger: slog.New(slog.DiscardHandler)}
}

func handlerOpts(level string) *slog.HandlerOptions {
	return &slog.HandlerOptions{
		Level:       parseLevelString(level),
		AddSource:   true,
		ReplaceAttr: trimSourceDir,
	}
}

// parseLevelString maps a level name to slog.Level, unknown names mean info
func parseLevelString(level string) slog.Level {
	switch strings.ToLower(level) {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// trimSourceDir keeps only the file name in the source attribute
func trimSourceDir(groups []string, a slog.Attr) slog.Attr {
	if a.Key == slog.SourceKey {
		source := a.Value.Any().(*slog.Source)
		source.File = filepath.Base(source.File)
	}

	return a
}
