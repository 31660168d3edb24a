package logger

import (
	"context"
	"log/slog"
	"runtime"
	"time"
)

// slogAdapter wraps *slog.Logger behind the Logger interface
type slogAdapter struct {
	logger *slog.Logger
}

// log emits a record with the caller of the public method as the source.
// The extra frame of the adapter itself is skipped.
func (l *slogAdapter) log(level slog.Level, msg string, args ...any) {
	if !l.logger.Enabled(context.Background(), level) {
		return
	}

	var pcs [1]uintptr
	runtime.Callers(3, pcs[:])

	record := slog.NewRecord(time.Now(), level, msg, pcs[0])
	record.Add(args...)
	_ = l.logger.Handler().Handle(context.Background(), record)
}

func (l *slogAdapter) Debug(msg string, args ...any) {
	l.log(slog.LevelDebug, msg, args...)
}

func (l *slogAdapter) Info(msg string, args ...any) {
	l.log(slog.LevelInfo, msg, args...)
}

func (l *slogAdapter) Warn(msg string, args ...any) {
	l.log(slog.LevelWarn, msg, args...)
}

func (l *slogAdapter) Error(msg string, args ...any) {
	l.log(slog.LevelError, msg, args...)
}

func (l *slogAdapter) With(args ...any) Logger {
	return &slogAdapter{logger: l.logger.With(args...)}
}

func (l *slogAdapter) WithGroup(name string) Logger {
	return &slogAdapter{logger: l.logger.WithGroup(name)}
}
