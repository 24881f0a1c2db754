package cli

import (
	"context"
	"io"
	"log/slog"
	"time"
)

func newLogger(w io.Writer, lvl slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

// timeIt runs fn and logs its duration at info level.
func timeIt[T any](logger *slog.Logger, msg string, fn func() (T, error), args ...any) (T, error) {
	start := time.Now()
	ret, err := fn()
	if logger != nil && logger.Enabled(context.Background(), slog.LevelInfo) {
		logger.Info(msg, append([]any{"duration", time.Since(start)}, args...)...)
	}
	return ret, err
}
