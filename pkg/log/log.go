// Package log carries a structured logger through request and collection
// contexts.
package log

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/levenlabs/go-llog"
)

var (
	level         slog.LevelVar
	defaultLogger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: true,
		Level:     &level,
	}))
)

func init() {
	level.Set(slog.LevelInfo)
}

type contextKey struct{}

var loggerKey = contextKey{}

// Ctx returns the logger stored in ctx, or the default logger.
func Ctx(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return l
	}
	return defaultLogger
}

// With returns a copy of ctx carrying logger.
func With(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// WithAttrs returns a copy of ctx whose logger has the given attributes
// added.
func WithAttrs(ctx context.Context, attrs ...any) context.Context {
	return With(ctx, Ctx(ctx).With(attrs...))
}

// Default is the process-wide logger.
func Default() *slog.Logger {
	return defaultLogger
}

func SetDefaultLogLevel(l slog.Level) {
	level.Set(l)
}

// SyncLevel copies the level parsed by lflag into the slog handler. lflag
// only knows how to set llog's level.
func SyncLevel() (slog.Level, error) {
	var l slog.Level
	switch llog.GetLevel() {
	case llog.DebugLevel:
		l = slog.LevelDebug
	case llog.InfoLevel:
		l = slog.LevelInfo
	case llog.WarnLevel:
		l = slog.LevelWarn
	case llog.ErrorLevel:
		l = slog.LevelError
	default:
		return level.Level(), fmt.Errorf("unknown log level: %s", llog.GetLevel().String())
	}
	level.Set(l)
	return l, nil
}
