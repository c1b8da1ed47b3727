package log

import (
	"context"
	"log/slog"
	"os"
)

var (
	defaultLogLevel slog.LevelVar
	defaultLogger   = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: true,
		Level:     &defaultLogLevel,
	}))
)

func init() {
	defaultLogLevel.Set(slog.LevelInfo)
}

type contextKey struct{}

var loggerKey = contextKey{}

// Ctx returns the logger from the context. If no logger is found, it returns the default logger.
func Ctx(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return l
	}
	return defaultLogger
}

// With returns a new context with the given logger.
func With(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// WithBuilding returns a context whose logger carries the run and building
// attributes, so every stage of a building simulation logs with them.
func WithBuilding(ctx context.Context, runID, buildingID string) context.Context {
	return With(ctx, Ctx(ctx).With(
		slog.String("runID", runID),
		slog.String("buildingID", buildingID),
	))
}

func SetDefaultLogLevel(level slog.Level) {
	defaultLogLevel.Set(level)
}
