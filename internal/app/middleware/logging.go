package middleware

import (
	"context"
	"log/slog"
	"time"

	"tahtam/internal/app/commands"
	"tahtam/internal/app/queries"
)

// Logging emits one structured line per dispatched command.
func Logging(logger *slog.Logger) CommandMiddleware {
	if logger == nil {
		panic("middleware: logger required")
	}
	return func(next commands.Bus) commands.Bus {
		nextFn := wrapCommand(next)
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			start := time.Now()
			res, err := nextFn(ctx, cmd)
			attrs := []any{"command", cmd.Key(), "took", time.Since(start)}
			if err != nil {
				logger.Warn("command failed", append(attrs, "error", err)...)
				return nil, err
			}
			logger.Info("command handled", attrs...)
			return res, nil
		})
	}
}

// QueryLogging emits one structured line per query.
func QueryLogging(logger *slog.Logger) QueryMiddleware {
	if logger == nil {
		panic("middleware: logger required")
	}
	return func(next queries.Bus) queries.Bus {
		nextFn := wrapQuery(next)
		return queryFunc(func(ctx context.Context, q queries.Query) (any, error) {
			start := time.Now()
			res, err := nextFn(ctx, q)
			if err != nil {
				logger.Warn("query failed", "query", q.Key(), "took", time.Since(start), "error", err)
				return nil, err
			}
			logger.Debug("query handled", "query", q.Key(), "took", time.Since(start))
			return res, nil
		})
	}
}
