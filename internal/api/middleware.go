package api

import (
	"log/slog"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/amplifier/internal/logging"
)

// requestLogLevel picks the level for a finished request. Dashboards poll the
// status routes every few seconds, so successful reads only show at debug.
func requestLogLevel(status int) slog.Level {
	switch {
	case status >= 500:
		return slog.LevelError
	case status >= 400:
		return slog.LevelWarn
	default:
		return slog.LevelDebug
	}
}

// requestLogger logs each request once it has been served.
func requestLogger(ctx huma.Context, next func(huma.Context)) {
	start := time.Now()
	next(ctx)

	logger := logging.GetLogger("api")
	status := ctx.Status()
	attrs := []slog.Attr{
		slog.String("method", ctx.Method()),
		slog.String("path", ctx.URL().Path),
		slog.String("remote_addr", ctx.RemoteAddr()),
		slog.Int("status", status),
		slog.Duration("duration", time.Since(start)),
	}
	if op := ctx.Operation(); op != nil {
		attrs = append(attrs, slog.String("operation", op.OperationID))
	}
	logger.LogAttrs(ctx.Context(), requestLogLevel(status), "HTTP request completed", attrs...)
}
