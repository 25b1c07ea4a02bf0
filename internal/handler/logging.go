package handler

import (
	"context"
	"log/slog"

	verrors "github.com/BenAHammond/v0-mcp-server-sub001/internal/errors"
	"github.com/BenAHammond/v0-mcp-server-sub001/internal/logfields"
)

// LogFunc observes a handled (or declined, result == nil) error.
type LogFunc func(err any, ctx verrors.Context, result *verrors.McpError)

// WithLogging calls logFn after h and returns h's result unchanged.
func WithLogging(logFn LogFunc, h Handler) Handler {
	return func(err any, ctx verrors.Context) *verrors.McpError {
		res := h(err, ctx)
		logFn(err, ctx, res)
		return res
	}
}

// SlogLogger adapts a slog logger: declined errors log at debug, retryable
// results at warn and everything else at error.
func SlogLogger(logger *slog.Logger) LogFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(err any, ctx verrors.Context, res *verrors.McpError) {
		attrs := []slog.Attr{logfields.Operation(ctx.Operation)}
		if ctx.RequestID != "" {
			attrs = append(attrs, logfields.RequestID(ctx.RequestID))
		}
		if ctx.ToolName != "" {
			attrs = append(attrs, logfields.Tool(ctx.ToolName))
		}
		if ctx.ChatID != "" {
			attrs = append(attrs, logfields.ChatID(ctx.ChatID))
		}
		if res == nil {
			attrs = append(attrs, logfields.Handled(false))
			logger.LogAttrs(context.Background(), slog.LevelDebug, verrors.ExtractMessage(err), attrs...)
			return
		}

		attrs = append(attrs,
			logfields.Code(string(res.Code)),
			logfields.Category(string(res.Category())),
			logfields.Retryable(res.Retryable()))
		if ra, ok := res.RetryAfter(); ok {
			attrs = append(attrs, logfields.RetryAfter(ra))
		}
		level := slog.LevelError
		if res.Retryable() {
			level = slog.LevelWarn
		}
		logger.LogAttrs(context.Background(), level, res.Message, attrs...)
	}
}
