package handler

import (
	verrors "github.com/BenAHammond/v0-mcp-server-sub001/internal/errors"
	"github.com/BenAHammond/v0-mcp-server-sub001/internal/metrics"
)

// WithMetrics counts h's results by code and category, and declines by operation.
func WithMetrics(recorder metrics.Recorder, h Handler) Handler {
	if recorder == nil {
		return h
	}
	return func(err any, ctx verrors.Context) *verrors.McpError {
		res := h(err, ctx)
		if res == nil {
			recorder.IncUnhandled(ctx.Operation)
			return nil
		}
		recorder.IncNormalizedError(string(res.Code), string(res.Category()))
		return res
	}
}
