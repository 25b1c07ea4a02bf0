package handler

import (
	"log/slog"

	verrors "github.com/BenAHammond/v0-mcp-server-sub001/internal/errors"
	"github.com/BenAHammond/v0-mcp-server-sub001/internal/metrics"
)

// Options configures New.
type Options struct {
	Logger   *slog.Logger
	Recorder metrics.Recorder
	// Cache memoizes classification by ErrorKey, keeping at most
	// DefaultCacheLimit keys. Context fields are merged per call so cached
	// results never leak another request's context.
	Cache bool
	// Handlers run before the categorizer, highest priority first.
	Handlers []Prioritized
	// Retry re-invokes Handlers while they return retryable results. The
	// zero value disables it.
	Retry RetryOptions
}

// New builds the pipeline used by tool execution: standard middleware,
// logging, metrics, optional custom handlers, then the categorizer with
// DefaultHandler as the last resort. The result is never nil.
func New(opts Options) Handler {
	recorder := opts.Recorder
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}

	classify := Transform()
	if opts.Cache {
		stripped := WithContext(func(verrors.Context) verrors.Context { return verrors.Context{} }, classify)
		classify = withContextFields(NewBoundedCache(DefaultCacheLimit, recorder).Wrap(stripped, ErrorKey))
	}

	core := classify
	if len(opts.Handlers) > 0 {
		custom := ComposePrioritized(opts.Handlers)
		if opts.Retry.MaxAttempts > 1 {
			custom = WithRetry(custom, countRetries(opts.Retry, recorder))
		}
		core = WithFallback(custom, classify)
	}
	core = WithFallback(core, DefaultHandler())
	core = WithMetrics(recorder, core)
	core = WithLogging(SlogLogger(opts.Logger), core)
	return StandardPipeline(core)
}

// withContextFields overlays the call's context onto h's result data.
func withContextFields(h Handler) Handler {
	return func(err any, ctx verrors.Context) *verrors.McpError {
		res := h(err, ctx)
		if res == nil {
			return nil
		}
		return &verrors.McpError{Code: res.Code, Message: res.Message, Data: ctx.Fields().Merge(res.Data)}
	}
}

func countRetries(opts RetryOptions, recorder metrics.Recorder) RetryOptions {
	onRetry := opts.OnRetry
	opts.OnRetry = func(res *verrors.McpError, attempt int) {
		op, _ := res.Data.GetString(verrors.KeyOperation)
		recorder.IncHandlerRetry(op)
		if onRetry != nil {
			onRetry(res, attempt)
		}
	}
	return opts
}
