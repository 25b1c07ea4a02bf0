package handler

import (
	stdErrors "errors"
	"fmt"
	"regexp"
	"sort"

	verrors "github.com/BenAHammond/v0-mcp-server-sub001/internal/errors"
)

// Handler normalizes err, or returns nil when it does not handle it.
type Handler func(err any, ctx verrors.Context) *verrors.McpError

// Middleware wraps the next link of a chain. It may rewrite err or ctx
// before delegating, or return without calling next.
type Middleware func(err any, ctx verrors.Context, next Handler) *verrors.McpError

// Prioritized pairs a handler with its priority; higher runs first.
type Prioritized struct {
	Priority int
	Handler  Handler
	Name     string
}

// Compose tries each handler in order and returns the first non-nil result.
// It returns nil when every handler declines.
func Compose(handlers ...Handler) Handler {
	return func(err any, ctx verrors.Context) *verrors.McpError {
		for _, h := range handlers {
			if res := h(err, ctx); res != nil {
				return res
			}
		}
		return nil
	}
}

// ComposePrioritized orders handlers by descending priority, keeping the
// original order for ties, then composes them.
func ComposePrioritized(handlers []Prioritized) Handler {
	sorted := make([]Prioritized, len(handlers))
	copy(sorted, handlers)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority > sorted[j].Priority
	})
	fns := make([]Handler, len(sorted))
	for i, p := range sorted {
		fns[i] = p.Handler
	}
	return Compose(fns...)
}

// ComposeMiddleware nests middlewares around final so that middlewares[0]
// is outermost: "before" code runs 0..N-1, final runs once, then "after"
// code runs N-1..0.
func ComposeMiddleware(middlewares []Middleware, final Handler) Handler {
	h := final
	for i := len(middlewares) - 1; i >= 0; i-- {
		mw, next := middlewares[i], h
		h = func(err any, ctx verrors.Context) *verrors.McpError {
			return mw(err, ctx, next)
		}
	}
	return h
}

// When invokes h only if predicate holds, and declines otherwise.
func When(predicate func(err any, ctx verrors.Context) bool, h Handler) Handler {
	return func(err any, ctx verrors.Context) *verrors.McpError {
		if !predicate(err, ctx) {
			return nil
		}
		return h(err, ctx)
	}
}

// MapError rewrites the raw error before delegating.
func MapError(transform func(err any) any, h Handler) Handler {
	return func(err any, ctx verrors.Context) *verrors.McpError {
		return h(transform(err), ctx)
	}
}

// WithContext derives a new context before delegating. fn receives a copy,
// so the caller's context is never modified.
func WithContext(fn func(verrors.Context) verrors.Context, h Handler) Handler {
	return func(err any, ctx verrors.Context) *verrors.McpError {
		return h(err, fn(ctx))
	}
}

// WithFallback returns primary's result unless it declines.
func WithFallback(primary, fallback Handler) Handler {
	return func(err any, ctx verrors.Context) *verrors.McpError {
		if res := primary(err, ctx); res != nil {
			return res
		}
		return fallback(err, ctx)
	}
}

// ForErrorType handles only errors whose chain contains a T.
func ForErrorType[T error](h Handler) Handler {
	return When(func(err any, _ verrors.Context) bool {
		e, ok := err.(error)
		if !ok || e == nil {
			return false
		}
		var target T
		return stdErrors.As(e, &target)
	}, h)
}

// ForPattern handles errors whose extracted message matches re. extract,
// if non-nil, builds the result data from the submatches.
func ForPattern(re *regexp.Regexp, code verrors.Code, message string, extract func(match []string) verrors.Fields) Handler {
	return func(err any, _ verrors.Context) *verrors.McpError {
		match := re.FindStringSubmatch(verrors.ExtractMessage(err))
		if match == nil {
			return nil
		}
		var data verrors.Fields
		if extract != nil {
			data = extract(match)
		}
		return &verrors.McpError{Code: code, Message: message, Data: data}
	}
}

// ForHTTPStatus handles errors carrying status either as an explicit field
// or as a standalone number in the message. Results are retryable for 5xx.
func ForHTTPStatus(status int, code verrors.Code, message string) Handler {
	re := regexp.MustCompile(fmt.Sprintf(`\b%d\b`, status))
	return func(err any, _ verrors.Context) *verrors.McpError {
		got, ok := verrors.StatusOf(err)
		if ok && got != status {
			return nil
		}
		if !ok && !re.MatchString(verrors.ExtractMessage(err)) {
			return nil
		}
		return &verrors.McpError{
			Code:    code,
			Message: message,
			Data: verrors.Fields{
				verrors.KeyRetryable:  status >= 500,
				verrors.KeyStatusCode: status,
			},
		}
	}
}

// Transform is the terminal categorizer: it always handles err.
func Transform() Handler {
	return func(err any, ctx verrors.Context) *verrors.McpError {
		return verrors.TransformError(err, ctx)
	}
}
