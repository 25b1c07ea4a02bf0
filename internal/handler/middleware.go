package handler

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	verrors "github.com/BenAHammond/v0-mcp-server-sub001/internal/errors"
)

const (
	defaultMessage         = "An unexpected error occurred"
	defaultOriginalMessage = "Unknown error"
)

// now is replaced in tests.
var now = time.Now

// TimestampMiddleware stamps ctx.Timestamp with the current time.
func TimestampMiddleware(err any, ctx verrors.Context, next Handler) *verrors.McpError {
	ctx.Timestamp = now()
	return next(err, ctx)
}

// RequestIDMiddleware assigns a request id unless the caller supplied one.
func RequestIDMiddleware(err any, ctx verrors.Context, next Handler) *verrors.McpError {
	if ctx.RequestID == "" {
		ctx.RequestID = NewRequestID()
	}
	return next(err, ctx)
}

// NormalizeErrorMiddleware coerces non-error values into an error, keeping
// any explicit status, before delegating.
func NormalizeErrorMiddleware(err any, ctx verrors.Context, next Handler) *verrors.McpError {
	return next(verrors.Normalize(err), ctx)
}

// NewRequestID returns an id of the form req_{epochMillis}_{random}.
func NewRequestID() string {
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("req_%d_%s", now().UnixMilli(), random)
}

// DefaultHandler handles every input with UNKNOWN_ERROR, recording the
// original message in data.originalMessage. Behind StandardPipeline the input
// is already normalized, so values without a message report
// errors.UnknownMessage there instead of "Unknown error".
func DefaultHandler() Handler {
	return func(err any, ctx verrors.Context) *verrors.McpError {
		data := ctx.Fields()
		data[verrors.KeyOriginalMessage] = originalMessage(err)
		data[verrors.KeyRetryable] = true
		data[verrors.KeyCategory] = verrors.CategoryUnknown
		return &verrors.McpError{Code: verrors.CodeUnknownError, Message: defaultMessage, Data: data}
	}
}

func originalMessage(err any) string {
	switch v := err.(type) {
	case error:
		if v != nil {
			return verrors.ExtractMessage(v)
		}
	case string:
		return v
	case map[string]any:
		if msg, ok := v["message"].(string); ok {
			return msg
		}
	}
	return defaultOriginalMessage
}

// StandardMiddleware is the timestamp, request id and normalization stack.
func StandardMiddleware() []Middleware {
	return []Middleware{TimestampMiddleware, RequestIDMiddleware, NormalizeErrorMiddleware}
}

// StandardPipeline wraps h in the standard middleware stack.
func StandardPipeline(h Handler) Handler {
	return ComposeMiddleware(StandardMiddleware(), h)
}

// PrioritizedSystem composes handlers by priority with DefaultHandler as the
// final fallback, so the result is never nil.
func PrioritizedSystem(handlers []Prioritized) Handler {
	return WithFallback(ComposePrioritized(handlers), DefaultHandler())
}
