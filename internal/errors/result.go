package errors

import "github.com/BenAHammond/v0-mcp-server-sub001/internal/foundation"

// MapErrorToMcp normalizes the failure side of r; successes pass through.
func MapErrorToMcp[T any](r foundation.Result[T, error], ctx Context) foundation.Result[T, *McpError] {
	return foundation.MapErr(r, func(err error) *McpError {
		return TransformError(err, ctx)
	})
}

// ChainErrorTransform runs next on the success value of r and normalizes a
// failure it returns. An existing failure in r short-circuits next.
func ChainErrorTransform[T, U any](r foundation.Result[T, *McpError], ctx Context, next func(T) foundation.Result[U, error]) foundation.Result[U, *McpError] {
	return foundation.FlatMap(r, func(v T) foundation.Result[U, *McpError] {
		return MapErrorToMcp(next(v), ctx)
	})
}
