// Package handler is a small combinator library over error handlers.
//
// A Handler maps a raw failure plus its Context to a normalized McpError, or
// to nil meaning "not handled" so the next handler in a chain gets a turn.
// Combinators build new handlers from existing ones:
//
//	Compose, ComposePrioritized        first non-nil result wins
//	ComposeMiddleware                  onion-ordered interceptors
//	When, ForErrorType, ForPattern,
//	ForHTTPStatus                      opt-in guards
//	MapError, WithContext              rewrite inputs before delegating
//	WithFallback, WithRetry            control flow
//	WithLogging, WithMetrics, WithCache side channels
//
// Combinators never recover panics. A handler that panics is a defect and
// the panic propagates to the caller unchanged.
//
// The pipeline used by the tool service is built once:
//
//	h := handler.New(handler.Options{Logger: logger, Recorder: recorder})
//	mcpErr := h(err, errors.Context{Operation: "generate_component"})
package handler
