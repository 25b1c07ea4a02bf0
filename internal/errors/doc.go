// Package errors classifies arbitrary failures raised while talking to the
// v0.dev API and shapes them into the normalized McpError envelope returned to
// MCP clients.
//
// The package is total: every exported function returns a value for any
// input, including nil, and never panics on unexpected shapes.
//
// Key pieces:
//   - ExtractMessage: best-effort human-readable message from any value
//   - Categorize: ordered rule battery producing a Categorized record
//   - TransformError / TransformAPIError: Categorized -> McpError
//   - FieldValidationError / ResourceNotFoundError / Enhance: builders
//   - MapErrorToMcp / ChainErrorTransform: lift into foundation.Result
//
// Example usage:
//
//	chat, err := client.CreateChat(ctx, req)
//	if err != nil {
//		return errors.TransformError(err, errors.Context{Operation: "generate_component"})
//	}
package errors
