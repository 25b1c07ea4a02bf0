package errors

import "fmt"

// McpError is the normalized error envelope returned to MCP clients.
// Values are treated as immutable once built; use Enhance or Clone to derive
// modified copies.
type McpError struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Data    Fields `json:"data,omitempty"`
}

// Error implements the error interface.
func (e *McpError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Retryable reports data.retryable == true.
func (e *McpError) Retryable() bool {
	if e == nil {
		return false
	}
	b, ok := e.Data[KeyRetryable].(bool)
	return ok && b
}

// Category returns data.category, or CategoryUnknown when absent.
func (e *McpError) Category() Category {
	if e == nil {
		return CategoryUnknown
	}
	switch c := e.Data[KeyCategory].(type) {
	case Category:
		return c
	case string:
		return Category(c)
	}
	return CategoryUnknown
}

// RetryAfter returns data.retryAfter in seconds.
func (e *McpError) RetryAfter() (int, bool) {
	if e == nil {
		return 0, false
	}
	return numberOf(e.Data[KeyRetryAfter])
}

// Clone returns a copy whose Data can be modified independently.
func (e *McpError) Clone() *McpError {
	if e == nil {
		return nil
	}
	return &McpError{Code: e.Code, Message: e.Message, Data: e.Data.Clone()}
}
