// Package logfields holds canonical slog attribute names shared by the
// handler pipeline, the tool service and the CLI.
package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyOperation  = "operation"
	KeyTool       = "tool"
	KeyCode       = "code"
	KeyCategory   = "category"
	KeyRetryable  = "retryable"
	KeyRetryAfter = "retry_after_s"
	KeyRequestID  = "request_id"
	KeyChatID     = "chat_id"
	KeyProjectID  = "project_id"
	KeyAttempt    = "attempt"
	KeyHandled    = "handled"
	KeyDurationMS = "duration_ms"
	KeySubject    = "subject"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Operation(op string) slog.Attr   { return slog.String(KeyOperation, op) }
func Tool(name string) slog.Attr      { return slog.String(KeyTool, name) }
func Code(code string) slog.Attr      { return slog.String(KeyCode, code) }
func Category(c string) slog.Attr     { return slog.String(KeyCategory, c) }
func Retryable(r bool) slog.Attr      { return slog.Bool(KeyRetryable, r) }
func RetryAfter(s int) slog.Attr      { return slog.Int(KeyRetryAfter, s) }
func RequestID(id string) slog.Attr   { return slog.String(KeyRequestID, id) }
func ChatID(id string) slog.Attr      { return slog.String(KeyChatID, id) }
func ProjectID(id string) slog.Attr   { return slog.String(KeyProjectID, id) }
func Attempt(n int) slog.Attr         { return slog.Int(KeyAttempt, n) }
func Handled(h bool) slog.Attr        { return slog.Bool(KeyHandled, h) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Subject(s string) slog.Attr      { return slog.String(KeySubject, s) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
