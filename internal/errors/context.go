package errors

import (
	"maps"
	"time"
)

// Context describes the operation during which an error was raised. It is a
// value type; helpers return modified copies and never touch the receiver.
type Context struct {
	Operation    string
	ChatID       string
	ProjectID    string
	DeploymentID string
	WebhookID    string
	ToolName     string
	RequestID    string
	Timestamp    time.Time
	Extra        Fields
}

// With returns a copy of c with key set in the extension bag.
func (c Context) With(key string, value any) Context {
	extra := make(Fields, len(c.Extra)+1)
	maps.Copy(extra, c.Extra)
	extra[key] = value
	c.Extra = extra
	return c
}

// Fields flattens the non-empty context values into a data bag using the
// envelope's camelCase keys. Extension values come first so typed fields win.
func (c Context) Fields() Fields {
	out := make(Fields, len(c.Extra)+8)
	maps.Copy(out, c.Extra)
	set := func(key, value string) {
		if value != "" {
			out[key] = value
		}
	}
	set(KeyOperation, c.Operation)
	set("chatId", c.ChatID)
	set("projectId", c.ProjectID)
	set("deploymentId", c.DeploymentID)
	set("webhookId", c.WebhookID)
	set("toolName", c.ToolName)
	set("requestId", c.RequestID)
	if !c.Timestamp.IsZero() {
		out[KeyTimestamp] = c.Timestamp.UTC().Format(time.RFC3339Nano)
	}
	return out
}
