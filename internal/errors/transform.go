package errors

import (
	stdErrors "errors"
	"fmt"
	"strings"
	"time"
)

// now is replaced in tests.
var now = time.Now

// TransformError categorizes err and shapes it into the public envelope,
// injecting the context fields into Data. An McpError anywhere in err's
// chain is passed through, with its own data taking precedence over ctx.
func TransformError(err any, ctx Context) *McpError {
	if e, ok := err.(error); ok && !isNil(err) {
		var existing *McpError
		if stdErrors.As(e, &existing) && existing != nil {
			return &McpError{
				Code:    existing.Code,
				Message: existing.Message,
				Data:    ctx.Fields().Merge(existing.Data),
			}
		}
	}
	return FromCategorized(Categorize(err), ctx)
}

// TransformAPIError is the shortcut for callers that already know the HTTP
// status of a failed response.
func TransformAPIError(status int, message string, ctx Context) *McpError {
	return TransformError(&StatusError{Status: status, Message: message}, ctx)
}

// FromCategorized builds the envelope for an already classified failure.
func FromCategorized(c Categorized, ctx Context) *McpError {
	data := ctx.Fields()
	for k, v := range c.Metadata {
		data[k] = v
	}
	data[KeyRetryable] = c.Retryable
	data[KeyCategory] = c.Category
	if s, ok := suggestions[c.Code]; ok {
		data[KeySuggestion] = s
	}
	return &McpError{Code: c.Code, Message: c.Message, Data: data}
}

// FieldValidationError reports an invalid tool argument. suggestion may be empty.
func FieldValidationError(field, reason, suggestion string) *McpError {
	data := Fields{
		KeyRetryable: false,
		KeyCategory:  CategoryValidation,
		KeyField:     field,
		KeyReason:    reason,
	}
	if suggestion != "" {
		data[KeySuggestion] = suggestion
	}
	return &McpError{
		Code:    CodeValidationError,
		Message: fmt.Sprintf("Invalid %s: %s", field, reason),
		Data:    data,
	}
}

// ResourceNotFoundError reports a missing chat, project, deployment or
// webhook. Other resource types get the generic NOT_FOUND code.
func ResourceNotFoundError(resourceType, resourceID string) *McpError {
	code := CodeNotFound
	lower := strings.ToLower(strings.TrimSpace(resourceType))
	for _, rc := range resourceCodes {
		if lower == rc.keyword {
			code = rc.code
			break
		}
	}
	data := Fields{
		KeyRetryable:    false,
		KeyCategory:     CategoryNotFound,
		KeyResourceType: resourceType,
		KeyResourceID:   resourceID,
	}
	if s, ok := suggestions[code]; ok {
		data[KeySuggestion] = s
	}
	return &McpError{
		Code:    code,
		Message: fmt.Sprintf("%s with ID '%s' not found", resourceType, resourceID),
		Data:    data,
	}
}

// Enhance returns a copy of existing whose data is merged with extra and
// stamped with the current time.
func Enhance(existing *McpError, extra Fields) *McpError {
	if existing == nil {
		return nil
	}
	data := existing.Data.Merge(extra)
	data[KeyTimestamp] = now().UTC().Format(time.RFC3339Nano)
	return &McpError{Code: existing.Code, Message: existing.Message, Data: data}
}
