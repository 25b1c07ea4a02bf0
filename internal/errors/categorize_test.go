package errors

import (
	"context"
	stdErrors "errors"
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCategorize_TextRules(t *testing.T) {
	tests := []struct {
		name      string
		input     any
		category  Category
		code      Code
		retryable bool
	}{
		{"api key", stdErrors.New("Invalid API key provided"), CategoryAuthentication, CodeInvalidAPIKey, false},
		{"unauthorized string", "Unauthorized", CategoryAuthentication, CodeInvalidAPIKey, false},
		{"credentials", "invalid credentials", CategoryAuthentication, CodeInvalidAPIKey, false},
		{"rate limit", "Rate limit exceeded", CategoryRateLimit, CodeRateLimited, true},
		{"quota", "Monthly quota exhausted", CategoryRateLimit, CodeRateLimited, true},
		{"throttled", "request throttled", CategoryRateLimit, CodeRateLimited, true},
		{"econnrefused", "connect ECONNREFUSED 127.0.0.1:443", CategoryNetwork, CodeNetworkError, true},
		{"timeout", "request timed out", CategoryNetwork, CodeNetworkError, true},
		{"enotfound", "getaddrinfo ENOTFOUND api.v0.dev", CategoryNetwork, CodeDNSError, true},
		{"certificate", "self signed certificate in certificate chain", CategoryNetwork, CodeSSLError, true},
		{"validation failed", "Validation failed", CategoryValidation, CodeValidationError, false},
		{"field required", "field prompt is required", CategoryValidation, CodeValidationError, false},
		{"sdk init", "v0 client not initialized", CategoryServerError, CodeSDKInitialization, false},
		{"not a function", "v0.chats.create is not a function", CategoryServerError, CodeMethodNotFound, false},
		{"method not found", "method not found: deployments.list", CategoryServerError, CodeMethodNotFound, false},
		{"transformation", "failed to transform response", CategoryServerError, CodeTransformationError, false},
		{"chat not found", "Chat not found", CategoryNotFound, CodeChatNotFound, false},
		{"project missing", "Project does not exist", CategoryNotFound, CodeProjectNotFound, false},
		{"deployment 404", "deployment 404", CategoryNotFound, CodeDeploymentNotFound, false},
		{"webhook no such", "no such webhook", CategoryNotFound, CodeWebhookNotFound, false},
		{"generic not found", "Resource not found", CategoryNotFound, CodeNotFound, false},
		{"internal server error", "Internal Server Error", CategoryServerError, CodeServerError, true},
		{"status in text", "Request failed with status code 503", CategoryServerError, CodeServerError, true},
		{"bad gateway", "Bad Gateway", CategoryServerError, CodeServerError, true},
		{"unknown", "something odd happened", CategoryUnknown, CodeUnknownError, true},
		{"nil", nil, CategoryUnknown, CodeUnknownError, true},
		{"number", 42, CategoryUnknown, CodeUnknownError, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Categorize(tt.input)
			require.Equal(t, tt.category, got.Category)
			require.Equal(t, tt.code, got.Code)
			require.Equal(t, tt.retryable, got.Retryable)
		})
	}
}

func TestCategorize_RateLimitRetryAfter(t *testing.T) {
	got := Categorize(stdErrors.New("Rate limit exceeded. Retry after 120 seconds"))
	require.Equal(t, CodeRateLimited, got.Code)
	require.True(t, got.Retryable)
	require.Equal(t, 120, got.Metadata[KeyRetryAfter])

	require.Equal(t, 30, Categorize("Too many requests, please wait 30 seconds").Metadata[KeyRetryAfter])
	require.Equal(t, 15, Categorize(&StatusError{Status: 429, Message: "slow down; Retry-After: 15"}).Metadata[KeyRetryAfter])
	require.Equal(t, defaultRetryAfterSeconds, Categorize("quota exceeded").Metadata[KeyRetryAfter])
}

func TestCategorize_ValidationField(t *testing.T) {
	tests := []struct {
		input any
		field string
	}{
		{`Validation failed: field "prompt" is required`, "prompt"},
		{"missing parameter: chatId", "chatId"},
		{`invalid input: "system" is required`, "system"},
		{&StatusError{Status: 400, Message: "missing message"}, "message"},
	}
	for _, tt := range tests {
		got := Categorize(tt.input)
		require.Equal(t, CategoryValidation, got.Category, "%v", tt.input)
		require.Equal(t, tt.field, got.Metadata[KeyField], "%v", tt.input)
	}
	require.Nil(t, Categorize("Validation failed").Metadata)
}

func TestCategorize_TypeErrors(t *testing.T) {
	got := Categorize(&TypeError{Field: "prompt", Expected: "a string", Actual: "number"})
	require.Equal(t, CodeTypeError, got.Code)
	require.Equal(t, CategoryValidation, got.Category)
	require.False(t, got.Retryable)
	require.Equal(t, "prompt", got.Metadata[KeyField])

	wrapped := fmt.Errorf("decode arguments: %w", &TypeError{Field: "chatId", Expected: "a string", Actual: "bool"})
	require.Equal(t, CodeTypeError, Categorize(wrapped).Code)
}

func TestCategorize_GoNetworkTypes(t *testing.T) {
	dnsErr := &net.DNSError{Err: "server misbehaving", Name: "api.v0.dev"}
	require.Equal(t, CodeDNSError, Categorize(fmt.Errorf("post: %w", dnsErr)).Code)

	require.Equal(t, CodeNetworkError, Categorize(context.DeadlineExceeded).Code)

	opErr := &net.OpError{Op: "dial", Net: "tcp", Err: stdErrors.New("refused")}
	require.Equal(t, CodeNetworkError, Categorize(opErr).Code)
}

func TestCategorize_StatusPrecedence(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		category Category
		code     Code
	}{
		{"404 beats auth text", map[string]any{"status": 404, "message": "Unauthorized: invalid api key"}, CategoryNotFound, CodeNotFound},
		{"404 refined by resource", &StatusError{Status: 404, Message: "Unauthorized chat access"}, CategoryNotFound, CodeChatNotFound},
		{"401 beats not found text", &StatusError{Status: 401, Message: "Chat not found"}, CategoryAuthentication, CodeInvalidAPIKey},
		{"429", &StatusError{Status: 429, Message: "nope"}, CategoryRateLimit, CodeRateLimited},
		{"400", &StatusError{Status: 400, Message: "Rate limit"}, CategoryValidation, CodeValidationError},
		{"5xx", &StatusError{Status: 502, Message: "Chat not found"}, CategoryServerError, CodeServerError},
		{"unlisted status falls through to text", &StatusError{Status: 418, Message: "Chat not found"}, CategoryNotFound, CodeChatNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Categorize(tt.input)
			require.Equal(t, tt.category, got.Category)
			require.Equal(t, tt.code, got.Code)
			status, _ := StatusOf(tt.input)
			require.Equal(t, status, got.Metadata[KeyStatusCode])
		})
	}
}

func TestCategorize_Deterministic(t *testing.T) {
	inputs := []any{
		"Rate limit exceeded. Retry after 5 seconds",
		stdErrors.New("Chat not found"),
		map[string]any{"status": 500},
		nil,
	}
	for _, in := range inputs {
		a, b := Categorize(in), Categorize(in)
		require.Equal(t, a.Category, b.Category)
		require.Equal(t, a.Code, b.Code)
		require.Equal(t, a.Retryable, b.Retryable)
	}
}

func TestCategorize_ChatNotFoundScenario(t *testing.T) {
	got := Categorize("Chat not found")
	require.Equal(t, CodeChatNotFound, got.Code)
	require.Equal(t, CategoryNotFound, got.Category)
	require.False(t, got.Retryable)
	require.Equal(t, "chat", got.Metadata[KeyResourceType])
}
