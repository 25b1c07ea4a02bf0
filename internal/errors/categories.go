package errors

import "maps"

// Category is the coarse classification bucket driving the default retry policy.
type Category string

const (
	CategoryAuthentication Category = "AUTHENTICATION"
	CategoryRateLimit      Category = "RATE_LIMIT"
	CategoryNetwork        Category = "NETWORK"
	CategoryValidation     Category = "VALIDATION"
	CategoryNotFound       Category = "NOT_FOUND"
	CategoryServerError    Category = "SERVER_ERROR"
	CategoryUnknown        Category = "UNKNOWN"
)

// Code is the specific machine-readable error code exposed to MCP clients.
type Code string

const (
	CodeInvalidAPIKey       Code = "INVALID_API_KEY"
	CodeRateLimited         Code = "RATE_LIMITED"
	CodeNetworkError        Code = "NETWORK_ERROR"
	CodeDNSError            Code = "DNS_ERROR"
	CodeSSLError            Code = "SSL_ERROR"
	CodeValidationError     Code = "VALIDATION_ERROR"
	CodeTypeError           Code = "TYPE_ERROR"
	CodeNotFound            Code = "NOT_FOUND"
	CodeChatNotFound        Code = "CHAT_NOT_FOUND"
	CodeProjectNotFound     Code = "PROJECT_NOT_FOUND"
	CodeDeploymentNotFound  Code = "DEPLOYMENT_NOT_FOUND"
	CodeWebhookNotFound     Code = "WEBHOOK_NOT_FOUND"
	CodeServerError         Code = "V0_SERVER_ERROR"
	CodeUnknownError        Code = "UNKNOWN_ERROR"
	CodeSDKInitialization   Code = "SDK_INITIALIZATION_ERROR"
	CodeMethodNotFound      Code = "METHOD_NOT_FOUND"
	CodeTransformationError Code = "TRANSFORMATION_ERROR"
)

// Well-known keys of McpError.Data.
const (
	KeyRetryable       = "retryable"
	KeyCategory        = "category"
	KeyRetryAfter      = "retryAfter"
	KeySuggestion      = "suggestion"
	KeyStatusCode      = "statusCode"
	KeyOperation       = "operation"
	KeyField           = "field"
	KeyReason          = "reason"
	KeyResourceType    = "resourceType"
	KeyResourceID      = "resourceId"
	KeyOriginalMessage = "originalMessage"
	KeyTimestamp       = "timestamp"
)

// defaultRetryAfterSeconds is used when a rate-limit message carries no hint.
const defaultRetryAfterSeconds = 60

// Fields is the open data bag attached to errors and contexts.
type Fields map[string]any

// Clone returns a shallow copy; nil stays nil.
func (f Fields) Clone() Fields {
	if f == nil {
		return nil
	}
	return maps.Clone(f)
}

// Merge returns a new bag holding f overlaid with other.
func (f Fields) Merge(other Fields) Fields {
	out := make(Fields, len(f)+len(other))
	maps.Copy(out, f)
	maps.Copy(out, other)
	return out
}

// GetString retrieves a string value.
func (f Fields) GetString(key string) (string, bool) {
	if v, ok := f[key]; ok {
		if s, ok := v.(string); ok {
			return s, true
		}
	}
	return "", false
}

// resourceCodes maps resource keywords to their not-found codes, in scan order.
var resourceCodes = []struct {
	keyword string
	code    Code
}{
	{"chat", CodeChatNotFound},
	{"project", CodeProjectNotFound},
	{"deployment", CodeDeploymentNotFound},
	{"webhook", CodeWebhookNotFound},
}

// suggestions are attached by TransformError when the categorizer did not
// provide a more specific hint.
var suggestions = map[Code]string{
	CodeInvalidAPIKey:       "Check that V0_API_KEY is set to a valid v0.dev API key",
	CodeRateLimited:         "Wait before retrying; the v0 API rate limit was reached",
	CodeNetworkError:        "Check your network connection and try again",
	CodeDNSError:            "Could not resolve the v0 API host; check DNS settings",
	CodeSSLError:            "TLS handshake failed; check proxy and certificate settings",
	CodeValidationError:     "Check the tool arguments and try again",
	CodeTypeError:           "One of the tool arguments has the wrong type",
	CodeChatNotFound:        "Create a new component instead of iterating",
	CodeProjectNotFound:     "Verify the project ID or omit it to use the default project",
	CodeDeploymentNotFound:  "Verify the deployment ID",
	CodeWebhookNotFound:     "Verify the webhook ID",
	CodeServerError:         "The v0 service is having trouble; try again shortly",
	CodeSDKInitialization:   "The v0 client could not be initialized; check configuration",
	CodeMethodNotFound:      "The v0 client does not support this operation",
	CodeTransformationError: "The v0 API returned an unexpected response",
}
