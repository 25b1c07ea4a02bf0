package errors

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	stdErrors "errors"
	"net"
	"strings"
)

// Categorized is the normalized classification of a raw failure.
type Categorized struct {
	Category  Category
	Code      Code
	Message   string
	Retryable bool
	Metadata  Fields
}

// classifyInput is computed once per Categorize call and shared by all rules.
type classifyInput struct {
	raw       any
	err       error
	message   string
	lower     string
	status    int
	hasStatus bool
}

type rule func(in classifyInput) (Categorized, bool)

// rules run in declaration order and the first match wins. Messages often
// match several families, so this order is part of the contract.
var rules = []rule{
	byStatus,
	byAuthentication,
	byRateLimit,
	byNetwork,
	byValidation,
	bySDKFailure,
	byNotFound,
	byServerError,
}

// Categorize classifies any value into a Categorized record. It is
// deterministic and never panics.
func Categorize(input any) Categorized {
	in := classifyInput{raw: input, message: ExtractMessage(input)}
	in.lower = strings.ToLower(in.message)
	in.status, in.hasStatus = StatusOf(input)
	if err, ok := input.(error); ok && !isNil(input) {
		in.err = err
	}

	for _, r := range rules {
		if c, ok := r(in); ok {
			return c
		}
	}
	return in.result(CategoryUnknown, CodeUnknownError, true, nil)
}

func (in classifyInput) result(cat Category, code Code, retryable bool, meta Fields) Categorized {
	if in.hasStatus {
		if meta == nil {
			meta = Fields{}
		}
		meta[KeyStatusCode] = in.status
	}
	return Categorized{Category: cat, Code: code, Message: in.message, Retryable: retryable, Metadata: meta}
}

func byStatus(in classifyInput) (Categorized, bool) {
	if !in.hasStatus {
		return Categorized{}, false
	}
	switch {
	case in.status == 401:
		return in.result(CategoryAuthentication, CodeInvalidAPIKey, false, nil), true
	case in.status == 429:
		return rateLimited(in), true
	case in.status == 404:
		return notFound(in), true
	case in.status == 400:
		return validation(in, CodeValidationError), true
	case in.status >= 500 && in.status < 600:
		return in.result(CategoryServerError, CodeServerError, true, nil), true
	}
	return Categorized{}, false
}

func byAuthentication(in classifyInput) (Categorized, bool) {
	if !authPatterns.match(in.lower) {
		return Categorized{}, false
	}
	return in.result(CategoryAuthentication, CodeInvalidAPIKey, false, nil), true
}

func byRateLimit(in classifyInput) (Categorized, bool) {
	if !rateLimitPatterns.match(in.lower) {
		return Categorized{}, false
	}
	return rateLimited(in), true
}

func rateLimited(in classifyInput) Categorized {
	return in.result(CategoryRateLimit, CodeRateLimited, true, Fields{
		KeyRetryAfter: retryAfterSeconds(in.message),
	})
}

func byNetwork(in classifyInput) (Categorized, bool) {
	code, ok := networkCodeFromType(in.err)
	if !ok {
		switch {
		case dnsPatterns.match(in.lower):
			code = CodeDNSError
		case sslPatterns.match(in.lower):
			code = CodeSSLError
		case networkPatterns.match(in.lower):
			code = CodeNetworkError
		default:
			return Categorized{}, false
		}
	}
	return in.result(CategoryNetwork, code, true, nil), true
}

// networkCodeFromType recognizes transport failures by their Go error types.
func networkCodeFromType(err error) (Code, bool) {
	if err == nil {
		return "", false
	}
	var dnsErr *net.DNSError
	if stdErrors.As(err, &dnsErr) {
		return CodeDNSError, true
	}
	var (
		unknownAuthority x509.UnknownAuthorityError
		invalidCert      x509.CertificateInvalidError
		hostname         x509.HostnameError
		verification     *tls.CertificateVerificationError
	)
	if stdErrors.As(err, &unknownAuthority) || stdErrors.As(err, &invalidCert) ||
		stdErrors.As(err, &hostname) || stdErrors.As(err, &verification) {
		return CodeSSLError, true
	}
	if stdErrors.Is(err, context.DeadlineExceeded) {
		return CodeNetworkError, true
	}
	var netErr net.Error
	if stdErrors.As(err, &netErr) && netErr.Timeout() {
		return CodeNetworkError, true
	}
	var opErr *net.OpError
	if stdErrors.As(err, &opErr) {
		return CodeNetworkError, true
	}
	return "", false
}

func byValidation(in classifyInput) (Categorized, bool) {
	if isTypeError(in.err) {
		return validation(in, CodeTypeError), true
	}
	if !validationPatterns.match(in.lower) {
		return Categorized{}, false
	}
	return validation(in, CodeValidationError), true
}

func isTypeError(err error) bool {
	if err == nil {
		return false
	}
	var te *TypeError
	var jte *json.UnmarshalTypeError
	return stdErrors.As(err, &te) || stdErrors.As(err, &jte)
}

func validation(in classifyInput, code Code) Categorized {
	var meta Fields
	var te *TypeError
	if in.err != nil && stdErrors.As(in.err, &te) && te.Field != "" {
		meta = Fields{KeyField: te.Field}
	} else if field, ok := offendingField(in.message); ok {
		meta = Fields{KeyField: field}
	}
	return in.result(CategoryValidation, code, false, meta)
}

// bySDKFailure covers client-side failures of the v0 SDK. It runs before the
// not-found rule so "method not found" is not read as a missing resource.
func bySDKFailure(in classifyInput) (Categorized, bool) {
	var code Code
	switch {
	case sdkInitPatterns.match(in.lower):
		code = CodeSDKInitialization
	case methodMissingPatterns.match(in.lower):
		code = CodeMethodNotFound
	case transformationPatterns.match(in.lower):
		code = CodeTransformationError
	default:
		return Categorized{}, false
	}
	return in.result(CategoryServerError, code, false, nil), true
}

func byNotFound(in classifyInput) (Categorized, bool) {
	if !notFoundPatterns.match(in.lower) {
		return Categorized{}, false
	}
	return notFound(in), true
}

func notFound(in classifyInput) Categorized {
	code, resource := resourceCode(in.lower)
	var meta Fields
	if resource != "" {
		meta = Fields{KeyResourceType: resource}
	}
	return in.result(CategoryNotFound, code, false, meta)
}

func byServerError(in classifyInput) (Categorized, bool) {
	if !serverErrorPatterns.match(in.lower) {
		return Categorized{}, false
	}
	return in.result(CategoryServerError, CodeServerError, true, nil), true
}
