package errors

import (
	"regexp"
	"strconv"
	"strings"
)

// matcher is a read-only failure family: a message matches when it contains
// any keyword (case-insensitive) or satisfies any expression.
type matcher struct {
	keywords []string
	exprs    []*regexp.Regexp
}

func (m matcher) match(lower string) bool {
	for _, k := range m.keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	for _, re := range m.exprs {
		if re.MatchString(lower) {
			return true
		}
	}
	return false
}

var (
	authPatterns = matcher{keywords: []string{
		"api key", "unauthorized", "401", "authentication failed", "invalid credentials",
	}}

	rateLimitPatterns = matcher{keywords: []string{
		"rate limit", "429", "quota", "throttled", "too many requests",
	}}

	dnsPatterns = matcher{keywords: []string{
		"enotfound", "dns", "no such host", "getaddrinfo",
	}}

	sslPatterns = matcher{keywords: []string{
		"ssl", "tls", "certificate", "x509",
	}}

	networkPatterns = matcher{keywords: []string{
		"connection refused", "econnrefused", "etimedout", "econnreset", "connection reset",
		"timeout", "timed out", "deadline exceeded", "socket hang up", "network",
	}}

	validationPatterns = matcher{
		keywords: []string{"validation failed", "invalid input", "missing parameter"},
		exprs:    []*regexp.Regexp{regexp.MustCompile(`field .* required`)},
	}

	sdkInitPatterns = matcher{keywords: []string{
		"not initialized", "failed to initialize", "initialization failed",
	}}

	methodMissingPatterns = matcher{keywords: []string{
		"is not a function", "method not found", "not implemented",
	}}

	transformationPatterns = matcher{keywords: []string{
		"failed to transform", "transformation failed", "unexpected response format",
	}}

	notFoundPatterns = matcher{keywords: []string{
		"not found", "404", "does not exist", "no such",
	}}

	serverErrorPatterns = matcher{
		keywords: []string{"internal server error", "service unavailable", "bad gateway"},
		exprs:    []*regexp.Regexp{regexp.MustCompile(`\b50\d\b`)},
	}
)

var retryAfterExprs = []*regexp.Regexp{
	regexp.MustCompile(`(?i)retry after (\d+)`),
	regexp.MustCompile(`(?i)wait (\d+) seconds`),
	regexp.MustCompile(`(?i)retry-after:\s*(\d+)`),
}

var fieldExprs = []*regexp.Regexp{
	regexp.MustCompile(`(?i)field "(\w+)"`),
	regexp.MustCompile(`(?i)parameter:\s*(\w+)`),
	regexp.MustCompile(`(?i)"(\w+)" is required`),
	regexp.MustCompile(`(?i)missing (\w+)`),
}

// retryAfterSeconds returns the wait hint embedded in message, or the default.
func retryAfterSeconds(message string) int {
	for _, re := range retryAfterExprs {
		if m := re.FindStringSubmatch(message); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				return n
			}
		}
	}
	return defaultRetryAfterSeconds
}

// offendingField returns the first field name a validation message mentions.
func offendingField(message string) (string, bool) {
	for _, re := range fieldExprs {
		if m := re.FindStringSubmatch(message); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// resourceCode scans message for a known resource keyword.
func resourceCode(lower string) (Code, string) {
	for _, rc := range resourceCodes {
		if strings.Contains(lower, rc.keyword) {
			return rc.code, rc.keyword
		}
	}
	return CodeNotFound, ""
}
