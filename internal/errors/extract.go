package errors

import (
	"encoding/json"
	stdErrors "errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// UnknownMessage is returned by ExtractMessage when nothing readable exists.
const UnknownMessage = "Unknown error occurred"

// StatusError is a plain error carrying an HTTP status. It is produced by
// TransformAPIError and Normalize so status-aware rules still apply.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string { return e.Message }

// StatusCode exposes the HTTP status to StatusOf.
func (e *StatusError) StatusCode() int { return e.Status }

// TypeError reports a tool argument whose type does not match the schema.
type TypeError struct {
	Field    string
	Expected string
	Actual   string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("field %q must be %s, got %s", e.Field, e.Expected, e.Actual)
}

type statusCoder interface{ StatusCode() int }

type httpStatuser interface{ HTTPStatus() int }

// ExtractMessage pulls a human-readable message out of an arbitrary value.
// Errors yield Error(), strings are returned unchanged, and decoded JSON
// objects are searched for response.data.message, message, then status.
func ExtractMessage(input any) string {
	if isNil(input) {
		return UnknownMessage
	}
	switch v := input.(type) {
	case error:
		return v.Error()
	case string:
		return v
	case map[string]any:
		return objectMessage(v)
	case map[string]string:
		m := make(map[string]any, len(v))
		for k, s := range v {
			m[k] = s
		}
		return objectMessage(m)
	default:
		return UnknownMessage
	}
}

func objectMessage(m map[string]any) string {
	if msg := nestedString(m, "response", "data", "message"); msg != "" {
		return msg
	}
	if msg, ok := m["message"].(string); ok && msg != "" {
		return msg
	}
	statusText, _ := m["statusText"].(string)
	if status, ok := numberOf(m["status"]); ok {
		text := fmt.Sprintf("Request failed with status code %d", status)
		if statusText != "" {
			text += ": " + statusText
		}
		return text
	}
	if statusText != "" {
		return statusText
	}
	if code, ok := numberOf(m["statusCode"]); ok {
		return fmt.Sprintf("Request failed with status code %d", code)
	}
	return UnknownMessage
}

// StatusOf reports an explicit HTTP status carried by input, if any. Errors
// are inspected through their chain for StatusCode() or HTTPStatus()
// methods; objects for status, statusCode or response.status.
func StatusOf(input any) (int, bool) {
	if isNil(input) {
		return 0, false
	}
	switch v := input.(type) {
	case error:
		var sc statusCoder
		if stdErrors.As(v, &sc) && sc.StatusCode() > 0 {
			return sc.StatusCode(), true
		}
		var hs httpStatuser
		if stdErrors.As(v, &hs) && hs.HTTPStatus() > 0 {
			return hs.HTTPStatus(), true
		}
	case map[string]any:
		for _, key := range []string{"status", "statusCode"} {
			if n, ok := numberOf(v[key]); ok && n > 0 {
				return n, true
			}
		}
		if resp, ok := v["response"].(map[string]any); ok {
			if n, ok := numberOf(resp["status"]); ok && n > 0 {
				return n, true
			}
		}
	}
	return 0, false
}

// Normalize coerces any value into an error, keeping an explicit status.
func Normalize(input any) error {
	if err, ok := input.(error); ok && !isNil(input) {
		return err
	}
	status, _ := StatusOf(input)
	return &StatusError{Status: status, Message: ExtractMessage(input)}
}

func nestedString(m map[string]any, path ...string) string {
	var cur any = m
	for _, key := range path {
		obj, ok := cur.(map[string]any)
		if !ok {
			return ""
		}
		cur = obj[key]
	}
	s, _ := cur.(string)
	return s
}

func numberOf(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case float64:
		if n == math.Trunc(n) && !math.IsInf(n, 0) {
			return int(n), true
		}
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i), true
		}
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return i, true
		}
	}
	return 0, false
}

// isNil also catches typed nil pointers stored in an interface, whose
// methods may dereference the receiver.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
