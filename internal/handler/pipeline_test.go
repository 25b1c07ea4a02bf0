package handler

import (
	"bytes"
	"encoding/json"
	stdErrors "errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	verrors "github.com/BenAHammond/v0-mcp-server-sub001/internal/errors"
)

type fakeRecorder struct {
	normalized  map[string]int
	unhandled   int
	retries     int
	cacheHits   int
	cacheMisses int
}

func (f *fakeRecorder) IncNormalizedError(code, _ string) {
	if f.normalized == nil {
		f.normalized = map[string]int{}
	}
	f.normalized[code]++
}
func (f *fakeRecorder) IncUnhandled(string)    { f.unhandled++ }
func (f *fakeRecorder) IncHandlerRetry(string) { f.retries++ }
func (f *fakeRecorder) IncCacheResult(hit bool) {
	if hit {
		f.cacheHits++
	} else {
		f.cacheMisses++
	}
}
func (f *fakeRecorder) IncUpstreamRetry(string)                         {}
func (f *fakeRecorder) ObserveToolDuration(string, time.Duration, bool) {}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func TestNew_ClassifiesWithContext(t *testing.T) {
	rec := &fakeRecorder{}
	h := New(Options{Logger: quietLogger(), Recorder: rec})

	res := h(stdErrors.New("Chat not found"), verrors.Context{Operation: "iterate_component", ChatID: "abc"})
	require.Equal(t, verrors.CodeChatNotFound, res.Code)
	require.Equal(t, "abc", res.Data["chatId"])
	require.Equal(t, "iterate_component", res.Data[verrors.KeyOperation])
	require.Regexp(t, requestIDPattern, res.Data["requestId"])
	require.Contains(t, res.Data, verrors.KeyTimestamp)
	require.Equal(t, 1, rec.normalized[string(verrors.CodeChatNotFound)])
}

func TestNew_NeverNil(t *testing.T) {
	h := New(Options{Logger: quietLogger()})
	for _, in := range []any{nil, 42, "", struct{}{}, map[string]any{}} {
		require.NotNil(t, h(in, verrors.Context{}))
	}
}

func TestNew_CustomHandlersRunFirst(t *testing.T) {
	h := New(Options{
		Logger: quietLogger(),
		Handlers: []Prioritized{
			{Priority: 10, Handler: ForHTTPStatus(503, "UPSTREAM_DOWN", "v0 is down"), Name: "503"},
		},
	})
	require.Equal(t, verrors.Code("UPSTREAM_DOWN"), h(&verrors.StatusError{Status: 503}, verrors.Context{}).Code)
	require.Equal(t, verrors.CodeServerError, h(&verrors.StatusError{Status: 500, Message: "x"}, verrors.Context{}).Code)
}

func TestNew_CacheKeepsPerCallContext(t *testing.T) {
	rec := &fakeRecorder{}
	h := New(Options{Logger: quietLogger(), Recorder: rec, Cache: true})

	a := h(stdErrors.New("Chat not found"), verrors.Context{ChatID: "a", RequestID: "req_a"})
	b := h(stdErrors.New("Chat not found"), verrors.Context{ChatID: "b", RequestID: "req_b"})

	require.Equal(t, verrors.CodeChatNotFound, b.Code)
	require.Equal(t, "a", a.Data["chatId"])
	require.Equal(t, "b", b.Data["chatId"])
	require.Equal(t, "req_b", b.Data["requestId"])
	require.Equal(t, 1, rec.cacheHits)
	require.Equal(t, 1, rec.cacheMisses)
}

func TestWithMetrics_CountsDeclines(t *testing.T) {
	rec := &fakeRecorder{}
	var calls int
	h := WithMetrics(rec, declining(&calls))
	require.Nil(t, h("x", verrors.Context{Operation: "op"}))
	require.Equal(t, 1, rec.unhandled)
}

func TestSlogLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	logFn := SlogLogger(logger)

	decode := func() map[string]any {
		t.Helper()
		var m map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &m))
		buf.Reset()
		return m
	}

	logFn("x", verrors.Context{Operation: "op"}, nil)
	m := decode()
	require.Equal(t, "DEBUG", m["level"])
	require.Equal(t, false, m["handled"])

	logFn("x", verrors.Context{Operation: "op", ChatID: "c1"}, verrors.TransformError("Rate limit exceeded. Retry after 9 seconds", verrors.Context{}))
	m = decode()
	require.Equal(t, "WARN", m["level"])
	require.Equal(t, "RATE_LIMITED", m["code"])
	require.Equal(t, float64(9), m["retry_after_s"])
	require.Equal(t, "c1", m["chat_id"])

	logFn("x", verrors.Context{}, verrors.ResourceNotFoundError("chat", "c1"))
	require.Equal(t, "ERROR", decode()["level"])
}

func TestWithLogging_ReturnsResultUnchanged(t *testing.T) {
	var logged *verrors.McpError
	want := &verrors.McpError{Code: "X"}
	h := WithLogging(func(_ any, _ verrors.Context, res *verrors.McpError) { logged = res }, func(any, verrors.Context) *verrors.McpError {
		return want
	})
	require.Same(t, want, h("x", verrors.Context{}))
	require.Same(t, want, logged)
}

func TestNew_RetriesCustomHandlers(t *testing.T) {
	rec := &fakeRecorder{}
	var calls int
	flaky := func(_ any, ctx verrors.Context) *verrors.McpError {
		calls++
		return &verrors.McpError{Code: "FLAKY", Data: verrors.Fields{
			verrors.KeyRetryable: calls < 3,
			verrors.KeyOperation: ctx.Operation,
		}}
	}
	h := New(Options{
		Logger:   quietLogger(),
		Recorder: rec,
		Handlers: []Prioritized{{Priority: 1, Handler: flaky}},
		Retry:    RetryOptions{MaxAttempts: 5, Sleep: noSleep},
	})

	res := h("x", verrors.Context{Operation: "op"})
	require.Equal(t, verrors.Code("FLAKY"), res.Code)
	require.False(t, res.Retryable())
	require.Equal(t, 3, calls)
	require.Equal(t, 2, rec.retries)
}
