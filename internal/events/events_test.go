package events

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	verrors "github.com/BenAHammond/v0-mcp-server-sub001/internal/errors"
	"github.com/BenAHammond/v0-mcp-server-sub001/internal/handler"
)

type fakePublisher struct {
	subjects []string
	payloads [][]byte
	err      error
}

func (f *fakePublisher) Publish(subject string, data []byte) error {
	f.subjects = append(f.subjects, subject)
	f.payloads = append(f.payloads, data)
	return f.err
}

func TestWithPublishing_PublishesResult(t *testing.T) {
	pub := &fakePublisher{}
	h := WithPublishing(pub, "v0mcp.errors", nil, handler.Transform())

	res := h("Rate limit exceeded", verrors.Context{Operation: "generate_component", RequestID: "req_1_abc"})
	require.NotNil(t, res)
	require.Equal(t, verrors.CodeRateLimited, res.Code)

	require.Equal(t, []string{"v0mcp.errors"}, pub.subjects)
	var ev ErrorEvent
	require.NoError(t, json.Unmarshal(pub.payloads[0], &ev))
	require.Equal(t, verrors.CodeRateLimited, ev.Code)
	require.Equal(t, "generate_component", ev.Operation)
	require.Equal(t, "req_1_abc", ev.RequestID)
	require.Equal(t, true, ev.Data[verrors.KeyRetryable])
}

func TestWithPublishing_SkipsDeclined(t *testing.T) {
	pub := &fakePublisher{}
	declining := func(any, verrors.Context) *verrors.McpError { return nil }

	res := WithPublishing(pub, "s", nil, declining)("x", verrors.Context{})
	require.Nil(t, res)
	require.Empty(t, pub.subjects)
}

func TestWithPublishing_FailureDoesNotAlterResult(t *testing.T) {
	pub := &fakePublisher{err: errors.New("nats: connection closed")}
	h := WithPublishing(pub, "s", nil, handler.Transform())

	res := h("Chat not found", verrors.Context{})
	require.NotNil(t, res)
	require.Equal(t, verrors.CodeChatNotFound, res.Code)
	require.Len(t, pub.subjects, 1)
}

func TestWithPublishing_NilPublisherIsPassThrough(t *testing.T) {
	h := WithPublishing(nil, "s", nil, handler.Transform())
	require.Equal(t, verrors.CodeUnknownError, h("mystery", verrors.Context{}).Code)
}
