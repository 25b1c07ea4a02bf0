package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/require"

	"github.com/BenAHammond/v0-mcp-server-sub001/internal/apikey"
	"github.com/BenAHammond/v0-mcp-server-sub001/internal/config"
	verrors "github.com/BenAHammond/v0-mcp-server-sub001/internal/errors"
	"github.com/BenAHammond/v0-mcp-server-sub001/internal/tools"
)

func testRoot(t *testing.T) *CLI {
	t.Helper()
	t.Chdir(t.TempDir())
	return &CLI{Config: filepath.Join(t.TempDir(), "missing.yaml")}
}

func decodeEnvelope(t *testing.T, b []byte) verrors.McpError {
	t.Helper()
	var me verrors.McpError
	require.NoError(t, json.Unmarshal(b, &me))
	return me
}

func TestClassify_PrintsEnvelope(t *testing.T) {
	root := testRoot(t)
	var out bytes.Buffer
	cmd := &ClassifyCmd{Message: "Chat not found", Operation: "iterate_component", ChatID: "abc123"}

	require.NoError(t, cmd.Run(&Global{Out: &out}, root))
	me := decodeEnvelope(t, out.Bytes())
	require.Equal(t, verrors.CodeChatNotFound, me.Code)
	require.Equal(t, "abc123", me.Data["chatId"])
	require.Equal(t, "iterate_component", me.Data["operation"])
	require.Equal(t, false, me.Data["retryable"])
}

func TestClassify_StatusAndExitStatus(t *testing.T) {
	root := testRoot(t)
	var out bytes.Buffer
	cmd := &ClassifyCmd{Message: "slow down", Status: 429, Operation: "classify", ExitStatus: true}

	err := cmd.Run(&Global{Out: &out}, root)
	var me *verrors.McpError
	require.ErrorAs(t, err, &me)
	require.Equal(t, verrors.CodeRateLimited, me.Code)
	require.Equal(t, 8, verrors.NewCLIAdapter(false, nil).ExitCodeFor(err))
	require.Equal(t, float64(60), decodeEnvelope(t, out.Bytes()).Data["retryAfter"])
}

func TestSetKey_StoresFromStdin(t *testing.T) {
	ring := keyring.NewArrayKeyring(nil)
	m := apikey.NewManager("", ring)
	var out bytes.Buffer
	g := &Global{Out: &out, In: strings.NewReader("v1_0123456789abcdef\n")}

	require.NoError(t, (&SetKeyCmd{}).apply(g, m))
	require.Contains(t, out.String(), "cdef")
	require.NotContains(t, out.String(), "v1_0123")

	item, err := ring.Get(apikey.KeyAPIKey)
	require.NoError(t, err)
	require.Equal(t, "v1_0123456789abcdef", string(item.Data))

	out.Reset()
	require.NoError(t, (&SetKeyCmd{Clear: true}).apply(g, m))
	require.Contains(t, out.String(), "Removed")
}

func TestSetKey_RejectsMalformedKey(t *testing.T) {
	m := apikey.NewManager("", keyring.NewArrayKeyring(nil))
	err := (&SetKeyCmd{Key: "short"}).apply(&Global{Out: &bytes.Buffer{}}, m)
	var me *verrors.McpError
	require.ErrorAs(t, err, &me)
	require.Equal(t, verrors.CodeValidationError, me.Code)
}

type fakeCaller struct {
	tool string
	args map[string]any
	out  *tools.Output
	err  error
}

func (f *fakeCaller) Call(_ context.Context, tool string, args map[string]any) (*tools.Output, error) {
	f.tool, f.args = tool, args
	return f.out, f.err
}

func TestCall_PrintsOutput(t *testing.T) {
	var out bytes.Buffer
	caller := &fakeCaller{out: &tools.Output{ChatID: "chat_1"}}
	args, err := decodeArgs(`{"prompt":"a login form"}`)
	require.NoError(t, err)

	cmd := &CallCmd{Tool: tools.GenerateComponent}
	require.NoError(t, cmd.call(context.Background(), &Global{Out: &out}, caller, args))
	require.Equal(t, tools.GenerateComponent, caller.tool)
	require.Equal(t, "a login form", caller.args["prompt"])
	require.Contains(t, out.String(), `"chatId": "chat_1"`)
}

func TestCall_ReturnsToolError(t *testing.T) {
	want := verrors.ResourceNotFoundError("chat", "x")
	caller := &fakeCaller{err: want}
	err := (&CallCmd{Tool: tools.IterateComponent}).call(context.Background(), &Global{Out: &bytes.Buffer{}}, caller, nil)
	require.Same(t, want, err)
}

func TestDecodeArgs_RejectsNonObject(t *testing.T) {
	_, err := decodeArgs(`["prompt"]`)
	var me *verrors.McpError
	require.ErrorAs(t, err, &me)
	require.Equal(t, "args", me.Data[verrors.KeyField])
}

func TestNewApp(t *testing.T) {
	prev := openKeyring
	openKeyring = func() (keyring.Keyring, error) { return nil, errors.New("no keyring here") }
	t.Cleanup(func() { openKeyring = prev })
	logger := newLogger(&bytes.Buffer{}, config.LoggingConfig{}, false)

	cfg := config.Default()
	_, err := newApp(cfg, logger)
	var me *verrors.McpError
	require.ErrorAs(t, err, &me)
	require.Equal(t, verrors.CodeInvalidAPIKey, me.Code)

	cfg.V0.APIKey = "v1_0123456789abcdef"
	cfg.Metrics.Enabled = true
	cfg.Metrics.ListenAddr = "127.0.0.1:0"
	a, err := newApp(cfg, logger)
	require.NoError(t, err)
	require.NotNil(t, a.service)
	require.Len(t, a.closers, 1)
	a.Close()
}

func TestNewLogger_Format(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, config.LoggingConfig{Level: "warn", Format: "json"}, false).Info("hidden")
	require.Empty(t, buf.String())

	newLogger(&buf, config.LoggingConfig{Level: "warn", Format: "json"}, true).Debug("shown")
	require.True(t, json.Valid(bytes.TrimSpace(buf.Bytes())))
}
