package apikey

import (
	stdErrors "errors"
	"strings"
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/require"

	verrors "github.com/BenAHammond/v0-mcp-server-sub001/internal/errors"
)

const validKey = "v1_0123456789abcdef"

func requireCode(t *testing.T, err error, code verrors.Code) {
	t.Helper()
	var me *verrors.McpError
	require.ErrorAs(t, err, &me)
	require.Equal(t, code, me.Code)
}

func TestResolve_ConfigWins(t *testing.T) {
	ring := keyring.NewArrayKeyring([]keyring.Item{{Key: KeyAPIKey, Data: []byte("v1_from_the_keyring_000")}})
	key, src, err := NewManager("  "+validKey+" ", ring).Resolve()
	require.NoError(t, err)
	require.Equal(t, validKey, key)
	require.Equal(t, SourceConfig, src)
}

func TestResolve_KeyringFallback(t *testing.T) {
	ring := keyring.NewArrayKeyring([]keyring.Item{{Key: KeyAPIKey, Data: []byte(validKey)}})
	key, src, err := NewManager("", ring).Resolve()
	require.NoError(t, err)
	require.Equal(t, validKey, key)
	require.Equal(t, SourceKeyring, src)
}

func TestResolve_Missing(t *testing.T) {
	for _, ring := range []keyring.Keyring{nil, keyring.NewArrayKeyring(nil)} {
		_, _, err := NewManager("", ring).Resolve()
		requireCode(t, err, verrors.CodeInvalidAPIKey)

		var me *verrors.McpError
		require.ErrorAs(t, err, &me)
		require.Equal(t, verrors.CategoryAuthentication, me.Category())
		require.False(t, me.Retryable())
		require.Contains(t, me.Data, verrors.KeySuggestion)
	}
}

func TestResolve_MalformedConfigKey(t *testing.T) {
	_, _, err := NewManager("short", nil).Resolve()
	requireCode(t, err, verrors.CodeValidationError)
}

type brokenRing struct{ keyring.Keyring }

func (brokenRing) Get(string) (keyring.Item, error) { return keyring.Item{}, stdErrors.New("locked") }

func TestResolve_KeyringFailure(t *testing.T) {
	_, _, err := NewManager("", brokenRing{}).Resolve()
	require.ErrorContains(t, err, "locked")
	var me *verrors.McpError
	require.False(t, stdErrors.As(err, &me))
}

func TestStoreAndClear(t *testing.T) {
	ring := keyring.NewArrayKeyring(nil)
	m := NewManager("", ring)

	requireCode(t, m.Store("has space in it 12345"), verrors.CodeValidationError)
	require.NoError(t, m.Store(validKey))

	key, src, err := m.Resolve()
	require.NoError(t, err)
	require.Equal(t, validKey, key)
	require.Equal(t, SourceKeyring, src)

	require.NoError(t, m.Clear())
	require.NoError(t, m.Clear())
	_, _, err = m.Resolve()
	requireCode(t, err, verrors.CodeInvalidAPIKey)

	require.Error(t, NewManager("", nil).Store(validKey))
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate(validKey))

	err := Validate("")
	var me *verrors.McpError
	require.ErrorAs(t, err, &me)
	require.Equal(t, "Invalid apiKey: is required", me.Message)
	require.Equal(t, "apiKey", me.Data[verrors.KeyField])

	require.ErrorContains(t, Validate("abc"), "at least 16 characters")
}

func TestMask(t *testing.T) {
	require.Equal(t, strings.Repeat("*", len(validKey)-4)+"cdef", Mask(validKey))
	require.Equal(t, "***", Mask("abc"))
}
