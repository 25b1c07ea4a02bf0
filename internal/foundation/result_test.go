package foundation

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResult_OkAndErr(t *testing.T) {
	ok := Ok[int, error](42)
	assert.True(t, ok.IsOk())
	assert.False(t, ok.IsErr())
	assert.Equal(t, 42, ok.Unwrap())
	assert.Equal(t, 42, ok.UnwrapOr(0))
	assert.Panics(t, func() { ok.UnwrapErr() })

	boom := errors.New("boom")
	failed := Err[int](boom)
	assert.True(t, failed.IsErr())
	assert.Equal(t, 7, failed.UnwrapOr(7))
	assert.Same(t, boom, failed.UnwrapErr())
	assert.Panics(t, func() { failed.Unwrap() })
}

func TestMapAndFlatMap(t *testing.T) {
	parse := func(s string) Result[int, error] {
		return FromTuple(strconv.Atoi(s))
	}

	doubled := Map(FlatMap(Ok[string, error]("21"), parse), func(n int) int { return n * 2 })
	require.Equal(t, 42, doubled.Unwrap())

	bad := FlatMap(Ok[string, error]("x"), parse)
	require.True(t, bad.IsErr())

	calls := 0
	Map(bad, func(n int) int {
		calls++
		return n
	})
	require.Zero(t, calls)
}

type codeErr struct{ code string }

func (e *codeErr) Error() string { return e.code }

func TestMapErr(t *testing.T) {
	r := MapErr(Err[string](errors.New("raw")), func(err error) *codeErr {
		return &codeErr{code: "WRAPPED:" + err.Error()}
	})
	require.Equal(t, "WRAPPED:raw", r.UnwrapErr().code)

	passed := MapErr(Ok[string, error]("v"), func(error) *codeErr { return &codeErr{} })
	require.Equal(t, "v", passed.Unwrap())
}

func TestToTuple(t *testing.T) {
	v, err := Ok[string, error]("v").ToTuple()
	require.NoError(t, err)
	require.Equal(t, "v", v)

	v, err = Err[string](errors.New("e")).ToTuple()
	require.EqualError(t, err, "e")
	require.Empty(t, v)
}
