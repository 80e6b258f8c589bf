package protocol

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"lsmkv/engine"
)

func newEngine(t *testing.T) *engine.Engine {
	t.Helper()
	e, err := engine.Open(engine.Options{DataDir: t.TempDir()})
	require.NoError(t, err)
	return e
}

func TestDispatchPutThenGet(t *testing.T) {
	e := newEngine(t)

	var out bytes.Buffer
	require.NoError(t, Dispatch("put k1 v1", e, &out))
	require.Empty(t, out.String())

	out.Reset()
	require.NoError(t, Dispatch("get k1", e, &out))
	require.Equal(t, "v1", out.String())
}

func TestDispatchGetMissingKeyWritesNothing(t *testing.T) {
	e := newEngine(t)

	var out bytes.Buffer
	require.NoError(t, Dispatch("get missing", e, &out))
	require.Empty(t, out.String())
}

func TestDispatchDelete(t *testing.T) {
	e := newEngine(t)

	var out bytes.Buffer
	require.NoError(t, Dispatch("put k1 v1", e, &out))
	require.NoError(t, Dispatch("delete k1", e, &out))

	out.Reset()
	require.NoError(t, Dispatch("get k1", e, &out))
	require.Empty(t, out.String())
}

func TestDispatchUnknownCommand(t *testing.T) {
	e := newEngine(t)

	var out bytes.Buffer
	err := Dispatch("frobnicate k1", e, &out)
	require.True(t, errors.Is(err, ErrUnknownCommand))
}

func TestDispatchBlankLineIsNoop(t *testing.T) {
	e := newEngine(t)

	var out bytes.Buffer
	require.NoError(t, Dispatch("   ", e, &out))
	require.Empty(t, out.String())
}

func TestDispatchWrongArgumentCount(t *testing.T) {
	e := newEngine(t)

	var out bytes.Buffer
	require.Error(t, Dispatch("put onlykey", e, &out))
	require.Error(t, Dispatch("get", e, &out))
}
