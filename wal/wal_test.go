package wal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"lsmkv/value"
)

func TestCreateMakesEmptyFile(t *testing.T) {
	dir := t.TempDir()

	w, err := Create(dir, Filename)
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(dir, Filename))
	require.NoError(t, err)
	require.Zero(t, info.Size())
	require.Equal(t, filepath.Join(dir, Filename), w.Path())
}

func TestCreateRejectsMissingDirectory(t *testing.T) {
	_, err := Create(filepath.Join(t.TempDir(), "does-not-exist"), Filename)
	require.Error(t, err)
}

func TestAppendAndReplay(t *testing.T) {
	dir := t.TempDir()
	w, err := Create(dir, Filename)
	require.NoError(t, err)

	n, err := w.Append("k1", value.New("v1", false))
	require.NoError(t, err)
	require.Positive(t, n)

	_, err = w.Append("k2", value.New("v2", false))
	require.NoError(t, err)

	// overwritten by the later record for the same key
	_, err = w.Append("k1", value.New("v1-updated", false))
	require.NoError(t, err)

	_, err = w.Append("k2", value.New("", true))
	require.NoError(t, err)

	mt, err := w.Replay()
	require.NoError(t, err)
	require.Equal(t, 2, mt.Len())

	v, ok := mt.Get("k1")
	require.True(t, ok)
	require.Equal(t, "v1-updated", v.Payload())

	v, ok = mt.Get("k2")
	require.True(t, ok)
	require.True(t, v.IsDeleted())
}

func TestReplayEmptyWAL(t *testing.T) {
	dir := t.TempDir()
	w, err := Create(dir, Filename)
	require.NoError(t, err)

	mt, err := w.Replay()
	require.NoError(t, err)
	require.Equal(t, 0, mt.Len())
}

func TestTruncate(t *testing.T) {
	dir := t.TempDir()
	w, err := Create(dir, Filename)
	require.NoError(t, err)

	_, err = w.Append("k1", value.New("v1", false))
	require.NoError(t, err)

	require.NoError(t, w.Truncate())

	info, err := os.Stat(w.Path())
	require.NoError(t, err)
	require.Zero(t, info.Size())

	mt, err := w.Replay()
	require.NoError(t, err)
	require.Equal(t, 0, mt.Len())
}

func TestReplayTornTrailingRecordIsError(t *testing.T) {
	dir := t.TempDir()
	w, err := Create(dir, Filename)
	require.NoError(t, err)

	_, err = w.Append("k1", value.New("v1", false))
	require.NoError(t, err)

	f, err := os.OpenFile(w.Path(), os.O_WRONLY|os.O_APPEND, 0o644)
	require.NoError(t, err)
	_, err = f.Write([]byte{0, 0, 0, 0, 0, 0, 0, 3, 'a', 'b'}) // declares a 3-byte key, only 2 present
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_, err = w.Replay()
	require.Error(t, err)
}
