package scheduler

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"lsmkv/engine"
)

func TestSchedulerRunsCompactionOnTick(t *testing.T) {
	dir := t.TempDir()
	e, err := engine.Open(engine.Options{DataDir: dir, Limit: 1})
	require.NoError(t, err)

	require.NoError(t, e.Put("a", "1"))
	require.NoError(t, e.Put("b", "2")) // flush #1
	require.NoError(t, e.Put("c", "3"))
	require.NoError(t, e.Put("d", "4")) // flush #2

	before, err := filepath.Glob(filepath.Join(dir, "*.dat"))
	require.NoError(t, err)
	require.Len(t, before, 2)

	s := New(e, 10*time.Millisecond)
	s.Start()
	defer s.Stop()

	require.Eventually(t, func() bool {
		after, err := filepath.Glob(filepath.Join(dir, "*.dat"))
		return err == nil && len(after) == 1
	}, time.Second, 5*time.Millisecond)
}

func TestSchedulerDisabledWithNonPositiveInterval(t *testing.T) {
	dir := t.TempDir()
	e, err := engine.Open(engine.Options{DataDir: dir})
	require.NoError(t, err)

	s := New(e, 0)
	s.Start()
	s.Stop()
}
