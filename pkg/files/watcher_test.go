package files

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type tickClock struct{ ch chan time.Time }

func (c tickClock) After(time.Duration) <-chan time.Time { return c.ch }

func TestFileWatcherReportsChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flowctl.yaml")
	require.NoError(t, os.WriteFile(path, []byte("a: 1"), 0600))

	changed := make(chan string, 1)
	w := NewFileWatcher(path, func(p string) { changed <- p })
	clock := tickClock{ch: make(chan time.Time)}
	w.clock = clock
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(path, future, future))
	clock.ch <- time.Now()

	select {
	case got := <-changed:
		assert.Equal(t, path, got)
	case <-time.After(time.Second):
		t.Fatal("change not reported")
	}
}

func TestFileWatcherMissingFile(t *testing.T) {
	w := NewFileWatcher(filepath.Join(t.TempDir(), "missing"), nil)
	assert.Error(t, w.Start(context.Background()))
	w.Stop()
}

func TestFileWatcherStopsOnContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flowctl.yaml")
	require.NoError(t, os.WriteFile(path, []byte("a: 1"), 0600))

	ctx, cancel := context.WithCancel(context.Background())
	w := NewFileWatcher(path, nil)
	w.SetInterval(time.Hour)
	require.NoError(t, w.Start(ctx))
	cancel()
	w.Stop()
	assert.Equal(t, path, w.GetFilePath())
}
