package board

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/soundboard/internal/format"
)

func TestRefresh_RebuildsElement(t *testing.T) {
	driver := newFakeDriver(format.MP3)
	b := newTestBoard(t, driver, Config{
		Path:   "/s/",
		Sounds: []SoundSpec{{Name: "a"}},
	})

	require.Len(t, driver.created(), 1)
	old := driver.created()[0]

	b.Refresh("a")

	els := driver.created()
	require.Len(t, els, 2)
	_, ops, _, _ := old.snapshot()
	assert.Contains(t, ops, "close")

	infos := b.Sounds()
	require.Len(t, infos, 1)
	assert.True(t, infos[0].Prepared)
}

func TestRefresh_UnknownSound(t *testing.T) {
	driver := newFakeDriver(format.MP3)
	b := newTestBoard(t, driver, Config{
		Sounds: []SoundSpec{{Name: "a"}},
	})

	b.Refresh("missing")
	assert.Len(t, driver.created(), 1)
}

func TestWatcher_RefreshOnWrite(t *testing.T) {
	dir := t.TempDir()
	driver := newFakeDriver(format.MP3)
	b := newTestBoard(t, driver, Config{
		Path:   dir + string(os.PathSeparator),
		Sounds: []SoundSpec{{Name: "a"}},
	})

	w, err := NewWatcher(b, testLogger())
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer func() { _ = w.Stop() }()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.mp3"), []byte("x"), 0o644))

	// Create and Write may arrive as separate events, each refreshing.
	assert.Eventually(t, func() bool {
		return len(driver.created()) >= 2
	}, 3*time.Second, 20*time.Millisecond)
}

func TestWatcher_StartStopIdempotent(t *testing.T) {
	driver := newFakeDriver(format.MP3)
	b := newTestBoard(t, driver, Config{
		Path:   t.TempDir() + string(os.PathSeparator),
		Sounds: []SoundSpec{{Name: "a"}},
	})

	w, err := NewWatcher(b, testLogger())
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	require.NoError(t, w.Start(context.Background()))
	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())
}

func TestWatcher_RestartAfterStop(t *testing.T) {
	driver := newFakeDriver(format.MP3)
	b := newTestBoard(t, driver, Config{
		Path:   t.TempDir() + string(os.PathSeparator),
		Sounds: []SoundSpec{{Name: "a"}},
	})

	w, err := NewWatcher(b, testLogger())
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	require.NoError(t, w.Stop())

	// A stopped watcher refuses to restart, and the trailing Stop must
	// not close the done channel a second time.
	assert.ErrorIs(t, w.Start(context.Background()), ErrWatcherStopped)
	assert.NoError(t, w.Stop())
}

func TestWatcher_StartFailureRollsBack(t *testing.T) {
	driver := newFakeDriver(format.MP3)
	b := newTestBoard(t, driver, Config{
		Path:   filepath.Join(t.TempDir(), "missing") + string(os.PathSeparator),
		Sounds: []SoundSpec{{Name: "a"}},
	})

	w, err := NewWatcher(b, testLogger())
	require.NoError(t, err)

	// The source directory does not exist. The failure must not leave
	// the watcher marked running, so the retry fails the same way
	// instead of reporting success.
	require.Error(t, w.Start(context.Background()))
	require.Error(t, w.Start(context.Background()))
	assert.NoError(t, w.Stop())
}
