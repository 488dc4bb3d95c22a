package fsnotify

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// waitFor polls until the channel yields or the deadline passes.
func waitFor(t *testing.T, ch <-chan string, timeout time.Duration) (string, bool) {
	t.Helper()
	select {
	case path := <-ch:
		return path, true
	case <-time.After(timeout):
		return "", false
	}
}

func TestWatcher_FiresOnDatasetFileWrite(t *testing.T) {
	dir := t.TempDir()

	w, err := NewWatcher()
	require.NoError(t, err)
	defer w.Stop()

	events := make(chan string, 16)
	require.NoError(t, w.Watch(dir, func(path string) { events <- path }))

	target := filepath.Join(dir, "forms.csv")
	require.NoError(t, os.WriteFile(target, []byte("ID,Language_ID,Parameter_ID\n"), 0o644))

	path, ok := waitFor(t, events, 2*time.Second)
	require.True(t, ok, "expected a change event for forms.csv")
	assert.Equal(t, target, path)
}

func TestWatcher_IgnoresNonDatasetFiles(t *testing.T) {
	dir := t.TempDir()

	w, err := NewWatcher()
	require.NoError(t, err)
	defer w.Stop()

	events := make(chan string, 16)
	require.NoError(t, w.Watch(dir, func(path string) { events <- path }))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "forms.csv.swp"), []byte("x"), 0o644))

	_, ok := waitFor(t, events, 300*time.Millisecond)
	assert.False(t, ok, "swap files must not trigger events")
}

func TestWatcher_MissingDirIsAnError(t *testing.T) {
	w, err := NewWatcher()
	require.NoError(t, err)
	defer w.Stop()

	assert.Error(t, w.Watch(filepath.Join(t.TempDir(), "absent"), func(string) {}))
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	w, err := NewWatcher()
	require.NoError(t, err)

	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())
}

func TestIsDatasetFile(t *testing.T) {
	assert.True(t, isDatasetFile("forms.csv"))
	assert.True(t, isDatasetFile("Wordlist-metadata.json"))
	assert.True(t, isDatasetFile("sources.bib"))
	assert.False(t, isDatasetFile("forms.csv.swp"))
	assert.False(t, isDatasetFile(".DS_Store"))
}
