// Package fsnotify implements the ports.Watcher interface using
// github.com/fsnotify/fsnotify. It watches a dataset directory, filters
// events down to dataset files (CSV tables and metadata JSON), and debounces
// rapid events — editors often trigger multiple writes per save.
package fsnotify

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Extensions that can belong to a CLDF dataset. Everything else
// (editor swap files, OS litter) is ignored.
var watchExts = map[string]bool{
	".csv":  true,
	".json": true,
	".bib":  true,
}

// Watcher implements ports.Watcher using fsnotify.
type Watcher struct {
	fw      *fsnotify.Watcher
	done    chan struct{}
	stopped bool
	mu      sync.Mutex
}

// NewWatcher creates a new file system watcher.
func NewWatcher() (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		fw:   fw,
		done: make(chan struct{}),
	}, nil
}

// Watch starts monitoring dir. onChange is called with the absolute path of
// each changed dataset file.
func (w *Watcher) Watch(dir string, onChange func(path string)) error {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	if err := w.fw.Add(absDir); err != nil {
		return err
	}

	// Debounce state: track last event time per file
	debounce := make(map[string]time.Time)
	var dmu sync.Mutex
	const debounceInterval = 50 * time.Millisecond

	go func() {
		for {
			select {
			case event, ok := <-w.fw.Events:
				if !ok {
					return
				}
				path := event.Name
				if !isDatasetFile(path) {
					continue
				}

				// Debounce: skip if we've seen this file recently
				dmu.Lock()
				last, exists := debounce[path]
				now := time.Now()
				if exists && now.Sub(last) < debounceInterval {
					dmu.Unlock()
					continue
				}
				debounce[path] = now
				dmu.Unlock()

				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
					event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
					onChange(path)
				}

			case _, ok := <-w.fw.Errors:
				if !ok {
					return
				}
				// Errors are swallowed — fsnotify recovers automatically

			case <-w.done:
				return
			}
		}
	}()

	return nil
}

// Stop ends monitoring and releases all resources.
// Safe to call multiple times.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}
	w.stopped = true
	close(w.done)
	return w.fw.Close()
}

// isDatasetFile reports whether a path looks like part of a CLDF dataset.
func isDatasetFile(path string) bool {
	return watchExts[strings.ToLower(filepath.Ext(path))]
}
