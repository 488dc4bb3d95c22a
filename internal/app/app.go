// Package app wires together the dataset adapter, the aggregate cache and
// the domain logic. One App handles one invocation: load, aggregate (or hit
// the cache), then report or reduce.
package app

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"path/filepath"
	"time"

	"github.com/cormacl/synprune/internal/adapters/boltcache"
	"github.com/cormacl/synprune/internal/adapters/cldf"
	fsw "github.com/cormacl/synprune/internal/adapters/fsnotify"
	"github.com/cormacl/synprune/internal/config"
	"github.com/cormacl/synprune/internal/domain/reporter"
	"github.com/cormacl/synprune/internal/domain/selector"
	"github.com/cormacl/synprune/internal/domain/wordlist"
	"github.com/cormacl/synprune/internal/ports"
)

// App runs synprune actions over one dataset.
type App struct {
	cfg config.Config
	log *slog.Logger
}

// New creates an App. A nil logger discards everything below warn.
func New(cfg config.Config, log *slog.Logger) *App {
	if log == nil {
		log = slog.Default()
	}
	return &App{cfg: cfg, log: log}
}

// ReduceResult summarizes one reduction run.
type ReduceResult struct {
	Mode     selector.Mode
	Kept     int
	Total    int
	OutDir   string
	Seed     int64
	CacheHit bool
}

// Report loads the dataset and computes synonymy statistics.
// It never writes anything.
func (a *App) Report(metaPath string) (reporter.Stats, error) {
	wl, _, err := a.loadAggregate(metaPath)
	if err != nil {
		return reporter.Stats{}, err
	}
	return reporter.Compute(wl)
}

// Reduce loads the dataset, runs one reduction strategy and writes the
// filtered dataset to the configured output directory.
func (a *App) Reduce(metaPath string, mode selector.Mode) (ReduceResult, error) {
	ds, err := cldf.Load(metaPath)
	if err != nil {
		return ReduceResult{}, err
	}
	wl, cacheHit, err := a.aggregate(ds)
	if err != nil {
		return ReduceResult{}, err
	}

	seed := a.cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	survivors := selector.Reduce(wl, mode, rng)
	a.log.Info("reduction complete", "mode", mode.String(), "survivors", len(survivors))

	keep := make(map[string]struct{}, len(survivors))
	for f := range survivors {
		keep[string(f)] = struct{}{}
	}
	if err := ds.WriteFiltered(a.cfg.OutDir, keep); err != nil {
		return ReduceResult{}, err
	}

	total := 0
	for _, byMeaning := range wl.Candidates {
		for _, candidates := range byMeaning {
			total += len(candidates)
		}
	}
	return ReduceResult{
		Mode:     mode,
		Kept:     len(survivors),
		Total:    total,
		OutDir:   a.cfg.OutDir,
		Seed:     seed,
		CacheHit: cacheHit,
	}, nil
}

// newWatcher returns the fsnotify-backed ports.Watcher.
func newWatcher() (ports.Watcher, error) {
	return fsw.NewWatcher()
}

// Watch monitors the dataset's directory and invokes onChange (debounced by
// the adapter) whenever a dataset file changes. Returns a stop function.
func (a *App) Watch(metaPath string, onChange func()) (func() error, error) {
	w, err := newWatcher()
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(metaPath)
	if err := w.Watch(dir, func(path string) {
		a.log.Debug("dataset changed", "path", path)
		onChange()
	}); err != nil {
		w.Stop()
		return nil, err
	}
	return w.Stop, nil
}

// loadAggregate loads the dataset and returns its aggregated wordlist,
// reporting whether the aggregate came from the cache.
func (a *App) loadAggregate(metaPath string) (*wordlist.Wordlist, bool, error) {
	ds, err := cldf.Load(metaPath)
	if err != nil {
		return nil, false, err
	}
	wl, hit, err := a.aggregate(ds)
	return wl, hit, err
}

// aggregate builds the wordlist, consulting the bbolt cache first. Cache
// failures degrade to a fresh parse and are logged, never fatal: the cache
// can only skip work, not change results.
func (a *App) aggregate(ds *cldf.Dataset) (*wordlist.Wordlist, bool, error) {
	var store ports.Storage
	var fingerprint string

	if !a.cfg.NoCache {
		if path, err := a.cfg.CachePath(); err != nil {
			a.log.Warn("cache unavailable", "err", err)
		} else if s, err := boltcache.NewStore(path); err != nil {
			a.log.Warn("cache unavailable", "err", err)
		} else {
			store = s
			defer s.Close()
		}
	}

	if store != nil {
		fp, err := ds.Fingerprint()
		if err != nil {
			a.log.Warn("fingerprint failed", "err", err)
		} else {
			fingerprint = fp
			if payload, err := store.LoadAggregate(fp); err != nil {
				a.log.Warn("cache read failed", "err", err)
			} else if payload != nil {
				var wl wordlist.Wordlist
				if err := json.Unmarshal(payload, &wl); err != nil {
					a.log.Warn("cache entry corrupt, reparsing", "err", err)
				} else {
					a.log.Debug("aggregate cache hit", "fingerprint", fp)
					return &wl, true, nil
				}
			}
		}
	}

	forms, err := ds.FormRecords()
	if err != nil {
		return nil, false, err
	}
	cognates, err := ds.CognateRecords()
	if err != nil {
		return nil, false, err
	}
	wl := wordlist.Aggregate(forms, cognates)

	if store != nil && fingerprint != "" {
		payload, err := json.Marshal(wl)
		if err != nil {
			return nil, false, fmt.Errorf("marshal aggregate: %w", err)
		}
		if err := store.SaveAggregate(fingerprint, payload); err != nil {
			a.log.Warn("cache write failed", "err", err)
		}
	}
	return wl, false, nil
}
