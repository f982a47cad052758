package fundscope

import (
	"errors"
	"fmt"
	"io/fs"
	"sync"
	"time"
)

// ErrNoSnapshot is returned by the loader when no consolidated artifact
// exists. Query paths must surface it: rendering an absent snapshot as a
// valid empty portfolio would hide a broken pipeline.
var ErrNoSnapshot = errors.New("no consolidated snapshot artifact")

// Loader is the read-only query surface over the persisted artifacts.
//
// Both artifacts are cached for the process lifetime with a time-based
// invalidation window, so an interactive consumer does not re-read the files
// on every query while still picking up a fresh batch build eventually.
type Loader struct {
	Dir string
	TTL time.Duration

	// now is the clock, replaceable in tests.
	now func() time.Time

	mu       sync.Mutex
	loadedAt time.Time
	registry *Registry
	table    *Consolidated
}

// NewLoader returns a loader over the artifacts persisted in dir.
func NewLoader(dir string, ttl time.Duration) *Loader {
	return &Loader{Dir: dir, TTL: ttl, now: time.Now}
}

// LoadAll returns the registry and the consolidated table, reading from disk
// at most once per TTL window. A missing snapshot artifact is fatal and wraps
// ErrNoSnapshot; a missing registry degrades to an empty registry, since
// filings for unregistered funds are legal.
func (l *Loader) LoadAll() (*Registry, *Consolidated, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.table != nil && l.now().Sub(l.loadedAt) < l.TTL {
		return l.registry, l.table, nil
	}

	table, err := LoadSnapshot(l.Dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, fmt.Errorf("%w in %q (run 'fsc build' first): %v", ErrNoSnapshot, l.Dir, err)
		}
		return nil, nil, err
	}

	registry, err := LoadRegistry(l.Dir)
	if errors.Is(err, fs.ErrNotExist) {
		registry, err = NewRegistry(), nil
	}
	if err != nil {
		return nil, nil, err
	}

	l.registry, l.table, l.loadedAt = registry, table, l.now()
	return l.registry, l.table, nil
}

// Invalidate drops the cached artifacts so the next LoadAll re-reads disk.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.table, l.registry = nil, nil
}
