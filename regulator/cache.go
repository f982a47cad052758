package regulator

import (
	"crypto/sha1"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Cache stores the raw payload of one downloaded archive per key, so that
// repeated pipeline runs do not hammer the regulator's servers. The key is
// derived from source and period by the client; the staleness decision also
// belongs to the client, the cache only reports when it stored the payload.
//
// The cache is an injectable collaborator: tests substitute a deterministic
// in-memory fake for the disk implementation.
type Cache interface {
	// Get returns the cached payload for the key, when it was stored, and
	// whether it was present.
	Get(key string) (data []byte, storedAt time.Time, ok bool)
	// Put stores the payload under the key, replacing any previous payload.
	Put(key string, data []byte) error
}

// DiskCache is the Cache used in production: one file per key under Dir,
// with the file modification time as the storage time.
type DiskCache struct {
	Dir string
}

// filename maps a key to a stable file name. Keys contain slashes and
// period identifiers; hashing keeps the folder flat and name-safe.
func (c *DiskCache) filename(key string) string {
	return filepath.Join(c.Dir, fmt.Sprintf("%x.cache", sha1.Sum([]byte(key))))
}

// Get implements Cache.
func (c *DiskCache) Get(key string) ([]byte, time.Time, bool) {
	filename := c.filename(key)
	info, err := os.Stat(filename)
	if err != nil {
		return nil, time.Time{}, false
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, time.Time{}, false
	}
	return data, info.ModTime(), true
}

// Put implements Cache.
func (c *DiskCache) Put(key string, data []byte) error {
	if err := os.MkdirAll(c.Dir, 0755); err != nil {
		return fmt.Errorf("cannot create cache folder %q: %w", c.Dir, err)
	}
	filename := c.filename(key)
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("cannot write cache entry %q: %w", filename, err)
	}
	return nil
}
