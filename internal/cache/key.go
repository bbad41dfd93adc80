// Package cache implements the content-addressed analysis cache: probe
// metadata, scene records, and speech segments, all keyed by
// (path, size, mtime) so a changed file invalidates itself without any
// explicit invalidation API (spec.md section 9, "caches are
// content-addressed").
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
)

// Key identifies one cacheable analysis of a file at a point in time.
type Key struct {
	Path  string
	Size  int64
	Mtime int64 // unix nanoseconds
}

// KeyFor stats path and builds its current cache Key.
func KeyFor(path string) (Key, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Key{}, fmt.Errorf("stat %s: %w", path, err)
	}

	return Key{Path: path, Size: info.Size(), Mtime: info.ModTime().UnixNano()}, nil
}

// Filename returns a stable sidecar filename for this key, scoped by kind
// (e.g. "probe", "scenes", "speech") so the same file's different analyses
// don't collide on disk.
func (k Key) Filename(kind string) string {
	sum := sha256.Sum256([]byte(k.Path))

	return hex.EncodeToString(sum[:])[:16] + "." + kind + ".json"
}

// Matches reports whether a previously stored key still describes path's
// current state.
func (k Key) Matches(other Key) bool {
	return k.Path == other.Path && k.Size == other.Size && k.Mtime == other.Mtime
}
