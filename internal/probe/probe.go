// Package probe implements the Probe Cache (spec.md section 4.B): cheap,
// repeated access to MediaInfo, memoized by (path, size, mtime) with a
// write-through JSON sidecar.
package probe

import (
	"context"
	"fmt"
	"time"

	"github.com/farcloser/komposer/internal/cache"
	"github.com/farcloser/komposer/internal/fault"
	"github.com/farcloser/komposer/internal/integration/ffprobe"
	"github.com/farcloser/komposer/internal/types"
)

// Cache probes files and caches their normalized MediaInfo.
type Cache struct {
	store *cache.Store[types.MediaInfo]
}

// New constructs a Cache with sidecars under metadataRoot and the given
// soft TTL (spec.md default: 5 minutes).
func New(metadataRoot string, ttl time.Duration) *Cache {
	return &Cache{store: cache.NewStore[types.MediaInfo](metadataRoot, "probe", ttl)}
}

// Probe returns path's MediaInfo, from cache when the file is unchanged,
// otherwise by invoking ffprobe and writing through.
func (c *Cache) Probe(ctx context.Context, path string) (types.MediaInfo, error) {
	if info, ok := c.store.Get(path); ok {
		return info, nil
	}

	result, err := ffprobe.Probe(ctx, path)
	if err != nil {
		return types.MediaInfo{}, err
	}

	info, err := result.ToMediaInfo()
	if err != nil {
		return types.MediaInfo{}, err
	}

	if err := c.store.Put(path, info); err != nil {
		return types.MediaInfo{}, fmt.Errorf("%w: caching probe result: %w", fault.ErrReadFailure, err)
	}

	return info, nil
}
