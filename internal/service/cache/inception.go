package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"PerpParity/internal/domain/models"
	"PerpParity/internal/domain/repository"
	pkgcache "PerpParity/pkg/cache"
	"PerpParity/pkg/util"
)

// InceptionCache implements repository.InceptionCache on top of the shared
// cache service. Entries expire after the configured TTL so a corrected
// backfill eventually shows up without manual invalidation.
type InceptionCache struct {
	backend pkgcache.Service
	ttl     time.Duration
}

// NewInceptionCache creates the inception date cache.
func NewInceptionCache(backend pkgcache.Service, ttl time.Duration) repository.InceptionCache {
	return &InceptionCache{backend: backend, ttl: ttl}
}

func (c *InceptionCache) Get(ctx context.Context, assetID string, source models.SourceTag) (time.Time, bool, error) {
	var stored string
	err := c.backend.Get(ctx, inceptionKey(assetID, source), &stored)
	if err != nil {
		if errors.Is(err, pkgcache.ErrCacheMiss) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, err
	}

	t, ok := util.ParseDay(stored)
	if !ok {
		// Stale or corrupt entry; treat as a miss so the caller recomputes.
		return time.Time{}, false, nil
	}
	return t, true, nil
}

func (c *InceptionCache) Set(ctx context.Context, assetID string, source models.SourceTag, inception time.Time) error {
	return c.backend.Set(ctx, inceptionKey(assetID, source), util.FormatDay(inception), c.ttl)
}

func inceptionKey(assetID string, source models.SourceTag) string {
	return fmt.Sprintf("inception:%s:%s", assetID, source)
}
