package sdk

import (
	"context"
	"sync"

	"github.com/birbparty/artifacts-go/internal/cachedb"
)

// versionCache decides when a category's catalog must be re-swept. The
// server's root endpoint reports a data version; a category is stale when
// its stored version differs or it has never been cached.
//
// The server version is fetched at most once per client lifetime: reference
// data only changes with a server release, and a release restarts sessions.
type versionCache struct {
	pipeline *requestPipeline
	store    cachedb.Store

	mu            sync.Mutex
	fetched       bool
	serverVersion string
}

func newVersionCache(pipeline *requestPipeline, store cachedb.Store) *versionCache {
	return &versionCache{pipeline: pipeline, store: store}
}

// currentVersion returns the server's data version, fetching it on first
// use.
func (vc *versionCache) currentVersion(ctx context.Context) (string, error) {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	if vc.fetched {
		return vc.serverVersion, nil
	}

	var resp dataResponse[ServerDetails]
	if err := vc.pipeline.get(ctx, "/", nil, &resp); err != nil {
		return "", err
	}
	vc.fetched = true
	vc.serverVersion = resp.Data.Version
	return vc.serverVersion, nil
}

// shouldRebuild reports whether the category's stored records are usable,
// returning the server version the caller must stamp a rebuild with.
func (vc *versionCache) shouldRebuild(ctx context.Context, category string) (bool, string, error) {
	serverVersion, err := vc.currentVersion(ctx)
	if err != nil {
		return false, "", err
	}
	stored, err := vc.store.Version(ctx, category)
	if err != nil {
		return false, "", err
	}
	return stored != serverVersion, serverVersion, nil
}
