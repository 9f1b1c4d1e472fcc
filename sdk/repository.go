package sdk

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/birbparty/artifacts-go/internal/cachedb"
)

// Repository provides read access to one cached catalog category. Lookups
// hit an in-memory map; the map is populated on first use, either from the
// local store (when the server data version is unchanged) or by one full
// paginated sweep of the category's endpoint.
//
// All methods are safe for concurrent use. A repository never serves a
// partially loaded catalog: concurrent first lookups block on the same
// load, and a failed sweep leaves both memory and disk untouched.
type Repository[T any] struct {
	category string
	endpoint string
	keyOf    func(*T) string

	pipeline *requestPipeline
	versions *versionCache
	store    cachedb.Store
	observer Observer
	logger   *logrus.Logger
	pageSize int

	mu      sync.RWMutex
	loaded  bool
	records map[string]*T
	order   []string
}

func newRepository[T any](category, endpoint string, keyOf func(*T) string, c *Client) *Repository[T] {
	return &Repository[T]{
		category: category,
		endpoint: endpoint,
		keyOf:    keyOf,
		pipeline: c.pipeline,
		versions: c.versions,
		store:    c.store,
		observer: c.config.Observer,
		logger:   c.config.Logger,
		pageSize: c.config.PageSize,
	}
}

// Get returns the record with the given key, or nil when the category holds
// no such record. Absence is not an error.
func (r *Repository[T]) Get(ctx context.Context, key string) (*T, error) {
	if err := r.EnsureLoaded(ctx); err != nil {
		return nil, err
	}
	r.mu.RLock()
	record, ok := r.records[key]
	r.mu.RUnlock()
	if !ok {
		r.observer.OnCacheMiss(r.category, key)
		return nil, nil
	}
	r.observer.OnCacheHit(r.category, key)
	return record, nil
}

// All returns every record of the category in sweep order.
func (r *Repository[T]) All(ctx context.Context) ([]*T, error) {
	if err := r.EnsureLoaded(ctx); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*T, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.records[key])
	}
	return out, nil
}

// Filter returns the records matching every predicate. With no predicates
// it behaves like All.
func (r *Repository[T]) Filter(ctx context.Context, preds ...Predicate[T]) ([]*T, error) {
	all, err := r.All(ctx)
	if err != nil {
		return nil, err
	}
	if len(preds) == 0 {
		return all, nil
	}
	var out []*T
	for _, record := range all {
		if matchesAll(record, preds) {
			out = append(out, record)
		}
	}
	return out, nil
}

// Len returns the number of cached records, loading the catalog if needed.
func (r *Repository[T]) Len(ctx context.Context) (int, error) {
	if err := r.EnsureLoaded(ctx); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records), nil
}

// EnsureLoaded makes the catalog queryable, hydrating from disk or sweeping
// the server as needed. It is idempotent and cheap once loaded.
func (r *Repository[T]) EnsureLoaded(ctx context.Context) error {
	r.mu.RLock()
	loaded := r.loaded
	r.mu.RUnlock()
	if loaded {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loaded {
		return nil
	}

	stale, version, err := r.versions.shouldRebuild(ctx, r.category)
	if err != nil {
		return fmt.Errorf("checking %s cache version: %w", r.category, err)
	}

	if !stale {
		if err := r.hydrate(ctx); err != nil {
			return err
		}
		r.loaded = true
		return nil
	}

	pages, err := r.sweep(ctx, version)
	if err != nil {
		return err
	}
	r.loaded = true
	r.observer.OnCacheRebuild(r.category, pages, len(r.records), version)
	r.logger.WithFields(logrus.Fields{
		"category": r.category,
		"pages":    pages,
		"records":  len(r.records),
		"version":  version,
	}).Info("catalog rebuilt")
	return nil
}

// Invalidate drops the in-memory catalog, forcing the next lookup to check
// the server version again.
func (r *Repository[T]) Invalidate() {
	r.mu.Lock()
	r.loaded = false
	r.records = nil
	r.order = nil
	r.mu.Unlock()
}

// hydrate fills the in-memory map from the local store. Caller holds mu.
func (r *Repository[T]) hydrate(ctx context.Context) error {
	stored, err := r.store.Load(ctx, r.category)
	if err != nil {
		return fmt.Errorf("loading %s cache: %w", r.category, err)
	}

	records := make(map[string]*T, len(stored))
	order := make([]string, 0, len(stored))
	for _, rec := range stored {
		record := new(T)
		if err := json.Unmarshal(rec.Payload, record); err != nil {
			return fmt.Errorf("decoding cached %s record %q: %w", r.category, rec.Key, err)
		}
		records[rec.Key] = record
		order = append(order, rec.Key)
	}
	r.records = records
	r.order = order
	return nil
}

// sweep fetches every page of the category, then persists and installs the
// result atomically. Caller holds mu.
func (r *Repository[T]) sweep(ctx context.Context, version string) (int, error) {
	records := make(map[string]*T)
	payloads := make(map[string]json.RawMessage)
	var order []string

	page, totalPages := 1, 1
	for page <= totalPages {
		query := url.Values{
			"page": {strconv.Itoa(page)},
			"size": {strconv.Itoa(r.pageSize)},
		}
		var resp listResponse[json.RawMessage]
		if err := r.pipeline.get(ctx, r.endpoint, query, &resp); err != nil {
			return 0, fmt.Errorf("sweeping %s page %d: %w", r.category, page, err)
		}
		if resp.Pages > 0 {
			totalPages = resp.Pages
		}

		for _, raw := range resp.Data {
			record := new(T)
			if err := json.Unmarshal(raw, record); err != nil {
				return 0, &decodeError{op: "GET " + r.endpoint, err: err}
			}
			key := r.keyOf(record)
			if _, dup := records[key]; !dup {
				order = append(order, key)
			}
			records[key] = record
			payloads[key] = raw
		}
		page++
	}

	stored := make([]cachedb.Record, 0, len(order))
	for _, key := range order {
		stored = append(stored, cachedb.Record{Key: key, Payload: payloads[key]})
	}
	if err := r.store.Replace(ctx, r.category, version, stored); err != nil {
		return 0, fmt.Errorf("persisting %s cache: %w", r.category, err)
	}
	r.records = records
	r.order = order
	return totalPages, nil
}
