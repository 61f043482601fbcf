package catalog

import (
	"context"
	"errors"
	"sync"

	"media-catalog/internal/filters"
	"media-catalog/internal/logging"
	"media-catalog/internal/query"
	"media-catalog/internal/retry"
	"media-catalog/internal/simhash"
	"media-catalog/internal/store"
)

// DefaultPageSize bounds Query results when the caller passes no limit.
const DefaultPageSize = 100

// Hasher recomputes an asset's perceptual hashes from its source file
// and committed filter pipeline. Implemented by the render package.
type Hasher interface {
	HashAsset(ctx context.Context, a *store.Asset) ([]simhash.Hash, error)
}

// Catalog orchestrates asset operations over a Store.
type Catalog struct {
	store  *store.Store
	hasher Hasher

	mu       sync.Mutex
	previews map[string]*filters.Preview
}

// New creates a Catalog. hasher may be nil, in which case filter
// commits keep the asset's existing hashes.
func New(s *store.Store, hasher Hasher) *Catalog {
	return &Catalog{
		store:    s,
		hasher:   hasher,
		previews: make(map[string]*filters.Preview),
	}
}

// Get resolves an asset by slug or unique slug prefix.
func (c *Catalog) Get(ctx context.Context, slug string) (*store.Asset, error) {
	return c.store.GetBySlug(ctx, slug)
}

// Query returns the page of assets matching every tag of the
// predicate, newest first. exhausted is true when the page came back
// short, meaning another call with a higher offset would be empty.
func (c *Catalog) Query(ctx context.Context, q query.Query, offset, limit int) ([]*store.Asset, bool, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if offset < 0 {
		offset = 0
	}

	assets, err := c.store.FindByTags(ctx, q.Tags(), offset, limit)
	if err != nil {
		return nil, false, err
	}
	return assets, len(assets) < limit, nil
}

// Count returns the number of assets in the catalog.
func (c *Catalog) Count(ctx context.Context) (int, error) {
	return c.store.Count(ctx)
}

// Tags returns every known tag with its usage count, most used first.
func (c *Catalog) Tags(ctx context.Context) ([]store.TagCount, error) {
	return c.store.TagCounts(ctx)
}

// Delete removes an asset permanently. Subsequent operations on the
// slug report ErrNotFound.
func (c *Catalog) Delete(ctx context.Context, slug string) error {
	a, err := c.store.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}

	c.mu.Lock()
	delete(c.previews, a.Slug)
	c.mu.Unlock()

	if err := c.store.Delete(ctx, a.ID); err != nil {
		return err
	}
	logging.Info("Deleted asset %s (%s)", a.Slug, a.Path)
	return nil
}

// save persists a modified asset, retrying transient store failures.
func (c *Catalog) save(ctx context.Context, a *store.Asset) error {
	cfg := retry.DefaultConfig()
	cfg.Retryable = func(err error) bool {
		return errors.Is(err, ErrDependencyUnavailable)
	}
	return retry.Do(ctx, "store", cfg, func() error {
		return c.store.Update(ctx, a)
	})
}
