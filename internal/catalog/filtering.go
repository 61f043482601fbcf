package catalog

import (
	"context"
	"fmt"

	"media-catalog/internal/filters"
	"media-catalog/internal/logging"
	"media-catalog/internal/store"
)

// ApplyFilter validates and appends a filter to the asset's committed
// pipeline, recomputes perceptual hashes when a hasher is configured,
// and returns the updated asset.
func (c *Catalog) ApplyFilter(ctx context.Context, slug string, kind filters.Kind, params filters.Params) (*store.Asset, error) {
	a, err := c.store.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	p := filters.NewPipeline(a.Filters)
	f, err := p.Append(kind, params)
	if err != nil {
		return nil, err
	}
	a.Filters = p.Filters()

	if f.PixelAffecting() {
		c.rehash(ctx, a)
	}

	if err := c.save(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// RemoveFilterAt removes the filter at index from the committed
// pipeline, later filters shifting down. Returns ErrIndexOutOfRange
// for an index the pipeline does not have.
func (c *Catalog) RemoveFilterAt(ctx context.Context, slug string, index int) (*store.Asset, error) {
	a, err := c.store.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	p := filters.NewPipeline(a.Filters)
	if err := p.RemoveAt(index); err != nil {
		return nil, err
	}
	a.Filters = p.Filters()
	c.rehash(ctx, a)

	if err := c.save(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// UndoFilter removes the most recently committed filter. Undo on an
// empty pipeline is a no-op, not an error.
func (c *Catalog) UndoFilter(ctx context.Context, slug string) (*store.Asset, error) {
	a, err := c.store.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	p := filters.NewPipeline(a.Filters)
	undone := p.UndoLast()
	if undone == nil {
		return a, nil
	}
	a.Filters = p.Filters()
	if undone.PixelAffecting() {
		c.rehash(ctx, a)
	}

	if err := c.save(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// StartPreview opens a preview session for a ranging filter kind on an
// asset. An existing session for the asset is replaced.
func (c *Catalog) StartPreview(ctx context.Context, slug string, kind filters.Kind) error {
	a, err := c.store.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}

	v, err := filters.StartPreview(kind)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.previews[a.Slug] = v
	c.mu.Unlock()
	return nil
}

// SetPreview replaces the candidate parameters of the asset's open
// preview session. The committed pipeline is untouched.
func (c *Catalog) SetPreview(ctx context.Context, slug string, params filters.Params) error {
	a, err := c.store.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}

	c.mu.Lock()
	v, ok := c.previews[a.Slug]
	c.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: no open preview for %s", ErrNotFound, a.Slug)
	}
	return v.Set(params)
}

// CommitPreview appends the preview's current parameters to the
// committed pipeline as exactly one filter and closes the session.
func (c *Catalog) CommitPreview(ctx context.Context, slug string) (*store.Asset, error) {
	a, err := c.store.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	v, ok := c.previews[a.Slug]
	delete(c.previews, a.Slug)
	c.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: no open preview for %s", ErrNotFound, a.Slug)
	}

	p := filters.NewPipeline(a.Filters)
	f, err := v.Commit(p)
	if err != nil {
		return nil, err
	}
	a.Filters = p.Filters()
	if f.PixelAffecting() {
		c.rehash(ctx, a)
	}

	if err := c.save(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// CancelPreview discards the asset's open preview session, if any.
func (c *Catalog) CancelPreview(ctx context.Context, slug string) error {
	a, err := c.store.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}

	c.mu.Lock()
	if v, ok := c.previews[a.Slug]; ok {
		v.Cancel()
		delete(c.previews, a.Slug)
	}
	c.mu.Unlock()
	return nil
}

// rehash refreshes the asset's perceptual hashes after a pixel change.
// Hash failure is logged but never blocks the edit itself.
func (c *Catalog) rehash(ctx context.Context, a *store.Asset) {
	if c.hasher == nil {
		return
	}
	hashes, err := c.hasher.HashAsset(ctx, a)
	if err != nil {
		logging.Warn("could not rehash %s after filter change: %v", a.Slug, err)
		return
	}
	a.Hashes = hashes
}
