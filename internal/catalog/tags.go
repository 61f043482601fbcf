package catalog

import (
	"context"

	"media-catalog/internal/store"
	"media-catalog/internal/tags"
)

// MutateTags adds and removes tags on an asset in one operation.
// Names are canonicalized first; additions apply before removals, so a
// name appearing in both lists ends up absent. Adding a present tag or
// removing an absent one is a no-op. Returns the updated asset.
func (c *Catalog) MutateTags(ctx context.Context, slug string, add, remove []string) (*store.Asset, error) {
	a, err := c.store.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	set := make(map[string]bool, len(a.Tags))
	for _, t := range a.Tags {
		set[t] = true
	}

	for _, name := range add {
		if canon := tags.Canonical(name); canon != "" {
			set[canon] = true
		}
	}
	for _, name := range remove {
		delete(set, tags.Canonical(name))
	}

	a.Tags = a.Tags[:0]
	for t := range set {
		a.Tags = append(a.Tags, t)
	}
	tags.Sort(a.Tags)

	if err := c.save(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}
