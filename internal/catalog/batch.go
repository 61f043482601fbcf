package catalog

import (
	"context"

	"media-catalog/internal/filters"
	"media-catalog/internal/logging"
	"media-catalog/internal/store"
)

// Outcome is the per-asset result of a batch operation. Err is nil on
// success; Asset carries the updated record for mutating operations.
type Outcome struct {
	Slug  string       `json:"slug"`
	Asset *store.Asset `json:"asset,omitempty"`
	Err   error        `json:"-"`
}

// Failed reports whether the operation on this asset failed.
func (o Outcome) Failed() bool {
	return o.Err != nil
}

// BatchMutateTags applies the same tag mutation to every slug. A
// failure on one asset is recorded and the batch continues.
func (c *Catalog) BatchMutateTags(ctx context.Context, slugs []string, add, remove []string) []Outcome {
	return c.each(ctx, slugs, "tag mutation", func(ctx context.Context, slug string) (*store.Asset, error) {
		return c.MutateTags(ctx, slug, add, remove)
	})
}

// BatchUpdateStamp applies the same stamp spec to every slug.
func (c *Catalog) BatchUpdateStamp(ctx context.Context, slugs []string, spec string) []Outcome {
	return c.each(ctx, slugs, "stamp update", func(ctx context.Context, slug string) (*store.Asset, error) {
		return c.UpdateStamp(ctx, slug, spec)
	})
}

// BatchApplyFilter appends the same filter to every slug.
func (c *Catalog) BatchApplyFilter(ctx context.Context, slugs []string, kind filters.Kind, params filters.Params) []Outcome {
	return c.each(ctx, slugs, "filter", func(ctx context.Context, slug string) (*store.Asset, error) {
		return c.ApplyFilter(ctx, slug, kind, params)
	})
}

// BatchDelete removes every named asset.
func (c *Catalog) BatchDelete(ctx context.Context, slugs []string) []Outcome {
	return c.each(ctx, slugs, "delete", func(ctx context.Context, slug string) (*store.Asset, error) {
		return nil, c.Delete(ctx, slug)
	})
}

func (c *Catalog) each(ctx context.Context, slugs []string, what string, op func(context.Context, string) (*store.Asset, error)) []Outcome {
	outcomes := make([]Outcome, 0, len(slugs))
	for _, slug := range slugs {
		a, err := op(ctx, slug)
		if err != nil {
			logging.Warn("batch %s failed for %s: %v", what, slug, err)
		}
		outcomes = append(outcomes, Outcome{Slug: slug, Asset: a, Err: err})
	}
	return outcomes
}
