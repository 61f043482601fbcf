package catalog

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"media-catalog/internal/store"
	"media-catalog/internal/tags"
)

// ErrBadStamp reports a stamp spec that is neither an absolute
// timestamp nor a sequence of relative modifiers.
var ErrBadStamp = fmt.Errorf("unparseable stamp spec")

var modifierPattern = regexp.MustCompile(`^(?:[-+]\d+[ymdh])+$`)
var modifierPart = regexp.MustCompile(`[-+]\d+[ymdh]`)

// Absolute formats accepted by UpdateStamp, tried in order.
var stampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// UpdateStamp changes an asset's timestamp. spec is either an absolute
// timestamp or a modifier string like "+1y-2m+3d-4h" applied to the
// current stamp in sequence. Datetime tags derived from the old stamp
// are replaced with those of the new one; user tags are untouched.
func (c *Catalog) UpdateStamp(ctx context.Context, slug, spec string) (*store.Asset, error) {
	a, err := c.store.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	stamp, err := resolveStamp(a.Stamp, spec)
	if err != nil {
		return nil, err
	}

	old := make(map[string]bool)
	for _, t := range tags.FromStamp(a.Stamp) {
		old[t] = true
	}

	kept := a.Tags[:0]
	for _, t := range a.Tags {
		if !old[t] {
			kept = append(kept, t)
		}
	}
	a.Tags = append(kept, tags.FromStamp(stamp)...)
	tags.Sort(a.Tags)
	a.Stamp = stamp

	if err := c.save(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// resolveStamp interprets spec against the current stamp.
func resolveStamp(current time.Time, spec string) (time.Time, error) {
	if modifierPattern.MatchString(spec) {
		return applyModifiers(current, spec), nil
	}
	for _, layout := range stampLayouts {
		if t, err := time.Parse(layout, spec); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrBadStamp, spec)
}

// applyModifiers shifts t by each [-+]N[ymdh] modifier in order.
func applyModifiers(t time.Time, spec string) time.Time {
	for _, part := range modifierPart.FindAllString(spec, -1) {
		n, _ := strconv.Atoi(part[:len(part)-1])
		switch part[len(part)-1] {
		case 'y':
			t = t.AddDate(n, 0, 0)
		case 'm':
			t = t.AddDate(0, n, 0)
		case 'd':
			t = t.AddDate(0, 0, n)
		case 'h':
			t = t.Add(time.Duration(n) * time.Hour)
		}
	}
	return t
}
