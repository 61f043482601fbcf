package similar

import (
	"context"
	"sort"
	"time"

	"media-catalog/internal/metrics"
	"media-catalog/internal/simhash"
	"media-catalog/internal/store"
)

// Defaults used when the caller does not configure thresholds.
const (
	DefaultMinOverlap  = 0.05
	DefaultMaxDistance = 8

	// Neighborhood expansion is combinatorial in the radius, so bucket
	// retrieval never expands past this many flipped bits. Candidates
	// further away than the cap are simply not retrieved.
	maxBucketRadius = 2
)

// Match is one related asset together with how it relates to the
// probe. Score is set for tag matches, Distance for content matches.
// Distance never carries omitempty: zero means an exact duplicate,
// not an absent value.
type Match struct {
	Asset    *store.Asset `json:"asset"`
	Score    float64      `json:"score,omitempty"`
	Distance int          `json:"distance"`
}

// Index answers similarity queries against a Store.
type Index struct {
	store       *store.Store
	flavor      simhash.Flavor
	minOverlap  float64
	maxDistance int
}

// New creates an Index. minOverlap is the smallest Jaccard score a
// tag match may have; maxDistance the largest Hamming distance a
// content match may have. Zero values select the defaults.
func New(s *store.Store, flavor simhash.Flavor, minOverlap float64, maxDistance int) *Index {
	if flavor == "" {
		flavor = simhash.DefaultFlavor
	}
	if minOverlap <= 0 {
		minOverlap = DefaultMinOverlap
	}
	if maxDistance <= 0 {
		maxDistance = DefaultMaxDistance
	}
	return &Index{store: s, flavor: flavor, minOverlap: minOverlap, maxDistance: maxDistance}
}

// ByTags returns assets sharing tags with the asset identified by
// slug, strongest overlap first. minOverlap is the smallest Jaccard
// score a match may have; a negative value selects the configured
// default. The probe asset itself is never a match. Unknown slugs
// surface store.ErrNotFound.
func (ix *Index) ByTags(ctx context.Context, slug string, minOverlap float64, offset, limit int) ([]Match, error) {
	start := time.Now()

	matches, err := ix.byTags(ctx, slug, minOverlap, offset, limit)

	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.SimilarityQueriesTotal.WithLabelValues("tags", status).Inc()
	metrics.SimilarityQueryDuration.WithLabelValues("tags").Observe(time.Since(start).Seconds())
	if err == nil {
		metrics.SimilarityResults.WithLabelValues("tags").Observe(float64(len(matches)))
	}
	return matches, err
}

func (ix *Index) byTags(ctx context.Context, slug string, minOverlap float64, offset, limit int) ([]Match, error) {
	if minOverlap < 0 {
		minOverlap = ix.minOverlap
	}

	probe, err := ix.store.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	candidates, err := ix.store.FindSharingTags(ctx, probe.ID)
	if err != nil {
		return nil, err
	}

	probeTags := toSet(probe.Tags)
	var matches []Match
	for _, c := range candidates {
		score := jaccard(probeTags, c.Tags)
		if score >= minOverlap {
			matches = append(matches, Match{Asset: c, Score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if !a.Asset.Stamp.Equal(b.Asset.Stamp) {
			return a.Asset.Stamp.After(b.Asset.Stamp)
		}
		return a.Asset.Slug < b.Asset.Slug
	})

	return page(matches, offset, limit), nil
}

// ByContent returns assets whose perceptual hash lies within
// maxDistance of the probe asset's hash, nearest first. A negative
// maxDistance selects the configured default. A probe without a
// stored hash yields an empty result.
func (ix *Index) ByContent(ctx context.Context, slug string, maxDistance, offset, limit int) ([]Match, error) {
	start := time.Now()

	matches, err := ix.byContent(ctx, slug, maxDistance, offset, limit)

	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.SimilarityQueriesTotal.WithLabelValues("content", status).Inc()
	metrics.SimilarityQueryDuration.WithLabelValues("content").Observe(time.Since(start).Seconds())
	if err == nil {
		metrics.SimilarityResults.WithLabelValues("content").Observe(float64(len(matches)))
	}
	return matches, err
}

func (ix *Index) byContent(ctx context.Context, slug string, maxDistance, offset, limit int) ([]Match, error) {
	if maxDistance < 0 {
		maxDistance = ix.maxDistance
	}

	probe, err := ix.store.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	probeHash := probe.HashFor(ix.flavor)
	if probeHash == nil {
		return nil, nil
	}

	radius := maxDistance
	if radius > maxBucketRadius {
		radius = maxBucketRadius
	}
	bucket := simhash.Neighbors(probeHash.Nibbles, radius)

	candidates, err := ix.store.FindByHashBucket(ctx, ix.flavor, bucket, probe.ID)
	if err != nil {
		return nil, err
	}

	var matches []Match
	for _, c := range candidates {
		best := -1
		for _, h := range c.Hashes {
			if h.Flavor != ix.flavor {
				continue
			}
			d, err := simhash.Distance(probeHash.Nibbles, h.Nibbles)
			if err != nil {
				continue
			}
			if best < 0 || d < best {
				best = d
			}
		}
		if best >= 0 && best <= maxDistance {
			matches = append(matches, Match{Asset: c, Distance: best})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.Distance != b.Distance {
			return a.Distance < b.Distance
		}
		return a.Asset.Slug < b.Asset.Slug
	})

	return page(matches, offset, limit), nil
}

func toSet(tags []string) map[string]bool {
	set := make(map[string]bool, len(tags))
	for _, t := range tags {
		set[t] = true
	}
	return set
}

// jaccard is intersection over union of the two tag sets.
func jaccard(a map[string]bool, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	intersection := 0
	bSet := toSet(b)
	for t := range bSet {
		if a[t] {
			intersection++
		}
	}
	union := len(a) + len(bSet) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func page(matches []Match, offset, limit int) []Match {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(matches) {
		return nil
	}
	matches = matches[offset:]
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}
