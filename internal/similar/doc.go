// Package similar finds assets related to a probe asset, either by
// shared tags (Jaccard overlap) or by perceptual hash distance.
// Results are deterministic and paginated.
package similar
