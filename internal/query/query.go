package query

import (
	"strings"

	"media-catalog/internal/tags"
)

// Query is a conjunctive tag predicate: an asset matches when its tag
// set contains every segment. Segment order never changes the result
// set, but it is preserved for the canonical string representation, so
// toggled tags come and go positionally rather than being re-sorted.
type Query struct {
	segments []string
}

// Parse builds a Query from a '/'-delimited string. Segments are
// canonicalized through the tag classifier; empty, whitespace, and
// duplicate segments are silently dropped. Parse never fails.
func Parse(s string) Query {
	return New(strings.Split(s, "/")...)
}

// New builds a Query from already-separated tag names. Duplicates keep
// their first position, which preserves the toggle involution for any
// constructible query.
func New(names ...string) Query {
	var segs []string
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		name := tags.Canonical(n)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		segs = append(segs, name)
	}
	return Query{segments: segs}
}

// Tags returns a copy of the query's segments in positional order.
func (q Query) Tags() []string {
	out := make([]string, len(q.segments))
	copy(out, q.segments)
	return out
}

// IsEmpty reports whether the query has no segments. An empty query
// matches every asset.
func (q Query) IsEmpty() bool {
	return len(q.segments) == 0
}

// String returns the canonical round-trip representation: segments
// joined by '/' with a trailing slash, or "" for the empty query.
func (q Query) String() string {
	if len(q.segments) == 0 {
		return ""
	}
	return strings.Join(q.segments, "/") + "/"
}

// Match reports whether an asset's tag set satisfies the conjunction.
// Containment is exact string comparison; callers canonicalize input
// before it reaches the predicate.
func (q Query) Match(assetTags []string) bool {
	if len(q.segments) == 0 {
		return true
	}
	have := make(map[string]bool, len(assetTags))
	for _, t := range assetTags {
		have[t] = true
	}
	for _, seg := range q.segments {
		if !have[seg] {
			return false
		}
	}
	return true
}

// Toggle returns a new query with the tag removed (first occurrence)
// if present, or appended if absent. It is a pure function and an
// involution over the tag set: toggling twice matches exactly the
// assets the original matched. Positions are not preserved, since a
// re-added interior tag lands at the end.
func Toggle(q Query, tag string) Query {
	name := tags.Canonical(tag)
	if name == "" {
		return Query{segments: q.Tags()}
	}
	for i, seg := range q.segments {
		if seg == name {
			segs := make([]string, 0, len(q.segments)-1)
			segs = append(segs, q.segments[:i]...)
			segs = append(segs, q.segments[i+1:]...)
			return Query{segments: segs}
		}
	}
	return Query{segments: append(q.Tags(), name)}
}
