// Package query implements the path-style boolean tag query used for
// browsing the catalog.
//
// A query string is a '/'-delimited sequence of tag names, e.g.
// "beach/2019/", and matches assets carrying every named tag. Parsing
// is permissive: empty and whitespace segments are dropped rather than
// rejected. Toggling a tag appends it, or removes its first occurrence
// if already present, so toggling twice always round-trips.
package query
