package store

import (
	"time"

	"media-catalog/internal/filters"
	"media-catalog/internal/mediatypes"
	"media-catalog/internal/simhash"
)

// Asset is one persisted media record. The slug is derived from file
// content at import and never changes; the path is immutable once
// imported. Tags never contain duplicates, and Filters preserve commit
// order.
type Asset struct {
	ID       int64             `json:"id"`
	Slug     string            `json:"slug"`
	Medium   mediatypes.Medium `json:"medium"`
	Path     string            `json:"path"`
	Stamp    time.Time         `json:"stamp"`
	Width    int               `json:"width,omitempty"`
	Height   int               `json:"height,omitempty"`
	Duration float64           `json:"duration,omitempty"`
	// Latitude and Longitude are capture coordinates in degrees, zero
	// when the source carried no geotag.
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
	Tags     []string          `json:"tags"`
	Filters  []filters.Filter  `json:"filters"`
	Hashes   []simhash.Hash    `json:"hashes,omitempty"`
}

// HasTag reports whether the asset carries the given tag.
func (a *Asset) HasTag(name string) bool {
	for _, t := range a.Tags {
		if t == name {
			return true
		}
	}
	return false
}

// HashFor returns the asset's first hash of the given flavor, or nil.
func (a *Asset) HashFor(flavor simhash.Flavor) *simhash.Hash {
	for i := range a.Hashes {
		if a.Hashes[i].Flavor == flavor {
			return &a.Hashes[i]
		}
	}
	return nil
}

// TagCount is one entry of the library-wide tag histogram.
type TagCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}
