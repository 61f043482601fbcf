package handlers

import (
	"net/http"

	"media-catalog/internal/tags"
)

// TagInfo is one row of the tag listing: the histogram entry together
// with the display classification clients use for grouping and color.
type TagInfo struct {
	Name  string     `json:"name"`
	Count int        `json:"count"`
	Group tags.Group `json:"group"`
	Hue   int        `json:"hue"`
}

// GetTags returns the library-wide tag histogram, most used first,
// with each tag's group and hue attached.
func (h *Handlers) GetTags(w http.ResponseWriter, r *http.Request) {
	counts, err := h.catalog.Tags(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	infos := make([]TagInfo, 0, len(counts))
	for _, tc := range counts {
		c := tags.Classify(tc.Name)
		infos = append(infos, TagInfo{Name: tc.Name, Count: tc.Count, Group: c.Group, Hue: c.Hue})
	}
	writeJSON(w, infos)
}
