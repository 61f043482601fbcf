package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"media-catalog/internal/similar"
)

// SimilarResponse is one page of similarity matches for an asset.
type SimilarResponse struct {
	Slug    string          `json:"slug"`
	Matches []similar.Match `json:"matches"`
}

// SimilarByTags returns assets ranked by shared-tag overlap. The
// optional min query parameter overrides the configured Jaccard
// threshold for this request.
func (h *Handlers) SimilarByTags(w http.ResponseWriter, r *http.Request) {
	minOverlap := -1.0
	if raw := r.URL.Query().Get("min"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 || v > 1 {
			writeBadRequest(w, "min must be a number between 0 and 1")
			return
		}
		minOverlap = v
	}

	slug := mux.Vars(r)["slug"]
	offset, limit := pageParams(r)
	matches, err := h.index.ByTags(r.Context(), slug, minOverlap, offset, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeMatches(w, slug, matches)
}

// SimilarByContent returns assets ranked by perceptual hash distance.
// The optional max query parameter overrides the configured Hamming
// distance threshold for this request.
func (h *Handlers) SimilarByContent(w http.ResponseWriter, r *http.Request) {
	maxDistance := -1
	if raw := r.URL.Query().Get("max"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			writeBadRequest(w, "max must be a non-negative integer")
			return
		}
		maxDistance = v
	}

	slug := mux.Vars(r)["slug"]
	offset, limit := pageParams(r)
	matches, err := h.index.ByContent(r.Context(), slug, maxDistance, offset, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeMatches(w, slug, matches)
}

func writeMatches(w http.ResponseWriter, slug string, matches []similar.Match) {
	if matches == nil {
		matches = []similar.Match{}
	}
	writeJSON(w, SimilarResponse{Slug: slug, Matches: matches})
}
