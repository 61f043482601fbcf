package handlers

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"

	"media-catalog/internal/logging"
	"media-catalog/internal/store"
)

// TagMutationRequest names tags to add and remove in one operation.
// When the same tag appears in both lists the removal wins.
type TagMutationRequest struct {
	Add    []string `json:"add"`
	Remove []string `json:"remove"`
}

// StampRequest carries a new capture time, either absolute or a
// relative modifier chain like "+1y-2m".
type StampRequest struct {
	Stamp string `json:"stamp"`
}

// UpdateRequest combines the mutable pieces of an asset record. Stamp
// applies first so removed tags are judged against the new datetime
// tags.
type UpdateRequest struct {
	Stamp  string   `json:"stamp,omitempty"`
	Add    []string `json:"add,omitempty"`
	Remove []string `json:"remove,omitempty"`
}

// GetAsset returns a single asset by slug or unambiguous slug prefix.
func (h *Handlers) GetAsset(w http.ResponseWriter, r *http.Request) {
	a, err := h.catalog.Get(r.Context(), mux.Vars(r)["slug"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, a)
}

// UpdateAsset applies a combined stamp and tag update to one asset.
func (h *Handlers) UpdateAsset(w http.ResponseWriter, r *http.Request) {
	var req UpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.Stamp == "" && len(req.Add) == 0 && len(req.Remove) == 0 {
		writeBadRequest(w, "nothing to update")
		return
	}

	slug := mux.Vars(r)["slug"]
	var a *store.Asset
	var err error
	if req.Stamp != "" {
		if a, err = h.catalog.UpdateStamp(r.Context(), slug, req.Stamp); err != nil {
			writeError(w, err)
			return
		}
	}
	if len(req.Add) > 0 || len(req.Remove) > 0 {
		if a, err = h.catalog.MutateTags(r.Context(), slug, req.Add, req.Remove); err != nil {
			writeError(w, err)
			return
		}
	}
	writeJSON(w, a)
}

// DeleteAsset removes an asset and everything attached to it.
func (h *Handlers) DeleteAsset(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.Delete(r.Context(), mux.Vars(r)["slug"]); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, map[string]string{"status": "deleted"})
}

// MutateTags adds and removes tags on one asset.
func (h *Handlers) MutateTags(w http.ResponseWriter, r *http.Request) {
	var req TagMutationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if len(req.Add) == 0 && len(req.Remove) == 0 {
		writeBadRequest(w, "nothing to add or remove")
		return
	}

	a, err := h.catalog.MutateTags(r.Context(), mux.Vars(r)["slug"], req.Add, req.Remove)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, a)
}

// UpdateStamp replaces an asset's capture time and rederives its
// datetime tags.
func (h *Handlers) UpdateStamp(w http.ResponseWriter, r *http.Request) {
	var req StampRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.Stamp == "" {
		writeBadRequest(w, "stamp is required")
		return
	}

	a, err := h.catalog.UpdateStamp(r.Context(), mux.Vars(r)["slug"], req.Stamp)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, a)
}

// GetOriginal serves the asset's source file from the media directory.
func (h *Handlers) GetOriginal(w http.ResponseWriter, r *http.Request) {
	a, err := h.catalog.Get(r.Context(), mux.Vars(r)["slug"])
	if err != nil {
		writeError(w, err)
		return
	}

	absPath, err := filepath.Abs(a.Path)
	if err != nil || !isSubPath(h.config.MediaDir, absPath) {
		logging.Error("asset %s path escapes media dir: %s", a.Slug, a.Path)
		http.Error(w, "Invalid path", http.StatusBadRequest)
		return
	}

	http.ServeFile(w, r, absPath)
}

// isSubPath reports whether target sits inside base after resolving
// both to absolute form.
func isSubPath(base, target string) bool {
	absBase, err := filepath.Abs(base)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(absBase, target)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
