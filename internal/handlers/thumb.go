package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"media-catalog/internal/render"
)

// GetThumbnail serves a rendered JPEG of the asset at a named size,
// with the committed filter pipeline applied.
func (h *Handlers) GetThumbnail(w http.ResponseWriter, r *http.Request) {
	if h.renderer == nil {
		http.Error(w, "Thumbnails disabled", http.StatusServiceUnavailable)
		return
	}

	vars := mux.Vars(r)
	size := render.Size(vars["size"])
	if !size.Valid() {
		writeBadRequest(w, "unknown thumbnail size")
		return
	}

	a, err := h.catalog.Get(r.Context(), vars["slug"])
	if err != nil {
		writeError(w, err)
		return
	}

	data, err := h.renderer.Thumbnail(r.Context(), a, size)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	if _, err := w.Write(data); err != nil {
		// Client went away mid-transfer, nothing to do.
		return
	}
}
