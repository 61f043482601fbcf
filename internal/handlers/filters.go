package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"media-catalog/internal/filters"
)

// FilterRequest names a filter and its parameters. Params fields that
// the kind does not use are ignored.
type FilterRequest struct {
	Kind   filters.Kind   `json:"kind"`
	Params filters.Params `json:"params"`
}

// PreviewRequest opens a preview session for one filter kind.
type PreviewRequest struct {
	Kind filters.Kind `json:"kind"`
}

// PreviewParamsRequest updates the parameters of an open preview.
type PreviewParamsRequest struct {
	Params filters.Params `json:"params"`
}

// ApplyFilter validates and appends a filter to the asset's pipeline.
func (h *Handlers) ApplyFilter(w http.ResponseWriter, r *http.Request) {
	var req FilterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.Kind == "" {
		writeBadRequest(w, "filter kind is required")
		return
	}

	a, err := h.catalog.ApplyFilter(r.Context(), mux.Vars(r)["slug"], req.Kind, req.Params)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, a)
}

// RemoveFilterAt deletes the filter at the given pipeline position.
func (h *Handlers) RemoveFilterAt(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	index, err := strconv.Atoi(vars["index"])
	if err != nil {
		writeBadRequest(w, "invalid filter index")
		return
	}

	a, err := h.catalog.RemoveFilterAt(r.Context(), vars["slug"], index)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, a)
}

// UndoFilter drops the most recently applied filter. Undoing an empty
// pipeline is a no-op.
func (h *Handlers) UndoFilter(w http.ResponseWriter, r *http.Request) {
	a, err := h.catalog.UndoFilter(r.Context(), mux.Vars(r)["slug"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, a)
}

// StartPreview opens an ephemeral preview session for one filter.
func (h *Handlers) StartPreview(w http.ResponseWriter, r *http.Request) {
	var req PreviewRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.Kind == "" {
		writeBadRequest(w, "filter kind is required")
		return
	}

	if err := h.catalog.StartPreview(r.Context(), mux.Vars(r)["slug"], req.Kind); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, map[string]string{"status": "preview open"})
}

// SetPreview replaces the parameters of the open preview session.
func (h *Handlers) SetPreview(w http.ResponseWriter, r *http.Request) {
	var req PreviewParamsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	if err := h.catalog.SetPreview(r.Context(), mux.Vars(r)["slug"], req.Params); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, map[string]string{"status": "preview updated"})
}

// CommitPreview folds the previewed filter into the pipeline as a
// single entry and closes the session.
func (h *Handlers) CommitPreview(w http.ResponseWriter, r *http.Request) {
	a, err := h.catalog.CommitPreview(r.Context(), mux.Vars(r)["slug"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, a)
}

// CancelPreview discards the open preview session without touching the
// pipeline.
func (h *Handlers) CancelPreview(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.CancelPreview(r.Context(), mux.Vars(r)["slug"]); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, map[string]string{"status": "preview cancelled"})
}
