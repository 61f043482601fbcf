package handlers

import (
	"net/http"

	"media-catalog/internal/catalog"
	"media-catalog/internal/store"
)

// BatchTagsRequest applies one tag mutation to many assets.
type BatchTagsRequest struct {
	Slugs  []string `json:"slugs"`
	Add    []string `json:"add"`
	Remove []string `json:"remove"`
}

// BatchStampRequest applies one stamp spec to many assets.
type BatchStampRequest struct {
	Slugs []string `json:"slugs"`
	Stamp string   `json:"stamp"`
}

// BatchFilterRequest appends one filter to many assets.
type BatchFilterRequest struct {
	Slugs []string `json:"slugs"`
	FilterRequest
}

// BatchDeleteRequest removes many assets.
type BatchDeleteRequest struct {
	Slugs []string `json:"slugs"`
}

// BatchOutcome is the per-asset result of a batch operation. A failed
// asset never aborts the rest of the batch.
type BatchOutcome struct {
	Slug  string       `json:"slug"`
	OK    bool         `json:"ok"`
	Error string       `json:"error,omitempty"`
	Asset *store.Asset `json:"asset,omitempty"`
}

// BatchResponse summarizes a batch run.
type BatchResponse struct {
	Succeeded int            `json:"succeeded"`
	Failed    int            `json:"failed"`
	Outcomes  []BatchOutcome `json:"outcomes"`
}

// BatchMutateTags adds and removes tags across many assets.
func (h *Handlers) BatchMutateTags(w http.ResponseWriter, r *http.Request) {
	var req BatchTagsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if len(req.Slugs) == 0 {
		writeBadRequest(w, "slugs are required")
		return
	}

	writeJSON(w, toResponse(h.catalog.BatchMutateTags(r.Context(), req.Slugs, req.Add, req.Remove)))
}

// BatchUpdateStamp rewrites the capture time across many assets.
func (h *Handlers) BatchUpdateStamp(w http.ResponseWriter, r *http.Request) {
	var req BatchStampRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if len(req.Slugs) == 0 || req.Stamp == "" {
		writeBadRequest(w, "slugs and stamp are required")
		return
	}

	writeJSON(w, toResponse(h.catalog.BatchUpdateStamp(r.Context(), req.Slugs, req.Stamp)))
}

// BatchApplyFilter appends the same filter across many assets.
func (h *Handlers) BatchApplyFilter(w http.ResponseWriter, r *http.Request) {
	var req BatchFilterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if len(req.Slugs) == 0 || req.Kind == "" {
		writeBadRequest(w, "slugs and filter kind are required")
		return
	}

	writeJSON(w, toResponse(h.catalog.BatchApplyFilter(r.Context(), req.Slugs, req.Kind, req.Params)))
}

// BatchDelete removes many assets.
func (h *Handlers) BatchDelete(w http.ResponseWriter, r *http.Request) {
	var req BatchDeleteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if len(req.Slugs) == 0 {
		writeBadRequest(w, "slugs are required")
		return
	}

	writeJSON(w, toResponse(h.catalog.BatchDelete(r.Context(), req.Slugs)))
}

func toResponse(outcomes []catalog.Outcome) BatchResponse {
	resp := BatchResponse{Outcomes: make([]BatchOutcome, 0, len(outcomes))}
	for _, o := range outcomes {
		out := BatchOutcome{Slug: o.Slug, OK: !o.Failed(), Asset: o.Asset}
		if o.Failed() {
			out.Error = o.Err.Error()
			resp.Failed++
		} else {
			resp.Succeeded++
		}
		resp.Outcomes = append(resp.Outcomes, out)
	}
	return resp
}
