package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"media-catalog/internal/catalog"
	"media-catalog/internal/logging"
	"media-catalog/internal/store"
)

// writeJSON encodes v as JSON and writes it to the response writer.
// Encoding or write errors are logged since we typically cannot
// recover from them once the handler has started writing.
func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("failed to encode JSON response: %v", err)
	}
}

// writeError maps an error from the lower layers onto an HTTP status
// and writes it as a JSON body.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, store.ErrAmbiguousSlug):
		status = http.StatusConflict
	case errors.Is(err, catalog.ErrInvalidFilterParams),
		errors.Is(err, catalog.ErrIndexOutOfRange),
		errors.Is(err, catalog.ErrBadStamp):
		status = http.StatusBadRequest
	case errors.Is(err, catalog.ErrDependencyUnavailable):
		status = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	writeJSON(w, map[string]string{"error": err.Error()})
}

// writeBadRequest reports a malformed request that never reached the
// lower layers.
func writeBadRequest(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	writeJSON(w, map[string]string{"error": message})
}

// decodeJSON decodes the request body into v, rejecting unknown fields
// so client typos surface as 400s instead of silently doing nothing.
func decodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// pageParams extracts offset/limit query parameters, applying the
// catalog default page size when the client sends nothing usable.
func pageParams(r *http.Request) (offset, limit int) {
	limit = catalog.DefaultPageSize
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v > 0 {
		offset = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = v
	}
	return offset, limit
}
