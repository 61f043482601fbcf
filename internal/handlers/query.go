package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"media-catalog/internal/query"
	"media-catalog/internal/store"
)

// QueryResponse is one page of query results. Exhausted tells the
// client there is no further page to fetch.
type QueryResponse struct {
	Query     string         `json:"query"`
	Assets    []*store.Asset `json:"assets"`
	Offset    int            `json:"offset"`
	Limit     int            `json:"limit"`
	Exhausted bool           `json:"exhausted"`
}

// QueryAssets runs a tag conjunction query. An empty query matches the
// whole library, newest first.
func (h *Handlers) QueryAssets(w http.ResponseWriter, r *http.Request) {
	q := query.Parse(mux.Vars(r)["query"])
	offset, limit := pageParams(r)

	assets, exhausted, err := h.catalog.Query(r.Context(), q, offset, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if assets == nil {
		assets = []*store.Asset{}
	}

	writeJSON(w, QueryResponse{
		Query:     q.String(),
		Assets:    assets,
		Offset:    offset,
		Limit:     limit,
		Exhausted: exhausted,
	})
}
