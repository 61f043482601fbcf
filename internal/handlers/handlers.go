package handlers

import (
	"github.com/gorilla/mux"

	"media-catalog/internal/catalog"
	"media-catalog/internal/ingest"
	"media-catalog/internal/render"
	"media-catalog/internal/similar"
	"media-catalog/internal/startup"
)

// Handlers holds the wired application components the REST layer
// dispatches into. The renderer may be nil when no writable cache
// directory is available; thumbnail routes answer 503 in that case.
type Handlers struct {
	catalog  *catalog.Catalog
	index    *similar.Index
	renderer *render.Renderer
	ingester *ingest.Ingester
	config   *startup.Config
}

// New creates the handler set from already-constructed components.
func New(c *catalog.Catalog, ix *similar.Index, rn *render.Renderer, in *ingest.Ingester, cfg *startup.Config) *Handlers {
	return &Handlers{
		catalog:  c,
		index:    ix,
		renderer: rn,
		ingester: in,
		config:   cfg,
	}
}

// RegisterRoutes attaches every route to the router. Kept in one place
// so the full surface is readable top to bottom.
func (h *Handlers) RegisterRoutes(r *mux.Router) {
	// Health and build info.
	r.HandleFunc("/api/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/api/version", h.GetVersion).Methods("GET")
	r.HandleFunc("/healthz", h.HealthCheck).Methods("GET")
	r.HandleFunc("/readyz", h.ReadinessCheck).Methods("GET")

	// Ingest control.
	r.HandleFunc("/api/scan", h.TriggerScan).Methods("POST")
	r.HandleFunc("/api/scan", h.ScanStatus).Methods("GET")

	rest := r.PathPrefix("/rest").Subrouter()

	// Library views.
	rest.HandleFunc("/tags", h.GetTags).Methods("GET")
	rest.HandleFunc("/query/{query:.*}", h.QueryAssets).Methods("GET")

	// Batch operations before the slug routes so "batch" is never
	// taken for a slug prefix.
	rest.HandleFunc("/batch/tags", h.BatchMutateTags).Methods("POST")
	rest.HandleFunc("/batch/stamp", h.BatchUpdateStamp).Methods("POST")
	rest.HandleFunc("/batch/filters", h.BatchApplyFilter).Methods("POST")
	rest.HandleFunc("/batch/delete", h.BatchDelete).Methods("POST")

	// Thumbnails and originals.
	rest.HandleFunc("/asset/thumb/{size}/{slug}", h.GetThumbnail).Methods("GET")
	rest.HandleFunc("/asset/file/{slug}", h.GetOriginal).Methods("GET")

	// Single-asset operations.
	rest.HandleFunc("/asset/{slug}", h.GetAsset).Methods("GET")
	rest.HandleFunc("/asset/{slug}", h.UpdateAsset).Methods("PUT")
	rest.HandleFunc("/asset/{slug}", h.DeleteAsset).Methods("DELETE")
	rest.HandleFunc("/asset/{slug}/tags", h.MutateTags).Methods("POST")
	rest.HandleFunc("/asset/{slug}/stamp", h.UpdateStamp).Methods("POST")
	rest.HandleFunc("/asset/{slug}/similar/tags", h.SimilarByTags).Methods("GET")
	rest.HandleFunc("/asset/{slug}/similar/content", h.SimilarByContent).Methods("GET")

	// Filter pipeline.
	rest.HandleFunc("/asset/{slug}/filters", h.ApplyFilter).Methods("POST")
	rest.HandleFunc("/asset/{slug}/filters/undo", h.UndoFilter).Methods("POST")
	rest.HandleFunc("/asset/{slug}/filters/{index:[0-9]+}", h.RemoveFilterAt).Methods("DELETE")

	// Filter preview sessions.
	rest.HandleFunc("/asset/{slug}/preview", h.StartPreview).Methods("POST")
	rest.HandleFunc("/asset/{slug}/preview", h.SetPreview).Methods("PUT")
	rest.HandleFunc("/asset/{slug}/preview/commit", h.CommitPreview).Methods("POST")
	rest.HandleFunc("/asset/{slug}/preview", h.CancelPreview).Methods("DELETE")
}
