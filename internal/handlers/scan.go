package handlers

import (
	"net/http"
)

// TriggerScan starts a background media scan. If a scan is already
// running the request reports that instead of queueing another.
func (h *Handlers) TriggerScan(w http.ResponseWriter, r *http.Request) {
	if h.ingester.IsScanning() {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		writeJSON(w, map[string]string{"status": "scan already running"})
		return
	}

	h.ingester.TriggerScan(r.Context())
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	writeJSON(w, map[string]string{"status": "scan started"})
}

// ScanStatus returns a snapshot of ingest progress.
func (h *Handlers) ScanStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, h.ingester.GetStatus())
}
