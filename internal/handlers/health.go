package handlers

import (
	"net/http"
	"runtime"

	"media-catalog/internal/startup"
)

const (
	statusHealthy  = "healthy"
	statusDegraded = "degraded"
)

// HealthResponse contains the health check response.
type HealthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Uptime   string `json:"uptime"`
	Scanning bool   `json:"scanning"`
	LastScan string `json:"lastScan,omitempty"`

	// Library summary
	TotalAssets int   `json:"totalAssets"`
	Created     int64 `json:"created"`
	Skipped     int64 `json:"skipped"`
	Failed      int64 `json:"failed"`

	// System info
	GoVersion    string `json:"goVersion"`
	NumCPU       int    `json:"numCpu"`
	NumGoroutine int    `json:"numGoroutine"`
}

// HealthCheck reports service health plus a library summary.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	st := h.ingester.GetStatus()

	response := HealthResponse{
		Status:       statusHealthy,
		Version:      startup.Version,
		Uptime:       st.Uptime,
		Scanning:     st.Scanning,
		Created:      st.Created,
		Skipped:      st.Skipped,
		Failed:       st.Failed,
		GoVersion:    runtime.Version(),
		NumCPU:       runtime.NumCPU(),
		NumGoroutine: runtime.NumGoroutine(),
	}

	if !st.LastScan.IsZero() {
		response.LastScan = st.LastScan.Format("2006-01-02T15:04:05Z07:00")
	}

	total, err := h.catalog.Count(r.Context())
	if err != nil {
		response.Status = statusDegraded
	} else {
		response.TotalAssets = total
	}

	if response.Status != statusHealthy {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	writeJSON(w, response)
}

// ReadinessCheck reports whether the store answers queries. Scanning
// does not block readiness since the library is usable mid-scan.
func (h *Handlers) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	if _, err := h.catalog.Count(r.Context()); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		writeJSON(w, map[string]string{"status": "not ready"})
		return
	}
	writeJSON(w, map[string]string{"status": "ready"})
}
