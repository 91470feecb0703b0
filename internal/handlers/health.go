package handlers

import (
	"net/http"
	"runtime"
	"time"

	"static-video-server/internal/memory"
	"static-video-server/internal/startup"
)

const (
	statusHealthy  = "healthy"
	statusStarting = "starting"
	statusDegraded = "degraded"
)

// HealthResponse contains the health check response
type HealthResponse struct {
	Status      string `json:"status"`
	Ready       bool   `json:"ready"`
	Version     string `json:"version"`
	Uptime      string `json:"uptime"`
	Indexing    bool   `json:"indexing"`
	Watching    bool   `json:"watching"`
	LastIndexed string `json:"lastIndexed,omitempty"`
	LastError   string `json:"lastError,omitempty"`

	// Catalog info
	Generation         uint64 `json:"generation"`
	Videos             int    `json:"videos"`
	DirectoriesScanned int    `json:"directoriesScanned"`
	FilesSeen          int    `json:"filesSeen"`
	LastIndexDuration  string `json:"lastIndexDuration,omitempty"`

	// System info
	GoVersion    string        `json:"goVersion"`
	NumCPU       int           `json:"numCpu"`
	NumGoroutine int           `json:"numGoroutine"`
	Memory       *memory.Stats `json:"memory,omitempty"`
}

// HealthCheck returns the health status of the service
func (h *Handlers) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	healthStatus := h.indexer.GetHealthStatus()

	response := HealthResponse{
		Ready:              healthStatus.Ready,
		Version:            startup.Version,
		Uptime:             healthStatus.Uptime,
		Indexing:           healthStatus.Indexing,
		Watching:           healthStatus.Watching,
		Generation:         healthStatus.Generation,
		Videos:             healthStatus.Videos,
		DirectoriesScanned: healthStatus.DirectoriesScanned,
		FilesSeen:          healthStatus.FilesSeen,
		LastIndexDuration:  healthStatus.LastIndexDuration,
		GoVersion:          runtime.Version(),
		NumCPU:             runtime.NumCPU(),
		NumGoroutine:       runtime.NumGoroutine(),
		Memory:             healthStatus.Memory,
	}

	if healthStatus.Ready {
		response.Status = statusHealthy
	} else {
		response.Status = statusStarting
	}

	if !healthStatus.LastIndexed.IsZero() {
		response.LastIndexed = healthStatus.LastIndexed.Format(time.RFC3339)
	}

	// The live generation keeps serving after a failed reload
	if healthStatus.LastError != "" {
		response.LastError = healthStatus.LastError
		if healthStatus.Ready {
			response.Status = statusDegraded
		}
	}

	w.Header().Set("Content-Type", "application/json")

	if !healthStatus.Ready {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}

	writeJSON(w, response)
}

// LivenessCheck is a simple liveness probe (always returns 200 if server is running)
func (h *Handlers) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if r.Method != http.MethodHead {
		writeJSON(w, map[string]string{
			"status": "alive",
		})
	}
}

// ReadinessCheck returns 200 only once the first catalog generation is live
func (h *Handlers) ReadinessCheck(w http.ResponseWriter, _ *http.Request) {
	if h.indexer.IsReady() {
		writeJSONStatusCode(w, http.StatusOK, "ready")
	} else {
		writeJSONStatusCode(w, http.StatusServiceUnavailable, "not_ready")
	}
}
