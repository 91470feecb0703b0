package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"static-video-server/internal/catalog"
	"static-video-server/internal/logging"
	"static-video-server/internal/metrics"
	"static-video-server/internal/streaming"
)

// StreamVideo serves the file behind a catalog identifier.
func (h *Handlers) StreamVideo(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	res, err := h.store.Resolve(id)
	if err != nil {
		metrics.CatalogLookupsTotal.WithLabelValues("miss").Inc()
		if catalog.IsNotFound(err) {
			http.Error(w, "Video not found", http.StatusNotFound)
			return
		}
		logging.Error("Failed to resolve %s: %v", id, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	metrics.CatalogLookupsTotal.WithLabelValues("hit").Inc()

	err = streaming.ServeFile(w, r, res.Path, res.ContentType, h.streamConfig)
	if err == nil {
		return
	}

	var openErr *streaming.OpenError
	switch {
	case errors.As(err, &openErr):
		logging.Error("Failed to open %s (%s): %v", id, res.Name, openErr.Err)
		http.Error(w, "Failed to open file", http.StatusInternalServerError)
	case errors.Is(err, streaming.ErrClientGone):
		logging.Debug("Client disconnected while streaming %s", res.Name)
	case errors.Is(err, streaming.ErrWriteTimeout):
		logging.Warn("Write timeout while streaming %s", res.Name)
	default:
		logging.Warn("Streaming %s failed: %v", res.Name, err)
	}
}
