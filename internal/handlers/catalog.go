package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"static-video-server/internal/catalog"
	"static-video-server/internal/logging"
	"static-video-server/internal/mediatypes"
	"static-video-server/internal/metrics"
	"static-video-server/internal/web"
)

// VideoList is the JSON form of one catalog generation.
type VideoList struct {
	Generation uint64          `json:"generation"`
	BuiltAt    time.Time       `json:"builtAt"`
	Count      int             `json:"count"`
	Videos     []catalog.Entry `json:"videos"`
}

// Index renders the HTML listing of the live generation.
func (h *Handlers) Index(w http.ResponseWriter, _ *http.Request) {
	page := web.NewIndexPage(h.store.Snapshot(), mediatypes.VideoExtensions())

	w.Header().Set("Content-Type", web.ContentTypeHTML)
	w.Header().Set("Cache-Control", "no-cache")

	if err := web.RenderIndex(w, page); err != nil {
		var renderErr *web.RenderError
		if errors.As(err, &renderErr) {
			logging.Error("Failed to render index: %v", err)
			http.Error(w, "Failed to render page", http.StatusInternalServerError)
			return
		}
		logging.Debug("Failed to write index page: %v", err)
	}
}

// Reload rebuilds the catalog and redirects back to the index. The rebuild
// always starts after the request arrived; requests queued behind a running
// build share the next one.
func (h *Handlers) Reload(w http.ResponseWriter, r *http.Request) {
	err := h.indexer.Reload(r.Context())
	switch {
	case err == nil:
		http.Redirect(w, r, "/", http.StatusSeeOther)
	case r.Context().Err() != nil && errors.Is(err, r.Context().Err()):
		logging.Debug("Client left before the catalog reload finished: %v", err)
	default:
		// Details name server paths; they stay in the log
		logging.Error("Catalog reload failed: %v", err)
		http.Error(w, "Failed to reload catalog", http.StatusInternalServerError)
	}
}

// ListVideos returns the live generation as JSON.
func (h *Handlers) ListVideos(w http.ResponseWriter, _ *http.Request) {
	gen := h.store.Snapshot()

	videos := gen.Entries
	if videos == nil {
		videos = []catalog.Entry{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	writeJSON(w, VideoList{
		Generation: gen.Number,
		BuiltAt:    gen.BuiltAt,
		Count:      gen.Len(),
		Videos:     videos,
	})
}

// GetVideo returns one catalog entry as JSON.
func (h *Handlers) GetVideo(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	entry, ok := h.store.Snapshot().Lookup(id)
	if !ok {
		metrics.CatalogLookupsTotal.WithLabelValues("miss").Inc()
		writeJSONError(w, "Video not found", http.StatusNotFound)
		return
	}
	metrics.CatalogLookupsTotal.WithLabelValues("hit").Inc()

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, entry)
}
