package handlers

import (
	"net/http"
	"strconv"

	"static-video-server/internal/logging"
	"static-video-server/internal/web"
)

// ServeAsset returns a handler writing an embedded asset with its fixed
// content type.
func (h *Handlers) ServeAsset(asset web.Asset) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", asset.ContentType)
		w.Header().Set("Content-Length", strconv.Itoa(len(asset.Body)))
		w.Header().Set("Cache-Control", "public, max-age=3600")

		if r.Method == http.MethodHead {
			return
		}
		if _, err := w.Write(asset.Body); err != nil {
			logging.Debug("Failed to write asset %s: %v", r.URL.Path, err)
		}
	}
}
