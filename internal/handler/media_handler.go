package handler

import (
	"log"
	"net/http"

	"github.com/formhive/formhive/internal/media"
)

type MediaHandler struct {
	host media.Host
}

func NewMediaHandler(host media.Host) *MediaHandler {
	return &MediaHandler{host: host}
}

// Delete proxies a single delete-asset call to the media host. The
// endpoint is login-gated; the host's error detail stays in the logs.
func (h *MediaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PublicID string `json:"publicId"`
	}
	if err := readJSON(r, &req); err != nil || req.PublicID == "" {
		writeError(w, http.StatusBadRequest, "publicId is required")
		return
	}
	if h.host == nil {
		writeError(w, http.StatusServiceUnavailable, "media host not configured")
		return
	}
	if err := h.host.DeleteAsset(r.Context(), req.PublicID); err != nil {
		log.Printf("media delete failed: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to delete asset")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
