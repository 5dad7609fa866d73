package handlers

import "net/http"

func (h *Handlers) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		h.sendServiceError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, stats)
}
