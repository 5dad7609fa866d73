package handlers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"medverify/middleware"
	"medverify/verification"
)

// UploadArtifact accepts a multipart artifact upload, runs it through the
// lifecycle service and returns the stored filename plus the analysis result.
func (h *Handlers) UploadArtifact(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		sendError(w, http.StatusUnauthorized, "Invalid or missing token", nil)
		return
	}

	kind, ok := urlKinds[mux.Vars(r)["kind"]]
	if !ok {
		sendError(w, http.StatusBadRequest, "Unknown artifact kind", nil)
		return
	}

	id, err := requestIDFromPath(r)
	if err != nil {
		sendError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		sendError(w, http.StatusBadRequest, "Missing file field", err.Error())
		return
	}
	defer file.Close()

	// Read one byte past the limit so the service can reject oversized files
	// without buffering arbitrarily large bodies.
	content, err := io.ReadAll(io.LimitReader(file, verification.MaxUploadSize+1))
	if err != nil {
		sendError(w, http.StatusInternalServerError, "Failed to read upload", nil)
		return
	}

	result, err := h.svc.SubmitArtifact(r.Context(), id, kind, verification.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Content:     content,
	})
	if err != nil {
		h.sendServiceError(w, err)
		return
	}

	h.logAudit(&claims.UserID, "CREATE", "ARTIFACT",
		fmt.Sprintf("Uploaded %s for request %d", kind, id), r.RemoteAddr, r.UserAgent())

	sendJSON(w, http.StatusOK, result)
}
