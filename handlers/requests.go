package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"medverify/middleware"
	"medverify/models"
	"medverify/store"
	"medverify/utils"
)

// urlKinds maps the hyphenated URL segment to the artifact kind.
var urlKinds = map[string]models.ArtifactKind{
	"id-card":    models.KindIDCard,
	"face":       models.KindFace,
	"work-badge": models.KindWorkBadge,
	"bank-card":  models.KindBankCard,
}

func requestIDFromPath(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid request id")
	}
	return uint(id), nil
}

func (h *Handlers) CreateRequest(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		sendError(w, http.StatusUnauthorized, "Invalid or missing token", nil)
		return
	}

	var req models.CreateRequestInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		sendError(w, http.StatusBadRequest, "Validation failed", utils.FormatValidationError(err))
		return
	}

	created, err := h.svc.CreateRequest(r.Context(), req.DoctorID)
	if err != nil {
		h.sendServiceError(w, err)
		return
	}

	h.logAudit(&claims.UserID, "CREATE", "VERIFICATION_REQUEST",
		fmt.Sprintf("Request created for doctor %d", req.DoctorID), r.RemoteAddr, r.UserAgent())

	sendJSON(w, http.StatusCreated, created)
}

func (h *Handlers) ListRequests(w http.ResponseWriter, r *http.Request) {
	filter := store.ListFilter{Limit: 100}

	if v := r.URL.Query().Get("status"); v != "" {
		status := models.VerificationStatus(v)
		if !status.Valid() {
			sendError(w, http.StatusBadRequest, "Invalid status filter", nil)
			return
		}
		filter.Status = &status
	}
	if v := r.URL.Query().Get("risk_level"); v != "" {
		risk := models.RiskLevel(v)
		if !risk.Valid() {
			sendError(w, http.StatusBadRequest, "Invalid risk_level filter", nil)
			return
		}
		filter.RiskLevel = &risk
	}
	if skip, err := strconv.Atoi(r.URL.Query().Get("skip")); err == nil && skip > 0 {
		filter.Skip = skip
	}
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && limit > 0 {
		filter.Limit = limit
	}

	requests, err := h.svc.ListRequests(r.Context(), filter)
	if err != nil {
		h.sendServiceError(w, err)
		return
	}
	if requests == nil {
		requests = []models.VerificationRequest{}
	}
	sendJSON(w, http.StatusOK, requests)
}

func (h *Handlers) GetRequest(w http.ResponseWriter, r *http.Request) {
	id, err := requestIDFromPath(r)
	if err != nil {
		sendError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	req, err := h.svc.GetRequest(r.Context(), id)
	if err != nil {
		h.sendServiceError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, req)
}

// UpdateStatus applies a manual reviewer override of the aggregate fields.
func (h *Handlers) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		sendError(w, http.StatusUnauthorized, "Invalid or missing token", nil)
		return
	}

	id, err := requestIDFromPath(r)
	if err != nil {
		sendError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	var in models.StatusUpdateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		sendError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if err := utils.ValidateStruct(in); err != nil {
		sendError(w, http.StatusBadRequest, "Validation failed", utils.FormatValidationError(err))
		return
	}

	updated, err := h.svc.SetStatus(r.Context(), id, in, claims.UserID)
	if err != nil {
		h.sendServiceError(w, err)
		return
	}

	h.logAudit(&claims.UserID, "UPDATE", "VERIFICATION_REQUEST",
		fmt.Sprintf("Status override to %s on request %d", in.Status, id), r.RemoteAddr, r.UserAgent())

	sendJSON(w, http.StatusOK, updated)
}

// UpdateArtifact overwrites one artifact slot with a hand-entered result.
func (h *Handlers) UpdateArtifact(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		sendError(w, http.StatusUnauthorized, "Invalid or missing token", nil)
		return
	}

	id, err := requestIDFromPath(r)
	if err != nil {
		sendError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	kind, ok := urlKinds[mux.Vars(r)["kind"]]
	if !ok {
		sendError(w, http.StatusBadRequest, "Unknown artifact kind", nil)
		return
	}

	var artifact models.Artifact
	switch kind {
	case models.KindIDCard:
		artifact = &models.IDCardVerification{}
	case models.KindFace:
		artifact = &models.FaceVerification{}
	case models.KindWorkBadge:
		artifact = &models.WorkBadgeVerification{}
	case models.KindBankCard:
		artifact = &models.BankCardVerification{}
	}

	if err := json.NewDecoder(r.Body).Decode(artifact); err != nil {
		sendError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if err := utils.ValidateStruct(artifact); err != nil {
		sendError(w, http.StatusBadRequest, "Validation failed", utils.FormatValidationError(err))
		return
	}

	if err := h.svc.UpdateArtifact(r.Context(), id, artifact); err != nil {
		h.sendServiceError(w, err)
		return
	}

	h.logAudit(&claims.UserID, "UPDATE", "ARTIFACT",
		fmt.Sprintf("Manual %s result on request %d", kind, id), r.RemoteAddr, r.UserAgent())

	sendJSON(w, http.StatusOK, artifact)
}
