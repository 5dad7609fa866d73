package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"medverify/config"
	"medverify/models"
	"medverify/store"
	"medverify/verification"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Status    int         `json:"status"`
	Error     string      `json:"error"`
	Details   interface{} `json:"details,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

func sendError(w http.ResponseWriter, status int, err string, details interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Status:    status,
		Error:     err,
		Details:   details,
		Timestamp: time.Now(),
	})
}

func sendJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

type Handlers struct {
	db     *gorm.DB
	svc    *verification.Service
	config *config.Config
	logger *zap.Logger
}

func NewHandlers(db *gorm.DB, svc *verification.Service, cfg *config.Config, logger *zap.Logger) *Handlers {
	return &Handlers{
		db:     db,
		svc:    svc,
		config: cfg,
		logger: logger,
	}
}

// sendServiceError maps lifecycle service errors onto HTTP statuses.
func (h *Handlers) sendServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		sendError(w, http.StatusNotFound, "Verification request not found", nil)
	case errors.Is(err, verification.ErrInvalidInput):
		sendError(w, http.StatusBadRequest, err.Error(), nil)
	default:
		h.logger.Error("request failed", zap.Error(err))
		sendError(w, http.StatusInternalServerError, "Internal server error", nil)
	}
}

func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now(),
		"service":   "MedVerify",
		"version":   "1.0.0",
	})
}

func (h *Handlers) logAudit(userID *uint, action, resource, details, ipAddress, userAgent string) {
	audit := models.AuditLog{
		UserID:    userID,
		Action:    action,
		Resource:  resource,
		Details:   details,
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}
	h.db.Create(&audit)
}
