package store

import (
	"context"
	"errors"

	"medverify/models"
)

// ErrNotFound is returned when a lookup key has no record. Callers translate
// it to a 404 at the HTTP boundary.
var ErrNotFound = errors.New("record not found")

// ListFilter narrows and pages List results. Nil fields mean no filtering.
type ListFilter struct {
	Status    *models.VerificationStatus
	RiskLevel *models.RiskLevel
	Skip      int
	Limit     int
}

// RequestStore is the persistence boundary for verification requests. The
// lifecycle service only talks to this interface, so the gorm-backed store and
// the in-memory store are interchangeable.
type RequestStore interface {
	Create(ctx context.Context, req *models.VerificationRequest) error
	Get(ctx context.Context, id uint) (*models.VerificationRequest, error)
	Update(ctx context.Context, req *models.VerificationRequest) error
	List(ctx context.Context, filter ListFilter) ([]models.VerificationRequest, error)
	All(ctx context.Context) ([]models.VerificationRequest, error)
}
