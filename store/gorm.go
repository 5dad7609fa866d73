package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"medverify/models"
)

// GormRequestStore persists verification requests through gorm.
type GormRequestStore struct {
	db *gorm.DB
}

func NewGormRequestStore(db *gorm.DB) *GormRequestStore {
	return &GormRequestStore{db: db}
}

func (s *GormRequestStore) Create(ctx context.Context, req *models.VerificationRequest) error {
	return s.db.WithContext(ctx).Create(req).Error
}

func (s *GormRequestStore) Get(ctx context.Context, id uint) (*models.VerificationRequest, error) {
	var req models.VerificationRequest
	if err := s.db.WithContext(ctx).First(&req, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}

func (s *GormRequestStore) Update(ctx context.Context, req *models.VerificationRequest) error {
	return s.db.WithContext(ctx).Save(req).Error
}

func (s *GormRequestStore) List(ctx context.Context, filter ListFilter) ([]models.VerificationRequest, error) {
	q := s.db.WithContext(ctx).Model(&models.VerificationRequest{}).Order("id ASC")
	if filter.Status != nil {
		q = q.Where("overall_status = ?", *filter.Status)
	}
	if filter.RiskLevel != nil {
		q = q.Where("overall_risk_level = ?", *filter.RiskLevel)
	}
	if filter.Skip > 0 {
		q = q.Offset(filter.Skip)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var requests []models.VerificationRequest
	if err := q.Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

func (s *GormRequestStore) All(ctx context.Context) ([]models.VerificationRequest, error) {
	var requests []models.VerificationRequest
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}
