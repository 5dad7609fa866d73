package store

import (
	"context"
	"sync"
	"time"

	"medverify/models"
)

// MemoryRequestStore keeps requests in a map with monotonically increasing
// ids. It favors clarity over performance: list filtering scans the full
// collection, which is fine at demo scale.
type MemoryRequestStore struct {
	mu       sync.RWMutex
	requests map[uint]models.VerificationRequest
	nextID   uint
}

func NewMemoryRequestStore() *MemoryRequestStore {
	return &MemoryRequestStore{
		requests: make(map[uint]models.VerificationRequest),
		nextID:   1,
	}
}

func (s *MemoryRequestStore) Create(_ context.Context, req *models.VerificationRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	req.ID = s.nextID
	s.nextID++
	now := time.Now()
	if req.CreatedAt.IsZero() {
		req.CreatedAt = now
	}
	if req.UpdatedAt.IsZero() {
		req.UpdatedAt = now
	}
	s.requests[req.ID] = *req
	return nil
}

func (s *MemoryRequestStore) Get(_ context.Context, id uint) (*models.VerificationRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if req, ok := s.requests[id]; ok {
		return &req, nil
	}
	return nil, ErrNotFound
}

func (s *MemoryRequestStore) Update(_ context.Context, req *models.VerificationRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.requests[req.ID]; !ok {
		return ErrNotFound
	}
	s.requests[req.ID] = *req
	return nil
}

func (s *MemoryRequestStore) List(_ context.Context, filter ListFilter) ([]models.VerificationRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []models.VerificationRequest
	// Map order is random; ids are assigned in creation order.
	for id := uint(1); id < s.nextID; id++ {
		req, ok := s.requests[id]
		if !ok {
			continue
		}
		if filter.Status != nil && req.OverallStatus != *filter.Status {
			continue
		}
		if filter.RiskLevel != nil && req.OverallRiskLevel != *filter.RiskLevel {
			continue
		}
		matched = append(matched, req)
	}

	if filter.Skip > 0 {
		if filter.Skip >= len(matched) {
			return nil, nil
		}
		matched = matched[filter.Skip:]
	}
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

func (s *MemoryRequestStore) All(_ context.Context) ([]models.VerificationRequest, error) {
	return s.List(context.Background(), ListFilter{})
}
