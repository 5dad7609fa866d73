package verification

import (
	"context"
	"math"

	"medverify/models"
)

// Stats counts requests per overall status and averages the processing time,
// in hours, of requests that reached approved or rejected.
func (s *Service) Stats(ctx context.Context) (*models.VerificationStats, error) {
	all, err := s.store.All(ctx)
	if err != nil {
		return nil, err
	}
	stats := ComputeStats(all)
	return &stats, nil
}

// ComputeStats derives statistics from a snapshot of requests. Average
// processing time is 0.0, not NaN, when nothing has completed yet.
func ComputeStats(requests []models.VerificationRequest) models.VerificationStats {
	stats := models.VerificationStats{TotalRequests: len(requests)}

	var totalHours float64
	var completed int
	for _, req := range requests {
		switch req.OverallStatus {
		case models.StatusPending:
			stats.PendingRequests++
		case models.StatusApproved:
			stats.ApprovedRequests++
		case models.StatusRejected:
			stats.RejectedRequests++
		case models.StatusNeedsReview:
			stats.NeedsReviewRequests++
		}
		if req.OverallStatus == models.StatusApproved || req.OverallStatus == models.StatusRejected {
			totalHours += req.UpdatedAt.Sub(req.CreatedAt).Hours()
			completed++
		}
	}

	if completed > 0 {
		stats.AverageProcessingTime = math.Round(totalHours/float64(completed)*100) / 100
	}
	return stats
}
