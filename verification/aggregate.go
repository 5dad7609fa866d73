package verification

import "medverify/models"

// Aggregate computes the overall status and risk for a request from the risk
// levels of its present artifacts. It is pure and order-independent.
//
// Rules:
//   - no artifacts yet: risk stays at the default (medium), status untouched
//   - any high-risk artifact: status forced to needs_review, risk high
//   - otherwise: risk is the maximum across artifacts, status untouched
//
// Aggregation never produces approved or rejected; those transitions only
// happen through a reviewer override.
func Aggregate(current models.VerificationStatus, risks []models.RiskLevel) (models.VerificationStatus, models.RiskLevel) {
	if len(risks) == 0 {
		return current, models.DefaultRiskLevel
	}

	max := models.RiskLow
	for _, r := range risks {
		max = models.MaxRisk(max, r)
	}

	if max == models.RiskHigh {
		return models.StatusNeedsReview, models.RiskHigh
	}
	return current, max
}

// Reaggregate recomputes a request's aggregate fields in place. It must run
// after every artifact change.
func Reaggregate(req *models.VerificationRequest) {
	req.OverallStatus, req.OverallRiskLevel = Aggregate(req.OverallStatus, req.PresentRisks())
}
