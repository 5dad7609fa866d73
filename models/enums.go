package models

// VerificationStatus is the lifecycle state of a request or a single artifact.
type VerificationStatus string

const (
	StatusPending     VerificationStatus = "pending"
	StatusApproved    VerificationStatus = "approved"
	StatusRejected    VerificationStatus = "rejected"
	StatusNeedsReview VerificationStatus = "needs_review"
)

func (s VerificationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusNeedsReview:
		return true
	}
	return false
}

// RiskLevel is totally ordered: low < medium < high.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// DefaultRiskLevel applies to a request before any artifact has arrived.
const DefaultRiskLevel = RiskMedium

var riskSeverity = map[RiskLevel]int{
	RiskLow:    0,
	RiskMedium: 1,
	RiskHigh:   2,
}

func (r RiskLevel) Severity() int {
	return riskSeverity[r]
}

func (r RiskLevel) Valid() bool {
	_, ok := riskSeverity[r]
	return ok
}

// MaxRisk returns the more severe of two risk levels.
func MaxRisk(a, b RiskLevel) RiskLevel {
	if b.Severity() > a.Severity() {
		return b
	}
	return a
}

// ArtifactKind identifies one of the four artifact slots on a request.
type ArtifactKind string

const (
	KindIDCard    ArtifactKind = "id_card"
	KindFace      ArtifactKind = "face"
	KindWorkBadge ArtifactKind = "work_badge"
	KindBankCard  ArtifactKind = "bank_card"
)

func AllArtifactKinds() []ArtifactKind {
	return []ArtifactKind{KindIDCard, KindFace, KindWorkBadge, KindBankCard}
}

func (k ArtifactKind) Valid() bool {
	switch k {
	case KindIDCard, KindFace, KindWorkBadge, KindBankCard:
		return true
	}
	return false
}
