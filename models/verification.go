package models

import (
	"time"
)

// ArtifactResult carries the aggregation-relevant outcome shared by every
// artifact kind. Each verification record embeds it alongside its own fields.
type ArtifactResult struct {
	VerificationStatus VerificationStatus `json:"verification_status" validate:"required,oneof=pending approved rejected needs_review"`
	RiskLevel          RiskLevel          `json:"risk_level" validate:"required,oneof=low medium high"`
	VerificationNotes  *string            `json:"verification_notes,omitempty"`
}

// Artifact is implemented by the four per-kind verification records.
type Artifact interface {
	Result() *ArtifactResult
}

type IDCardVerification struct {
	IDNumber         string  `json:"id_number" validate:"required"`
	Name             string  `json:"name" validate:"required"`
	Gender           string  `json:"gender"`
	Nationality      string  `json:"nationality"`
	Address          string  `json:"address"`
	BirthDate        string  `json:"birth_date"`
	IssueDate        string  `json:"issue_date"`
	ExpiryDate       string  `json:"expiry_date"`
	IssuingAuthority string  `json:"issuing_authority"`
	OCRConfidence    float64 `json:"ocr_confidence" validate:"min=0,max=1"`
	ArtifactResult
}

func (v *IDCardVerification) Result() *ArtifactResult { return &v.ArtifactResult }

type FaceVerification struct {
	FaceMatchScore float64 `json:"face_match_score" validate:"min=0,max=1"`
	LivenessScore  float64 `json:"liveness_score" validate:"min=0,max=1"`
	ArtifactResult
}

func (v *FaceVerification) Result() *ArtifactResult { return &v.ArtifactResult }

type WorkBadgeVerification struct {
	BadgeID       string  `json:"badge_id" validate:"required"`
	HospitalName  string  `json:"hospital_name" validate:"required"`
	Department    string  `json:"department"`
	Position      string  `json:"position"`
	IssueDate     string  `json:"issue_date"`
	ExpiryDate    *string `json:"expiry_date,omitempty"`
	OCRConfidence float64 `json:"ocr_confidence" validate:"min=0,max=1"`
	ArtifactResult
}

func (v *WorkBadgeVerification) Result() *ArtifactResult { return &v.ArtifactResult }

type BankCardVerification struct {
	CardNumberLastFour string `json:"card_number_last_four" validate:"required,len=4"`
	BankName           string `json:"bank_name" validate:"required"`
	CardType           string `json:"card_type"`
	ArtifactResult
}

func (v *BankCardVerification) Result() *ArtifactResult { return &v.ArtifactResult }

// VerificationRequest is the aggregate root: one row per doctor verification,
// with the four artifact slots stored as JSON columns. Requests are never
// deleted, so there is no soft-delete column.
type VerificationRequest struct {
	ID               uint                   `json:"id" gorm:"primaryKey"`
	DoctorID         uint                   `json:"doctor_id" gorm:"not null;index"`
	IDCard           *IDCardVerification    `json:"id_card" gorm:"serializer:json"`
	Face             *FaceVerification      `json:"face" gorm:"serializer:json"`
	WorkBadge        *WorkBadgeVerification `json:"work_badge" gorm:"serializer:json"`
	BankCard         *BankCardVerification  `json:"bank_card" gorm:"serializer:json"`
	OverallStatus    VerificationStatus     `json:"overall_status" gorm:"default:pending;index"`
	OverallRiskLevel RiskLevel              `json:"overall_risk_level" gorm:"default:medium;index"`
	CreatedAt        time.Time              `json:"created_at"`
	UpdatedAt        time.Time              `json:"updated_at"`
	VerifiedBy       *uint                  `json:"verified_by"`
}

// Attach assigns the artifact into its slot, replacing any prior result.
func (r *VerificationRequest) Attach(a Artifact) {
	switch v := a.(type) {
	case *IDCardVerification:
		r.IDCard = v
	case *FaceVerification:
		r.Face = v
	case *WorkBadgeVerification:
		r.WorkBadge = v
	case *BankCardVerification:
		r.BankCard = v
	}
}

// PresentResults returns the shared result of every slot that holds an artifact.
func (r *VerificationRequest) PresentResults() []*ArtifactResult {
	var out []*ArtifactResult
	if r.IDCard != nil {
		out = append(out, r.IDCard.Result())
	}
	if r.Face != nil {
		out = append(out, r.Face.Result())
	}
	if r.WorkBadge != nil {
		out = append(out, r.WorkBadge.Result())
	}
	if r.BankCard != nil {
		out = append(out, r.BankCard.Result())
	}
	return out
}

// PresentRisks returns the risk level of every present artifact.
func (r *VerificationRequest) PresentRisks() []RiskLevel {
	results := r.PresentResults()
	risks := make([]RiskLevel, 0, len(results))
	for _, res := range results {
		risks = append(risks, res.RiskLevel)
	}
	return risks
}

// BroadcastNotes writes the same reviewer note onto every present artifact.
// Absent slots stay absent.
func (r *VerificationRequest) BroadcastNotes(notes string) {
	for _, res := range r.PresentResults() {
		n := notes
		res.VerificationNotes = &n
	}
}

type CreateRequestInput struct {
	DoctorID uint `json:"doctor_id" validate:"required,gt=0"`
}

type StatusUpdateInput struct {
	Status    VerificationStatus `json:"status" validate:"required,oneof=pending approved rejected needs_review"`
	RiskLevel *RiskLevel         `json:"risk_level" validate:"omitempty,oneof=low medium high"`
	Notes     string             `json:"notes"`
}

type VerificationStats struct {
	TotalRequests         int     `json:"total_requests"`
	PendingRequests       int     `json:"pending_requests"`
	ApprovedRequests      int     `json:"approved_requests"`
	RejectedRequests      int     `json:"rejected_requests"`
	NeedsReviewRequests   int     `json:"needs_review_requests"`
	AverageProcessingTime float64 `json:"average_processing_time"` // hours
}
