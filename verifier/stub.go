// Package verifier holds the artifact verifier implementations. The stubs
// below synthesize plausible OCR and biometric results; real services would
// implement the same verification.ArtifactVerifier interface.
package verifier

import (
	"context"
	"fmt"
	"math/rand"

	"medverify/models"
	"medverify/verification"
)

// NewStubVerifiers wires a stub verifier for each artifact kind.
func NewStubVerifiers() verification.Verifiers {
	return verification.Verifiers{
		models.KindIDCard:    StubIDCardVerifier{},
		models.KindFace:      StubFaceVerifier{},
		models.KindWorkBadge: StubWorkBadgeVerifier{},
		models.KindBankCard:  StubBankCardVerifier{},
	}
}

// pendingResult is the shared outcome every stub assigns: verification starts
// pending and risk is low most of the time.
func pendingResult(lowChance float64) models.ArtifactResult {
	risk := models.RiskLow
	if rand.Float64() > lowChance {
		risk = models.RiskMedium
	}
	return models.ArtifactResult{
		VerificationStatus: models.StatusPending,
		RiskLevel:          risk,
	}
}

func randomDate(yearLo, yearHi int) string {
	return fmt.Sprintf("%d-%02d-%02d", yearLo+rand.Intn(yearHi-yearLo+1), 1+rand.Intn(12), 1+rand.Intn(28))
}

type StubIDCardVerifier struct{}

func (StubIDCardVerifier) Verify(_ context.Context, _ verification.Upload) (models.Artifact, error) {
	names := []string{"Dr. Wei Zhang", "Dr. Li Chen", "Dr. Jing Wang", "Dr. Hua Liu"}
	genders := []string{"male", "female"}
	return &models.IDCardVerification{
		IDNumber:         fmt.Sprintf("1101%014d", rand.Int63n(1e14)),
		Name:             names[rand.Intn(len(names))],
		Gender:           genders[rand.Intn(len(genders))],
		Nationality:      "Han",
		Address:          fmt.Sprintf("%d Hospital Road, Haidian District, Beijing", 1+rand.Intn(999)),
		BirthDate:        randomDate(1960, 1999),
		IssueDate:        randomDate(2010, 2020),
		ExpiryDate:       randomDate(2025, 2040),
		IssuingAuthority: "Beijing Public Security Bureau",
		OCRConfidence:    roundScore(0.85 + rand.Float64()*0.14),
		ArtifactResult:   pendingResult(0.8),
	}, nil
}

type StubFaceVerifier struct{}

func (StubFaceVerifier) Verify(_ context.Context, _ verification.Upload) (models.Artifact, error) {
	return &models.FaceVerification{
		FaceMatchScore: roundScore(0.75 + rand.Float64()*0.24),
		LivenessScore:  roundScore(0.80 + rand.Float64()*0.19),
		ArtifactResult: pendingResult(0.8),
	}, nil
}

type StubWorkBadgeVerifier struct{}

func (StubWorkBadgeVerifier) Verify(_ context.Context, _ verification.Upload) (models.Artifact, error) {
	hospitals := []string{"Union Medical College Hospital", "Peking University First Hospital", "Cancer Institute Hospital", "Tiantan Hospital"}
	departments := []string{"Cardiology", "Neurosurgery", "Oncology", "Pediatrics", "Obstetrics", "Emergency"}
	positions := []string{"Chief Physician", "Associate Chief Physician", "Attending Physician", "Resident Physician"}
	expiry := randomDate(2023, 2030)
	return &models.WorkBadgeVerification{
		BadgeID:        fmt.Sprintf("HOSP%05d", 10000+rand.Intn(90000)),
		HospitalName:   hospitals[rand.Intn(len(hospitals))],
		Department:     departments[rand.Intn(len(departments))],
		Position:       positions[rand.Intn(len(positions))],
		IssueDate:      randomDate(2015, 2022),
		ExpiryDate:     &expiry,
		OCRConfidence:  roundScore(0.80 + rand.Float64()*0.15),
		ArtifactResult: pendingResult(0.7),
	}, nil
}

type StubBankCardVerifier struct{}

func (StubBankCardVerifier) Verify(_ context.Context, _ verification.Upload) (models.Artifact, error) {
	banks := []string{"ICBC", "China Construction Bank", "Agricultural Bank of China", "Bank of China", "China Merchants Bank"}
	cardTypes := []string{"debit", "credit"}
	return &models.BankCardVerification{
		CardNumberLastFour: fmt.Sprintf("%04d", 1000+rand.Intn(9000)),
		BankName:           banks[rand.Intn(len(banks))],
		CardType:           cardTypes[rand.Intn(len(cardTypes))],
		ArtifactResult:     pendingResult(0.8),
	}, nil
}

func roundScore(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
