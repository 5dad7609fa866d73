package verification_test

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"medverify/models"
	"medverify/store"
	"medverify/verification"
)

type verifierFunc func(ctx context.Context, up verification.Upload) (models.Artifact, error)

func (f verifierFunc) Verify(ctx context.Context, up verification.Upload) (models.Artifact, error) {
	return f(ctx, up)
}

// memFiles records saved uploads instead of touching disk.
type memFiles struct {
	mu    sync.Mutex
	saved []string
}

func (m *memFiles) Save(kind models.ArtifactKind, requestID uint, filename string, _ []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	name := fmt.Sprintf("%d_%s", requestID, filename)
	m.saved = append(m.saved, string(kind)+"/"+name)
	return name, nil
}

// testEnv builds a service whose verifiers return a pending result with the
// risk currently configured for the kind.
type testEnv struct {
	svc   *verification.Service
	store *store.MemoryRequestStore
	files *memFiles
	mu    sync.Mutex
	risks map[models.ArtifactKind]models.RiskLevel
}

func (e *testEnv) setRisk(kind models.ArtifactKind, risk models.RiskLevel) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.risks[kind] = risk
}

func (e *testEnv) risk(kind models.ArtifactKind) models.RiskLevel {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.risks[kind]
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		store: store.NewMemoryRequestStore(),
		files: &memFiles{},
		risks: map[models.ArtifactKind]models.RiskLevel{
			models.KindIDCard:    models.RiskLow,
			models.KindFace:      models.RiskLow,
			models.KindWorkBadge: models.RiskLow,
			models.KindBankCard:  models.RiskLow,
		},
	}

	result := func(kind models.ArtifactKind) models.ArtifactResult {
		return models.ArtifactResult{
			VerificationStatus: models.StatusPending,
			RiskLevel:          env.risk(kind),
		}
	}
	verifiers := verification.Verifiers{
		models.KindIDCard: verifierFunc(func(context.Context, verification.Upload) (models.Artifact, error) {
			return &models.IDCardVerification{IDNumber: "110101199001011234", Name: "Dr. Test", ArtifactResult: result(models.KindIDCard)}, nil
		}),
		models.KindFace: verifierFunc(func(context.Context, verification.Upload) (models.Artifact, error) {
			return &models.FaceVerification{FaceMatchScore: 0.92, LivenessScore: 0.98, ArtifactResult: result(models.KindFace)}, nil
		}),
		models.KindWorkBadge: verifierFunc(func(context.Context, verification.Upload) (models.Artifact, error) {
			return &models.WorkBadgeVerification{BadgeID: "HOSP12345", HospitalName: "Test Hospital", ArtifactResult: result(models.KindWorkBadge)}, nil
		}),
		models.KindBankCard: verifierFunc(func(context.Context, verification.Upload) (models.Artifact, error) {
			return &models.BankCardVerification{CardNumberLastFour: "6789", BankName: "Test Bank", ArtifactResult: result(models.KindBankCard)}, nil
		}),
	}

	env.svc = verification.NewService(env.store, env.files, verifiers, zap.NewNop())
	return env
}

func jpegUpload() verification.Upload {
	return verification.Upload{
		Filename:    "scan.jpg",
		ContentType: "image/jpeg",
		Content:     []byte("fake image bytes"),
	}
}

func TestCreateRequestStartsEmpty(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	req, err := env.svc.CreateRequest(ctx, 7)
	require.NoError(t, err)
	assert.NotZero(t, req.ID)
	assert.Equal(t, uint(7), req.DoctorID)
	assert.Equal(t, models.StatusPending, req.OverallStatus)
	assert.Equal(t, models.RiskMedium, req.OverallRiskLevel)
	assert.Nil(t, req.IDCard)
	assert.Nil(t, req.Face)
	assert.Nil(t, req.WorkBadge)
	assert.Nil(t, req.BankCard)
	assert.Nil(t, req.VerifiedBy)
}

func TestCreateRequestRequiresDoctor(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.svc.CreateRequest(context.Background(), 0)
	assert.ErrorIs(t, err, verification.ErrInvalidInput)
}

func TestSubmitArtifactStoresResultAndAggregates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	req, err := env.svc.CreateRequest(ctx, 7)
	require.NoError(t, err)

	env.setRisk(models.KindIDCard, models.RiskMedium)
	result, err := env.svc.SubmitArtifact(ctx, req.ID, models.KindIDCard, jpegUpload())
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", result.ContentType)
	assert.NotEmpty(t, result.Filename)
	assert.Len(t, env.files.saved, 1)

	stored, err := env.svc.GetRequest(ctx, req.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.IDCard)
	assert.Equal(t, models.RiskMedium, stored.IDCard.RiskLevel)
	assert.Equal(t, models.StatusPending, stored.OverallStatus)
	assert.Equal(t, models.RiskMedium, stored.OverallRiskLevel)
	assert.True(t, stored.UpdatedAt.After(req.CreatedAt) || stored.UpdatedAt.Equal(req.CreatedAt))
}

func TestSubmitArtifactUnknownRequest(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.svc.SubmitArtifact(context.Background(), 42, models.KindFace, jpegUpload())
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Empty(t, env.files.saved)
}

func TestSubmitArtifactRejectsContentType(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	req, err := env.svc.CreateRequest(ctx, 7)
	require.NoError(t, err)

	// PDFs are fine for documents but not for photos.
	pdf := verification.Upload{Filename: "face.pdf", ContentType: "application/pdf", Content: []byte("%PDF")}
	_, err = env.svc.SubmitArtifact(ctx, req.ID, models.KindFace, pdf)
	assert.ErrorIs(t, err, verification.ErrInvalidInput)
	_, err = env.svc.SubmitArtifact(ctx, req.ID, models.KindBankCard, pdf)
	assert.ErrorIs(t, err, verification.ErrInvalidInput)
	assert.Empty(t, env.files.saved)

	pdf.Filename = "card.pdf"
	_, err = env.svc.SubmitArtifact(ctx, req.ID, models.KindIDCard, pdf)
	assert.NoError(t, err)
}

func TestSubmitArtifactRejectsOversized(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	req, err := env.svc.CreateRequest(ctx, 7)
	require.NoError(t, err)

	up := jpegUpload()
	up.Content = bytes.Repeat([]byte("x"), verification.MaxUploadSize+1)
	_, err = env.svc.SubmitArtifact(ctx, req.ID, models.KindFace, up)
	assert.ErrorIs(t, err, verification.ErrInvalidInput)
	assert.Empty(t, env.files.saved)
}

func TestResubmissionOverwritesSlot(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	req, err := env.svc.CreateRequest(ctx, 7)
	require.NoError(t, err)

	env.setRisk(models.KindIDCard, models.RiskHigh)
	_, err = env.svc.SubmitArtifact(ctx, req.ID, models.KindIDCard, jpegUpload())
	require.NoError(t, err)

	stored, err := env.svc.GetRequest(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusNeedsReview, stored.OverallStatus)
	assert.Equal(t, models.RiskHigh, stored.OverallRiskLevel)

	// A clean rescan replaces the slot; risk reflects only the latest value.
	env.setRisk(models.KindIDCard, models.RiskLow)
	_, err = env.svc.SubmitArtifact(ctx, req.ID, models.KindIDCard, jpegUpload())
	require.NoError(t, err)

	stored, err = env.svc.GetRequest(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RiskLow, stored.IDCard.RiskLevel)
	assert.Equal(t, models.RiskLow, stored.OverallRiskLevel)
	// needs_review is only cleared by a reviewer, not by re-aggregation
	assert.Equal(t, models.StatusNeedsReview, stored.OverallStatus)
}

func TestSetStatusBroadcastsNotes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	req, err := env.svc.CreateRequest(ctx, 7)
	require.NoError(t, err)

	_, err = env.svc.SubmitArtifact(ctx, req.ID, models.KindIDCard, jpegUpload())
	require.NoError(t, err)
	_, err = env.svc.SubmitArtifact(ctx, req.ID, models.KindFace, jpegUpload())
	require.NoError(t, err)

	low := models.RiskLow
	updated, err := env.svc.SetStatus(ctx, req.ID, models.StatusUpdateInput{
		Status:    models.StatusApproved,
		RiskLevel: &low,
		Notes:     "cleared",
	}, 9)
	require.NoError(t, err)

	assert.Equal(t, models.StatusApproved, updated.OverallStatus)
	assert.Equal(t, models.RiskLow, updated.OverallRiskLevel)
	require.NotNil(t, updated.VerifiedBy)
	assert.Equal(t, uint(9), *updated.VerifiedBy)

	require.NotNil(t, updated.IDCard.VerificationNotes)
	assert.Equal(t, "cleared", *updated.IDCard.VerificationNotes)
	require.NotNil(t, updated.Face.VerificationNotes)
	assert.Equal(t, "cleared", *updated.Face.VerificationNotes)
	// Absent slots stay absent.
	assert.Nil(t, updated.WorkBadge)
	assert.Nil(t, updated.BankCard)
}

func TestSetStatusWithoutRiskKeepsComputedRisk(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	req, err := env.svc.CreateRequest(ctx, 7)
	require.NoError(t, err)

	env.setRisk(models.KindFace, models.RiskMedium)
	_, err = env.svc.SubmitArtifact(ctx, req.ID, models.KindFace, jpegUpload())
	require.NoError(t, err)

	updated, err := env.svc.SetStatus(ctx, req.ID, models.StatusUpdateInput{Status: models.StatusRejected}, 9)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, updated.OverallStatus)
	assert.Equal(t, models.RiskMedium, updated.OverallRiskLevel)
}

func TestOverrideHoldsUntilNextSubmission(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	req, err := env.svc.CreateRequest(ctx, 7)
	require.NoError(t, err)

	_, err = env.svc.SubmitArtifact(ctx, req.ID, models.KindIDCard, jpegUpload())
	require.NoError(t, err)

	low := models.RiskLow
	_, err = env.svc.SetStatus(ctx, req.ID, models.StatusUpdateInput{
		Status:    models.StatusApproved,
		RiskLevel: &low,
	}, 9)
	require.NoError(t, err)

	// The next submission recomputes risk from scratch but leaves the
	// reviewer's status in place unless a high-risk artifact appears.
	env.setRisk(models.KindBankCard, models.RiskMedium)
	_, err = env.svc.SubmitArtifact(ctx, req.ID, models.KindBankCard, jpegUpload())
	require.NoError(t, err)

	stored, err := env.svc.GetRequest(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, stored.OverallStatus)
	assert.Equal(t, models.RiskMedium, stored.OverallRiskLevel)

	env.setRisk(models.KindWorkBadge, models.RiskHigh)
	_, err = env.svc.SubmitArtifact(ctx, req.ID, models.KindWorkBadge, jpegUpload())
	require.NoError(t, err)

	stored, err = env.svc.GetRequest(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusNeedsReview, stored.OverallStatus)
	assert.Equal(t, models.RiskHigh, stored.OverallRiskLevel)
}

func TestSetStatusUnknownRequest(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.svc.SetStatus(context.Background(), 42, models.StatusUpdateInput{Status: models.StatusApproved}, 9)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSetStatusRejectsInvalidValues(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	req, err := env.svc.CreateRequest(ctx, 7)
	require.NoError(t, err)

	_, err = env.svc.SetStatus(ctx, req.ID, models.StatusUpdateInput{Status: "bogus"}, 9)
	assert.ErrorIs(t, err, verification.ErrInvalidInput)

	bad := models.RiskLevel("severe")
	_, err = env.svc.SetStatus(ctx, req.ID, models.StatusUpdateInput{Status: models.StatusApproved, RiskLevel: &bad}, 9)
	assert.ErrorIs(t, err, verification.ErrInvalidInput)
}

func TestUpdateArtifactManualResult(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	req, err := env.svc.CreateRequest(ctx, 7)
	require.NoError(t, err)

	err = env.svc.UpdateArtifact(ctx, req.ID, &models.BankCardVerification{
		CardNumberLastFour: "6789",
		BankName:           "Test Bank",
		ArtifactResult: models.ArtifactResult{
			VerificationStatus: models.StatusApproved,
			RiskLevel:          models.RiskHigh,
		},
	})
	require.NoError(t, err)

	stored, err := env.svc.GetRequest(ctx, req.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.BankCard)
	assert.Equal(t, "6789", stored.BankCard.CardNumberLastFour)
	assert.Equal(t, models.StatusNeedsReview, stored.OverallStatus)
	assert.Equal(t, models.RiskHigh, stored.OverallRiskLevel)
}

func TestConcurrentSubmissionsDoNotLoseUpdates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	req, err := env.svc.CreateRequest(ctx, 7)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for _, kind := range models.AllArtifactKinds() {
		kind := kind
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.svc.SubmitArtifact(ctx, req.ID, kind, jpegUpload())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	stored, err := env.svc.GetRequest(ctx, req.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.IDCard)
	assert.NotNil(t, stored.Face)
	assert.NotNil(t, stored.WorkBadge)
	assert.NotNil(t, stored.BankCard)
	assert.Equal(t, models.RiskLow, stored.OverallRiskLevel)
}

func TestFullReviewFlow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	req, err := env.svc.CreateRequest(ctx, 7)
	require.NoError(t, err)

	env.setRisk(models.KindIDCard, models.RiskMedium)
	_, err = env.svc.SubmitArtifact(ctx, req.ID, models.KindIDCard, jpegUpload())
	require.NoError(t, err)

	stored, _ := env.svc.GetRequest(ctx, req.ID)
	assert.Equal(t, models.StatusPending, stored.OverallStatus)
	assert.Equal(t, models.RiskMedium, stored.OverallRiskLevel)

	env.setRisk(models.KindFace, models.RiskHigh)
	_, err = env.svc.SubmitArtifact(ctx, req.ID, models.KindFace, jpegUpload())
	require.NoError(t, err)

	stored, _ = env.svc.GetRequest(ctx, req.ID)
	assert.Equal(t, models.StatusNeedsReview, stored.OverallStatus)
	assert.Equal(t, models.RiskHigh, stored.OverallRiskLevel)

	low := models.RiskLow
	updated, err := env.svc.SetStatus(ctx, req.ID, models.StatusUpdateInput{
		Status:    models.StatusApproved,
		RiskLevel: &low,
		Notes:     "cleared",
	}, 1)
	require.NoError(t, err)

	assert.Equal(t, models.StatusApproved, updated.OverallStatus)
	assert.Equal(t, models.RiskLow, updated.OverallRiskLevel)
	assert.Equal(t, "cleared", *updated.IDCard.VerificationNotes)
	assert.Equal(t, "cleared", *updated.Face.VerificationNotes)
}
