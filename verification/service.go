package verification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"medverify/models"
	"medverify/store"
)

// ErrInvalidInput marks rejected caller input; handlers map it to 400.
var ErrInvalidInput = errors.New("invalid input")

// MaxUploadSize caps raw artifact uploads at 5 MiB.
const MaxUploadSize = 5 * 1024 * 1024

var imageContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

var documentContentTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"application/pdf": true,
}

// allowedContentTypes returns the accepted upload types per artifact kind.
// Face and bank card must be photos; id card and work badge may also be PDFs.
func allowedContentTypes(kind models.ArtifactKind) map[string]bool {
	switch kind {
	case models.KindIDCard, models.KindWorkBadge:
		return documentContentTypes
	default:
		return imageContentTypes
	}
}

// Service orchestrates the request lifecycle: artifact submission, per-artifact
// verification, aggregation, manual review overrides and statistics.
type Service struct {
	store     store.RequestStore
	files     FileStore
	verifiers Verifiers
	logger    *zap.Logger
	locks     *keyedLocks
}

func NewService(st store.RequestStore, files FileStore, verifiers Verifiers, logger *zap.Logger) *Service {
	return &Service{
		store:     st,
		files:     files,
		verifiers: verifiers,
		logger:    logger.With(zap.String("service", "verification")),
		locks:     newKeyedLocks(),
	}
}

// CreateRequest opens an empty verification request for a doctor.
func (s *Service) CreateRequest(ctx context.Context, doctorID uint) (*models.VerificationRequest, error) {
	if doctorID == 0 {
		return nil, fmt.Errorf("%w: doctor_id is required", ErrInvalidInput)
	}

	now := time.Now()
	req := &models.VerificationRequest{
		DoctorID:         doctorID,
		OverallStatus:    models.StatusPending,
		OverallRiskLevel: models.DefaultRiskLevel,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.store.Create(ctx, req); err != nil {
		return nil, err
	}

	s.logger.Info("verification request created",
		zap.Uint("request_id", req.ID),
		zap.Uint("doctor_id", doctorID))
	return req, nil
}

func (s *Service) GetRequest(ctx context.Context, id uint) (*models.VerificationRequest, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) ListRequests(ctx context.Context, filter store.ListFilter) ([]models.VerificationRequest, error) {
	if filter.Skip < 0 {
		filter.Skip = 0
	}
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 100
	}
	return s.store.List(ctx, filter)
}

// SubmitResult is what an artifact upload returns: where the raw file went
// plus the verification outcome assigned to the request.
type SubmitResult struct {
	Filename    string          `json:"filename"`
	ContentType string          `json:"content_type"`
	FileSize    int             `json:"file_size"`
	Artifact    models.Artifact `json:"analysis_result"`
}

// SubmitArtifact validates and stores a raw upload, obtains the verification
// outcome for it and folds that outcome into the request's aggregate fields.
// Resubmitting a kind overwrites the prior result for that slot.
//
// The verifier call and the file write happen outside the per-request lock;
// only the read-modify-write of the request record is serialized.
func (s *Service) SubmitArtifact(ctx context.Context, requestID uint, kind models.ArtifactKind, up Upload) (*SubmitResult, error) {
	verifier, ok := s.verifiers[kind]
	if !ok {
		return nil, fmt.Errorf("%w: unknown artifact kind %q", ErrInvalidInput, kind)
	}
	if !allowedContentTypes(kind)[up.ContentType] {
		return nil, fmt.Errorf("%w: unsupported content type %q for %s", ErrInvalidInput, up.ContentType, kind)
	}
	if len(up.Content) > MaxUploadSize {
		return nil, fmt.Errorf("%w: file size %d exceeds limit of %d bytes", ErrInvalidInput, len(up.Content), MaxUploadSize)
	}

	// Fail fast on unknown requests before any verifier work.
	if _, err := s.store.Get(ctx, requestID); err != nil {
		return nil, err
	}

	artifact, err := verifier.Verify(ctx, up)
	if err != nil {
		return nil, fmt.Errorf("verify %s: %w", kind, err)
	}

	stored, err := s.files.Save(kind, requestID, up.Filename, up.Content)
	if err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}

	if err := s.attach(ctx, requestID, artifact); err != nil {
		return nil, err
	}

	s.logger.Info("artifact submitted",
		zap.Uint("request_id", requestID),
		zap.String("kind", string(kind)),
		zap.String("filename", stored),
		zap.String("risk_level", string(artifact.Result().RiskLevel)))

	return &SubmitResult{
		Filename:    stored,
		ContentType: up.ContentType,
		FileSize:    len(up.Content),
		Artifact:    artifact,
	}, nil
}

// UpdateArtifact lets a reviewer overwrite one artifact slot with a
// hand-entered result. Aggregation re-runs exactly as it does for uploads.
func (s *Service) UpdateArtifact(ctx context.Context, requestID uint, artifact models.Artifact) error {
	res := artifact.Result()
	if !res.VerificationStatus.Valid() {
		return fmt.Errorf("%w: invalid verification_status %q", ErrInvalidInput, res.VerificationStatus)
	}
	if !res.RiskLevel.Valid() {
		return fmt.Errorf("%w: invalid risk_level %q", ErrInvalidInput, res.RiskLevel)
	}
	return s.attach(ctx, requestID, artifact)
}

// attach assigns an artifact into its slot and re-aggregates, atomically with
// respect to other mutations of the same request.
func (s *Service) attach(ctx context.Context, requestID uint, artifact models.Artifact) error {
	unlock := s.locks.lock(requestID)
	defer unlock()

	req, err := s.store.Get(ctx, requestID)
	if err != nil {
		return err
	}
	req.Attach(artifact)
	Reaggregate(req)
	req.UpdatedAt = time.Now()
	return s.store.Update(ctx, req)
}

// SetStatus applies a manual reviewer override. It takes precedence over the
// aggregator until the next artifact event: status is set verbatim, risk only
// when given, and a note is broadcast to every present artifact.
func (s *Service) SetStatus(ctx context.Context, requestID uint, in models.StatusUpdateInput, reviewerID uint) (*models.VerificationRequest, error) {
	if !in.Status.Valid() {
		return nil, fmt.Errorf("%w: invalid status %q", ErrInvalidInput, in.Status)
	}
	if in.RiskLevel != nil && !in.RiskLevel.Valid() {
		return nil, fmt.Errorf("%w: invalid risk_level %q", ErrInvalidInput, *in.RiskLevel)
	}

	unlock := s.locks.lock(requestID)
	defer unlock()

	req, err := s.store.Get(ctx, requestID)
	if err != nil {
		return nil, err
	}

	req.OverallStatus = in.Status
	if in.RiskLevel != nil {
		req.OverallRiskLevel = *in.RiskLevel
	}
	if in.Notes != "" {
		req.BroadcastNotes(in.Notes)
	}
	req.VerifiedBy = &reviewerID
	req.UpdatedAt = time.Now()

	if err := s.store.Update(ctx, req); err != nil {
		return nil, err
	}

	s.logger.Info("manual status override",
		zap.Uint("request_id", requestID),
		zap.Uint("reviewer_id", reviewerID),
		zap.String("status", string(in.Status)))
	return req, nil
}
