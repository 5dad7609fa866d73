package verification

import (
	"context"

	"medverify/models"
)

// Upload is the raw artifact content handed to a verifier.
type Upload struct {
	Filename    string
	ContentType string
	Content     []byte
}

// ArtifactVerifier produces a typed verification result for a raw upload.
// The stubs in the verifier package implement this; a real OCR or biometric
// service would slot in behind the same interface.
type ArtifactVerifier interface {
	Verify(ctx context.Context, up Upload) (models.Artifact, error)
}

// Verifiers maps each artifact kind to its verifier.
type Verifiers map[models.ArtifactKind]ArtifactVerifier

// FileStore persists raw uploads keyed by (request, kind).
type FileStore interface {
	Save(kind models.ArtifactKind, requestID uint, filename string, content []byte) (string, error)
}
