// Package uploads stores raw artifact files on disk, one directory per
// artifact kind, named {request_id}_{token}.{original extension}.
package uploads

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"medverify/models"
)

var kindDirs = map[models.ArtifactKind]string{
	models.KindIDCard:    "id_cards",
	models.KindFace:      "faces",
	models.KindWorkBadge: "work_badges",
	models.KindBankCard:  "bank_cards",
}

type DiskStore struct {
	root string
}

// NewDiskStore creates the per-kind directories under root.
func NewDiskStore(root string) (*DiskStore, error) {
	for _, dir := range kindDirs {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			return nil, fmt.Errorf("create upload dir: %w", err)
		}
	}
	return &DiskStore{root: root}, nil
}

// Save writes the upload and returns the generated filename.
func (s *DiskStore) Save(kind models.ArtifactKind, requestID uint, filename string, content []byte) (string, error) {
	dir, ok := kindDirs[kind]
	if !ok {
		return "", fmt.Errorf("unknown artifact kind %q", kind)
	}

	name := fmt.Sprintf("%d_%s%s", requestID, uuid.New().String(), filepath.Ext(filename))
	if err := os.WriteFile(filepath.Join(s.root, dir, name), content, 0o644); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	return name, nil
}
