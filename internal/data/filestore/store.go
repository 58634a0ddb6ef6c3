package filestore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yungbote/vamshavali-backend/internal/kinship"
	"github.com/yungbote/vamshavali-backend/internal/platform/logger"
)

// Store serves a family document from disk as a kinship.Source.
type Store struct {
	path string
	log  *logger.Logger
}

func New(path string, baseLog *logger.Logger) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("filestore: path required")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if baseLog == nil {
		baseLog = logger.NewNop()
	}
	return &Store{path: abs, log: baseLog.With("store", "FamilyFile", "path", abs)}, nil
}

func (s *Store) Path() string { return s.path }

// Load reads and validates the file. Revision is the sha256 of its bytes.
func (s *Store) Load(ctx context.Context) (kinship.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return kinship.Dataset{}, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return kinship.Dataset{}, fmt.Errorf("read family file: %w", err)
	}
	doc, err := Parse(data)
	if err != nil {
		return kinship.Dataset{}, err
	}
	if err := doc.Validate(); err != nil {
		return kinship.Dataset{}, err
	}
	if dangling := doc.Dangling(); len(dangling) > 0 {
		s.log.Warn("family file has relations with unknown persons; they will be skipped", "count", len(dangling))
	}
	return doc.Dataset(Revision(data)), nil
}

func Revision(data []byte) string {
	sum := sha256.Sum256(data)
	return "sha256:" + hex.EncodeToString(sum[:])
}

// LoadFile is a one-shot read used by the CLI.
func LoadFile(ctx context.Context, path string) (kinship.Dataset, error) {
	s, err := New(path, nil)
	if err != nil {
		return kinship.Dataset{}, err
	}
	return s.Load(ctx)
}
