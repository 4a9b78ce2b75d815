// Package storage holds the image store interface and its local-disk
// implementation. Storage mechanics beyond this shape are out of scope.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// ImageStore persists an uploaded image and returns its opaque ref.
type ImageStore interface {
	Save(filename string, r io.Reader) (string, error)
}

type DiskStore struct {
	Dir string
}

func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskStore{Dir: dir}, nil
}

func (s *DiskStore) Save(filename string, r io.Reader) (string, error) {
	ref := uuid.NewString() + filepath.Ext(filename)
	f, err := os.Create(filepath.Join(s.Dir, ref))
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		return "", err
	}
	return ref, nil
}
