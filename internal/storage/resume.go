// Package storage abstracts where uploaded resumes live. The application
// handler depends only on the ResumeStore interface; the default
// implementation writes to local disk.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ResumeStore saves an uploaded resume and returns the path it was stored
// under.
type ResumeStore interface {
	Save(filename string, r io.Reader) (string, error)
}

// DiskStore stores resumes as files under a base directory.
type DiskStore struct {
	Dir string
}

// NewDiskStore returns a DiskStore rooted at dir.
func NewDiskStore(dir string) *DiskStore {
	return &DiskStore{Dir: dir}
}

// Save writes the resume to <dir>/<filename>, creating the directory when
// missing. The caller is responsible for making filename unique.
func (s *DiskStore) Save(filename string, r io.Reader) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create resume dir: %w", err)
	}
	path := filepath.Join(s.Dir, filename)
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		return "", err
	}
	return path, nil
}
