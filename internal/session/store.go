package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/presalesly/presalesly/internal/platform"
	"github.com/presalesly/presalesly/internal/userdata"
)

// ErrCorrupt is returned by Load when the stored record cannot be decoded.
var ErrCorrupt = errors.New("session record is corrupt")

// Store persists the session record.
type Store interface {
	// Load returns nil, nil when no record is stored.
	Load() (*Record, error)
	Save(Record) error
	// Clear removes the record and reports whether one existed.
	Clear() (bool, error)
}

// FileStore keeps the record as JSON in a single file readable only by the
// owner.
type FileStore struct {
	path string
}

// NewFileStore stores the record at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultFileStore stores the record at the userdata session path.
func DefaultFileStore() (*FileStore, error) {
	path, err := userdata.GetSessionPath()
	if err != nil {
		return nil, err
	}
	return NewFileStore(path), nil
}

// Path returns the file location.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Load() (*Record, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading session %s: %w", s.path, err)
	}
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, s.path, err)
	}
	return &r, nil
}

func (s *FileStore) Save(r Record) error {
	if err := os.MkdirAll(filepath.Dir(s.path), userdata.DirPermSecure); err != nil {
		return fmt.Errorf("creating session directory: %w", err)
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	if err := platform.WriteFileAtomic(s.path, data, userdata.FilePermSecure); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

func (s *FileStore) Clear() (bool, error) {
	return platform.RemoveIfExists(s.path)
}
