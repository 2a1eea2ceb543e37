// Package runstate tracks the cross-run fatal-error flag that de-duplicates
// failure notifications while an outage persists.
package runstate

import "os"

// Store persists the last failure message between runs. An absent record
// means the previous run was clean.
type Store interface {
	// Get returns the stored message and whether a failure is recorded.
	Get() (message string, failing bool, err error)
	// Set records message as the current failure.
	Set(message string) error
	// Clear removes the failure record. Clearing an absent record is not an
	// error.
	Clear() error
}

// FileStore keeps the failure message in a single file; the file's existence
// is the flag. Concurrent runs are unsupported, so no locking is done.
type FileStore struct {
	Path string
}

// NewFileStore creates a file-backed store at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

func (s *FileStore) Get() (string, bool, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, err
	}
	return string(data), true, nil
}

func (s *FileStore) Set(message string) error {
	return os.WriteFile(s.Path, []byte(message), 0644)
}

func (s *FileStore) Clear() error {
	if err := os.Remove(s.Path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// MemStore is an in-memory Store for tests.
type MemStore struct {
	Message string
	Failing bool
}

func (s *MemStore) Get() (string, bool, error) { return s.Message, s.Failing, nil }

func (s *MemStore) Set(message string) error {
	s.Message = message
	s.Failing = true
	return nil
}

func (s *MemStore) Clear() error {
	s.Message = ""
	s.Failing = false
	return nil
}
