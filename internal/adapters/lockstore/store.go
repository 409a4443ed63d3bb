// Package lockstore persists lock records as JSON files.
package lockstore

import (
	"bytes"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	rigfs "go.trai.ch/rig/internal/adapters/fs"
	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/rig/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.LockStore = (*Store)(nil)

// Store implements ports.LockStore. Writes replace the whole file atomically.
type Store struct {
	mu sync.Mutex
}

// NewStore creates a new lock store.
func NewStore() *Store {
	return &Store{}
}

// Read loads the lock file at path.
func (s *Store) Read(path string) (domain.LockRecord, error) {
	path = filepath.Clean(path)

	//nolint:gosec // Path is cleaned and provided by trusted caller
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.LockRecord{}, zerr.With(zerr.Wrap(domain.ErrLockNotFound, "no lock file"), "path", path)
		}
		return domain.LockRecord{}, zerr.With(zerr.Wrap(err, "failed to read lock file"), "path", path)
	}

	return Decode(data, path)
}

// Decode parses lock file content. source names the content in errors.
func Decode(data []byte, source string) (domain.LockRecord, error) {
	corrupt := func(cause error) error {
		return zerr.With(errors.Join(domain.ErrLockStoreCorrupt, cause), "path", source)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var doc lockFile
	if err := dec.Decode(&doc); err != nil {
		return domain.LockRecord{}, corrupt(err)
	}

	if doc.Version < 1 || doc.Version > domain.LockFormatVersion {
		return domain.LockRecord{}, zerr.With(corrupt(errors.New("unsupported lock format version")),
			"version", doc.Version)
	}

	lock := domain.LockRecord{
		Version:  doc.Version,
		Runtime:  doc.Runtime.Version,
		Packages: make([]domain.PackageRecord, 0, len(doc.Packages)),
	}
	for _, repo := range doc.Repositories {
		lock.Repositories = append(lock.Repositories, domain.Repository{Name: repo.Name, URL: repo.URL})
	}

	for key, entry := range doc.Packages {
		if entry.Name == "" {
			entry.Name = key
		}
		if entry.Name != key {
			return domain.LockRecord{}, zerr.With(corrupt(errors.New("package entry name does not match its key")),
				"package", key)
		}
		lock.Packages = append(lock.Packages, entry.record())
	}
	slices.SortFunc(lock.Packages, func(a, b domain.PackageRecord) int {
		return strings.Compare(a.Name, b.Name)
	})

	return lock, nil
}

// Encode renders a lock record in the on-disk format.
func Encode(lock domain.LockRecord) ([]byte, error) {
	data, err := json.MarshalIndent(toLockFile(lock), "", "  ")
	if err != nil {
		return nil, zerr.Wrap(err, "failed to marshal lock file")
	}
	return append(data, '\n'), nil
}

// Write replaces the lock file at path.
func (s *Store) Write(path string, lock domain.LockRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := Encode(lock)
	if err != nil {
		return err
	}

	if err := rigfs.WriteFileAtomic(filepath.Clean(path), data, domain.FilePerm); err != nil {
		return errors.Join(domain.ErrLockWriteFailed, err)
	}
	return nil
}
