package repository

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/rig/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Repository = (*Local)(nil)

// Local is a repository laid out in a directory, with the same structure an HTTP
// repository serves.
type Local struct {
	dir string
}

// NewLocal creates a repository over dir.
func NewLocal(dir string) *Local {
	return &Local{dir: filepath.Clean(dir)}
}

// Lookup reads the package document for name.
func (l *Local) Lookup(_ context.Context, name string) (domain.PackageRecord, error) {
	if err := domain.ValidatePackageName(name); err != nil {
		return domain.PackageRecord{}, zerr.With(zerr.Wrap(domain.ErrPackageNotFound, err.Error()), "package", name)
	}

	path := filepath.Join(l.dir, packagesDir, name+".json")
	data, err := os.ReadFile(path) //nolint:gosec // name is validated above
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.PackageRecord{}, zerr.With(zerr.Wrap(domain.ErrPackageNotFound, "not in repository"), "path", path)
		}
		return domain.PackageRecord{}, zerr.With(errors.Join(domain.ErrRepositoryRequestFailed, err), "path", path)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return domain.PackageRecord{}, zerr.With(errors.Join(domain.ErrRepositoryParseFailed, err), "path", path)
	}
	if doc.Name == "" {
		doc.Name = name
	}
	if doc.Name != name || doc.Version == "" {
		return domain.PackageRecord{}, zerr.With(
			zerr.Wrap(domain.ErrRepositoryParseFailed, "package document does not describe the package"), "path", path)
	}
	return doc.Record(), nil
}

// FetchArchive opens the package archive.
func (l *Local) FetchArchive(_ context.Context, record domain.PackageRecord) (io.ReadCloser, error) {
	path := filepath.Join(l.dir, filepath.FromSlash(archivePath(record)))
	f, err := os.Open(path) //nolint:gosec // archive names are escaped
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, zerr.With(zerr.Wrap(domain.ErrPackageNotFound, "archive not in repository"), "path", path)
		}
		return nil, zerr.With(errors.Join(domain.ErrRepositoryRequestFailed, err), "path", path)
	}
	return f, nil
}

// Names reads index.json, or lists the package documents when there is no index.
func (l *Local) Names(_ context.Context) ([]string, error) {
	data, err := os.ReadFile(filepath.Join(l.dir, indexFile))
	if err == nil {
		var index Index
		if err := json.Unmarshal(data, &index); err != nil {
			return nil, zerr.With(errors.Join(domain.ErrRepositoryParseFailed, err), "path", l.dir)
		}
		return index.Packages, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, zerr.With(errors.Join(domain.ErrRepositoryRequestFailed, err), "path", l.dir)
	}

	entries, err := os.ReadDir(filepath.Join(l.dir, packagesDir))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(errors.Join(domain.ErrRepositoryRequestFailed, err), "path", l.dir)
	}

	var names []string
	for _, entry := range entries {
		if name, ok := strings.CutSuffix(entry.Name(), ".json"); ok && !entry.IsDir() {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names, nil
}
