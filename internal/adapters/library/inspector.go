// Package library reads installed packages out of a project library.
package library

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/rig/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Inspector = (*Inspector)(nil)

// Inspector implements ports.Inspector. Every immediate, non-hidden subdirectory
// of a library is a package.
type Inspector struct {
	hasher ports.TreeHasher
}

// NewInspector creates an Inspector that verifies package trees with hasher.
func NewInspector(hasher ports.TreeHasher) *Inspector {
	return &Inspector{hasher: hasher}
}

// Inspect derives the installed state of the library at libraryPath.
// A missing library is an empty state.
func (i *Inspector) Inspect(ctx context.Context, libraryPath string) (domain.InstalledState, error) {
	state := domain.NewInstalledState()

	entries, err := os.ReadDir(libraryPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return state, nil
		}
		return state, zerr.With(errors.Join(domain.ErrInspectionFailed, err), "path", libraryPath)
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return state, err
		}

		name := entry.Name()
		if strings.HasPrefix(name, ".") || !entry.IsDir() {
			continue
		}

		pkg, err := i.inspectPackage(filepath.Join(libraryPath, name), name)
		if err != nil {
			state.Errors = append(state.Errors, domain.InspectionError{Name: name, Err: err})
			state.Add(domain.InstalledPackage{
				Record: domain.NewPackageRecord(name, domain.UnknownVersion),
				Dirty:  true,
				Reason: domain.ReasonUnreadable,
			})
			continue
		}
		state.Add(pkg)
	}

	return state, nil
}

func (i *Inspector) inspectPackage(dir, name string) (domain.InstalledPackage, error) {
	record, err := ReadMetadata(dir)
	if err != nil {
		return domain.InstalledPackage{}, err
	}
	if record.Name != name {
		return domain.InstalledPackage{}, zerr.With(
			fmt.Errorf("metadata names package %q", record.Name), "path", dir)
	}

	marker, err := ReadMarker(dir)
	if err != nil {
		return domain.InstalledPackage{}, err
	}

	observed := record.EffectiveFingerprint()
	pkg := domain.InstalledPackage{Record: record, Marker: marker}

	switch {
	case marker == nil:
		pkg.Dirty, pkg.Reason = true, domain.ReasonUntracked
	case marker.Fingerprint != observed:
		pkg.Dirty, pkg.Reason = true, domain.ReasonModified
	default:
		tree, err := i.hasher.HashTree(dir)
		if err != nil {
			return domain.InstalledPackage{}, err
		}
		if tree != marker.TreeHash {
			pkg.Dirty, pkg.Reason = true, domain.ReasonFilesChanged
		} else {
			pkg.InstalledBySystem = true
		}
	}

	if pkg.Clean() {
		pkg.Record.Fingerprint = marker.Fingerprint
	} else {
		pkg.Record.Fingerprint = observed
	}
	return pkg, nil
}

// ReadMarker reads the install marker of a package directory. A missing marker is nil.
func ReadMarker(dir string) (*domain.InstallMarker, error) {
	path := filepath.Join(dir, domain.InstallMarkerFile)
	data, err := os.ReadFile(path) //nolint:gosec // path is inside the project library
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, "failed to read install marker"), "path", path)
	}

	var marker domain.InstallMarker
	if err := json.Unmarshal(data, &marker); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to parse install marker"), "path", path)
	}
	return &marker, nil
}
