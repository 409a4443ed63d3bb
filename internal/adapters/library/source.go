package library

import (
	"context"

	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/rig/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.MetadataSource = (*Source)(nil)

// Source serves package metadata from an inspected library. Unreadable packages
// are reported as not found.
type Source struct {
	state domain.InstalledState
}

// NewSource creates a metadata source over an installed state.
func NewSource(state domain.InstalledState) *Source {
	return &Source{state: state}
}

// Lookup returns the installed record for name.
func (s *Source) Lookup(_ context.Context, name string) (domain.PackageRecord, error) {
	pkg, ok := s.state.Get(name)
	if !ok || pkg.Reason == domain.ReasonUnreadable {
		return domain.PackageRecord{}, zerr.With(zerr.Wrap(domain.ErrPackageNotFound, "not installed"), "package", name)
	}
	return pkg.Record.Clone(), nil
}
