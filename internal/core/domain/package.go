package domain

import (
	"fmt"
	"slices"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/zerr"
)

// SourceType identifies where a package comes from.
type SourceType string

const (
	// SourceRepository marks a package published in a configured repository.
	SourceRepository SourceType = "repository"
	// SourceVCS marks a package built from a version control reference.
	SourceVCS SourceType = "vcs"
	// SourceLocal marks a package installed from a local path.
	SourceLocal SourceType = "local"
)

// Source describes the origin of a package.
type Source struct {
	// Type is the kind of origin.
	Type SourceType

	// Name is the repository name for repository sources.
	Name string

	// URL is the repository URL, VCS remote or local path.
	URL string

	// Ref is the VCS reference (commit, tag) for VCS sources.
	Ref string
}

// String returns a short human readable form of the source.
func (s Source) String() string {
	switch s.Type {
	case SourceRepository:
		return "repository:" + s.Name
	case SourceVCS:
		if s.Ref == "" {
			return "vcs:" + s.URL
		}
		return "vcs:" + s.URL + "@" + s.Ref
	case SourceLocal:
		return "local:" + s.URL
	default:
		return "unknown"
	}
}

// PackageRecord is the identity of a single package: its name, version, origin,
// content fingerprint and direct dependency edges.
//
// Records are values. A changed package is a new record; slices are never shared
// between records built with NewPackageRecord or Clone.
type PackageRecord struct {
	// Name is unique within one library.
	Name string

	// Version is the opaque version token.
	Version Version

	// Source is where the package was obtained.
	Source Source

	// Fingerprint is the content fingerprint. It may be empty for legacy installs,
	// in which case EffectiveFingerprint computes it.
	Fingerprint string

	// Requires lists packages required at all times.
	Requires []string

	// BuildRequires lists packages required to build the package.
	BuildRequires []string

	// Optional lists optional or test-only packages. They are tracked but not
	// transitively required.
	Optional []string

	// Runtime is the runtime version the package was recorded under.
	Runtime string
}

// RecordOption customizes a record built by NewPackageRecord.
type RecordOption func(*PackageRecord)

// WithSource sets the record source.
func WithSource(s Source) RecordOption {
	return func(r *PackageRecord) { r.Source = s }
}

// WithFingerprint sets an explicit fingerprint.
func WithFingerprint(fp string) RecordOption {
	return func(r *PackageRecord) { r.Fingerprint = fp }
}

// WithRequires sets the always-required dependencies.
func WithRequires(names ...string) RecordOption {
	return func(r *PackageRecord) { r.Requires = slices.Clone(names) }
}

// WithBuildRequires sets the build-time dependencies.
func WithBuildRequires(names ...string) RecordOption {
	return func(r *PackageRecord) { r.BuildRequires = slices.Clone(names) }
}

// WithOptional sets the optional dependencies.
func WithOptional(names ...string) RecordOption {
	return func(r *PackageRecord) { r.Optional = slices.Clone(names) }
}

// WithRuntime sets the runtime version.
func WithRuntime(runtime string) RecordOption {
	return func(r *PackageRecord) { r.Runtime = runtime }
}

// NewPackageRecord builds a record from its name, version and options.
func NewPackageRecord(name string, version Version, opts ...RecordOption) PackageRecord {
	r := PackageRecord{Name: name, Version: version}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// Clone returns a deep copy of the record.
func (r PackageRecord) Clone() PackageRecord {
	r.Requires = slices.Clone(r.Requires)
	r.BuildRequires = slices.Clone(r.BuildRequires)
	r.Optional = slices.Clone(r.Optional)
	return r
}

// String returns name@version.
func (r PackageRecord) String() string {
	return r.Name + "@" + r.Version.String()
}

// ComputeFingerprint hashes the identity-relevant fields of a record.
// The stored Fingerprint field is not an input.
func ComputeFingerprint(r PackageRecord) string {
	hasher := xxhash.New()
	write := func(s string) {
		_, _ = hasher.WriteString(s)
		_, _ = hasher.Write([]byte{0})
	}

	write(r.Name)
	write(string(r.Version))
	write(string(r.Source.Type))
	write(r.Source.Name)
	write(r.Source.URL)
	write(r.Source.Ref)

	for _, section := range [][]string{r.Requires, r.BuildRequires, r.Optional} {
		_, _ = hasher.Write([]byte{0})
		for _, name := range section {
			write(name)
		}
	}

	return fmt.Sprintf("%016x", hasher.Sum64())
}

// EffectiveFingerprint returns the stored fingerprint, or a computed one when absent.
func (r PackageRecord) EffectiveFingerprint() string {
	if r.Fingerprint != "" {
		return r.Fingerprint
	}
	return ComputeFingerprint(r)
}

// WithComputedFingerprint returns a copy of the record with Fingerprint filled in.
func (r PackageRecord) WithComputedFingerprint() PackageRecord {
	out := r.Clone()
	out.Fingerprint = r.EffectiveFingerprint()
	return out
}

// Equal reports whether both records name the same package at the same version
// with the same fingerprint.
func (r PackageRecord) Equal(o PackageRecord) bool {
	return r.Name == o.Name &&
		r.Version == o.Version &&
		r.EffectiveFingerprint() == o.EffectiveFingerprint()
}

// ConflictsWith reports whether both records claim the same name and version
// but disagree on content.
func (r PackageRecord) ConflictsWith(o PackageRecord) bool {
	return r.Name == o.Name &&
		r.Version == o.Version &&
		r.EffectiveFingerprint() != o.EffectiveFingerprint()
}

// DependencyNames returns the names the record depends on: Requires, then
// BuildRequires, then Optional when includeOptional is set. Duplicates are removed
// keeping the first occurrence.
func DependencyNames(r PackageRecord, includeOptional bool) []string {
	sections := [][]string{r.Requires, r.BuildRequires}
	if includeOptional {
		sections = append(sections, r.Optional)
	}

	seen := make(map[string]struct{})
	var names []string
	for _, section := range sections {
		for _, name := range section {
			if name == "" || name == r.Name {
				continue
			}
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}
	return names
}

// ValidatePackageName reports whether name can be used as a package directory name.
// Names start with a letter or digit and contain letters, digits, '.', '-', '_' or '+'.
func ValidatePackageName(name string) error {
	if name == "" {
		return zerr.Wrap(ErrInvalidPackageName, "name is empty")
	}
	for i, c := range name {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case i > 0 && (c == '.' || c == '-' || c == '_' || c == '+'):
		default:
			return zerr.With(zerr.Wrap(ErrInvalidPackageName, "unexpected character"), "name", name)
		}
	}
	return nil
}
