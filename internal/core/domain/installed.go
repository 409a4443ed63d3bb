package domain

import (
	"maps"
	"slices"
	"time"
)

// Reasons a package is classified as dirty.
const (
	ReasonUntracked    = "untracked"
	ReasonModified     = "modified"
	ReasonFilesChanged = "files changed"
	ReasonUnreadable   = "unreadable"
)

// InstallMarker is the provenance record the applier writes into every package it installs.
type InstallMarker struct {
	Fingerprint string    `json:"fingerprint"`
	TreeHash    string    `json:"tree_hash"`
	RunID       string    `json:"run_id"`
	InstalledAt time.Time `json:"installed_at"`
}

// InstalledPackage is a package as observed in a library directory.
type InstalledPackage struct {
	// Record is the package as read from its embedded metadata.
	Record PackageRecord

	// InstalledBySystem is set when a valid install marker matches the package.
	InstalledBySystem bool

	// Dirty is set when the on-disk package cannot be trusted to match our records.
	Dirty bool

	// Reason explains why the package is dirty.
	Reason string

	// Marker is the install marker, if one was found.
	Marker *InstallMarker
}

// Clean reports whether the package was installed by rig and is unchanged since.
func (p InstalledPackage) Clean() bool {
	return p.InstalledBySystem && !p.Dirty
}

// InspectionError is a non-fatal failure to read one package.
type InspectionError struct {
	Name string
	Err  error
}

// Error implements error.
func (e InspectionError) Error() string {
	return e.Name + ": " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e InspectionError) Unwrap() error {
	return e.Err
}

// InstalledState is the observed content of a library. It is derived fresh on every run.
type InstalledState struct {
	Packages map[string]InstalledPackage
	Errors   []InspectionError
}

// NewInstalledState returns an empty state.
func NewInstalledState(packages ...InstalledPackage) InstalledState {
	s := InstalledState{Packages: make(map[string]InstalledPackage, len(packages))}
	for _, p := range packages {
		s.Add(p)
	}
	return s
}

// Add records a package, replacing any previous entry with the same name.
func (s *InstalledState) Add(p InstalledPackage) {
	if s.Packages == nil {
		s.Packages = make(map[string]InstalledPackage)
	}
	s.Packages[p.Record.Name] = p
}

// Get returns the observed package for a name.
func (s InstalledState) Get(name string) (InstalledPackage, bool) {
	p, ok := s.Packages[name]
	return p, ok
}

// Len returns the number of observed packages.
func (s InstalledState) Len() int {
	return len(s.Packages)
}

// Names returns the observed package names sorted.
func (s InstalledState) Names() []string {
	return slices.Sorted(maps.Keys(s.Packages))
}

// DirtyNames returns the names of dirty packages sorted.
func (s InstalledState) DirtyNames() []string {
	var names []string
	for _, name := range s.Names() {
		if s.Packages[name].Dirty {
			names = append(names, name)
		}
	}
	return names
}
