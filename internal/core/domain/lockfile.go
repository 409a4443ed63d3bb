package domain

import (
	"fmt"
	"slices"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// LockFormatVersion is the lock file format written by this version of rig.
const LockFormatVersion = 1

// Repository is a named package repository.
type Repository struct {
	Name string
	URL  string
}

// LockRecord is the previously committed set of packages for a project.
type LockRecord struct {
	// Version is the lock format version.
	Version int

	// Runtime is the runtime version the lock was produced with.
	Runtime string

	// Repositories lists the repositories consulted, in priority order.
	Repositories []Repository

	// Packages holds the committed records sorted by name.
	Packages []PackageRecord
}

// NewLockRecord builds a lock from records. Packages are sorted by name and later
// duplicates are dropped.
func NewLockRecord(runtime string, repositories []Repository, records []PackageRecord) LockRecord {
	seen := make(map[string]struct{}, len(records))
	packages := make([]PackageRecord, 0, len(records))
	for _, r := range records {
		if _, ok := seen[r.Name]; ok {
			continue
		}
		seen[r.Name] = struct{}{}
		packages = append(packages, r.Clone())
	}
	slices.SortFunc(packages, func(a, b PackageRecord) int {
		return strings.Compare(a.Name, b.Name)
	})

	return LockRecord{
		Version:      LockFormatVersion,
		Runtime:      runtime,
		Repositories: slices.Clone(repositories),
		Packages:     packages,
	}
}

// IsEmpty reports whether the lock has no packages.
func (l LockRecord) IsEmpty() bool {
	return len(l.Packages) == 0
}

// Lookup returns the locked record for a name.
func (l LockRecord) Lookup(name string) (PackageRecord, bool) {
	i, ok := slices.BinarySearchFunc(l.Packages, name, func(r PackageRecord, n string) int {
		return strings.Compare(r.Name, n)
	})
	if ok {
		return l.Packages[i], true
	}
	// Locks built by hand may be unsorted.
	for _, r := range l.Packages {
		if r.Name == name {
			return r, true
		}
	}
	return PackageRecord{}, false
}

// Names returns the locked package names sorted.
func (l LockRecord) Names() []string {
	names := make([]string, 0, len(l.Packages))
	for _, r := range l.Packages {
		names = append(names, r.Name)
	}
	slices.Sort(names)
	return names
}

// Closure returns the locked packages as a target closure.
func (l LockRecord) Closure() *Closure {
	return NewClosure(l.Packages...)
}

// Fingerprint hashes the locked package identities. Two locks with the same
// packages at the same versions and fingerprints hash identically.
func (l LockRecord) Fingerprint() string {
	hasher := xxhash.New()
	_, _ = fmt.Fprintf(hasher, "%d\x00%s\x00", l.Version, l.Runtime)
	for _, r := range l.Packages {
		_, _ = fmt.Fprintf(hasher, "%s\x00%s\x00%s\x00", r.Name, r.Version, r.EffectiveFingerprint())
	}
	return fmt.Sprintf("%016x", hasher.Sum64())
}
