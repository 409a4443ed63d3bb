package reconciler

import (
	"go.trai.ch/rig/internal/core/domain"
)

// VersionChange is a package whose locked record changed.
type VersionChange struct {
	Name string
	From domain.PackageRecord
	To   domain.PackageRecord
}

// LockDiff describes how a new lock differs from an old one.
type LockDiff struct {
	// Added contains packages present in new but not in old.
	Added []domain.PackageRecord

	// Removed contains packages present in old but not in new.
	Removed []domain.PackageRecord

	// Upgraded contains packages whose new version sorts higher.
	Upgraded []VersionChange

	// Downgraded contains packages whose new version sorts lower or is incomparable.
	Downgraded []VersionChange

	// Changed contains packages with an equal version but a different fingerprint.
	Changed []VersionChange
}

// IsEmpty reports whether both locks hold the same packages.
func (d LockDiff) IsEmpty() bool {
	return d.TotalChanges() == 0
}

// TotalChanges returns the number of differing packages.
func (d LockDiff) TotalChanges() int {
	return len(d.Added) + len(d.Removed) + len(d.Upgraded) + len(d.Downgraded) + len(d.Changed)
}

// DiffLock compares two locks. Every list is sorted by package name.
func DiffLock(old, new domain.LockRecord, cmp domain.Comparator) LockDiff {
	if cmp == nil {
		cmp = domain.DottedComparator{}
	}

	oldSet := old.Closure()
	newSet := new.Closure()

	var diff LockDiff
	for _, to := range newSet.Records() {
		from, existed := oldSet.Get(to.Name)
		switch {
		case !existed:
			diff.Added = append(diff.Added, to)
		case from.Equal(to):
		case from.Version == to.Version:
			diff.Changed = append(diff.Changed, VersionChange{Name: to.Name, From: from, To: to})
		default:
			change := VersionChange{Name: to.Name, From: from, To: to}
			switch cmp.Compare(to.Version, from.Version) {
			case domain.Greater, domain.Equal:
				diff.Upgraded = append(diff.Upgraded, change)
			default:
				diff.Downgraded = append(diff.Downgraded, change)
			}
		}
	}

	for _, from := range oldSet.Records() {
		if !newSet.Has(from.Name) {
			diff.Removed = append(diff.Removed, from)
		}
	}

	return diff
}
