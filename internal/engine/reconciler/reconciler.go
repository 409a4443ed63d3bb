// Package reconciler diffs the desired package set against the lock and the installed
// library and produces an ordered change plan.
package reconciler

import (
	"slices"
	"strings"

	"go.trai.ch/rig/internal/core/domain"
)

// Mode selects which changes a reconciliation may produce.
type Mode int

const (
	// ModeSync converges target packages and never removes anything.
	ModeSync Mode = iota
	// ModeClean only removes clean packages that are not in the target set.
	ModeClean
)

// String returns the mode name.
func (m Mode) String() string {
	if m == ModeClean {
		return "clean"
	}
	return "sync"
}

// Input is everything a reconciliation looks at.
type Input struct {
	// Target is the desired closure. When empty the lock's packages are the target.
	Target *domain.Closure

	// Lock is the previously committed state.
	Lock domain.LockRecord

	// Installed is the observed library.
	Installed domain.InstalledState

	// OverwriteDirty allows replacing dirty packages that are in the target set.
	OverwriteDirty bool

	// Mode selects sync or orphan cleanup.
	Mode Mode

	// Comparator orders versions. Nil selects domain.DottedComparator.
	Comparator domain.Comparator
}

func (in Input) target() *domain.Closure {
	if in.Target.Len() > 0 {
		return in.Target
	}
	return in.Lock.Closure()
}

func (in Input) comparator() domain.Comparator {
	if in.Comparator == nil {
		return domain.DottedComparator{}
	}
	return in.Comparator
}

// Reconcile computes the change plan for in. The result depends only on in:
// removes come first, then the remaining changes, each group sorted by name.
func Reconcile(in Input) domain.ChangePlan {
	target := in.target()

	var removes, changes []domain.Change
	if in.Mode == ModeClean {
		removes = orphans(target, in.Installed)
	} else {
		changes = converge(target, in.Installed, in.OverwriteDirty, in.comparator())
	}

	byName := func(a, b domain.Change) int { return strings.Compare(a.Name, b.Name) }
	slices.SortStableFunc(removes, byName)
	slices.SortStableFunc(changes, byName)

	return domain.ChangePlan{Changes: append(removes, changes...)}
}

func orphans(target *domain.Closure, installed domain.InstalledState) []domain.Change {
	var out []domain.Change
	for _, name := range installed.Names() {
		if target.Has(name) {
			continue
		}
		pkg := installed.Packages[name]
		if !pkg.Clean() {
			continue
		}
		from := pkg.Record.Clone()
		out = append(out, domain.Change{Op: domain.OpRemove, Name: name, From: &from})
	}
	return out
}

func converge(target *domain.Closure, installed domain.InstalledState, overwriteDirty bool, cmp domain.Comparator) []domain.Change {
	var out []domain.Change
	for _, want := range target.Records() {
		to := want

		pkg, ok := installed.Get(want.Name)
		if !ok {
			out = append(out, domain.Change{Op: domain.OpInstall, Name: want.Name, To: &to})
			continue
		}

		from := pkg.Record.Clone()
		identical := from.Version == want.Version &&
			from.EffectiveFingerprint() == want.EffectiveFingerprint()

		switch {
		case identical && !(pkg.Dirty && overwriteDirty):
			continue
		case pkg.Dirty && !overwriteDirty:
			out = append(out, domain.Change{Op: domain.OpSkipDirty, Name: want.Name, From: &from, To: &to})
		default:
			out = append(out, domain.Change{Op: direction(cmp, from.Version, want.Version), Name: want.Name, From: &from, To: &to})
		}
	}
	return out
}

// direction classifies a replacement. Equal ordering with a differing token or
// fingerprint is an upgrade; incomparable distinct tokens are reported as a downgrade
// so that they are surfaced before being applied.
func direction(cmp domain.Comparator, from, to domain.Version) domain.Op {
	switch cmp.Compare(to, from) {
	case domain.Greater, domain.Equal:
		return domain.OpUpgrade
	case domain.Less:
		return domain.OpDowngrade
	default:
		if from == to {
			return domain.OpUpgrade
		}
		return domain.OpDowngrade
	}
}
