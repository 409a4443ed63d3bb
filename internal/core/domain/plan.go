package domain

import (
	"fmt"
	"strings"
)

// Op is the kind of a planned change.
type Op string

const (
	// OpInstall installs a package that is not in the library.
	OpInstall Op = "install"
	// OpUpgrade replaces a package with a newer or re-fingerprinted version.
	OpUpgrade Op = "upgrade"
	// OpDowngrade replaces a package with an older or incomparable version.
	OpDowngrade Op = "downgrade"
	// OpRemove deletes a package from the library.
	OpRemove Op = "remove"
	// OpSkipDirty leaves a dirty package untouched.
	OpSkipDirty Op = "skip-dirty"
)

// Change is one planned operation on a single package.
type Change struct {
	Op   Op
	Name string
	From *PackageRecord
	To   *PackageRecord
}

// Replaces reports whether the change writes a new package into the library.
func (c Change) Replaces() bool {
	return c.Op == OpInstall || c.Op == OpUpgrade || c.Op == OpDowngrade
}

// Destructive reports whether the change removes or downgrades a package.
func (c Change) Destructive() bool {
	return c.Op == OpRemove || c.Op == OpDowngrade
}

// String returns a stable single-line description.
func (c Change) String() string {
	switch c.Op {
	case OpInstall:
		return fmt.Sprintf("install %s %s", c.Name, versionOf(c.To))
	case OpUpgrade, OpDowngrade:
		return fmt.Sprintf("%s %s %s -> %s", c.Op, c.Name, versionOf(c.From), versionOf(c.To))
	case OpRemove, OpSkipDirty:
		return fmt.Sprintf("%s %s %s", c.Op, c.Name, versionOf(c.From))
	default:
		return fmt.Sprintf("%s %s", c.Op, c.Name)
	}
}

func versionOf(r *PackageRecord) string {
	if r == nil {
		return "-"
	}
	return r.Version.String()
}

// PlanSummary counts changes by kind.
type PlanSummary struct {
	Installs   int
	Upgrades   int
	Downgrades int
	Removes    int
	Skipped    int
}

// String returns a compact description, or "no changes" for an empty summary.
func (s PlanSummary) String() string {
	var parts []string
	add := func(n int, label string) {
		if n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, label))
		}
	}
	add(s.Installs, "to install")
	add(s.Upgrades, "to upgrade")
	add(s.Downgrades, "to downgrade")
	add(s.Removes, "to remove")
	add(s.Skipped, "dirty skipped")
	if len(parts) == 0 {
		return "no changes"
	}
	return strings.Join(parts, ", ")
}

// ChangePlan is the ordered list of changes produced by one reconciliation.
type ChangePlan struct {
	Changes []Change
}

// IsEmpty reports whether the plan has no changes at all.
func (p ChangePlan) IsEmpty() bool {
	return len(p.Changes) == 0
}

// HasWork reports whether applying the plan would modify the library.
func (p ChangePlan) HasWork() bool {
	for _, c := range p.Changes {
		if c.Op != OpSkipDirty {
			return true
		}
	}
	return false
}

// Destructive returns the removes and downgrades in plan order.
func (p ChangePlan) Destructive() []Change {
	var out []Change
	for _, c := range p.Changes {
		if c.Destructive() {
			out = append(out, c)
		}
	}
	return out
}

// Targets returns the changes that write a package into the library.
func (p ChangePlan) Targets() []Change {
	var out []Change
	for _, c := range p.Changes {
		if c.Replaces() {
			out = append(out, c)
		}
	}
	return out
}

// Find returns the change for a package name.
func (p ChangePlan) Find(name string) (Change, bool) {
	for _, c := range p.Changes {
		if c.Name == name {
			return c, true
		}
	}
	return Change{}, false
}

// Summary counts the changes by kind.
func (p ChangePlan) Summary() PlanSummary {
	var s PlanSummary
	for _, c := range p.Changes {
		switch c.Op {
		case OpInstall:
			s.Installs++
		case OpUpgrade:
			s.Upgrades++
		case OpDowngrade:
			s.Downgrades++
		case OpRemove:
			s.Removes++
		case OpSkipDirty:
			s.Skipped++
		}
	}
	return s
}

// String renders one change per line.
func (p ChangePlan) String() string {
	var b strings.Builder
	for _, c := range p.Changes {
		b.WriteString(c.String())
		b.WriteByte('\n')
	}
	return b.String()
}
