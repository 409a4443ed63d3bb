package app

import (
	"context"
	"slices"

	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/rig/internal/engine/applier"
	"go.trai.ch/rig/internal/engine/reconciler"
	"go.trai.ch/rig/internal/ui/report"
)

// Status reports what restore would do without touching the library.
func (a *App) Status(ctx context.Context, opts Options) error {
	project, err := a.load(opts)
	if err != nil {
		return err
	}

	roots, err := a.scan(ctx, project)
	if err != nil {
		return err
	}
	lock, found, err := a.readLock(project)
	if err != nil {
		return err
	}
	installed, err := a.inspect(ctx, project)
	if err != nil {
		return err
	}
	cmp, err := project.Comparator()
	if err != nil {
		return err
	}
	obs, err := applier.Observe(project.LibraryPath)
	if err != nil {
		return err
	}

	plan := a.reconcile(ctx, reconciler.Input{
		Lock:           lock,
		Installed:      installed,
		OverwriteDirty: project.Settings.OverwriteDirty,
		Mode:           reconciler.ModeSync,
		Comparator:     cmp,
	})

	return a.printer.Status(report.Status{
		Project:    project.Name,
		Root:       project.Root,
		Library:    project.LibraryPath,
		LockPath:   project.LockPath,
		Locked:     len(lock.Packages),
		LockFound:  found,
		Rotation:   domain.Classify(obs),
		Plan:       plan,
		Undeclared: undeclared(roots, lock),
		Unlocked:   unlocked(roots, lock),
		Dirty:      dirty(installed),
	})
}

// unlocked lists declared roots missing from the lock.
func unlocked(roots []string, lock domain.LockRecord) []string {
	var out []string
	for _, root := range roots {
		if _, ok := lock.Lookup(root); !ok {
			out = append(out, root)
		}
	}
	return out
}

// undeclared lists locked packages that are neither roots nor required by another
// locked package.
func undeclared(roots []string, lock domain.LockRecord) []string {
	required := make(map[string]struct{})
	for _, r := range lock.Packages {
		for _, dep := range domain.DependencyNames(r, true) {
			required[dep] = struct{}{}
		}
	}

	var out []string
	for _, name := range lock.Names() {
		if slices.Contains(roots, name) {
			continue
		}
		if _, ok := required[name]; ok {
			continue
		}
		out = append(out, name)
	}
	return out
}

func dirty(installed domain.InstalledState) []report.DirtyPackage {
	names := installed.DirtyNames()
	out := make([]report.DirtyPackage, 0, len(names))
	for _, name := range names {
		p, _ := installed.Get(name)
		out = append(out, report.DirtyPackage{Name: name, Reason: p.Reason})
	}
	return out
}
