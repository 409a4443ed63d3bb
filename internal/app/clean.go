package app

import (
	"context"
	"slices"

	"go.trai.ch/rig/internal/adapters/library" //nolint:depguard // Installed packages as a metadata source
	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/rig/internal/engine/applier"
	"go.trai.ch/rig/internal/engine/closure"
	"go.trai.ch/rig/internal/engine/reconciler"
)

// Clean removes clean packages that are neither declared nor locked.
// Dirty packages are never removed.
func (a *App) Clean(ctx context.Context, opts Options) error {
	project, err := a.load(opts)
	if err != nil {
		return err
	}

	return a.journal(ctx, project, "clean", func() (outcome, error) {
		return a.clean(ctx, project, opts)
	})
}

func (a *App) clean(ctx context.Context, project domain.Project, opts Options) (outcome, error) {
	roots, err := a.scan(ctx, project)
	if err != nil {
		return outcome{}, err
	}
	lock, _, err := a.readLock(project)
	if err != nil {
		return outcome{}, err
	}
	installed, err := a.inspect(ctx, project)
	if err != nil {
		return outcome{}, err
	}

	keep := slices.Concat(roots, lock.Names())
	res, err := closure.NewBuilder(library.NewSource(installed)).Build(ctx, keep, closure.Options{})
	if err != nil {
		return outcome{}, err
	}

	in := reconciler.Input{
		Target:    res.Closure,
		Lock:      lock,
		Installed: installed,
		Mode:      reconciler.ModeClean,
	}
	plan := a.reconcile(ctx, in)

	if err := a.printer.Plan("Clean plan", plan); err != nil {
		return outcome{}, err
	}
	if err := a.confirm(ctx, plan, opts.Yes); err != nil {
		return outcome{summary: plan.Summary()}, err
	}

	result, err := a.apply(ctx, applier.Request{
		Plan:    plan,
		Project: project,
		Lock:    reconciler.NextLock(in, plan, "", nil),
	})
	if err != nil {
		return outcome{runID: result.RunID, summary: plan.Summary()}, err
	}

	if err := a.printer.Done("applied: %s", result.Applied); err != nil {
		return outcome{}, err
	}
	return outcome{runID: result.RunID, summary: result.Applied, lock: result.Lock}, nil
}
