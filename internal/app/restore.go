package app

import (
	"context"

	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/rig/internal/core/ports"
	"go.trai.ch/rig/internal/engine/applier"
	"go.trai.ch/rig/internal/engine/reconciler"
	"go.trai.ch/zerr"
)

// Restore converges the library to the lock.
func (a *App) Restore(ctx context.Context, opts Options) error {
	project, err := a.load(opts)
	if err != nil {
		return err
	}

	return a.journal(ctx, project, "restore", func() (outcome, error) {
		return a.restore(ctx, project, opts)
	})
}

func (a *App) restore(ctx context.Context, project domain.Project, opts Options) (outcome, error) {
	lock, err := a.lockStore.Read(project.LockPath)
	if err != nil {
		return outcome{}, zerr.Wrap(err, "nothing to restore")
	}
	installed, err := a.inspect(ctx, project)
	if err != nil {
		return outcome{}, err
	}
	cmp, err := project.Comparator()
	if err != nil {
		return outcome{}, err
	}

	plan := a.reconcile(ctx, reconciler.Input{
		Lock:           lock,
		Installed:      installed,
		OverwriteDirty: project.Settings.OverwriteDirty,
		Mode:           reconciler.ModeSync,
		Comparator:     cmp,
	})

	if err := a.printer.Plan("Restore plan", plan); err != nil {
		return outcome{}, err
	}
	if err := a.confirm(ctx, plan, opts.Yes); err != nil {
		return outcome{summary: plan.Summary()}, err
	}

	var repo ports.Repository
	if len(plan.Targets()) > 0 {
		if len(project.Repositories) == 0 {
			project.Repositories = lock.Repositories
		}
		if repo, err = a.repositories.ForProject(project); err != nil {
			return outcome{}, zerr.Wrap(err, "failed to open repositories")
		}
	}

	res, err := a.apply(ctx, applier.Request{
		Plan:       plan,
		Project:    project,
		Lock:       lock,
		Repository: repo,
	})
	if err != nil {
		return outcome{runID: res.RunID, summary: plan.Summary()}, err
	}

	if err := a.printer.Done("applied: %s", res.Applied); err != nil {
		return outcome{}, err
	}
	return outcome{runID: res.RunID, summary: res.Applied, lock: lock}, nil
}
