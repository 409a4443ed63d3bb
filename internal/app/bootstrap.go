package app

import (
	"context"
	"fmt"
	"strings"

	"go.trai.ch/rig/internal/adapters/repository" //nolint:depguard // Name suggestions only
	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/rig/internal/core/ports"
	"go.trai.ch/rig/internal/engine/applier"
	"go.trai.ch/rig/internal/engine/closure"
	"go.trai.ch/rig/internal/engine/reconciler"
	"go.trai.ch/zerr"
)

const suggestionLimit = 3

// Init builds the closure of the declared roots from the project repositories,
// installs it into the library and writes the lock.
func (a *App) Init(ctx context.Context, opts Options) error {
	project, err := a.load(opts)
	if err != nil {
		return err
	}

	return a.journal(ctx, project, "init", func() (outcome, error) {
		return a.bootstrap(ctx, project, opts)
	})
}

func (a *App) bootstrap(ctx context.Context, project domain.Project, opts Options) (outcome, error) {
	roots, err := a.scan(ctx, project)
	if err != nil {
		return outcome{}, err
	}

	repo, err := a.repositories.ForProject(project)
	if err != nil {
		return outcome{}, zerr.Wrap(err, "failed to open repositories")
	}

	target, err := a.resolve(ctx, repo, roots)
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
	cmp, err := project.Comparator()
	if err != nil {
		return outcome{}, err
	}

	in := reconciler.Input{
		Target:         target,
		Lock:           lock,
		Installed:      installed,
		OverwriteDirty: project.Settings.OverwriteDirty,
		Mode:           reconciler.ModeSync,
		Comparator:     cmp,
	}
	plan := a.reconcile(ctx, in)
	next := reconciler.NextLock(in, plan, project.Runtime, project.Repositories)

	if err := a.printer.Plan("Init plan", plan); err != nil {
		return outcome{}, err
	}
	if err := a.confirm(ctx, plan, opts.Yes); err != nil {
		return outcome{summary: plan.Summary()}, err
	}

	res, err := a.apply(ctx, applier.Request{
		Plan:        plan,
		Project:     project,
		Lock:        next,
		PersistLock: true,
		Repository:  repo,
	})
	if err != nil {
		return outcome{runID: res.RunID, summary: plan.Summary()}, err
	}

	if err := a.printer.Done("applied: %s, lock written to %s", res.Applied, project.LockPath); err != nil {
		return outcome{}, err
	}
	return outcome{runID: res.RunID, summary: res.Applied, lock: res.Lock}, nil
}

// resolve builds the recursive closure of roots from repo. Missing packages are fatal
// and reported with the closest names the repositories publish.
func (a *App) resolve(ctx context.Context, repo ports.Repository, roots []string) (*domain.Closure, error) {
	ctx, span := a.tracer.Start(ctx, "closure")
	defer span.End()

	res, err := closure.NewBuilder(repo).Build(ctx, roots, closure.Options{Recursive: true})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttribute("packages", res.Closure.Len())

	if len(res.Missing) > 0 {
		a.suggest(ctx, repo, res.Missing)
		err := res.MissingError()
		span.RecordError(err)
		return nil, err
	}
	if err := res.ConflictError(); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return res.Closure, nil
}

func (a *App) suggest(ctx context.Context, repo ports.Repository, missing []string) {
	names, err := repo.Names(ctx)
	if err != nil {
		a.logger.Debug(fmt.Sprintf("no suggestions: %v", err))
		return
	}
	for _, name := range missing {
		if candidates := repository.Suggest(name, names, suggestionLimit); len(candidates) > 0 {
			a.logger.Warn(fmt.Sprintf("%s not found, did you mean %s?", name, strings.Join(candidates, ", ")))
		} else {
			a.logger.Warn(name + " not found in any repository")
		}
	}
}

func (a *App) reconcile(ctx context.Context, in reconciler.Input) domain.ChangePlan {
	_, span := a.tracer.Start(ctx, "reconcile")
	defer span.End()

	plan := reconciler.Reconcile(in)
	span.SetAttribute("mode", in.Mode.String())
	span.SetAttribute("changes", len(plan.Changes))
	return plan
}
