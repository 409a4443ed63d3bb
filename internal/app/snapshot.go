package app

import (
	"context"
	"fmt"
	"strings"

	"go.trai.ch/rig/internal/adapters/library" //nolint:depguard // Installed packages as a metadata source
	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/rig/internal/engine/closure"
	"go.trai.ch/rig/internal/engine/reconciler"
	"go.trai.ch/zerr"
)

// Snapshot records what is installed for the declared roots into the lock.
// The closure is resolved from the library itself; nothing is installed.
func (a *App) Snapshot(ctx context.Context, opts Options) error {
	project, err := a.load(opts)
	if err != nil {
		return err
	}

	return a.journal(ctx, project, "snapshot", func() (outcome, error) {
		var out outcome
		err := a.applier.WithLibraryLock(project.LibraryPath, func() error {
			var err error
			out, err = a.snapshot(ctx, project, opts)
			return err
		})
		return out, err
	})
}

func (a *App) snapshot(ctx context.Context, project domain.Project, opts Options) (outcome, error) {
	roots, err := a.scan(ctx, project)
	if err != nil {
		return outcome{}, err
	}
	installed, err := a.inspect(ctx, project)
	if err != nil {
		return outcome{}, err
	}

	closureCtx, span := a.tracer.Start(ctx, "closure")
	res, err := closure.NewBuilder(library.NewSource(installed)).Build(closureCtx, roots, closure.Options{Recursive: true})
	span.RecordError(err)
	span.End()
	if err != nil {
		return outcome{}, err
	}

	if len(res.Missing) > 0 {
		if !opts.Force {
			return outcome{}, zerr.Wrap(res.MissingError(), "packages are not installed, run init or use --force")
		}
		a.logger.Warn(fmt.Sprintf("not installed, left out of the lock: %s", strings.Join(res.Missing, ", ")))
	}
	if err := res.ConflictError(); err != nil {
		return outcome{}, err
	}

	lock, found, err := a.readLock(project)
	if err != nil {
		return outcome{}, err
	}
	cmp, err := project.Comparator()
	if err != nil {
		return outcome{}, err
	}

	next := snapshotLock(project, lock, res.Closure)
	diff := reconciler.DiffLock(lock, next, cmp)
	if err := a.printer.LockDiff(diff); err != nil {
		return outcome{}, err
	}

	if found && diff.IsEmpty() && next.Runtime == lock.Runtime {
		return outcome{lock: lock}, nil
	}
	if err := a.lockStore.Write(project.LockPath, next); err != nil {
		return outcome{}, err
	}
	if err := a.printer.Done("lock written to %s", project.LockPath); err != nil {
		return outcome{}, err
	}
	return outcome{lock: next}, nil
}

func snapshotLock(project domain.Project, previous domain.LockRecord, target *domain.Closure) domain.LockRecord {
	runtime := project.Runtime
	if runtime == "" {
		runtime = previous.Runtime
	}
	repositories := project.Repositories
	if len(repositories) == 0 {
		repositories = previous.Repositories
	}

	records := target.Records()
	for i, r := range records {
		records[i] = r.WithComputedFingerprint()
	}
	return domain.NewLockRecord(runtime, repositories, records)
}
