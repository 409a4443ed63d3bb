// Package app implements the application layer for rig.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/rig/internal/core/ports"
	"go.trai.ch/rig/internal/engine/applier"
	"go.trai.ch/rig/internal/ui/report"
	"go.trai.ch/zerr"
)

// Options are the per-invocation knobs shared by every use case.
type Options struct {
	// Dir is where the project search starts. Empty means the working directory.
	Dir string

	// Yes applies destructive plans without asking.
	Yes bool

	// OverwriteDirty overrides the overwrite_dirty setting when set.
	OverwriteDirty *bool

	// Force writes a snapshot even when packages are missing from the library.
	Force bool
}

// App represents the main application logic.
type App struct {
	loader       ports.ProjectLoader
	scanner      ports.SourceScanner
	inspector    ports.Inspector
	lockStore    ports.LockStore
	repositories ports.RepositoryFactory
	applier      *applier.Applier
	history      ports.History
	prompter     ports.Prompter
	tracer       ports.Tracer
	logger       ports.Logger

	printer *report.Printer
	out     io.Writer
	verbose bool
	now     func() time.Time
	newID   func() string
}

// New creates a new App instance.
func New(
	loader ports.ProjectLoader,
	scanner ports.SourceScanner,
	inspector ports.Inspector,
	lockStore ports.LockStore,
	repositories ports.RepositoryFactory,
	apply *applier.Applier,
	history ports.History,
	prompter ports.Prompter,
	tracer ports.Tracer,
	log ports.Logger,
) *App {
	return &App{
		loader:       loader,
		scanner:      scanner,
		inspector:    inspector,
		lockStore:    lockStore,
		repositories: repositories,
		applier:      apply,
		history:      history,
		prompter:     prompter,
		tracer:       tracer,
		logger:       log,
		printer:      report.New(os.Stdout, false),
		out:          os.Stdout,
		now:          time.Now,
		newID:        newRunID,
	}
}

func newRunID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// WithOutput redirects reports to w.
func (a *App) WithOutput(w io.Writer) *App {
	a.out = w
	a.printer = report.New(w, a.printer.JSON())
	return a
}

// WithClock replaces time.Now for the run journal.
func (a *App) WithClock(now func() time.Time) *App {
	a.now = now
	return a
}

// Configure selects JSON output and verbosity for logs and reports.
func (a *App) Configure(jsonMode, verbose bool) {
	a.logger.SetJSON(jsonMode)
	a.verbose = verbose
	if verbose {
		a.logger.SetLevel(domain.LogLevelDebug)
	}
	a.printer = report.New(a.out, jsonMode)
}

// load resolves the project and applies per-invocation overrides.
func (a *App) load(opts Options) (domain.Project, error) {
	dir := opts.Dir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return domain.Project{}, zerr.Wrap(err, "failed to determine working directory")
		}
		dir = wd
	}

	project, err := a.loader.Load(dir)
	if err != nil {
		return domain.Project{}, zerr.Wrap(err, "failed to load project")
	}

	if opts.OverwriteDirty != nil {
		project.Settings.OverwriteDirty = *opts.OverwriteDirty
	}
	if project.Settings.LogFormat == domain.LogFormatJSON {
		a.logger.SetJSON(true)
	}
	if !a.verbose {
		a.logger.SetLevel(project.Settings.LogLevel)
	}
	return project, nil
}

// readLock returns the project lock. A missing lock is empty and reported as not found.
func (a *App) readLock(project domain.Project) (domain.LockRecord, bool, error) {
	lock, err := a.lockStore.Read(project.LockPath)
	if errors.Is(err, domain.ErrLockNotFound) {
		return domain.LockRecord{Version: domain.LockFormatVersion}, false, nil
	}
	if err != nil {
		return domain.LockRecord{}, false, err
	}
	return lock, true, nil
}

// scan returns the declared roots.
func (a *App) scan(ctx context.Context, project domain.Project) ([]string, error) {
	ctx, span := a.tracer.Start(ctx, "scan")
	defer span.End()

	roots, err := a.scanner.Scan(ctx, project.Root)
	if err != nil {
		span.RecordError(err)
		return nil, zerr.Wrap(err, "failed to scan declared dependencies")
	}
	span.SetAttribute("roots", len(roots))
	return roots, nil
}

// inspect observes the library and warns about packages that could not be read.
func (a *App) inspect(ctx context.Context, project domain.Project) (domain.InstalledState, error) {
	ctx, span := a.tracer.Start(ctx, "inspect")
	defer span.End()

	state, err := a.inspector.Inspect(ctx, project.LibraryPath)
	if err != nil {
		span.RecordError(err)
		return domain.InstalledState{}, err
	}
	for _, e := range state.Errors {
		a.logger.Warn(fmt.Sprintf("could not inspect %s: %v", e.Name, e.Err))
	}
	span.SetAttribute("installed", state.Len())
	return state, nil
}

// confirm gates destructive plans behind --yes or an interactive confirmation.
func (a *App) confirm(ctx context.Context, plan domain.ChangePlan, yes bool) error {
	destructive := plan.Destructive()
	if len(destructive) == 0 || yes {
		return nil
	}

	if !a.prompter.Interactive() {
		return zerr.With(zerr.Wrap(domain.ErrConfirmationRequired, "refusing destructive plan"), "changes", len(destructive))
	}

	ok, err := a.prompter.Confirm(ctx, fmt.Sprintf("Apply %d destructive change(s)?", len(destructive)))
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrAborted
	}
	return nil
}

// apply runs the applier inside an "apply" span.
func (a *App) apply(ctx context.Context, req applier.Request) (applier.Result, error) {
	ctx, span := a.tracer.Start(ctx, "apply")
	defer span.End()

	changes := make([]string, 0, len(req.Plan.Changes))
	for _, c := range req.Plan.Changes {
		changes = append(changes, c.String())
	}
	a.tracer.EmitPlan(ctx, changes)

	res, err := a.applier.Apply(ctx, req)
	if err != nil {
		span.RecordError(err)
		return res, err
	}
	if res.Recovered != domain.Stable {
		a.logger.Warn(fmt.Sprintf("recovered library from %s before applying", res.Recovered))
	}
	return res, nil
}

// outcome is what a mutating run reports to the journal.
type outcome struct {
	runID   string
	summary domain.PlanSummary
	lock    domain.LockRecord
}

// journal runs fn and records the run in the project history. Journal failures are
// logged and never change the result of the run.
func (a *App) journal(ctx context.Context, project domain.Project, operation string, fn func() (outcome, error)) error {
	started := a.now()
	out, err := fn()

	entry := domain.RunEntry{
		ID:         out.runID,
		Operation:  operation,
		StartedAt:  started,
		FinishedAt: a.now(),
		Status:     domain.RunSucceeded,
		Summary:    out.summary,
	}
	if entry.ID == "" {
		entry.ID = a.newID()
	}
	if len(out.lock.Packages) > 0 {
		entry.LockFingerprint = out.lock.Fingerprint()
	}
	if err != nil {
		entry.Status = domain.RunFailed
		entry.Error = err.Error()
	}

	if recErr := a.history.Record(context.WithoutCancel(ctx), project.Root, entry); recErr != nil {
		a.logger.Warn(fmt.Sprintf("could not record run: %v", recErr))
	}
	return err
}
