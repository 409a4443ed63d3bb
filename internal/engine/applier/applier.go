// Package applier applies a change plan to a project library through a crash-safe
// three-slot directory rotation.
package applier

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/rig/internal/core/ports"
	"go.trai.ch/zerr"
)

// Request describes one apply.
type Request struct {
	// Plan is the change plan to apply. It is consumed once.
	Plan domain.ChangePlan

	// Project locates the library and the lock file.
	Project domain.Project

	// Lock is the lock describing the library once Plan is applied.
	Lock domain.LockRecord

	// PersistLock writes Lock to Project.LockPath after a successful apply.
	PersistLock bool

	// Repository serves archives for installs. It may be nil when the plan installs nothing.
	Repository ports.Repository
}

// Result is the outcome of a successful apply.
type Result struct {
	// Lock is the lock describing the library.
	Lock domain.LockRecord

	// RunID identifies the apply in install markers and the run journal.
	RunID string

	// Recovered is the rotation state found before applying.
	Recovered domain.RotationState

	// Applied counts the changes that were carried out.
	Applied domain.PlanSummary
}

// Renamer renames a directory. It exists so tests can inject swap failures.
type Renamer func(oldpath, newpath string) error

// Option configures an Applier.
type Option func(*Applier)

// WithRenamer replaces os.Rename for slot rotation.
func WithRenamer(r Renamer) Option {
	return func(a *Applier) { a.rename = r }
}

// WithClock replaces time.Now for install markers.
func WithClock(now func() time.Time) Option {
	return func(a *Applier) { a.now = now }
}

// WithRunID replaces the run ID generator.
func WithRunID(next func() string) Option {
	return func(a *Applier) { a.newRunID = next }
}

// Applier executes change plans against a library.
type Applier struct {
	installer ports.Installer
	hasher    ports.TreeHasher
	lockStore ports.LockStore
	logger    ports.Logger
	telemetry ports.Telemetry

	rename   Renamer
	now      func() time.Time
	newRunID func() string
}

// New creates an Applier.
func New(
	installer ports.Installer,
	hasher ports.TreeHasher,
	lockStore ports.LockStore,
	logger ports.Logger,
	telemetry ports.Telemetry,
	opts ...Option,
) *Applier {
	a := &Applier{
		installer: installer,
		hasher:    hasher,
		lockStore: lockStore,
		logger:    logger,
		telemetry: telemetry,
		rename:    os.Rename,
		now:       time.Now,
		newRunID:  newRunID,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func newRunID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Apply carries out req.Plan. The active library is only replaced by a fully built
// staging generation; any failure before the swap leaves it untouched.
func (a *Applier) Apply(ctx context.Context, req Request) (Result, error) {
	library := req.Project.LibraryPath

	unlock, err := a.acquire(library)
	if err != nil {
		return Result{}, err
	}
	defer unlock()

	state, err := a.recover(library)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Lock:      req.Lock,
		RunID:     a.newRunID(),
		Recovered: state,
		Applied:   req.Plan.Summary(),
	}

	for _, c := range req.Plan.Changes {
		if c.Op == domain.OpSkipDirty {
			a.logger.Warn(fmt.Sprintf("leaving dirty package %s untouched", c.Name))
		}
	}

	if req.Plan.HasWork() {
		if err := a.applyPlan(ctx, req, res.RunID); err != nil {
			return Result{}, err
		}
	}

	if req.PersistLock {
		if err := a.lockStore.Write(req.Project.LockPath, req.Lock); err != nil {
			return Result{}, zerr.With(errors.Join(domain.ErrLockWriteFailed, err), "path", req.Project.LockPath)
		}
	}

	return res, nil
}

func (a *Applier) applyPlan(ctx context.Context, req Request, runID string) error {
	library := req.Project.LibraryPath
	staging := domain.StagingNewPath(library)

	downloadRoot := req.Project.DownloadPath()
	if err := os.MkdirAll(downloadRoot, domain.DirPerm); err != nil {
		return zerr.With(errors.Join(domain.ErrArchiveFetchFailed, err), "path", downloadRoot)
	}
	downloads, err := os.MkdirTemp(downloadRoot, "run-")
	if err != nil {
		return zerr.With(errors.Join(domain.ErrArchiveFetchFailed, err), "path", downloadRoot)
	}
	defer func() {
		_ = os.RemoveAll(downloads)
	}()

	archives, err := a.prefetch(ctx, req, downloads)
	if err != nil {
		return err
	}

	// current must exist while staging-new does, otherwise an interrupted stage
	// looks like a pending promotion to Recover.
	if err := os.MkdirAll(library, domain.DirPerm); err != nil {
		return zerr.With(errors.Join(domain.ErrInstallFailed, err), "path", library)
	}

	if err := a.stage(ctx, req.Plan, library, staging, archives, runID); err != nil {
		_ = os.RemoveAll(staging)
		return err
	}

	if err := ctx.Err(); err != nil {
		_ = os.RemoveAll(staging)
		return err
	}

	if err := a.swap(library); err != nil {
		return err
	}

	old := domain.StagingOldPath(library)
	if err := os.RemoveAll(old); err != nil {
		a.logger.Warn(fmt.Sprintf("failed to delete retired library %s: %v", old, err))
	}
	return nil
}

// WithLibraryLock runs fn while holding the advisory library lock, so writes that
// depend on an inspection of the library cannot interleave with an Apply.
func (a *Applier) WithLibraryLock(library string, fn func() error) error {
	unlock, err := a.acquire(library)
	if err != nil {
		return err
	}
	defer unlock()
	return fn()
}

// acquire takes the advisory library lock. It fails fast when another process holds it.
func (a *Applier) acquire(library string) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(filepath.Clean(library)), domain.DirPerm); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to create state directory"), "path", library)
	}

	lock := flock.New(domain.LibraryLockPath(library))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to lock library"), "path", lock.Path())
	}
	if !locked {
		return nil, zerr.With(zerr.Wrap(domain.ErrLibraryBusy, "library is in use"), "path", lock.Path())
	}

	return func() {
		if err := lock.Unlock(); err != nil {
			a.logger.Warn(fmt.Sprintf("failed to release library lock: %v", err))
		}
	}, nil
}

// swap promotes staging-new to current, keeping the previous generation in staging-old.
func (a *Applier) swap(library string) error {
	staging := domain.StagingNewPath(library)
	old := domain.StagingOldPath(library)

	if err := a.rename(library, old); err != nil {
		_ = os.RemoveAll(staging)
		return zerr.With(errors.Join(domain.ErrSwapFailed, err), "library", library)
	}

	if err := a.rename(staging, library); err != nil {
		if rollbackErr := a.rename(old, library); rollbackErr != nil {
			return zerr.With(errors.Join(domain.ErrLibraryCorrupted, err, rollbackErr), "library", library)
		}
		_ = os.RemoveAll(staging)
		return zerr.With(errors.Join(domain.ErrSwapFailed, err), "library", library)
	}

	return nil
}

func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}
