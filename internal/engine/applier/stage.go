package applier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// prefetch downloads every archive the plan installs before the staging area is touched.
// It returns the local archive path per package name.
func (a *Applier) prefetch(ctx context.Context, req Request, dir string) (map[string]string, error) {
	targets := req.Plan.Targets()
	archives := make(map[string]string, len(targets))
	if len(targets) == 0 {
		return archives, nil
	}
	if req.Repository == nil {
		return nil, zerr.Wrap(domain.ErrArchiveFetchFailed, "no repository configured")
	}

	limit := req.Project.Settings.FetchConcurrency
	if limit <= 0 {
		limit = domain.DefaultFetchConcurrency
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for _, c := range targets {
		g.Go(func() error {
			path, err := a.fetch(gctx, req, *c.To, dir)
			if err != nil {
				return zerr.With(zerr.With(errors.Join(domain.ErrArchiveFetchFailed, err),
					"package", c.Name), "version", c.To.Version.String())
			}
			mu.Lock()
			archives[c.Name] = path
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return archives, nil
}

func (a *Applier) fetch(ctx context.Context, req Request, record domain.PackageRecord, dir string) (string, error) {
	rc, err := req.Repository.FetchArchive(ctx, record)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = rc.Close()
	}()

	f, err := os.CreateTemp(dir, record.Name+"-*.archive")
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, rc); err != nil {
		_ = f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	a.logger.Debug(fmt.Sprintf("fetched %s", record))
	return f.Name(), nil
}

// stage builds the next library generation in staging. Packages the plan leaves alone
// are carried over from the current library unchanged.
func (a *Applier) stage(
	ctx context.Context,
	plan domain.ChangePlan,
	library, staging string,
	archives map[string]string,
	runID string,
) error {
	if err := os.RemoveAll(staging); err != nil {
		return zerr.With(errors.Join(domain.ErrInstallFailed, err), "path", staging)
	}
	if err := os.MkdirAll(staging, domain.DirPerm); err != nil {
		return zerr.With(errors.Join(domain.ErrInstallFailed, err), "path", staging)
	}

	touched := make(map[string]bool, len(plan.Changes))
	for _, c := range plan.Changes {
		if c.Op != domain.OpSkipDirty {
			touched[c.Name] = true
		}
	}

	entries, err := os.ReadDir(library)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return zerr.With(errors.Join(domain.ErrInstallFailed, err), "path", library)
	}
	for _, entry := range entries {
		if touched[entry.Name()] {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		src := filepath.Join(library, entry.Name())
		if err := copyTree(src, filepath.Join(staging, entry.Name())); err != nil {
			return zerr.With(errors.Join(domain.ErrInstallFailed, err), "package", entry.Name())
		}
		a.logger.Debug(fmt.Sprintf("carried over %s", entry.Name()))
	}

	for _, c := range plan.Changes {
		if err := ctx.Err(); err != nil {
			return err
		}
		switch {
		case c.Replaces():
			if err := a.install(ctx, c, staging, archives[c.Name], runID); err != nil {
				return err
			}
		case c.Op == domain.OpRemove:
			_, vertex := a.telemetry.Record(ctx, c.String())
			vertex.Complete(nil)
			a.logger.Info(c.String())
		}
	}
	return nil
}

func (a *Applier) install(ctx context.Context, c domain.Change, staging, archive, runID string) (err error) {
	ctx, vertex := a.telemetry.Record(ctx, c.String())
	defer func() {
		vertex.Complete(err)
	}()

	fail := func(cause error) error {
		return zerr.With(zerr.With(errors.Join(domain.ErrInstallFailed, cause),
			"package", c.Name), "version", c.To.Version.String())
	}

	if archive == "" {
		return fail(errors.New("archive was not fetched"))
	}

	f, err := os.Open(archive)
	if err != nil {
		return fail(err)
	}
	defer func() {
		_ = f.Close()
	}()

	if err := a.installer.Install(ctx, *c.To, f, staging); err != nil {
		return fail(err)
	}

	dir := filepath.Join(staging, c.Name)
	treeHash, err := a.hasher.HashTree(dir)
	if err != nil {
		return fail(err)
	}

	marker := domain.InstallMarker{
		Fingerprint: c.To.EffectiveFingerprint(),
		TreeHash:    treeHash,
		RunID:       runID,
		InstalledAt: a.now().UTC(),
	}
	if err := writeMarker(dir, marker); err != nil {
		return fail(err)
	}

	vertex.Log(domain.LogLevelInfo, c.String())
	a.logger.Info(c.String())
	return nil
}

func writeMarker(dir string, marker domain.InstallMarker) error {
	data, err := json.MarshalIndent(marker, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, domain.InstallMarkerFile), append(data, '\n'), domain.FilePerm)
}
