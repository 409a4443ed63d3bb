package repository

import (
	"context"
	"errors"
	"io"
	"slices"

	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/rig/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Repository = (*Chain)(nil)

// Named is a repository with its configured name and URL.
type Named struct {
	Name string
	URL  string
	Repo ports.Repository
}

// Chain consults repositories in order. The first repository that knows a package wins.
type Chain struct {
	repos []Named
}

// NewChain creates a chain over repos.
func NewChain(repos ...Named) *Chain {
	return &Chain{repos: slices.Clone(repos)}
}

// Lookup returns the record from the first repository that has name, with its source
// and fingerprint filled in.
func (c *Chain) Lookup(ctx context.Context, name string) (domain.PackageRecord, error) {
	for _, r := range c.repos {
		record, err := r.Repo.Lookup(ctx, name)
		if errors.Is(err, domain.ErrPackageNotFound) {
			continue
		}
		if err != nil {
			return domain.PackageRecord{}, zerr.With(err, "repository", r.Name)
		}

		record.Source = domain.Source{Type: domain.SourceRepository, Name: r.Name, URL: r.URL}
		record.Fingerprint = ""
		return record.WithComputedFingerprint(), nil
	}

	return domain.PackageRecord{}, zerr.With(zerr.Wrap(domain.ErrPackageNotFound, "not in any repository"), "package", name)
}

// FetchArchive fetches from the repository the record was resolved from. Records
// from repositories that are no longer configured are tried against every repository.
func (c *Chain) FetchArchive(ctx context.Context, record domain.PackageRecord) (io.ReadCloser, error) {
	if record.Source.Type == domain.SourceRepository {
		for _, r := range c.repos {
			if r.Name == record.Source.Name {
				return r.Repo.FetchArchive(ctx, record)
			}
		}
	}

	for _, r := range c.repos {
		rc, err := r.Repo.FetchArchive(ctx, record)
		if errors.Is(err, domain.ErrPackageNotFound) {
			continue
		}
		return rc, err
	}
	return nil, zerr.With(zerr.Wrap(domain.ErrPackageNotFound, "no repository serves the archive"), "package", record.String())
}

// Names returns the sorted union of every repository's index. Repositories whose
// index cannot be read are skipped.
func (c *Chain) Names(ctx context.Context) ([]string, error) {
	var names []string
	var errs []error
	for _, r := range c.repos {
		list, err := r.Repo.Names(ctx)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		names = append(names, list...)
	}
	if len(names) == 0 && len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	slices.Sort(names)
	return slices.Compact(names), nil
}

// Repositories returns the configured repositories in order.
func (c *Chain) Repositories() []domain.Repository {
	out := make([]domain.Repository, 0, len(c.repos))
	for _, r := range c.repos {
		out = append(out, domain.Repository{Name: r.Name, URL: r.URL})
	}
	return out
}
