// Package closure builds the transitive dependency closure of a project.
package closure

import (
	"context"
	"errors"
	"slices"
	"strings"

	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/rig/internal/core/ports"
	"go.trai.ch/zerr"
)

// Options controls a closure build.
type Options struct {
	// Recursive expands dependency edges. When false only the roots are resolved.
	Recursive bool

	// Pins are records that take precedence over the metadata source.
	Pins []domain.PackageRecord

	// IncludeOptional follows optional dependency edges too.
	IncludeOptional bool
}

// Result is the outcome of a closure build.
type Result struct {
	// Closure holds one record per resolved name.
	Closure *domain.Closure

	// Missing lists names the source does not know, in discovery order.
	Missing []string

	// Conflicts lists names that resolved to two different records.
	Conflicts []domain.Conflict
}

// Builder expands root names into a closure using a metadata source.
type Builder struct {
	source ports.MetadataSource
}

// NewBuilder creates a Builder backed by source.
func NewBuilder(source ports.MetadataSource) *Builder {
	return &Builder{source: source}
}

// Build resolves roots breadth-first. Roots are sorted and de-duplicated; dependency
// names are visited in record order so identical inputs give identical results.
// A name unknown to the source is recorded as missing and traversal continues.
// Any other lookup failure aborts the build.
func (b *Builder) Build(ctx context.Context, roots []string, opts Options) (Result, error) {
	res := Result{Closure: &domain.Closure{}}

	pins := slices.Clone(opts.Pins)
	slices.SortStableFunc(pins, func(a, b domain.PackageRecord) int {
		return strings.Compare(a.Name, b.Name)
	})
	for _, pin := range pins {
		if conflict, ok := res.Closure.Add(pin); ok {
			res.Conflicts = append(res.Conflicts, conflict)
		}
	}

	queue := normalizeRoots(roots)
	visited := make(map[string]struct{}, len(queue))

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		name := queue[0]
		queue = queue[1:]
		if _, ok := visited[name]; ok {
			continue
		}
		visited[name] = struct{}{}

		record, ok := res.Closure.Get(name)
		if !ok {
			found, err := b.source.Lookup(ctx, name)
			if errors.Is(err, domain.ErrPackageNotFound) {
				res.Missing = append(res.Missing, name)
				continue
			}
			if err != nil {
				return Result{}, zerr.With(errors.Join(domain.ErrLookupFailed, err), "package", name)
			}
			if found.Name == "" {
				found.Name = name
			}
			if found.Name != name {
				return Result{}, zerr.With(zerr.With(zerr.Wrap(domain.ErrLookupFailed, "source returned a different package"),
					"package", name), "returned", found.Name)
			}

			record = found
			if conflict, rejected := res.Closure.Add(found); rejected {
				res.Conflicts = append(res.Conflicts, conflict)
				record = conflict.Kept
			}
		}

		if !opts.Recursive {
			continue
		}
		for _, dep := range domain.DependencyNames(record, opts.IncludeOptional) {
			if _, seen := visited[dep]; !seen {
				queue = append(queue, dep)
			}
		}
	}

	return res, nil
}

func normalizeRoots(roots []string) []string {
	out := make([]string, 0, len(roots))
	for _, r := range roots {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// MissingError returns an error listing the missing names, or nil when none are missing.
func (r Result) MissingError() error {
	if len(r.Missing) == 0 {
		return nil
	}
	return zerr.With(zerr.Wrap(domain.ErrMissingPackages, "closure is incomplete"), "packages", strings.Join(r.Missing, ", "))
}

// ConflictError returns an error listing the conflicts, or nil when there are none.
func (r Result) ConflictError() error {
	if len(r.Conflicts) == 0 {
		return nil
	}
	descriptions := make([]string, 0, len(r.Conflicts))
	for _, c := range r.Conflicts {
		descriptions = append(descriptions, c.String())
	}
	return zerr.With(zerr.Wrap(domain.ErrConflictDetected, "closure is inconsistent"), "conflicts", strings.Join(descriptions, "; "))
}
