// Package ports defines the core interfaces for the application.
package ports

import (
	"context"
	"io"

	"go.trai.ch/rig/internal/core/domain"
)

//go:generate go run go.uber.org/mock/mockgen -source=repository.go -destination=mocks/mock_repository.go -package=mocks

// MetadataSource resolves a package name to a record.
type MetadataSource interface {
	// Lookup returns the record for name, or an error matching domain.ErrPackageNotFound
	// when the source does not know the package.
	Lookup(ctx context.Context, name string) (domain.PackageRecord, error)
}

// Repository is a MetadataSource that can also serve package archives.
type Repository interface {
	MetadataSource

	// FetchArchive opens the archive for a record. The caller closes the reader.
	FetchArchive(ctx context.Context, record domain.PackageRecord) (io.ReadCloser, error)

	// Names lists every package the repository publishes.
	Names(ctx context.Context) ([]string, error)
}

// RepositoryFactory builds the repository chain configured for a project.
type RepositoryFactory interface {
	ForProject(project domain.Project) (Repository, error)
}
