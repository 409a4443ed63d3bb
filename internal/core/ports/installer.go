package ports

import (
	"context"
	"io"

	"go.trai.ch/rig/internal/core/domain"
)

// Installer unpacks a package archive into a library directory.
//
//go:generate go run go.uber.org/mock/mockgen -source=installer.go -destination=mocks/mock_installer.go -package=mocks
type Installer interface {
	// Install extracts archive into libraryDir/<record.Name> and verifies the embedded metadata.
	Install(ctx context.Context, record domain.PackageRecord, archive io.Reader, libraryDir string) error
}
