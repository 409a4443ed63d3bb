package ports

import (
	"context"

	"go.trai.ch/rig/internal/core/domain"
)

// Inspector observes the packages installed in a library directory.
//
//go:generate go run go.uber.org/mock/mockgen -source=inspector.go -destination=mocks/mock_inspector.go -package=mocks
type Inspector interface {
	// Inspect reads every package under libraryPath. A missing library is an empty state.
	// Per-package failures are reported in InstalledState.Errors.
	Inspect(ctx context.Context, libraryPath string) (domain.InstalledState, error)
}
