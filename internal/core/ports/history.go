package ports

import (
	"context"

	"go.trai.ch/rig/internal/core/domain"
)

// History journals mutating runs.
//
//go:generate go run go.uber.org/mock/mockgen -source=history.go -destination=mocks/mock_history.go -package=mocks
type History interface {
	// Record appends a finished run to the journal of the project at root.
	Record(ctx context.Context, root string, entry domain.RunEntry) error

	// List returns up to limit runs, newest first.
	List(ctx context.Context, root string, limit int) ([]domain.RunEntry, error)
}
