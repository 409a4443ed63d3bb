package repository

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/rig/internal/core/ports"
)

// NodeID is the unique identifier for the repository factory Graft node.
const NodeID graft.ID = "adapter.repository.factory"

func init() {
	graft.Register(graft.Node[ports.RepositoryFactory]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.RepositoryFactory, error) {
			return NewFactory(nil), nil
		},
	})
}
