package history

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/rig/internal/core/ports"
)

// NodeID is the unique identifier for the run history Graft node.
const NodeID graft.ID = "adapter.history"

func init() {
	graft.Register(graft.Node[ports.History]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.History, error) {
			return NewStore(), nil
		},
	})
}
