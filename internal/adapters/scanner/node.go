package scanner

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/rig/internal/core/ports"
)

// NodeID is the unique identifier for the source scanner Graft node.
const NodeID graft.ID = "adapter.scanner"

func init() {
	graft.Register(graft.Node[ports.SourceScanner]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.SourceScanner, error) {
			return New(), nil
		},
	})
}
