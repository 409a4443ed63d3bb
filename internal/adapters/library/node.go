package library

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/rig/internal/adapters/fs"
	"go.trai.ch/rig/internal/core/ports"
)

// NodeID is the unique identifier for the library inspector Graft node.
const NodeID graft.ID = "adapter.library.inspector"

func init() {
	graft.Register(graft.Node[ports.Inspector]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fs.HasherNodeID},
		Run: func(ctx context.Context) (ports.Inspector, error) {
			hasher, err := graft.Dep[ports.TreeHasher](ctx)
			if err != nil {
				return nil, err
			}
			return NewInspector(hasher), nil
		},
	})
}
