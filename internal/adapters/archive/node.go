package archive

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/rig/internal/core/ports"
)

// NodeID is the unique identifier for the archive installer Graft node.
const NodeID graft.ID = "adapter.archive.installer"

func init() {
	graft.Register(graft.Node[ports.Installer]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Installer, error) {
			return NewInstaller(), nil
		},
	})
}
