package applier

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/rig/internal/adapters/archive"            //nolint:depguard // Wired in engine layer
	"go.trai.ch/rig/internal/adapters/fs"                 //nolint:depguard // Wired in engine layer
	"go.trai.ch/rig/internal/adapters/lockstore"          //nolint:depguard // Wired in engine layer
	"go.trai.ch/rig/internal/adapters/logger"             //nolint:depguard // Wired in engine layer
	"go.trai.ch/rig/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in engine layer
	"go.trai.ch/rig/internal/core/ports"
)

// NodeID is the unique identifier for the applier Graft node.
const NodeID graft.ID = "engine.applier"

func init() {
	graft.Register(graft.Node[*Applier]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			archive.NodeID,
			fs.HasherNodeID,
			lockstore.NodeID,
			logger.NodeID,
			progrock.NodeID,
		},
		Run: func(ctx context.Context) (*Applier, error) {
			installer, err := graft.Dep[ports.Installer](ctx)
			if err != nil {
				return nil, err
			}
			hasher, err := graft.Dep[ports.TreeHasher](ctx)
			if err != nil {
				return nil, err
			}
			store, err := graft.Dep[ports.LockStore](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			telemetry, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}
			return New(installer, hasher, store, log, telemetry), nil
		},
	})
}
