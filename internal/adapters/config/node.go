package config

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/rig/internal/adapters/logger"
	"go.trai.ch/rig/internal/core/ports"
)

const (
	// NodeID is the unique identifier for the project loader Graft node.
	NodeID graft.ID = "adapter.config_loader"
	// SettingsNodeID is the unique identifier for the user settings Graft node.
	SettingsNodeID graft.ID = "adapter.config_settings"
)

func init() {
	graft.Register(graft.Node[*Settings]{
		ID:        SettingsNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Settings, error) {
			return NewSettings(DefaultSettingsDir()), nil
		},
	})

	graft.Register(graft.Node[ports.ProjectLoader]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID, SettingsNodeID},
		Run: func(ctx context.Context) (ports.ProjectLoader, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			settings, err := graft.Dep[*Settings](ctx)
			if err != nil {
				return nil, err
			}
			return NewLoader(log, settings), nil
		},
	})
}
