package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/rig/internal/adapters/config"             //nolint:depguard // Wired in app layer
	"go.trai.ch/rig/internal/adapters/history"            //nolint:depguard // Wired in app layer
	"go.trai.ch/rig/internal/adapters/library"            //nolint:depguard // Wired in app layer
	"go.trai.ch/rig/internal/adapters/lockstore"          //nolint:depguard // Wired in app layer
	"go.trai.ch/rig/internal/adapters/logger"             //nolint:depguard // Wired in app layer
	"go.trai.ch/rig/internal/adapters/prompt"             //nolint:depguard // Wired in app layer
	"go.trai.ch/rig/internal/adapters/repository"         //nolint:depguard // Wired in app layer
	"go.trai.ch/rig/internal/adapters/scanner"            //nolint:depguard // Wired in app layer
	"go.trai.ch/rig/internal/adapters/telemetry"          //nolint:depguard // Wired in app layer
	"go.trai.ch/rig/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in app layer
	"go.trai.ch/rig/internal/core/ports"
	"go.trai.ch/rig/internal/engine/applier"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			scanner.NodeID,
			library.NodeID,
			lockstore.NodeID,
			repository.NodeID,
			applier.NodeID,
			history.NodeID,
			prompt.NodeID,
			telemetry.TracerNodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	// Components Node
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			progrock.NodeID,
			telemetry.TracerNodeID,
		},
		Run: runComponentsNode,
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ProjectLoader](ctx)
	if err != nil {
		return nil, err
	}
	scan, err := graft.Dep[ports.SourceScanner](ctx)
	if err != nil {
		return nil, err
	}
	inspector, err := graft.Dep[ports.Inspector](ctx)
	if err != nil {
		return nil, err
	}
	store, err := graft.Dep[ports.LockStore](ctx)
	if err != nil {
		return nil, err
	}
	repos, err := graft.Dep[ports.RepositoryFactory](ctx)
	if err != nil {
		return nil, err
	}
	apply, err := graft.Dep[*applier.Applier](ctx)
	if err != nil {
		return nil, err
	}
	journal, err := graft.Dep[ports.History](ctx)
	if err != nil {
		return nil, err
	}
	prompter, err := graft.Dep[ports.Prompter](ctx)
	if err != nil {
		return nil, err
	}
	tracer, err := graft.Dep[ports.Tracer](ctx)
	if err != nil {
		return nil, err
	}
	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, scan, inspector, store, repos, apply, journal, prompter, tracer, log), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	app, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}
	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}
	tel, err := graft.Dep[ports.Telemetry](ctx)
	if err != nil {
		return nil, err
	}
	tracer, err := graft.Dep[ports.Tracer](ctx)
	if err != nil {
		return nil, err
	}

	return &Components{
		App:       app,
		Logger:    log,
		Telemetry: tel,
		Tracer:    tracer,
	}, nil
}
