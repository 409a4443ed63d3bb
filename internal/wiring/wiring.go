// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/rig/internal/adapters/archive"
	_ "go.trai.ch/rig/internal/adapters/config"
	_ "go.trai.ch/rig/internal/adapters/fs"
	_ "go.trai.ch/rig/internal/adapters/history"
	_ "go.trai.ch/rig/internal/adapters/library"
	_ "go.trai.ch/rig/internal/adapters/lockstore"
	_ "go.trai.ch/rig/internal/adapters/logger"
	_ "go.trai.ch/rig/internal/adapters/prompt"
	_ "go.trai.ch/rig/internal/adapters/repository"
	_ "go.trai.ch/rig/internal/adapters/scanner"
	_ "go.trai.ch/rig/internal/adapters/telemetry"
	_ "go.trai.ch/rig/internal/adapters/telemetry/progrock"
	// Register app and engine nodes.
	_ "go.trai.ch/rig/internal/app"
	_ "go.trai.ch/rig/internal/engine/applier"
)
