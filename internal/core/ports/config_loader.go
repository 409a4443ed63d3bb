package ports

import "go.trai.ch/rig/internal/core/domain"

// ProjectLoader defines the interface for loading the project configuration.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ProjectLoader interface {
	// Load finds rig.yaml starting at cwd and walking up, and returns the resolved project.
	Load(cwd string) (domain.Project, error)
}
