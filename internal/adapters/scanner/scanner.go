// Package scanner discovers the root dependencies a project declares.
package scanner

import (
	"context"
	"path/filepath"

	"go.trai.ch/rig/internal/adapters/config"
	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/rig/internal/core/ports"
)

var _ ports.SourceScanner = (*Scanner)(nil)

// Scanner reads root dependencies from the dependencies list of rig.yaml.
type Scanner struct{}

// New creates a Scanner.
func New() *Scanner {
	return &Scanner{}
}

// Scan returns the sorted, de-duplicated dependencies declared by the project at projectPath.
func (s *Scanner) Scan(ctx context.Context, projectPath string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rigfile, err := config.ReadRigfile(filepath.Join(projectPath, domain.ProjectFileName))
	if err != nil {
		return nil, err
	}
	return rigfile.RootDependencies()
}
