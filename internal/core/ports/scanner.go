package ports

import "context"

// SourceScanner yields the root dependency names declared by a project.
//
//go:generate go run go.uber.org/mock/mockgen -source=scanner.go -destination=mocks/mock_scanner.go -package=mocks
type SourceScanner interface {
	// Scan returns the sorted, de-duplicated root package names of the project at projectPath.
	Scan(ctx context.Context, projectPath string) ([]string, error)
}
