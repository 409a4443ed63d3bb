package scanner_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rig/internal/adapters/scanner"
	"go.trai.ch/rig/internal/core/domain"
)

func TestScan(t *testing.T) {
	root := t.TempDir()
	content := "dependencies:\n  - tidyr\n  - \" dplyr \"\n  - tidyr\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, "rig.yaml"), []byte(content), 0o600))

	roots, err := scanner.New().Scan(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, []string{"dplyr", "tidyr"}, roots)
}

func TestScan_NoDependencies(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "rig.yaml"), []byte("project: empty\n"), 0o600))

	roots, err := scanner.New().Scan(context.Background(), root)
	require.NoError(t, err)
	assert.Empty(t, roots)
}

func TestScan_MissingProjectFile(t *testing.T) {
	_, err := scanner.New().Scan(context.Background(), t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfigReadFailed)
}

func TestScan_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := scanner.New().Scan(ctx, t.TempDir())
	assert.ErrorIs(t, err, context.Canceled)
}
