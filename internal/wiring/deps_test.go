package wiring_test

import (
	"context"
	"testing"

	"github.com/grindlemire/graft"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rig/internal/app"
	_ "go.trai.ch/rig/internal/wiring"
)

// TestGraftDependencies resolves the full component graph the way main does.
func TestGraftDependencies(t *testing.T) {
	t.Setenv("RIG_CONFIG_DIR", t.TempDir())

	components, _, err := graft.ExecuteFor[*app.Components](context.Background())
	require.NoError(t, err)
	require.NotNil(t, components.App)
	require.NotNil(t, components.Logger)
	require.NotNil(t, components.Telemetry)
	require.NotNil(t, components.Tracer)
	require.NoError(t, components.Close(context.Background()))
}
