package applier_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/rig/internal/engine/applier"
)

func writeSlot(t *testing.T, path, generation string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(path, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(path, "generation"), []byte(generation), 0o600))
}

func TestRecover(t *testing.T) {
	tests := []struct {
		name       string
		obs        domain.Observation
		state      domain.RotationState
		generation string
	}{
		{"stable", domain.Observation{Current: true}, domain.Stable, "current"},
		{"empty", domain.Observation{}, domain.Stable, ""},
		{"stale staging", domain.Observation{Current: true, New: true}, domain.StaleStaging, "current"},
		{"stale staging with old", domain.Observation{Current: true, New: true, Old: true}, domain.StaleStaging, "current"},
		{"promotion pending", domain.Observation{New: true, Old: true}, domain.PromotionPending, "new"},
		{"promotion pending first install", domain.Observation{New: true}, domain.PromotionPending, "new"},
		{"cleanup pending", domain.Observation{Current: true, Old: true}, domain.CleanupPending, "current"},
		{"corrupted", domain.Observation{Old: true}, domain.Corrupted, "old"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			library := f.project.LibraryPath
			if tt.obs.Current {
				writeSlot(t, library, "current")
			}
			if tt.obs.New {
				writeSlot(t, domain.StagingNewPath(library), "new")
			}
			if tt.obs.Old {
				writeSlot(t, domain.StagingOldPath(library), "old")
			}

			a := f.applier(t, dirInstaller{})
			state, err := a.Recover(context.Background(), library)
			require.NoError(t, err)
			assert.Equal(t, tt.state, state)

			obs, err := applier.Observe(library)
			require.NoError(t, err)
			assert.Equal(t, domain.Observation{Current: tt.generation != ""}, obs)
			if tt.generation != "" {
				data, err := os.ReadFile(filepath.Join(library, "generation"))
				require.NoError(t, err)
				assert.Equal(t, tt.generation, string(data))
			}

			again, err := a.Recover(context.Background(), library)
			require.NoError(t, err)
			assert.Equal(t, domain.Stable, again)
		})
	}
}
