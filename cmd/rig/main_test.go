package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/rig/internal/app"
)

func TestRun(t *testing.T) {
	// Save original args
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
	}()

	tests := []struct {
		name         string
		setupProject func(t *testing.T, dir string)
		args         []string
		expectedExit int
	}{
		{
			name:         "Version",
			setupProject: func(*testing.T, string) {},
			args:         []string{"rig", "version"},
			expectedExit: 0,
		},
		{
			name: "Init without dependencies",
			setupProject: func(t *testing.T, dir string) {
				t.Helper()
				content := "version: \"1\"\nproject: empty\n"
				if err := os.WriteFile(filepath.Join(dir, "rig.yaml"), []byte(content), 0o600); err != nil {
					t.Fatalf("failed to write project file: %v", err)
				}
			},
			args:         []string{"rig", "init"},
			expectedExit: 0,
		},
		{
			name:         "Status without project",
			setupProject: func(*testing.T, string) {},
			args:         []string{"rig", "status"},
			expectedExit: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			t.Setenv("RIG_CONFIG_DIR", t.TempDir())
			tt.setupProject(t, tmpDir)

			originalWd, _ := os.Getwd()
			if err := os.Chdir(tmpDir); err != nil {
				t.Fatalf("failed to chdir: %v", err)
			}
			defer func() {
				_ = os.Chdir(originalWd)
			}()

			os.Args = tt.args

			exitCode := run(func(a *app.App) {
				a.WithOutput(io.Discard)
			})
			assert.Equal(t, tt.expectedExit, exitCode)
		})
	}
}
