package library_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rig/internal/adapters/fs"
	"go.trai.ch/rig/internal/adapters/library"
	"go.trai.ch/rig/internal/core/domain"
)

func record(name string, version domain.Version, deps ...string) domain.PackageRecord {
	return domain.NewPackageRecord(name, version,
		domain.WithSource(domain.Source{Type: domain.SourceRepository, Name: "main"}),
		domain.WithRequires(deps...),
	).WithComputedFingerprint()
}

// install lays a package out the way the applier does: metadata, files, then a marker
// over the final tree.
func install(t *testing.T, lib string, r domain.PackageRecord) string {
	t.Helper()
	dir := filepath.Join(lib, r.Name)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "R"), 0o750))
	require.NoError(t, library.WriteMetadata(dir, r))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "R", r.Name+".R"), []byte("f <- 1"), 0o600))

	tree, err := fs.NewHasher(fs.NewWalker()).HashTree(dir)
	require.NoError(t, err)
	writeMarker(t, dir, domain.InstallMarker{
		Fingerprint: r.EffectiveFingerprint(),
		TreeHash:    tree,
		RunID:       "run-1",
		InstalledAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	return dir
}

func writeMarker(t *testing.T, dir string, marker domain.InstallMarker) {
	t.Helper()
	data, err := json.Marshal(marker)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, domain.InstallMarkerFile), data, 0o600))
}

func inspect(t *testing.T, lib string) domain.InstalledState {
	t.Helper()
	state, err := library.NewInspector(fs.NewHasher(fs.NewWalker())).Inspect(context.Background(), lib)
	require.NoError(t, err)
	return state
}

func TestInspect_MissingLibrary(t *testing.T) {
	state := inspect(t, filepath.Join(t.TempDir(), "absent"))
	assert.Equal(t, 0, state.Len())
	assert.Empty(t, state.Errors)
}

func TestInspect_CleanPackage(t *testing.T) {
	lib := t.TempDir()
	a := record("A", "1.0", "B")
	install(t, lib, a)

	state := inspect(t, lib)

	pkg, ok := state.Get("A")
	require.True(t, ok)
	assert.True(t, pkg.Clean())
	assert.Empty(t, pkg.Reason)
	assert.Equal(t, a, pkg.Record)
	require.NotNil(t, pkg.Marker)
	assert.Equal(t, "run-1", pkg.Marker.RunID)
}

func TestInspect_DirtyReasons(t *testing.T) {
	lib := t.TempDir()

	// Installed by hand: metadata but no marker.
	untracked := filepath.Join(lib, "untracked")
	require.NoError(t, os.MkdirAll(untracked, 0o750))
	require.NoError(t, library.WriteMetadata(untracked, domain.NewPackageRecord("untracked", "0.1")))

	modified := install(t, lib, record("modified", "1.0"))
	writeMarker(t, modified, domain.InstallMarker{Fingerprint: "ffffffffffffffff"})

	changed := install(t, lib, record("changed", "1.0"))
	require.NoError(t, os.WriteFile(filepath.Join(changed, "R", "changed.R"), []byte("f <- 2"), 0o600))

	state := inspect(t, lib)

	tests := map[string]string{
		"untracked": domain.ReasonUntracked,
		"modified":  domain.ReasonModified,
		"changed":   domain.ReasonFilesChanged,
	}
	for name, reason := range tests {
		pkg, ok := state.Get(name)
		require.True(t, ok, name)
		assert.True(t, pkg.Dirty, name)
		assert.False(t, pkg.InstalledBySystem, name)
		assert.Equal(t, reason, pkg.Reason, name)
		assert.Equal(t, pkg.Record.EffectiveFingerprint(), domain.ComputeFingerprint(pkg.Record), name)
	}
	assert.Equal(t, []string{"changed", "modified", "untracked"}, state.DirtyNames())
}

func TestInspect_UnreadablePackageIsNonFatal(t *testing.T) {
	lib := t.TempDir()
	install(t, lib, record("good", "1.0"))

	broken := filepath.Join(lib, "broken")
	require.NoError(t, os.MkdirAll(broken, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(broken, domain.PackageMetadataFile), []byte("name: [unclosed"), 0o600))

	nometa := filepath.Join(lib, "nometa")
	require.NoError(t, os.MkdirAll(nometa, 0o750))

	state := inspect(t, lib)

	assert.Equal(t, 3, state.Len())
	require.Len(t, state.Errors, 2)
	for _, name := range []string{"broken", "nometa"} {
		pkg, ok := state.Get(name)
		require.True(t, ok)
		assert.True(t, pkg.Dirty)
		assert.Equal(t, domain.ReasonUnreadable, pkg.Reason)
		assert.Equal(t, domain.UnknownVersion, pkg.Record.Version)
	}
	good, _ := state.Get("good")
	assert.True(t, good.Clean())
}

func TestInspect_SkipsHiddenEntriesAndFiles(t *testing.T) {
	lib := t.TempDir()
	install(t, lib, record("A", "1.0"))
	require.NoError(t, os.MkdirAll(filepath.Join(lib, ".cache"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(lib, "README"), []byte("x"), 0o600))

	state := inspect(t, lib)
	assert.Equal(t, []string{"A"}, state.Names())
}

func TestInspect_NameMismatchIsUnreadable(t *testing.T) {
	lib := t.TempDir()
	dir := filepath.Join(lib, "A")
	require.NoError(t, os.MkdirAll(dir, 0o750))
	require.NoError(t, library.WriteMetadata(dir, domain.NewPackageRecord("B", "1.0")))

	state := inspect(t, lib)
	require.Len(t, state.Errors, 1)
	assert.Equal(t, "A", state.Errors[0].Name)
}

func TestMetadata_RoundTrip(t *testing.T) {
	r := domain.NewPackageRecord("A", "1.10",
		domain.WithSource(domain.Source{Type: domain.SourceVCS, URL: "https://git.example.com/a", Ref: "v1.10"}),
		domain.WithRequires("B", "C"),
		domain.WithBuildRequires("D"),
		domain.WithOptional("E"),
		domain.WithRuntime("4.3"),
	)
	data, err := library.EncodeMetadata(r)
	require.NoError(t, err)

	got, err := library.DecodeMetadata(data)
	require.NoError(t, err)
	assert.Equal(t, r, got)
}

func TestMetadata_NumericVersionKeepsLiteral(t *testing.T) {
	got, err := library.DecodeMetadata([]byte("name: A\nversion: 1.10\n"))
	require.NoError(t, err)
	assert.Equal(t, domain.Version("1.10"), got.Version)
}

func TestMetadata_Invalid(t *testing.T) {
	for _, content := range []string{"version: 1.0\n", "name: A\n", "name: [\n"} {
		_, err := library.DecodeMetadata([]byte(content))
		assert.Error(t, err, content)
	}
}

func TestSource_Lookup(t *testing.T) {
	a := record("A", "1.0")
	src := library.NewSource(domain.NewInstalledState(
		domain.InstalledPackage{Record: a, InstalledBySystem: true},
		domain.InstalledPackage{Record: domain.NewPackageRecord("X", domain.UnknownVersion), Dirty: true, Reason: domain.ReasonUnreadable},
	))

	got, err := src.Lookup(context.Background(), "A")
	require.NoError(t, err)
	assert.Equal(t, a, got)

	for _, name := range []string{"X", "missing"} {
		_, err := src.Lookup(context.Background(), name)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrPackageNotFound)
	}
}
