package lockstore_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rig/internal/adapters/lockstore"
	"go.trai.ch/rig/internal/core/domain"
)

func sampleLock() domain.LockRecord {
	src := domain.WithSource(domain.Source{Type: domain.SourceRepository, Name: "main"})
	return domain.NewLockRecord("4.3.1",
		[]domain.Repository{{Name: "main", URL: "https://pkgs.example.com"}},
		[]domain.PackageRecord{
			domain.NewPackageRecord("zeta", "1.0", src, domain.WithRequires("alpha")),
			domain.NewPackageRecord("alpha", "2.1-3", src,
				domain.WithFingerprint("00000000deadbeef"),
				domain.WithBuildRequires("gamma"),
				domain.WithOptional("testthat"),
				domain.WithRuntime("4.3.1"),
			),
		})
}

func TestStore_WriteAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rig.lock")
	store := lockstore.NewStore()

	lock := sampleLock()
	require.NoError(t, store.Write(path, lock))

	got, err := store.Read(path)
	require.NoError(t, err)
	assert.Equal(t, lock, got)
}

func TestStore_RoundTripIsByteIdentical(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.lock")
	second := filepath.Join(dir, "second.lock")
	store := lockstore.NewStore()

	require.NoError(t, store.Write(first, sampleLock()))
	lock, err := store.Read(first)
	require.NoError(t, err)
	require.NoError(t, store.Write(second, lock))

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestStore_Format(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rig.lock")
	lock := domain.NewLockRecord("4.3", nil, []domain.PackageRecord{
		domain.NewPackageRecord("A", "1.0",
			domain.WithSource(domain.Source{Type: domain.SourceRepository, Name: "main"}),
			domain.WithFingerprint("0123456789abcdef"),
		),
	})
	require.NoError(t, lockstore.NewStore().Write(path, lock))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	want := `{
  "version": 1,
  "runtime": {
    "version": "4.3"
  },
  "packages": {
    "A": {
      "name": "A",
      "version": "1.0",
      "source": {
        "type": "repository",
        "name": "main"
      },
      "fingerprint": "0123456789abcdef"
    }
  }
}
`
	assert.Equal(t, want, string(data))
}

func TestStore_EmptyLockKeepsPackagesObject(t *testing.T) {
	data, err := lockstore.Encode(domain.NewLockRecord("", nil, nil))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"packages": {}`)
}

func TestStore_ReadMissing(t *testing.T) {
	_, err := lockstore.NewStore().Read(filepath.Join(t.TempDir(), "absent.lock"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrLockNotFound)
}

func TestStore_ReadCorrupt(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not json", "{ this is not json"},
		{"truncated", `{"version": 1, "packages": {"A": {"name": "A"`},
		{"unknown field", `{"version": 1, "packages": {}, "extra": true}`},
		{"missing version", `{"packages": {}}`},
		{"future version", `{"version": 99, "packages": {}}`},
		{"name mismatch", `{"version": 1, "packages": {"A": {"name": "B", "version": "1"}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "rig.lock")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			_, err := lockstore.NewStore().Read(path)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrLockStoreCorrupt)
		})
	}
}

func TestStore_ReadFillsMissingEntryName(t *testing.T) {
	lock, err := lockstore.Decode([]byte(`{"version": 1, "packages": {"A": {"version": "1"}}}`), "inline")
	require.NoError(t, err)
	require.Len(t, lock.Packages, 1)
	assert.Equal(t, "A", lock.Packages[0].Name)
}

func TestStore_WriteReplacesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rig.lock")
	store := lockstore.NewStore()

	require.NoError(t, store.Write(path, sampleLock()))
	require.NoError(t, store.Write(path, domain.NewLockRecord("5.0", nil, nil)))

	got, err := store.Read(path)
	require.NoError(t, err)
	assert.True(t, got.IsEmpty())
	assert.Equal(t, "5.0", got.Runtime)
}
