package reconciler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/rig/internal/engine/reconciler"
)

func TestDiffLock(t *testing.T) {
	old := domain.NewLockRecord("", nil, []domain.PackageRecord{
		pkg("same", "1"),
		pkg("up", "1.0"),
		pkg("down", "2.0"),
		pkg("gone", "1"),
		pkg("drift", "1"),
	})
	next := domain.NewLockRecord("", nil, []domain.PackageRecord{
		pkg("same", "1"),
		pkg("up", "1.1"),
		pkg("down", "1.5"),
		pkg("drift", "1", "extra"),
		pkg("fresh", "3"),
	})

	diff := reconciler.DiffLock(old, next, nil)

	assert.Equal(t, 5, diff.TotalChanges())
	assert.Len(t, diff.Added, 1)
	assert.Equal(t, "fresh", diff.Added[0].Name)
	assert.Len(t, diff.Removed, 1)
	assert.Equal(t, "gone", diff.Removed[0].Name)
	assert.Len(t, diff.Upgraded, 1)
	assert.Equal(t, "up", diff.Upgraded[0].Name)
	assert.Len(t, diff.Downgraded, 1)
	assert.Equal(t, "down", diff.Downgraded[0].Name)
	assert.Len(t, diff.Changed, 1)
	assert.Equal(t, "drift", diff.Changed[0].Name)
}

func TestDiffLock_Empty(t *testing.T) {
	lock := domain.NewLockRecord("", nil, []domain.PackageRecord{pkg("a", "1")})
	assert.True(t, reconciler.DiffLock(lock, lock, domain.DottedComparator{}).IsEmpty())
	assert.True(t, reconciler.DiffLock(domain.LockRecord{}, domain.LockRecord{}, nil).IsEmpty())
}
