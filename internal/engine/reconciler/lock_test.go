package reconciler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/rig/internal/engine/reconciler"
)

func TestNextLock_Sync(t *testing.T) {
	prevC := pkg("C", "0.9")
	in := reconciler.Input{
		Target: domain.NewClosure(pkg("A", "2"), pkg("B", "1"), pkg("C", "2"), pkg("D", "5")),
		Lock:   domain.NewLockRecord("4.3", nil, []domain.PackageRecord{pkg("A", "1"), prevC, pkg("old", "1")}),
		Installed: domain.NewInstalledState(
			clean(pkg("A", "1")),
			untracked(pkg("C", "1")),
			untracked(pkg("D", "4")),
		),
	}
	plan := reconciler.Reconcile(in)
	repos := []domain.Repository{{Name: "main", URL: "https://pkgs.example"}}

	lock := reconciler.NextLock(in, plan, "4.4", repos)

	assert.Equal(t, "4.4", lock.Runtime)
	assert.Equal(t, repos, lock.Repositories)
	assert.Equal(t, []string{"A", "B", "C", "D"}, lock.Names())

	a, _ := lock.Lookup("A")
	assert.Equal(t, domain.Version("2"), a.Version)
	assert.NotEmpty(t, a.Fingerprint, "committed records carry a fingerprint")

	c, _ := lock.Lookup("C")
	assert.Equal(t, domain.Version("0.9"), c.Version, "skipped dirty package keeps its locked record")

	d, _ := lock.Lookup("D")
	assert.Equal(t, domain.Version("4"), d.Version, "skipped dirty package without a lock entry records what is installed")
}

func TestNextLock_Clean(t *testing.T) {
	in := reconciler.Input{
		Target: domain.NewClosure(pkg("A", "1")),
		Lock:   domain.NewLockRecord("4.3", []domain.Repository{{Name: "main"}}, []domain.PackageRecord{pkg("A", "1"), pkg("B", "1")}),
		Installed: domain.NewInstalledState(
			clean(pkg("A", "1")),
			clean(pkg("B", "1")),
		),
		Mode: reconciler.ModeClean,
	}
	plan := reconciler.Reconcile(in)
	require.Equal(t, []string{"remove B 1"}, ops(plan))

	lock := reconciler.NextLock(in, plan, "", nil)
	assert.Equal(t, []string{"A"}, lock.Names())
	assert.Equal(t, "4.3", lock.Runtime)
	assert.Equal(t, []domain.Repository{{Name: "main"}}, lock.Repositories)
}

func TestApplyThenReconcile_IsIdempotent(t *testing.T) {
	in := reconciler.Input{
		Target:    domain.NewClosure(pkg("A", "2"), pkg("B", "1")),
		Installed: domain.NewInstalledState(clean(pkg("A", "1")), untracked(pkg("C", "1"))),
	}
	plan := reconciler.Reconcile(in)

	// Simulate the library after the plan has been applied.
	after := domain.NewInstalledState(untracked(pkg("C", "1")))
	for _, c := range plan.Targets() {
		after.Add(clean(*c.To))
	}

	in.Installed = after
	in.Lock = reconciler.NextLock(in, plan, "", nil)
	assert.True(t, reconciler.Reconcile(in).IsEmpty())

	in.Target = nil
	assert.True(t, reconciler.Reconcile(in).IsEmpty(), "restoring from the new lock is a no-op")
}
