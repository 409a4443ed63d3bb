package reconciler_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/rig/internal/engine/reconciler"
)

func pkg(name string, version domain.Version, deps ...string) domain.PackageRecord {
	return domain.NewPackageRecord(name, version,
		domain.WithSource(domain.Source{Type: domain.SourceRepository, Name: "main"}),
		domain.WithRequires(deps...),
	)
}

func clean(r domain.PackageRecord) domain.InstalledPackage {
	r.Fingerprint = r.EffectiveFingerprint()
	return domain.InstalledPackage{
		Record:            r,
		InstalledBySystem: true,
		Marker:            &domain.InstallMarker{Fingerprint: r.Fingerprint},
	}
}

func untracked(r domain.PackageRecord) domain.InstalledPackage {
	return domain.InstalledPackage{Record: r, Dirty: true, Reason: domain.ReasonUntracked}
}

func ops(plan domain.ChangePlan) []string {
	out := make([]string, 0, len(plan.Changes))
	for _, c := range plan.Changes {
		out = append(out, c.String())
	}
	return out
}

func TestReconcile_ScenarioDirtyUntouched(t *testing.T) {
	in := reconciler.Input{
		Target: domain.NewClosure(pkg("A", "2"), pkg("B", "1")),
		Installed: domain.NewInstalledState(
			clean(pkg("A", "1")),
			untracked(pkg("C", "1")),
		),
	}

	plan := reconciler.Reconcile(in)

	assert.Equal(t, []string{"upgrade A 1 -> 2", "install B 1"}, ops(plan))
	_, touched := plan.Find("C")
	assert.False(t, touched, "a dirty package outside the target is never part of the plan")
}

func TestReconcile_ScenarioOverwriteDirty(t *testing.T) {
	in := reconciler.Input{
		Target: domain.NewClosure(pkg("A", "2"), pkg("B", "1"), pkg("C", "2")),
		Installed: domain.NewInstalledState(
			clean(pkg("A", "1")),
			untracked(pkg("C", "1")),
			untracked(pkg("D", "1")),
		),
		OverwriteDirty: true,
	}

	plan := reconciler.Reconcile(in)

	assert.Equal(t, []string{"upgrade A 1 -> 2", "install B 1", "upgrade C 1 -> 2"}, ops(plan))
	_, touched := plan.Find("D")
	assert.False(t, touched)
}

func TestReconcile_SkipDirty(t *testing.T) {
	in := reconciler.Input{
		Target:    domain.NewClosure(pkg("C", "2")),
		Installed: domain.NewInstalledState(untracked(pkg("C", "1"))),
	}

	plan := reconciler.Reconcile(in)
	assert.Equal(t, []string{"skip-dirty C 1"}, ops(plan))
	assert.False(t, plan.HasWork())
}

func TestReconcile_IdenticalIsOmitted(t *testing.T) {
	in := reconciler.Input{
		Target: domain.NewClosure(pkg("A", "1"), pkg("C", "1")),
		Installed: domain.NewInstalledState(
			clean(pkg("A", "1")),
			untracked(pkg("C", "1")),
		),
	}
	assert.True(t, reconciler.Reconcile(in).IsEmpty())

	in.OverwriteDirty = true
	assert.Equal(t, []string{"upgrade C 1 -> 1"}, ops(reconciler.Reconcile(in)), "overwrite repairs dirty packages")
}

func TestReconcile_Directions(t *testing.T) {
	tests := []struct {
		name     string
		from, to domain.PackageRecord
		expected domain.Op
	}{
		{"newer", pkg("a", "1.0"), pkg("a", "1.1"), domain.OpUpgrade},
		{"older", pkg("a", "2.0"), pkg("a", "1.9"), domain.OpDowngrade},
		{"same ordering other token", pkg("a", "1.01"), pkg("a", "1.1"), domain.OpUpgrade},
		{"fingerprint drift", pkg("a", "1.0"), pkg("a", "1.0", "extra"), domain.OpUpgrade},
		{"incomparable", pkg("a", "1.0+x"), pkg("a", "1.0"), domain.OpDowngrade},
		{"incomparable same token", pkg("a", "1.0+x"), pkg("a", "1.0+x", "extra"), domain.OpUpgrade},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := reconciler.Reconcile(reconciler.Input{
				Target:    domain.NewClosure(tt.to),
				Installed: domain.NewInstalledState(clean(tt.from)),
			})
			require.Len(t, plan.Changes, 1)
			assert.Equal(t, tt.expected, plan.Changes[0].Op)
		})
	}
}

func TestReconcile_SemverComparator(t *testing.T) {
	plan := reconciler.Reconcile(reconciler.Input{
		Target:     domain.NewClosure(pkg("a", "1.0.0")),
		Installed:  domain.NewInstalledState(clean(pkg("a", "1.0.0-rc1"))),
		Comparator: domain.SemverComparator{},
	})
	require.Len(t, plan.Changes, 1)
	assert.Equal(t, domain.OpUpgrade, plan.Changes[0].Op)
}

func TestReconcile_SyncNeverRemoves(t *testing.T) {
	in := reconciler.Input{
		Target:    domain.NewClosure(pkg("A", "1")),
		Installed: domain.NewInstalledState(clean(pkg("A", "1")), clean(pkg("orphan", "1"))),
	}
	assert.True(t, reconciler.Reconcile(in).IsEmpty())
}

func TestReconcile_CleanRemovesOnlyCleanOrphans(t *testing.T) {
	in := reconciler.Input{
		Target: domain.NewClosure(pkg("A", "9")),
		Installed: domain.NewInstalledState(
			clean(pkg("A", "1")),
			clean(pkg("zeta", "1")),
			clean(pkg("beta", "1")),
			untracked(pkg("local", "1")),
		),
		Mode: reconciler.ModeClean,
	}

	plan := reconciler.Reconcile(in)
	assert.Equal(t, []string{"remove beta 1", "remove zeta 1"}, ops(plan), "clean never installs or upgrades")
}

func TestReconcile_EmptyTargetUsesLock(t *testing.T) {
	in := reconciler.Input{
		Lock:      domain.NewLockRecord("", nil, []domain.PackageRecord{pkg("b", "1"), pkg("a", "1")}),
		Installed: domain.NewInstalledState(),
	}

	assert.Equal(t, []string{"install a 1", "install b 1"}, ops(reconciler.Reconcile(in)))
}

func TestReconcile_Deterministic(t *testing.T) {
	build := func() reconciler.Input {
		return reconciler.Input{
			Target: domain.NewClosure(pkg("m", "2"), pkg("c", "1"), pkg("x", "3"), pkg("a", "1")),
			Installed: domain.NewInstalledState(
				clean(pkg("x", "4")),
				clean(pkg("m", "1")),
				untracked(pkg("c", "0")),
			),
		}
	}

	first := reconciler.Reconcile(build())
	second := reconciler.Reconcile(build())

	assert.Equal(t, first.String(), second.String())
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("plans differ (-first +second):\n%s", diff)
	}
	assert.Equal(t, []string{"install a 1", "skip-dirty c 0", "upgrade m 1 -> 2", "downgrade x 4 -> 3"}, ops(first))
}
