package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/rig/internal/core/domain"
)

func rec(name string, version domain.Version) *domain.PackageRecord {
	r := domain.NewPackageRecord(name, version)
	return &r
}

func samplePlan() domain.ChangePlan {
	return domain.ChangePlan{Changes: []domain.Change{
		{Op: domain.OpRemove, Name: "old", From: rec("old", "1")},
		{Op: domain.OpDowngrade, Name: "a", From: rec("a", "2"), To: rec("a", "1")},
		{Op: domain.OpInstall, Name: "b", To: rec("b", "1")},
		{Op: domain.OpSkipDirty, Name: "c", From: rec("c", "1")},
		{Op: domain.OpUpgrade, Name: "d", From: rec("d", "1"), To: rec("d", "3")},
	}}
}

func TestChangePlan_String(t *testing.T) {
	expected := "remove old 1\n" +
		"downgrade a 2 -> 1\n" +
		"install b 1\n" +
		"skip-dirty c 1\n" +
		"upgrade d 1 -> 3\n"
	assert.Equal(t, expected, samplePlan().String())
}

func TestChangePlan_Summary(t *testing.T) {
	s := samplePlan().Summary()
	assert.Equal(t, domain.PlanSummary{Installs: 1, Upgrades: 1, Downgrades: 1, Removes: 1, Skipped: 1}, s)
	assert.Equal(t, "1 to install, 1 to upgrade, 1 to downgrade, 1 to remove, 1 dirty skipped", s.String())
	assert.Equal(t, "no changes", domain.PlanSummary{}.String())
}

func TestChangePlan_Selectors(t *testing.T) {
	p := samplePlan()

	destructive := p.Destructive()
	assert.Len(t, destructive, 2)
	assert.Equal(t, "old", destructive[0].Name)
	assert.Equal(t, "a", destructive[1].Name)

	targets := p.Targets()
	assert.Len(t, targets, 3)

	c, ok := p.Find("c")
	assert.True(t, ok)
	assert.Equal(t, domain.OpSkipDirty, c.Op)

	assert.True(t, p.HasWork())
	assert.False(t, p.IsEmpty())
}

func TestChangePlan_OnlySkipped(t *testing.T) {
	p := domain.ChangePlan{Changes: []domain.Change{{Op: domain.OpSkipDirty, Name: "c", From: rec("c", "1")}}}
	assert.False(t, p.IsEmpty())
	assert.False(t, p.HasWork())
	assert.True(t, domain.ChangePlan{}.IsEmpty())
}
