package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rig/internal/core/domain"
)

func TestClosure_FirstWriterWins(t *testing.T) {
	var c domain.Closure

	first := domain.NewPackageRecord("a", "1.0", domain.WithFingerprint("f1"))
	_, conflict := c.Add(first)
	require.False(t, conflict)

	_, conflict = c.Add(domain.NewPackageRecord("a", "1.0", domain.WithFingerprint("f1")))
	assert.False(t, conflict, "an equal record is not a conflict")

	second := domain.NewPackageRecord("a", "2.0", domain.WithFingerprint("f2"))
	got, conflict := c.Add(second)
	require.True(t, conflict)
	assert.Equal(t, "a", got.Name)
	assert.Equal(t, first, got.Kept)
	assert.Equal(t, second, got.Rejected)

	kept, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, domain.Version("1.0"), kept.Version)
	assert.Equal(t, 1, c.Len())
}

func TestClosure_Ordering(t *testing.T) {
	c := domain.NewClosure(
		domain.NewPackageRecord("c", "1"),
		domain.NewPackageRecord("a", "1"),
		domain.NewPackageRecord("b", "1"),
	)

	assert.Equal(t, []string{"c", "a", "b"}, c.InsertionOrder())
	assert.Equal(t, []string{"a", "b", "c"}, c.Names())

	records := c.Records()
	require.Len(t, records, 3)
	assert.Equal(t, "a", records[0].Name)
	assert.Equal(t, "c", records[2].Name)
}

func TestClosure_NilSafe(t *testing.T) {
	var c *domain.Closure
	assert.Equal(t, 0, c.Len())
	assert.False(t, c.Has("a"))
	assert.Empty(t, c.Names())
	assert.Empty(t, c.Records())
}

func TestConflict_String(t *testing.T) {
	c := domain.Conflict{
		Name:     "a",
		Kept:     domain.NewPackageRecord("a", "1.0", domain.WithFingerprint("f1")),
		Rejected: domain.NewPackageRecord("a", "1.0", domain.WithFingerprint("f2")),
	}
	assert.Equal(t, "a: kept 1.0 (f1), rejected 1.0 (f2)", c.String())
}
