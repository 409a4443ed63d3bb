package domain

import (
	"fmt"
	"slices"
)

// Conflict reports a name that resolved to two different records.
// The first record seen is kept.
type Conflict struct {
	Name     string
	Kept     PackageRecord
	Rejected PackageRecord
}

// String describes the conflict.
func (c Conflict) String() string {
	return fmt.Sprintf("%s: kept %s (%s), rejected %s (%s)",
		c.Name,
		c.Kept.Version, c.Kept.EffectiveFingerprint(),
		c.Rejected.Version, c.Rejected.EffectiveFingerprint())
}

// Closure maps each package name to the single record chosen for it.
// The zero value is an empty closure ready to use.
type Closure struct {
	order   []string
	records map[string]PackageRecord
}

// NewClosure returns a closure holding the given records. Later duplicates are dropped.
func NewClosure(records ...PackageRecord) *Closure {
	c := &Closure{}
	for _, r := range records {
		c.Add(r)
	}
	return c
}

// Add inserts a record. If the name is already present with a record that is not
// Equal, the existing record is kept and the rejected one is returned as a Conflict.
func (c *Closure) Add(r PackageRecord) (Conflict, bool) {
	if c.records == nil {
		c.records = make(map[string]PackageRecord)
	}
	if existing, ok := c.records[r.Name]; ok {
		if existing.Equal(r) {
			return Conflict{}, false
		}
		return Conflict{Name: r.Name, Kept: existing, Rejected: r.Clone()}, true
	}
	c.records[r.Name] = r.Clone()
	c.order = append(c.order, r.Name)
	return Conflict{}, false
}

// Get returns the record for a name.
func (c *Closure) Get(name string) (PackageRecord, bool) {
	if c == nil {
		return PackageRecord{}, false
	}
	r, ok := c.records[name]
	return r, ok
}

// Has reports whether a name is present.
func (c *Closure) Has(name string) bool {
	_, ok := c.Get(name)
	return ok
}

// Len returns the number of records.
func (c *Closure) Len() int {
	if c == nil {
		return 0
	}
	return len(c.order)
}

// InsertionOrder returns the names in the order they were added.
func (c *Closure) InsertionOrder() []string {
	if c == nil {
		return nil
	}
	return slices.Clone(c.order)
}

// Names returns the names sorted.
func (c *Closure) Names() []string {
	names := c.InsertionOrder()
	slices.Sort(names)
	return names
}

// Records returns the records sorted by name.
func (c *Closure) Records() []PackageRecord {
	names := c.Names()
	out := make([]PackageRecord, 0, len(names))
	for _, name := range names {
		out = append(out, c.records[name].Clone())
	}
	return out
}
