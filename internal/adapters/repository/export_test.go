package repository

import "time"

// SetClock replaces the cache clock.
func (c *Cache) SetClock(now func() time.Time) {
	c.now = now
}
