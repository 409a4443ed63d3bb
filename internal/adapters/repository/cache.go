package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cespare/xxhash/v2"
	rigfs "go.trai.ch/rig/internal/adapters/fs"
	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/zerr"
)

// Cache stores package documents on disk for a limited time.
type Cache struct {
	dir string
	ttl time.Duration
	now func() time.Time
}

// NewCache creates a cache in dir whose entries expire after ttl.
func NewCache(dir string, ttl time.Duration) *Cache {
	return &Cache{
		dir: filepath.Clean(dir),
		ttl: ttl,
		now: time.Now,
	}
}

// Get returns the cached document for a package of repository repo, if it is fresh.
func (c *Cache) Get(repo, name string) (Document, bool) {
	//nolint:gosec // path is built from a hash
	data, err := os.ReadFile(c.path(repo, name))
	if err != nil {
		return Document{}, false
	}

	var entry cacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return Document{}, false
	}
	if entry.Repository != repo || entry.Name != name {
		return Document{}, false
	}
	if c.now().Sub(entry.FetchedAt) > c.ttl {
		return Document{}, false
	}
	return entry.Document, true
}

// Put stores a document.
func (c *Cache) Put(repo, name string, doc Document) error {
	entry := cacheEntry{
		Repository: repo,
		Name:       name,
		FetchedAt:  c.now().UTC(),
		Document:   doc,
	}

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return errors.Join(domain.ErrMetadataCacheFailed, err)
	}
	if err := rigfs.WriteFileAtomic(c.path(repo, name), data, domain.FilePerm); err != nil {
		return zerr.With(errors.Join(domain.ErrMetadataCacheFailed, err), "package", name)
	}
	return nil
}

func (c *Cache) path(repo, name string) string {
	key := xxhash.Sum64String(repo + "\x00" + name)
	return filepath.Join(c.dir, fmt.Sprintf("%016x.json", key))
}
