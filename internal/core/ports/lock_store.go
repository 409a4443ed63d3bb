package ports

import "go.trai.ch/rig/internal/core/domain"

// LockStore reads and writes lock files wholesale.
//
//go:generate go run go.uber.org/mock/mockgen -source=lock_store.go -destination=mocks/mock_lock_store.go -package=mocks
type LockStore interface {
	// Read parses the lock at path. A missing file matches domain.ErrLockNotFound,
	// an unparseable one domain.ErrLockStoreCorrupt.
	Read(path string) (domain.LockRecord, error)

	// Write replaces the lock at path atomically.
	Write(path string, lock domain.LockRecord) error
}
