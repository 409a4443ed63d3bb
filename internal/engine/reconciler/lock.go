package reconciler

import (
	"go.trai.ch/rig/internal/core/domain"
)

// NextLock returns the lock that describes the library after plan has been applied.
//
// In ModeSync the target records are committed. A package skipped because it is dirty
// keeps its previous lock entry, or its observed record when it was never locked.
// In ModeClean the previous lock is kept minus the removed packages.
func NextLock(in Input, plan domain.ChangePlan, runtime string, repositories []domain.Repository) domain.LockRecord {
	if in.Mode == ModeClean {
		removed := make(map[string]struct{})
		for _, c := range plan.Changes {
			if c.Op == domain.OpRemove {
				removed[c.Name] = struct{}{}
			}
		}
		var kept []domain.PackageRecord
		for _, r := range in.Lock.Packages {
			if _, ok := removed[r.Name]; !ok {
				kept = append(kept, r)
			}
		}
		return domain.NewLockRecord(lockRuntime(in.Lock, runtime), repositoriesOr(in.Lock, repositories), kept)
	}

	records := in.target().Records()
	for i, r := range records {
		c, ok := plan.Find(r.Name)
		if !ok || c.Op != domain.OpSkipDirty {
			continue
		}
		if prev, locked := in.Lock.Lookup(r.Name); locked {
			records[i] = prev
		} else if c.From != nil {
			records[i] = c.From.WithComputedFingerprint()
		}
	}
	for i := range records {
		records[i] = records[i].WithComputedFingerprint()
	}
	return domain.NewLockRecord(lockRuntime(in.Lock, runtime), repositoriesOr(in.Lock, repositories), records)
}

func lockRuntime(lock domain.LockRecord, runtime string) string {
	if runtime != "" {
		return runtime
	}
	return lock.Runtime
}

func repositoriesOr(lock domain.LockRecord, repositories []domain.Repository) []domain.Repository {
	if len(repositories) > 0 {
		return repositories
	}
	return lock.Repositories
}
