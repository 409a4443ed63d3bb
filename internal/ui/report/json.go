package report

import (
	"time"

	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/rig/internal/engine/reconciler"
)

type changeJSON struct {
	Op   string `json:"op"`
	Name string `json:"name"`
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}

type summaryJSON struct {
	Installs   int `json:"installs"`
	Upgrades   int `json:"upgrades"`
	Downgrades int `json:"downgrades"`
	Removes    int `json:"removes"`
	Skipped    int `json:"skipped"`
}

type planJSON struct {
	Changes []changeJSON `json:"changes"`
	Summary summaryJSON  `json:"summary"`
}

func newPlanJSON(plan domain.ChangePlan) planJSON {
	out := planJSON{Changes: make([]changeJSON, 0, len(plan.Changes))}
	for _, c := range plan.Changes {
		entry := changeJSON{Op: string(c.Op), Name: c.Name}
		if c.From != nil {
			entry.From = c.From.Version.String()
		}
		if c.To != nil {
			entry.To = c.To.Version.String()
		}
		out.Changes = append(out.Changes, entry)
	}
	s := plan.Summary()
	out.Summary = summaryJSON{
		Installs:   s.Installs,
		Upgrades:   s.Upgrades,
		Downgrades: s.Downgrades,
		Removes:    s.Removes,
		Skipped:    s.Skipped,
	}
	return out
}

type packageJSON struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type versionChangeJSON struct {
	Name string `json:"name"`
	From string `json:"from"`
	To   string `json:"to"`
}

type lockDiffJSON struct {
	Added      []packageJSON       `json:"added"`
	Removed    []packageJSON       `json:"removed"`
	Upgraded   []versionChangeJSON `json:"upgraded"`
	Downgraded []versionChangeJSON `json:"downgraded"`
	Changed    []versionChangeJSON `json:"changed"`
}

func newLockDiffJSON(diff reconciler.LockDiff) lockDiffJSON {
	packages := func(records []domain.PackageRecord) []packageJSON {
		out := make([]packageJSON, 0, len(records))
		for _, r := range records {
			out = append(out, packageJSON{Name: r.Name, Version: r.Version.String()})
		}
		return out
	}
	changes := func(list []reconciler.VersionChange) []versionChangeJSON {
		out := make([]versionChangeJSON, 0, len(list))
		for _, c := range list {
			out = append(out, versionChangeJSON{Name: c.Name, From: c.From.Version.String(), To: c.To.Version.String()})
		}
		return out
	}
	return lockDiffJSON{
		Added:      packages(diff.Added),
		Removed:    packages(diff.Removed),
		Upgraded:   changes(diff.Upgraded),
		Downgraded: changes(diff.Downgraded),
		Changed:    changes(diff.Changed),
	}
}

type statusJSON struct {
	Report     string         `json:"report"`
	Project    string         `json:"project"`
	Root       string         `json:"root"`
	Library    string         `json:"library"`
	Rotation   string         `json:"rotation"`
	LockPath   string         `json:"lock_path"`
	LockFound  bool           `json:"lock_found"`
	Locked     int            `json:"locked"`
	Plan       planJSON       `json:"plan"`
	Undeclared []string       `json:"locked_not_declared"`
	Unlocked   []string       `json:"declared_not_locked"`
	Dirty      []DirtyPackage `json:"dirty"`
}

func newStatusJSON(s Status) statusJSON {
	orEmpty := func(list []string) []string {
		if list == nil {
			return []string{}
		}
		return list
	}
	dirty := s.Dirty
	if dirty == nil {
		dirty = []DirtyPackage{}
	}
	return statusJSON{
		Report:     "status",
		Project:    s.Project,
		Root:       s.Root,
		Library:    s.Library,
		Rotation:   s.Rotation.String(),
		LockPath:   s.LockPath,
		LockFound:  s.LockFound,
		Locked:     s.Locked,
		Plan:       newPlanJSON(s.Plan),
		Undeclared: orEmpty(s.Undeclared),
		Unlocked:   orEmpty(s.Unlocked),
		Dirty:      dirty,
	}
}

type runEntryJSON struct {
	ID              string      `json:"id"`
	Operation       string      `json:"operation"`
	StartedAt       time.Time   `json:"started_at"`
	FinishedAt      time.Time   `json:"finished_at"`
	Status          string      `json:"status"`
	Summary         summaryJSON `json:"summary"`
	LockFingerprint string      `json:"lock_fingerprint,omitempty"`
	Error           string      `json:"error,omitempty"`
}

func newRunEntriesJSON(entries []domain.RunEntry) []runEntryJSON {
	out := make([]runEntryJSON, 0, len(entries))
	for _, e := range entries {
		out = append(out, runEntryJSON{
			ID:         e.ID,
			Operation:  e.Operation,
			StartedAt:  e.StartedAt.UTC(),
			FinishedAt: e.FinishedAt.UTC(),
			Status:     string(e.Status),
			Summary: summaryJSON{
				Installs:   e.Summary.Installs,
				Upgrades:   e.Summary.Upgrades,
				Downgrades: e.Summary.Downgrades,
				Removes:    e.Summary.Removes,
				Skipped:    e.Summary.Skipped,
			},
			LockFingerprint: e.LockFingerprint,
			Error:           e.Error,
		})
	}
	return out
}
