package applier

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/zerr"
)

// Recover brings the library slots back to a stable state after an interrupted apply
// and returns the state that was found. It is safe to run any number of times.
func (a *Applier) Recover(_ context.Context, library string) (domain.RotationState, error) {
	unlock, err := a.acquire(library)
	if err != nil {
		return domain.Stable, err
	}
	defer unlock()

	return a.recover(library)
}

// Observe reports which slots exist for library.
func Observe(library string) (domain.Observation, error) {
	var obs domain.Observation
	var err error

	if obs.Current, err = exists(library); err != nil {
		return obs, zerr.With(zerr.Wrap(err, "failed to observe library"), "path", library)
	}
	if obs.New, err = exists(domain.StagingNewPath(library)); err != nil {
		return obs, zerr.With(zerr.Wrap(err, "failed to observe library"), "path", library)
	}
	if obs.Old, err = exists(domain.StagingOldPath(library)); err != nil {
		return obs, zerr.With(zerr.Wrap(err, "failed to observe library"), "path", library)
	}
	return obs, nil
}

func (a *Applier) recover(library string) (domain.RotationState, error) {
	obs, err := Observe(library)
	if err != nil {
		return domain.Stable, err
	}

	state := domain.Classify(obs)
	for _, action := range domain.RecoveryActions(obs) {
		a.logger.Warn(fmt.Sprintf("recovering library (%s): %s", state, action))
		if err := a.perform(library, action); err != nil {
			return state, zerr.With(zerr.With(errors.Join(domain.ErrLibraryCorrupted, err),
				"library", library), "action", action.String())
		}
	}
	return state, nil
}

func (a *Applier) perform(library string, action domain.RecoveryAction) error {
	switch action {
	case domain.DiscardNew:
		return os.RemoveAll(domain.StagingNewPath(library))
	case domain.PromoteNew:
		return a.rename(domain.StagingNewPath(library), library)
	case domain.DiscardOld:
		return os.RemoveAll(domain.StagingOldPath(library))
	case domain.RestoreOld:
		return a.rename(domain.StagingOldPath(library), library)
	default:
		return fmt.Errorf("unknown recovery action %d", action)
	}
}
