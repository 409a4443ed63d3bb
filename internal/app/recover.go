package app

import (
	"context"

	"go.trai.ch/rig/internal/core/domain"
)

// Recover repairs a library left behind by an interrupted apply. Only runs that
// found something to repair are journaled.
func (a *App) Recover(ctx context.Context, opts Options) error {
	project, err := a.load(opts)
	if err != nil {
		return err
	}

	ctx, span := a.tracer.Start(ctx, "recover")
	defer span.End()

	started := a.now()
	state, err := a.applier.Recover(ctx, project.LibraryPath)
	if err != nil {
		span.RecordError(err)
		return err
	}
	span.SetAttribute("state", state.String())

	if state != domain.Stable {
		entry := domain.RunEntry{
			ID:         a.newID(),
			Operation:  "recover",
			StartedAt:  started,
			FinishedAt: a.now(),
			Status:     domain.RunSucceeded,
		}
		if recErr := a.history.Record(context.WithoutCancel(ctx), project.Root, entry); recErr != nil {
			a.logger.Warn("could not record run: " + recErr.Error())
		}
	}
	return a.printer.Recovered(project.LibraryPath, state)
}
