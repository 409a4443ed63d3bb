package app

import "context"

// DefaultHistoryLimit is how many runs History shows when no limit is given.
const DefaultHistoryLimit = 20

// History prints the most recent runs for the project. A limit of zero or less
// shows every run.
func (a *App) History(ctx context.Context, opts Options, limit int) error {
	project, err := a.load(opts)
	if err != nil {
		return err
	}

	entries, err := a.history.List(ctx, project.Root, limit)
	if err != nil {
		return err
	}
	return a.printer.History(entries)
}
