// Package prompt asks the user to confirm destructive plans.
package prompt

import (
	"context"
	"errors"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.trai.ch/rig/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/term"
)

var _ ports.Prompter = (*Prompter)(nil)

// Prompter implements ports.Prompter with a Bubble Tea program on the terminal.
type Prompter struct {
	in         io.Reader
	out        io.Writer
	isTerminal func() bool
}

// New creates a Prompter reading stdin and drawing on stderr.
func New() *Prompter {
	return &Prompter{
		in:  os.Stdin,
		out: os.Stderr,
		isTerminal: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stderr.Fd()))
		},
	}
}

// Interactive reports whether stdin and stderr are both terminals.
func (p *Prompter) Interactive() bool {
	return p.isTerminal()
}

// Confirm shows message and waits for an answer. Cancelling ctx declines.
func (p *Prompter) Confirm(ctx context.Context, message string) (bool, error) {
	program := tea.NewProgram(NewModel(message),
		tea.WithContext(ctx),
		tea.WithInput(p.in),
		tea.WithOutput(p.out),
	)

	final, err := program.Run()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, tea.ErrProgramKilled) {
			return false, ctxErr
		}
		return false, zerr.Wrap(err, "confirmation prompt failed")
	}

	m, ok := final.(Model)
	if !ok {
		return false, nil
	}
	return m.Confirmed(), nil
}
