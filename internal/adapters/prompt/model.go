package prompt

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/rig/internal/ui/style"
)

// Model is a yes/no confirmation. Anything but an explicit yes declines.
type Model struct {
	message   string
	confirmed bool
	done      bool

	question lipgloss.Style
	hint     lipgloss.Style
}

// NewModel creates a Model asking message.
func NewModel(message string) Model {
	return Model{
		message:  message,
		question: lipgloss.NewStyle().Bold(true).Foreground(style.Iris),
		hint:     lipgloss.NewStyle().Foreground(style.Slate),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "y", "Y":
		m.confirmed = true
	case "n", "N", "enter", "esc", "q", "ctrl+c":
		m.confirmed = false
	default:
		return m, nil
	}
	m.done = true
	return m, tea.Quit
}

// View implements tea.Model.
func (m Model) View() string {
	if m.done {
		answer := "no"
		if m.confirmed {
			answer = "yes"
		}
		return m.question.Render(m.message) + " " + m.hint.Render(answer) + "\n"
	}
	return m.question.Render(m.message) + " " + m.hint.Render("[y/N]") + " "
}

// Confirmed reports whether the user answered yes.
func (m Model) Confirmed() bool {
	return m.confirmed
}

// Done reports whether the user answered.
func (m Model) Done() bool {
	return m.done
}
