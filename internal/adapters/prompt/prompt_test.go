package prompt_test

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rig/internal/adapters/prompt"
)

func press(t *testing.T, m prompt.Model, msg tea.KeyMsg) (prompt.Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(prompt.Model)
	require.True(t, ok)
	return model, cmd
}

func TestModel_Answers(t *testing.T) {
	tests := []struct {
		name string
		key  tea.KeyMsg
		want bool
	}{
		{name: "lowercase yes", key: tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}}, want: true},
		{name: "uppercase yes", key: tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'Y'}}, want: true},
		{name: "no", key: tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}}, want: false},
		{name: "enter defaults to no", key: tea.KeyMsg{Type: tea.KeyEnter}, want: false},
		{name: "escape", key: tea.KeyMsg{Type: tea.KeyEsc}, want: false},
		{name: "ctrl+c", key: tea.KeyMsg{Type: tea.KeyCtrlC}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, cmd := press(t, prompt.NewModel("Apply?"), tt.key)

			assert.True(t, m.Done())
			assert.Equal(t, tt.want, m.Confirmed())
			require.NotNil(t, cmd)
			assert.IsType(t, tea.QuitMsg{}, cmd())
		})
	}
}

func TestModel_IgnoresOtherInput(t *testing.T) {
	m, cmd := press(t, prompt.NewModel("Apply?"), tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	assert.False(t, m.Done())
	assert.Nil(t, cmd)

	next, cmd := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	assert.Nil(t, cmd)
	assert.False(t, next.(prompt.Model).Done())
}

func TestModel_View(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	m := prompt.NewModel("Remove 2 packages?")
	assert.Contains(t, m.View(), "Remove 2 packages?")
	assert.Contains(t, m.View(), "[y/N]")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
	assert.Contains(t, m.View(), "yes")
}

func TestPrompter_Interactive(t *testing.T) {
	assert.True(t, prompt.NewWith(nil, nil, true).Interactive())
	assert.False(t, prompt.NewWith(nil, nil, false).Interactive())
}
