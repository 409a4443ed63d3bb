// Package style holds the palette and glyphs used by log lines and rig reports.
package style

import "github.com/charmbracelet/lipgloss"

// Palette. Green, Blue, Yellow and Red mark installs, upgrades, downgrades and removals.
var (
	Iris   = lipgloss.Color("#8B5CF6")
	Slate  = lipgloss.Color("#667085")
	Green  = lipgloss.Color("#22A06B")
	Blue   = lipgloss.Color("#2563EB")
	Yellow = lipgloss.Color("#F59E0B")
	Red    = lipgloss.Color("#D93025")
)

// Change glyphs, one per plan operation.
const (
	Plus  = "+"
	Up    = "↑"
	Down  = "↓"
	Minus = "-"
	Tilde = "~"
)

// Status glyphs.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Circle  = "○"
)
