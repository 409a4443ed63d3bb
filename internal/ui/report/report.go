// Package report renders plans, lock diffs and project status for the terminal or as JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/rig/internal/engine/reconciler"
	"go.trai.ch/rig/internal/ui/output"
	"go.trai.ch/rig/internal/ui/style"
)

// Printer writes reports to w. In JSON mode every report is a single JSON document per line.
type Printer struct {
	out  *termenv.Output
	json bool
}

// New creates a Printer.
func New(w io.Writer, jsonMode bool) *Printer {
	return &Printer{out: output.New(w), json: jsonMode}
}

// JSON reports whether the printer emits JSON.
func (p *Printer) JSON() bool {
	return p.json
}

func (p *Printer) encode(v any) error {
	return json.NewEncoder(p.out).Encode(v)
}

func (p *Printer) line(color lipgloss.Color, format string, args ...any) {
	text := fmt.Sprintf(format, args...)
	if color != "" {
		text = p.out.String(text).Foreground(p.out.Color(string(color))).String()
	}
	_, _ = p.out.WriteString(text + "\n")
}

func (p *Printer) heading(format string, args ...any) {
	text := fmt.Sprintf(format, args...)
	_, _ = p.out.WriteString(p.out.String(text).Bold().String() + "\n")
}

// Plan prints a change plan under title.
func (p *Printer) Plan(title string, plan domain.ChangePlan) error {
	if p.json {
		return p.encode(struct {
			Report string `json:"report"`
			planJSON
		}{Report: "plan", planJSON: newPlanJSON(plan)})
	}

	p.heading("%s", title)
	p.planBody(plan)
	return nil
}

func (p *Printer) planBody(plan domain.ChangePlan) {
	if plan.IsEmpty() {
		p.line(style.Slate, "  nothing to do")
		return
	}
	for _, c := range plan.Changes {
		p.change(c)
	}
	p.line(style.Slate, "  %s", plan.Summary())
}

func (p *Printer) change(c domain.Change) {
	switch c.Op {
	case domain.OpInstall:
		p.line(style.Green, "  %s %s %s", style.Plus, c.Name, version(c.To))
	case domain.OpUpgrade:
		p.line(style.Blue, "  %s %s %s → %s", style.Up, c.Name, version(c.From), version(c.To))
	case domain.OpDowngrade:
		p.line(style.Yellow, "  %s %s %s → %s", style.Down, c.Name, version(c.From), version(c.To))
	case domain.OpRemove:
		p.line(style.Red, "  %s %s %s", style.Minus, c.Name, version(c.From))
	case domain.OpSkipDirty:
		p.line(style.Yellow, "  %s %s %s (dirty, skipped)", style.Warning, c.Name, version(c.From))
	}
}

func version(r *domain.PackageRecord) string {
	if r == nil {
		return "-"
	}
	return r.Version.String()
}

// LockDiff prints how a new lock differs from the previous one.
func (p *Printer) LockDiff(diff reconciler.LockDiff) error {
	if p.json {
		return p.encode(struct {
			Report string `json:"report"`
			lockDiffJSON
		}{Report: "lock_diff", lockDiffJSON: newLockDiffJSON(diff)})
	}

	if diff.IsEmpty() {
		p.line(style.Slate, "Lock is up to date")
		return nil
	}

	p.heading("Lock changes:")
	for _, r := range diff.Added {
		p.line(style.Green, "  %s %s %s", style.Plus, r.Name, r.Version)
	}
	for _, r := range diff.Removed {
		p.line(style.Red, "  %s %s %s", style.Minus, r.Name, r.Version)
	}
	for _, c := range diff.Upgraded {
		p.line(style.Blue, "  %s %s %s → %s", style.Up, c.Name, c.From.Version, c.To.Version)
	}
	for _, c := range diff.Downgraded {
		p.line(style.Yellow, "  %s %s %s → %s", style.Down, c.Name, c.From.Version, c.To.Version)
	}
	for _, c := range diff.Changed {
		p.line(style.Yellow, "  %s %s %s (fingerprint changed)", style.Tilde, c.Name, c.To.Version)
	}
	return nil
}

// Status is the read-only view of a project.
type Status struct {
	Project    string
	Root       string
	Library    string
	LockPath   string
	Locked     int
	LockFound  bool
	Rotation   domain.RotationState
	Plan       domain.ChangePlan
	Undeclared []string
	Unlocked   []string
	Dirty      []DirtyPackage
}

// DirtyPackage is an installed package rig did not install or that changed since.
type DirtyPackage struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// Status prints the project status.
func (p *Printer) Status(s Status) error {
	if p.json {
		return p.encode(newStatusJSON(s))
	}

	p.heading("Project %s (%s)", s.Project, s.Root)
	p.line("", "  library: %s (%s)", s.Library, s.Rotation)
	if s.LockFound {
		p.line("", "  lock:    %s (%d packages)", s.LockPath, s.Locked)
	} else {
		p.line(style.Yellow, "  lock:    %s (missing)", s.LockPath)
	}

	p.heading("Restore would:")
	p.planBody(s.Plan)

	if len(s.Unlocked) > 0 {
		p.line(style.Yellow, "Declared but not locked: %s", strings.Join(s.Unlocked, ", "))
	}
	if len(s.Undeclared) > 0 {
		p.line(style.Yellow, "Locked but not declared: %s", strings.Join(s.Undeclared, ", "))
	}
	if len(s.Dirty) > 0 {
		p.heading("Dirty packages:")
		for _, d := range s.Dirty {
			p.line(style.Yellow, "  %s %s: %s", style.Warning, d.Name, d.Reason)
		}
	}
	return nil
}

// Recovered prints the rotation state found by a recovery.
func (p *Printer) Recovered(library string, state domain.RotationState) error {
	if p.json {
		return p.encode(struct {
			Report  string `json:"report"`
			Library string `json:"library"`
			State   string `json:"state"`
		}{Report: "recover", Library: library, State: state.String()})
	}

	if state == domain.Stable {
		p.line(style.Green, "%s Library %s is stable, nothing to recover", style.Check, library)
		return nil
	}
	p.line(style.Yellow, "%s Recovered library %s from %s", style.Warning, library, state)
	return nil
}

// History prints journal entries, newest first.
func (p *Printer) History(entries []domain.RunEntry) error {
	if p.json {
		return p.encode(struct {
			Report string         `json:"report"`
			Runs   []runEntryJSON `json:"runs"`
		}{Report: "history", Runs: newRunEntriesJSON(entries)})
	}

	if len(entries) == 0 {
		p.line(style.Slate, "No runs recorded")
		return nil
	}
	for _, e := range entries {
		color, icon := style.Green, style.Check
		if e.Status == domain.RunFailed {
			color, icon = style.Red, style.Cross
		}
		p.line(color, "%s %-8s  %s  %-8s  %6s  %s",
			icon, shortID(e.ID), e.StartedAt.UTC().Format("2006-01-02 15:04:05"),
			e.Operation, e.Duration().Round(time.Millisecond), describeRun(e))
	}
	return nil
}

func describeRun(e domain.RunEntry) string {
	if e.Status == domain.RunFailed && e.Error != "" {
		return e.Error
	}
	return e.Summary.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Done prints a success line.
func (p *Printer) Done(format string, args ...any) error {
	if p.json {
		return p.encode(struct {
			Report  string `json:"report"`
			Message string `json:"message"`
		}{Report: "done", Message: fmt.Sprintf(format, args...)})
	}
	p.line(style.Green, "%s %s", style.Check, fmt.Sprintf(format, args...))
	return nil
}
