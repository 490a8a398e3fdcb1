// SPDX-License-Identifier: MPL-2.0

// Package progress renders the textual progress bars printed by long-running
// pack workflows.
package progress

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// DefaultWidth is the number of cells in a rendered bar.
const DefaultWidth = 20

const (
	fullCell  = "█"
	emptyCell = "░"
)

type (
	// Status is the outcome attached to a progress line.
	Status int

	// Reporter prints one progress line per completed step. It is safe for
	// concurrent use; steps may complete in any order.
	Reporter struct {
		mu        sync.Mutex
		w         io.Writer
		total     int
		completed int
		styles    Styles
	}

	// Styles colors the status markers of a Reporter.
	Styles struct {
		Done    lipgloss.Style
		Failed  lipgloss.Style
		Pending lipgloss.Style
	}
)

const (
	// StatusPending marks a step that just started.
	StatusPending Status = iota
	// StatusDone marks a successful step.
	StatusDone
	// StatusFailed marks a failed step.
	StatusFailed
)

// Bar renders "[████░░░░] c/t (p.p%)" with DefaultWidth cells.
func Bar(completed, total int) string {
	return BarWidth(completed, total, DefaultWidth)
}

// BarWidth renders a bar with the given number of cells. Completed is clamped
// to [0, total]; a non-positive total renders an empty bar at 0.0%.
func BarWidth(completed, total, width int) string {
	if width < 1 {
		width = DefaultWidth
	}
	filled := 0
	percent := 0.0
	if total > 0 {
		completed = max(0, min(completed, total))
		filled = width * completed / total
		percent = float64(completed) / float64(total) * 100
	} else {
		completed = 0
	}
	bar := strings.Repeat(fullCell, filled) + strings.Repeat(emptyCell, width-filled)
	return fmt.Sprintf("[%s] %d/%d (%.1f%%)", bar, completed, total, percent)
}

// PlainStyles renders markers without color.
func PlainStyles() Styles {
	return Styles{Done: lipgloss.NewStyle(), Failed: lipgloss.NewStyle(), Pending: lipgloss.NewStyle()}
}

// NewReporter creates a Reporter for total steps writing to w.
func NewReporter(w io.Writer, total int, styles Styles) *Reporter {
	return &Reporter{w: w, total: total, styles: styles}
}

// Start prints the line announcing a step without advancing the bar.
func (r *Reporter) Start(label string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.printf(r.completed, label, StatusPending)
}

// Step advances the bar by one and prints label with its status.
func (r *Reporter) Step(label string, status Status) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completed++
	r.printf(r.completed, label, status)
}

// Completed returns the number of steps reported so far.
func (r *Reporter) Completed() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.completed
}

func (r *Reporter) printf(completed int, label string, status Status) {
	_, _ = fmt.Fprintf(r.w, "%s | %s%s\n", Bar(completed, r.total), label, r.marker(status))
}

func (r *Reporter) marker(status Status) string {
	switch status {
	case StatusDone:
		return " " + r.styles.Done.Render("✔ done")
	case StatusFailed:
		return " " + r.styles.Failed.Render("✘ failed")
	default:
		return ""
	}
}
