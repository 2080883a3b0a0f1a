// Package status evaluates tracked actions against their leniency
// windows and renders the message-of-the-day report.
package status

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/lazypower/heartbeat/internal/interval"
	"github.com/lazypower/heartbeat/internal/store"
)

var (
	headingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")) // yellow
	alertStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))  // red
)

// Line is one alert in the report.
type Line struct {
	Name string
	Text string
}

// Evaluate returns one alert line per stale or never-performed action,
// in the order given. An action inside its leniency window produces
// nothing, as does an action with no leniency at all.
func Evaluate(actions []store.Action, now time.Time) []Line {
	var lines []Line
	for _, a := range actions {
		if a.LastBeat == nil {
			lines = append(lines, Line{Name: a.Name, Text: a.NeverLine})
			continue
		}
		if a.Leniency <= 0 {
			continue
		}
		if elapsed := now.Sub(*a.LastBeat); elapsed > a.Leniency {
			lines = append(lines, Line{
				Name: a.Name,
				Text: fmt.Sprintf(a.LastLine, interval.FromDuration(elapsed)),
			})
		}
	}
	return lines
}

// Render writes the report to w: a heading followed by one bullet per
// alert. No alerts means no output at all.
func Render(w io.Writer, lines []Line, color bool) {
	if len(lines) == 0 {
		return
	}

	heading := headingStyle
	alert := alertStyle
	if !color {
		heading = lipgloss.NewStyle()
		alert = lipgloss.NewStyle()
	}

	fmt.Fprintln(w, heading.Render("Heartbeats"))
	fmt.Fprintln(w, heading.Render("=========="))
	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintf(w, "* %s\n", alert.Render(l.Text))
	}
}
