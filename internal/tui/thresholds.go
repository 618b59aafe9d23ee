package tui

import "github.com/charmbracelet/lipgloss"

// severity represents the load level of an execution count.
type severity int

const (
	severityIdle   severity = iota // dimmed
	severityNormal                 // green
	severityBusy                   // yellow
	severityHot                    // red
)

// Thresholds holds the counts at which result cells change color.
type Thresholds struct {
	Busy int
	Hot  int
}

// DefaultThresholds is used until a caller overrides it.
var DefaultThresholds = Thresholds{Busy: 500, Hot: 2000}

// countSeverity returns Idle for zero, Busy at or above th.Busy, and Hot at
// or above th.Hot. Unset thresholds never trigger.
func countSeverity(count int, th Thresholds) severity {
	switch {
	case count <= 0:
		return severityIdle
	case th.Hot > 0 && count >= th.Hot:
		return severityHot
	case th.Busy > 0 && count >= th.Busy:
		return severityBusy
	default:
		return severityNormal
	}
}

// severityToStyle maps a load level to the appropriate lipgloss style.
func severityToStyle(s severity) lipgloss.Style {
	switch s {
	case severityIdle:
		return StyleDim
	case severityBusy:
		return StyleYellow
	case severityHot:
		return StyleRed
	default:
		return StyleGreen
	}
}

// countStyle returns the cell style for an execution count.
func countStyle(count int, th Thresholds) lipgloss.Style {
	return severityToStyle(countSeverity(count, th))
}
