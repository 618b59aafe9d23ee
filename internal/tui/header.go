package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/manufgue/Monitor/internal/format"
	"github.com/manufgue/Monitor/internal/model"
)

// renderHeader renders the top header bar with target count, run state, and
// session info.
//
// Layout:
//
//	left:   program name and configured target count
//	center: colored "●" run state (sweeping spinner, failure count, or OK)
//	right:  "Last: HH:MM:SS (age)  <account>"
func renderHeader(app *App) string {
	width := app.width
	if width <= 0 {
		width = 80
	}

	left := fmt.Sprintf("ES Monitor  %d targets", len(app.targets))

	var center string
	switch {
	case app.fetching:
		center = app.spin.View() + " working..."
	case app.lastErr != nil:
		errMsg := app.lastErr.Error()
		if len(errMsg) > 40 {
			errMsg = errMsg[:40] + "..."
		}
		center = StyleError.Render("● " + errMsg)
	case app.result == nil:
		center = StyleDim.Render("● press r to run a sweep")
	case len(app.result.FailedRegions) > 0:
		center = StyleYellow.Render(fmt.Sprintf("● %d of %d regions failed",
			len(app.result.FailedRegions), countRegions(app.targets)))
	default:
		center = StyleGreen.Render("● OK")
	}

	account := "anonymous"
	if app.creds.Valid() {
		account = sanitize(app.creds.User)
	}
	right := account
	if !app.lastRun.IsZero() {
		right = fmt.Sprintf("Last: %s (%s)  %s",
			app.lastRun.Format("15:04:05"),
			format.FormatAge(time.Since(app.lastRun)),
			account)
	}
	right = StyleDim.Render(right)

	// Build row: left + padding + center + padding + right, filling innerWidth.
	// StyleHeader has Padding(0, 1) so inner content width = total width - 2.
	innerWidth := width - 2
	leftVW := lipgloss.Width(left)
	centerVW := lipgloss.Width(center)
	rightVW := lipgloss.Width(right)

	spacing := innerWidth - leftVW - centerVW - rightVW
	if spacing < 0 {
		spacing = 0
	}
	leftSpacing := spacing / 2
	rightSpacing := spacing - leftSpacing

	row := left +
		strings.Repeat(" ", leftSpacing) +
		center +
		strings.Repeat(" ", rightSpacing) +
		right

	return StyleHeader.Width(width).Render(row)
}

// countRegions returns the number of regions across all targets.
func countRegions(targets []model.HostTarget) int {
	n := 0
	for _, t := range targets {
		n += len(t.Regions)
	}
	return n
}
