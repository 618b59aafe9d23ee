package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/manufgue/Monitor/internal/format"
	"github.com/manufgue/Monitor/internal/model"
)

// maxBreakdownRows caps the per-region and per-host columns on the summary
// view.
const maxBreakdownRows = 12

// renderSummary renders the totals view: the stat card row, the run trend
// strip, the per-region and per-host breakdowns, and advisory findings.
func renderSummary(app *App) string {
	if app.result == nil {
		return StyleDim.Render("  (no data yet, press r to run a sweep)")
	}
	width := app.width
	if width <= 0 {
		width = 80
	}
	res := app.result

	cardWidth := (width - 8) / 4
	if cardWidth < 10 {
		cardWidth = 10
	}
	failColor := colorGray
	if len(res.FailedRegions) > 0 {
		failColor = colorRed
	}
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		summaryCard(format.FormatCompact(res.TotalSum), "Total Active", colorGreen, cardWidth),
		summaryCard(strconv.Itoa(res.TotalCalls), "Calls", colorBlue, cardWidth),
		summaryCard(strconv.Itoa(len(res.ByPctName)), "PCT Names", colorPurple, cardWidth),
		summaryCard(strconv.Itoa(len(res.FailedRegions)), "Failed", failColor, cardWidth),
	)

	sparkWidth := width - 10
	if sparkWidth > 40 {
		sparkWidth = 40
	}
	trend := StyleDim.Render("  trend ") + RenderSparkline(app.history.Totals(), sparkWidth, colorCyan)

	breakdowns := lipgloss.JoinHorizontal(lipgloss.Top,
		renderBreakdown("By Region", res.ByRegion, app.thresholds),
		"   ",
		renderBreakdown("By Host", res.ByHost, app.thresholds),
	)

	sections := []string{cards, "", trend, "", breakdowns}
	if f := renderFindings(app.findings); f != "" {
		sections = append(sections, "", f)
	}
	if len(res.FailedRegions) > 0 {
		sections = append(sections, "", renderFailed(res.FailedRegions))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// summaryCard renders one stat card: a colored value over a label.
func summaryCard(value, label string, color lipgloss.Color, width int) string {
	return StyleCard.Foreground(color).Width(width).Render(value + "\n" + label)
}

// renderBreakdown renders one name/count column, largest first.
func renderBreakdown(title string, counts map[string]int, th Thresholds) string {
	rows := model.SortCounts(counts)
	extra := 0
	if len(rows) > maxBreakdownRows {
		extra = len(rows) - maxBreakdownRows
		rows = rows[:maxBreakdownRows]
	}

	lines := []string{StyleTableHeader.Render(title)}
	if len(rows) == 0 {
		lines = append(lines, StyleDim.Render("  (none)"))
	}
	for _, r := range rows {
		name := truncateName(sanitize(r.Name), 16)
		count := countStyle(r.Count, th).Render(fmt.Sprintf("%10s", format.FormatCount(r.Count)))
		lines = append(lines, fmt.Sprintf("  %-16s%s", name, count))
	}
	if extra > 0 {
		lines = append(lines, StyleDim.Render(fmt.Sprintf("  and %d more", extra)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// renderFindings lists run advisories colored by severity.
func renderFindings(findings []model.Finding) string {
	if len(findings) == 0 {
		return ""
	}
	lines := []string{StyleTableHeader.Render("Findings")}
	for _, f := range findings {
		lines = append(lines, "  "+SeverityStyle(f.Severity).Render("• "+sanitize(f.Text)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// renderFailed lists the failed host/region pairs in sweep order.
func renderFailed(failed []model.RegionRef) string {
	lines := []string{StyleTableHeader.Render("Failed Regions")}
	for _, ref := range failed {
		lines = append(lines, "  "+StyleRed.Render(sanitize(ref.Host)+"/"+sanitize(ref.Region)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
