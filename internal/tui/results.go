package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"

	"github.com/manufgue/Monitor/internal/format"
	"github.com/manufgue/Monitor/internal/model"
)

// ResultsTableModel is the paginated, searchable table of aggregated PCT
// counters, one row per PCT name across all hosts and regions.
type ResultsTableModel struct {
	tableModel
	mode        sortMode
	asc         bool
	allRows     []model.NamedCount // unfiltered source data
	displayRows []model.NamedCount // after filter + sort applied
	totalSum    int
}

// NewResultsTable returns a ResultsTableModel sorted by count descending.
func NewResultsTable() ResultsTableModel {
	cols := []columnDef{
		{Title: "PCT", Width: 32},
		{Title: "Count", Width: 10},
		{Title: "Share", Width: 8},
	}
	return ResultsTableModel{tableModel: newTableModel(cols)}
}

// SetResult replaces the table content from a finished run. A nil result
// clears the table.
func (m *ResultsTableModel) SetResult(result *model.AggregationResult) {
	if result == nil {
		m.allRows = nil
		m.displayRows = nil
		m.totalSum = 0
		return
	}
	m.allRows = model.SortCounts(result.ByPctName)
	m.totalSum = result.TotalSum
	m.refresh()
}

func (m *ResultsTableModel) refresh() {
	filtered := filterCounts(m.allRows, m.search)
	m.displayRows = sortCounts(filtered, m.mode, m.asc)
	m.clampPage(len(m.displayRows))
}

// Update handles the sort toggle keys and delegates pagination and search
// to the embedded tableModel, re-applying filter and sort on change.
func (m ResultsTableModel) Update(msg tea.Msg) (ResultsTableModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && m.focused && !m.searching {
		switch {
		case key.Matches(keyMsg, keys.SortCount):
			if m.mode == sortByCount {
				m.asc = !m.asc
			} else {
				m.mode = sortByCount
				m.asc = false
			}
			m.page = 0
			m.cursor = 0
			m.refresh()
			return m, nil
		case key.Matches(keyMsg, keys.SortName):
			if m.mode == sortByName {
				m.asc = !m.asc
			} else {
				m.mode = sortByName
				m.asc = true
			}
			m.page = 0
			m.cursor = 0
			m.refresh()
			return m, nil
		}
	}

	prevSearch := m.search
	base, cmd := m.tableModel.Update(msg)
	m.tableModel = base
	if m.search != prevSearch {
		m.refresh()
	}
	m.clampPage(len(m.displayRows))
	return m, cmd
}

// renderTable renders the "Active PCTs" section: a title bar followed by
// the lipgloss table body for the current page.
func (m *ResultsTableModel) renderTable(app *App) string {
	pc := pageCount(len(m.displayRows), m.pageSize)
	hdr := m.renderHeader(fmt.Sprintf("Active PCTs (%d)", len(m.displayRows)), m.page+1, pc)

	if len(m.displayRows) == 0 {
		empty := "  (no data yet, press r to run a sweep)"
		if m.search != "" {
			empty = "  (no PCTs match the filter)"
		}
		return lipgloss.JoinVertical(lipgloss.Left, hdr, StyleDim.Render(empty))
	}

	var colWidths []int
	if app != nil && app.width > 0 {
		colWidths = columnWidths(app.width, m.columns)
	}

	// Column header strings with a direction arrow on the active sort column.
	sortCol := 1
	if m.mode == sortByName {
		sortCol = 0
	}
	headers := make([]string, len(m.columns))
	for i, c := range m.columns {
		if i == sortCol {
			arrow := "↓"
			if m.asc {
				arrow = "↑"
			}
			headers[i] = c.Title + arrow
		} else {
			headers[i] = c.Title
		}
	}
	if len(colWidths) == len(m.columns) {
		for i, h := range headers {
			runes := []rune(h)
			if len(runes) < colWidths[i] {
				headers[i] = h + strings.Repeat(" ", colWidths[i]-len(runes))
			}
		}
	}

	allIdx := make([]int, len(m.displayRows))
	for i := range m.displayRows {
		allIdx[i] = i
	}
	pageIdx := currentPageIndices(allIdx, m.page, m.pageSize)

	pageRows := make([]model.NamedCount, 0, len(pageIdx))
	for _, idx := range pageIdx {
		pageRows = append(pageRows, m.displayRows[idx])
	}

	th := DefaultThresholds
	if app != nil {
		th = app.thresholds
	}
	t := ltable.New().
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == ltable.HeaderRow {
				if col == sortCol {
					return lipgloss.NewStyle().Bold(true).Foreground(colorBlue)
				}
				return lipgloss.NewStyle().Bold(true).Foreground(colorGray)
			}
			base := lipgloss.NewStyle()
			if row%2 == 0 {
				base = base.Background(colorAlt)
			}
			switch col {
			case 1:
				if row >= 0 && row < len(pageRows) {
					return base.Inherit(countStyle(pageRows[row].Count, th))
				}
				return base.Foreground(colorWhite)
			case 2:
				return base.Foreground(colorCyan)
			default:
				return base.Foreground(colorWhite)
			}
		}).
		BorderStyle(lipgloss.NewStyle().Foreground(colorGray)).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(true).
		BorderColumn(false)

	if app != nil && app.width > 0 {
		t = t.Width(app.width)
	}

	for _, r := range pageRows {
		name := sanitize(r.Name)
		if len(colWidths) > 0 && colWidths[0] > 0 {
			name = truncateName(name, colWidths[0])
		}
		t = t.Row(name, format.FormatCount(r.Count), shareCell(r.Count, m.totalSum))
	}
	return lipgloss.JoinVertical(lipgloss.Left, hdr, t.String())
}

// renderHeader renders the title bar with filter/sort/page hints.
// While the filter prompt is open, the live textinput view is shown instead.
func (m *ResultsTableModel) renderHeader(title string, page, pageCount int) string {
	pageInfo := fmt.Sprintf("Page %d/%d", page, pageCount)

	var right string
	switch {
	case m.searching:
		right = "Filter: " + m.input.View()
	case m.search != "":
		right = fmt.Sprintf("filter=%q  %s", m.search, pageInfo)
	default:
		right = fmt.Sprintf("[/: filter]  [c/n: sort]  [←→: page]  %s", pageInfo)
	}

	return StyleDim.Render(title + "  " + right)
}

// shareCell formats a count's share of the run total.
func shareCell(count, total int) string {
	if total <= 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(count)/float64(total)*100)
}
