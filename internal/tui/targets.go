package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"

	"github.com/manufgue/Monitor/internal/engine"
	"github.com/manufgue/Monitor/internal/format"
	"github.com/manufgue/Monitor/internal/model"
)

// TargetsTableModel lists the configured hosts with their regions and the
// last observed per-host sums. The cursor selects a host, and left/right
// cycle a region sub-selection on the selected row.
type TargetsTableModel struct {
	tableModel
	targets   []model.HostTarget
	display   []model.HostTarget // after filter applied
	regionSel map[string]int     // host -> selected region index
	hostSums  map[string]int
	hostSeen  map[string]bool
}

// NewTargetsTable returns an empty TargetsTableModel.
func NewTargetsTable() TargetsTableModel {
	cols := []columnDef{
		{Title: "Host", Width: 20},
		{Title: "Port", Width: 6},
		{Title: "Canal", Width: 9},
		{Title: "Site", Width: 9},
		{Title: "Regions", Width: 26},
		{Title: "Last Sum", Width: 9},
	}
	return TargetsTableModel{
		tableModel: newTableModel(cols),
		regionSel:  map[string]int{},
		hostSums:   map[string]int{},
		hostSeen:   map[string]bool{},
	}
}

// SetTargets replaces the configured host list, keeping sums already seen.
func (m *TargetsTableModel) SetTargets(targets []model.HostTarget) {
	m.targets = targets
	m.refresh()
}

// ApplySums folds a finished run's per-host sums into the view.
func (m *TargetsTableModel) ApplySums(byHost map[string]int) {
	for host, sum := range byHost {
		m.hostSums[host] = sum
		m.hostSeen[host] = true
	}
}

func (m *TargetsTableModel) refresh() {
	m.display = filterTargets(m.targets, m.search)
	m.clampCursor(len(m.display))
}

// SelectedTarget returns the host under the cursor.
func (m *TargetsTableModel) SelectedTarget() (model.HostTarget, bool) {
	if m.cursor < 0 || m.cursor >= len(m.display) {
		return model.HostTarget{}, false
	}
	return m.display[m.cursor], true
}

// SelectedRegion returns the region the sub-cursor points at on the host
// under the cursor. Hosts without regions report false.
func (m *TargetsTableModel) SelectedRegion() (model.HostTarget, string, bool) {
	target, ok := m.SelectedTarget()
	if !ok || len(target.Regions) == 0 {
		return model.HostTarget{}, "", false
	}
	idx := m.regionSel[target.Host] % len(target.Regions)
	return target, target.Regions[idx], true
}

// Update cycles the region sub-cursor on left/right and delegates cursor
// movement and search to the embedded tableModel.
func (m TargetsTableModel) Update(msg tea.Msg) (TargetsTableModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && m.focused && !m.searching {
		if target, hasTarget := m.SelectedTarget(); hasTarget && len(target.Regions) > 0 {
			n := len(target.Regions)
			switch {
			case key.Matches(keyMsg, keys.NextPage):
				m.regionSel[target.Host] = (m.regionSel[target.Host] + 1) % n
				return m, nil
			case key.Matches(keyMsg, keys.PrevPage):
				m.regionSel[target.Host] = (m.regionSel[target.Host] + n - 1) % n
				return m, nil
			}
		}
	}

	prevSearch := m.search
	base, cmd := m.tableModel.Update(msg)
	m.tableModel = base
	if m.search != prevSearch {
		m.refresh()
	}
	m.clampCursor(len(m.display))
	return m, cmd
}

// renderTable renders the "Targets" section: a title bar, the host table,
// and a hint line for the host-scoped actions.
func (m *TargetsTableModel) renderTable(app *App) string {
	hdr := m.renderHeader(fmt.Sprintf("Targets (%d)", len(m.display)))

	if len(m.display) == 0 {
		empty := "  (no targets configured)"
		if m.search != "" {
			empty = "  (no targets match the filter)"
		}
		return lipgloss.JoinVertical(lipgloss.Left, hdr, StyleDim.Render(empty))
	}

	var colWidths []int
	if app != nil && app.width > 0 {
		colWidths = columnWidths(app.width, m.columns)
	}

	headers := make([]string, len(m.columns))
	for i, c := range m.columns {
		headers[i] = c.Title
	}
	if len(colWidths) == len(m.columns) {
		for i, h := range headers {
			runes := []rune(h)
			if len(runes) < colWidths[i] {
				headers[i] = h + strings.Repeat(" ", colWidths[i]-len(runes))
			}
		}
	}

	focused := m.focused
	cursor := m.cursor
	t := ltable.New().
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == ltable.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Foreground(colorGray)
			}
			base := lipgloss.NewStyle()
			if focused && row == cursor {
				base = base.Background(colorSelectedBg)
			} else if row%2 == 0 {
				base = base.Background(colorAlt)
			}
			switch col {
			case 0:
				return base.Foreground(colorBlue)
			case 5:
				return base.Foreground(colorGreen)
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

	for i, tgt := range m.display {
		host := sanitize(tgt.Host)
		if len(colWidths) > 0 && colWidths[0] > 0 {
			host = truncateName(host, colWidths[0])
		}
		t = t.Row(
			host,
			strconv.Itoa(tgt.EffectivePort()),
			sanitize(tgt.Canal),
			sanitize(tgt.Site),
			m.regionCell(i, tgt),
			m.sumCell(tgt),
		)
	}

	hint := StyleDim.Render("  enter: run host   f: fetch region   l: login   L: logoff")
	return lipgloss.JoinVertical(lipgloss.Left, hdr, t.String(), hint)
}

// renderHeader renders the title bar with filter hints.
func (m *TargetsTableModel) renderHeader(title string) string {
	var right string
	switch {
	case m.searching:
		right = "Filter: " + m.input.View()
	case m.search != "":
		right = fmt.Sprintf("filter=%q", m.search)
	default:
		right = "[/: filter]  [↑↓: host]  [←→: region]"
	}
	return StyleDim.Render(title + "  " + right)
}

// regionCell joins the host's regions, bracketing the sub-selection on the
// row under the cursor.
func (m *TargetsTableModel) regionCell(row int, tgt model.HostTarget) string {
	if len(tgt.Regions) == 0 {
		return "-"
	}
	sel := -1
	if row == m.cursor {
		sel = m.regionSel[tgt.Host] % len(tgt.Regions)
	}
	parts := make([]string, len(tgt.Regions))
	for i, region := range tgt.Regions {
		if i == sel {
			parts[i] = "[" + sanitize(region) + "]"
		} else {
			parts[i] = sanitize(region)
		}
	}
	return strings.Join(parts, " ")
}

// sumCell formats the last observed active total for a host, or "-" before
// the first completed run.
func (m *TargetsTableModel) sumCell(tgt model.HostTarget) string {
	if !m.hostSeen[tgt.Host] {
		return "-"
	}
	return format.FormatCount(m.hostSums[tgt.Host])
}

// fetchRegionCmd refreshes a single region and reports the outcome.
func fetchRegionCmd(eng *engine.Engine, target model.HostTarget, region string, creds model.Credentials) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		outcome := eng.FetchRegion(ctx, target, region, creds)
		return RegionFetchMsg{Host: target.Host, Region: region, Outcome: outcome}
	}
}
