package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manufgue/Monitor/internal/model"
)

func TestTargetsTable_SelectedTarget(t *testing.T) {
	m := NewTargetsTable()
	m.focused = true
	m.SetTargets(targetFixtures())

	target, ok := m.SelectedTarget()
	require.True(t, ok)
	assert.Equal(t, "mf-prod-01", target.Host)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	target, ok = m.SelectedTarget()
	require.True(t, ok)
	assert.Equal(t, "mf-prod-02", target.Host)
}

func TestTargetsTable_SelectedTargetEmpty(t *testing.T) {
	m := NewTargetsTable()
	_, ok := m.SelectedTarget()
	assert.False(t, ok)
}

func TestTargetsTable_RegionCycling(t *testing.T) {
	m := NewTargetsTable()
	m.focused = true
	m.SetTargets([]model.HostTarget{
		{Host: "h1", Regions: []string{"R1", "R2", "R3"}},
	})

	_, region, ok := m.SelectedRegion()
	require.True(t, ok)
	assert.Equal(t, "R1", region)

	right := tea.KeyMsg{Type: tea.KeyRight}
	left := tea.KeyMsg{Type: tea.KeyLeft}

	m, _ = m.Update(right)
	_, region, _ = m.SelectedRegion()
	assert.Equal(t, "R2", region)

	m, _ = m.Update(right)
	m, _ = m.Update(right)
	_, region, _ = m.SelectedRegion()
	assert.Equal(t, "R1", region, "cycling wraps around")

	m, _ = m.Update(left)
	_, region, _ = m.SelectedRegion()
	assert.Equal(t, "R3", region, "left cycles backwards with wrap")
}

func TestTargetsTable_RegionSelectionPerHost(t *testing.T) {
	m := NewTargetsTable()
	m.focused = true
	m.SetTargets([]model.HostTarget{
		{Host: "h1", Regions: []string{"A", "B"}},
		{Host: "h2", Regions: []string{"X", "Y"}},
	})

	// Advance the region on h1, then move to h2: its own selection starts fresh.
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})

	target, region, ok := m.SelectedRegion()
	require.True(t, ok)
	assert.Equal(t, "h2", target.Host)
	assert.Equal(t, "X", region)

	// Back on h1 the earlier selection is remembered.
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	_, region, _ = m.SelectedRegion()
	assert.Equal(t, "B", region)
}

func TestTargetsTable_SelectedRegionNoRegions(t *testing.T) {
	m := NewTargetsTable()
	m.SetTargets([]model.HostTarget{{Host: "bare"}})

	_, _, ok := m.SelectedRegion()
	assert.False(t, ok)
}

func TestTargetsTable_ApplySums(t *testing.T) {
	m := NewTargetsTable()
	m.SetTargets(targetFixtures())

	assert.Equal(t, "-", m.sumCell(m.targets[0]), "no run yet shows a dash")

	m.ApplySums(map[string]int{"mf-prod-01": 1234})
	assert.Equal(t, "1,234", m.sumCell(m.targets[0]))
	assert.Equal(t, "-", m.sumCell(m.targets[1]), "untouched host keeps the dash")

	// A later zero-sum run still counts as seen.
	m.ApplySums(map[string]int{"mf-prod-02": 0})
	assert.Equal(t, "0", m.sumCell(m.targets[1]))
}

func TestTargetsTable_SetTargetsKeepsSums(t *testing.T) {
	m := NewTargetsTable()
	m.SetTargets(targetFixtures())
	m.ApplySums(map[string]int{"mf-prod-01": 50})

	m.SetTargets(targetFixtures()[:1])
	assert.Equal(t, "50", m.sumCell(m.targets[0]), "reload keeps previously seen sums")
}

func TestTargetsTable_RegionCellMarksSelection(t *testing.T) {
	m := NewTargetsTable()
	m.focused = true
	m.SetTargets([]model.HostTarget{
		{Host: "h1", Regions: []string{"R1", "R2"}},
		{Host: "h2", Regions: []string{"R9"}},
	})

	assert.Equal(t, "[R1] R2", m.regionCell(0, m.display[0]), "cursor row brackets the selection")
	assert.Equal(t, "R9", m.regionCell(1, m.display[1]), "other rows render plain")
}

func TestTargetsTable_RenderSmoke(t *testing.T) {
	m := NewTargetsTable()
	m.focused = true
	m.SetTargets(targetFixtures())
	m.ApplySums(map[string]int{"mf-prod-01": 700})

	out := stripANSI(m.renderTable(nil))
	assert.Contains(t, out, "mf-prod-01")
	assert.Contains(t, out, "Targets (3)")
	assert.Contains(t, out, "700")
	assert.Contains(t, out, "10086", "default port is rendered when unset")
}

func TestTargetsTable_RenderEmpty(t *testing.T) {
	m := NewTargetsTable()
	out := stripANSI(m.renderTable(nil))
	assert.Contains(t, out, "no targets configured")
}
