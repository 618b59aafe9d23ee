package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
)

// columnDef describes a single column in a table.
type columnDef struct {
	Title string
	Width int
}

// tableModel is the generic base for the paginated, searchable tables.
type tableModel struct {
	columns   []columnDef
	page      int // 0-indexed
	pageSize  int // default 10
	cursor    int // selected row within the visible rows
	search    string
	searching bool
	input     textinput.Model
	focused   bool
}

// newTableModel initialises a tableModel with sensible defaults.
func newTableModel(cols []columnDef) tableModel {
	ti := textinput.New()
	ti.Placeholder = "filter..."
	ti.CharLimit = 80
	return tableModel{
		columns:  cols,
		pageSize: 10,
		input:    ti,
	}
}

// Update handles keyboard input for pagination, cursor movement, and search.
func (t tableModel) Update(msg tea.Msg) (tableModel, tea.Cmd) {
	if !t.focused {
		return t, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return t, nil
	}

	if t.searching {
		switch {
		case key.Matches(keyMsg, keys.Escape):
			t.searching = false
			t.input.Blur()
			if t.input.Value() == "" {
				t.search = ""
			}
			return t, nil
		case keyMsg.String() == "enter":
			t.search = t.input.Value()
			t.searching = false
			t.input.Blur()
			t.page = 0
			t.cursor = 0
			return t, nil
		default:
			var cmd tea.Cmd
			t.input, cmd = t.input.Update(msg)
			return t, cmd
		}
	}

	switch {
	case key.Matches(keyMsg, keys.Search):
		t.searching = true
		t.input.SetValue(t.search)
		t.input.Focus()
		return t, textinput.Blink
	case key.Matches(keyMsg, keys.Escape):
		t.search = ""
		t.input.SetValue("")
		t.page = 0
		t.cursor = 0
		return t, nil
	case key.Matches(keyMsg, keys.PrevPage):
		if t.page > 0 {
			t.page--
			t.cursor = 0
		}
		return t, nil
	case key.Matches(keyMsg, keys.NextPage):
		t.page++
		t.cursor = 0
		return t, nil
	case key.Matches(keyMsg, keys.Up):
		if t.cursor > 0 {
			t.cursor--
		}
		return t, nil
	case key.Matches(keyMsg, keys.Down):
		t.cursor++
		return t, nil
	}
	return t, nil
}

// pageCount returns the total number of pages for totalRows rows at pageSize rows per page.
// Always at least 1.
func pageCount(totalRows, pageSize int) int {
	if totalRows == 0 || pageSize <= 0 {
		return 1
	}
	c := totalRows / pageSize
	if totalRows%pageSize != 0 {
		c++
	}
	return c
}

// currentPageIndices returns the slice of row indices visible on the current page.
// allIndices is typically [0, 1, 2, ... n-1] or a pre-filtered subset.
func currentPageIndices(allIndices []int, page, pageSize int) []int {
	if pageSize <= 0 || len(allIndices) == 0 {
		return allIndices
	}
	start := page * pageSize
	if start >= len(allIndices) {
		start = 0
	}
	end := start + pageSize
	if end > len(allIndices) {
		end = len(allIndices)
	}
	return allIndices[start:end]
}

// clampPage ensures the page index stays within valid bounds given the total
// number of rows and the configured pageSize.
func (t *tableModel) clampPage(totalRows int) {
	pc := pageCount(totalRows, t.pageSize)
	if t.page >= pc {
		t.page = pc - 1
	}
	if t.page < 0 {
		t.page = 0
	}
}

// clampCursor keeps the cursor inside the visible row range.
func (t *tableModel) clampCursor(visibleRows int) {
	if t.cursor >= visibleRows {
		t.cursor = visibleRows - 1
	}
	if t.cursor < 0 {
		t.cursor = 0
	}
}

// currentPageRowCount returns how many rows are visible on the current page.
func (t *tableModel) currentPageRowCount(totalRows int) int {
	if t.pageSize <= 0 {
		return totalRows
	}
	start := t.page * t.pageSize
	if start >= totalRows {
		start = 0
	}
	end := start + t.pageSize
	if end > totalRows {
		end = totalRows
	}
	return end - start
}

// minColWidth is the narrowest a column may ever be rendered.
const minColWidth = 4

// columnWidths distributes the available terminal width across columns in
// proportion to their preferred widths. When available <= 0 the preferred
// widths are returned unchanged. The last column absorbs the rounding
// remainder and every column is clamped to minColWidth.
func columnWidths(available int, cols []columnDef) []int {
	out := make([]int, len(cols))
	if len(cols) == 0 {
		return out
	}

	sum := 0
	for _, c := range cols {
		sum += c.Width
	}
	if available <= 0 || sum <= 0 {
		for i, c := range cols {
			out[i] = c.Width
		}
		return out
	}

	used := 0
	for i, c := range cols {
		w := available * c.Width / sum
		if i == len(cols)-1 {
			w = available - used
		}
		if w < minColWidth {
			w = minColWidth
		}
		out[i] = w
		used += w
	}
	return out
}

// truncateName shortens s to at most maxWidth terminal cells, appending
// "..." when truncation happens. Widths of 3 or less cut without ellipsis.
func truncateName(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return runewidth.Truncate(s, maxWidth, "")
	}
	return runewidth.Truncate(s, maxWidth, "...")
}
