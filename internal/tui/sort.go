package tui

import (
	"sort"
	"strings"

	"github.com/manufgue/Monitor/internal/model"
)

// sortMode selects the results table ordering.
type sortMode int

const (
	sortByCount sortMode = iota
	sortByName
)

// sortCounts returns a sorted copy of rows. Count order is descending
// unless asc is set, name order ascending unless asc is cleared.
// Equal counts are broken by Name ascending so renders stay stable.
func sortCounts(rows []model.NamedCount, mode sortMode, asc bool) []model.NamedCount {
	out := make([]model.NamedCount, len(rows))
	copy(out, rows)

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if mode == sortByName {
			if asc {
				return strings.ToLower(a.Name) < strings.ToLower(b.Name)
			}
			return strings.ToLower(a.Name) > strings.ToLower(b.Name)
		}
		if a.Count != b.Count {
			if asc {
				return a.Count < b.Count
			}
			return a.Count > b.Count
		}
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	})
	return out
}

// filterCounts returns rows whose Name contains search (case-insensitive).
// Returns all rows when search is empty.
func filterCounts(rows []model.NamedCount, search string) []model.NamedCount {
	if search == "" {
		return rows
	}
	lower := strings.ToLower(search)
	out := rows[:0:0]
	for _, r := range rows {
		if strings.Contains(strings.ToLower(r.Name), lower) {
			out = append(out, r)
		}
	}
	return out
}

// filterTargets returns targets whose Host, Canal, or Site contains search
// (case-insensitive). Returns all targets when search is empty.
func filterTargets(targets []model.HostTarget, search string) []model.HostTarget {
	if search == "" {
		return targets
	}
	lower := strings.ToLower(search)
	out := targets[:0:0]
	for _, t := range targets {
		if strings.Contains(strings.ToLower(t.Host), lower) ||
			strings.Contains(strings.ToLower(t.Canal), lower) ||
			strings.Contains(strings.ToLower(t.Site), lower) {
			out = append(out, t)
		}
	}
	return out
}
