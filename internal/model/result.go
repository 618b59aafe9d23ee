package model

import "sort"

// PctRecord is one named counter returned by a region's active-PCT endpoint.
// Records live only for the duration of the run that fetched them.
type PctRecord struct {
	Name    string
	Group   string
	Section string
	Count   int
}

// RegionRef identifies a single (host, region) endpoint within a sweep.
type RegionRef struct {
	Host   string
	Region string
}

// AggregationResult accumulates one sweep across all configured endpoints.
// TotalSum always equals the sum over ByPctName, over ByRegion, and over
// ByHost; FailedRegions preserves sweep order.
type AggregationResult struct {
	TotalSum      int            `json:"totalSum"`
	TotalCalls    int            `json:"totalCalls"`
	ByPctName     map[string]int `json:"byPctName"`
	ByRegion      map[string]int `json:"byRegion"`
	ByHost        map[string]int `json:"byHost"`
	FailedRegions []RegionRef    `json:"failedRegions"`
}

// NewAggregationResult returns an empty result with all maps allocated.
func NewAggregationResult() *AggregationResult {
	return &AggregationResult{
		ByPctName: make(map[string]int),
		ByRegion:  make(map[string]int),
		ByHost:    make(map[string]int),
	}
}

// Empty reports whether the sweep produced no counter data at all. Callers
// use it together with FailedRegions to tell "quiet fleet" from "dead fleet".
func (r *AggregationResult) Empty() bool {
	return r.TotalSum == 0
}

// NamedCount is one row of a counter table derived from an aggregation map.
type NamedCount struct {
	Name  string
	Count int
}

// SortCounts flattens an aggregation map into rows ordered by descending
// count, then ascending name. Ties are therefore deterministic.
func SortCounts(m map[string]int) []NamedCount {
	rows := make([]NamedCount, 0, len(m))
	for name, count := range m {
		rows = append(rows, NamedCount{Name: name, Count: count})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Name < rows[j].Name
	})
	return rows
}
