package model

// FindingSeverity indicates how much attention a finding deserves.
type FindingSeverity int

const (
	FindingInfo FindingSeverity = iota
	FindingWarning
	FindingCritical
)

// Finding is a single advisory derived from a completed aggregation run,
// such as a host whose every region failed or a sweep that returned no data.
type Finding struct {
	Severity FindingSeverity
	Text     string
}
