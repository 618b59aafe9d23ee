package tui

import (
	"github.com/manufgue/Monitor/internal/client"
	"github.com/manufgue/Monitor/internal/model"
)

// RunResultMsg delivers a finished full sweep to the TUI.
type RunResultMsg struct {
	Result *model.AggregationResult
	Err    error
}

// HostRunMsg delivers a finished single-host run.
type HostRunMsg struct {
	Host   string
	Result *model.AggregationResult
	Err    error
}

// RegionFetchMsg reports one refreshed region.
type RegionFetchMsg struct {
	Host    string
	Region  string
	Outcome client.Outcome
}

// LogonResultMsg reports an explicit logon attempt.
type LogonResultMsg struct {
	Host string
	Err  error
}

// LogoffResultMsg reports an explicit logoff attempt.
type LogoffResultMsg struct {
	Host string
	Err  error
}

// TargetsReloadedMsg carries a fresh target set from the file watcher.
type TargetsReloadedMsg struct {
	Targets []model.HostTarget
}
