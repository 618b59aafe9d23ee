package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/manufgue/Monitor/internal/engine"
	"github.com/manufgue/Monitor/internal/format"
	"github.com/manufgue/Monitor/internal/model"
)

// view selects the active tab.
type view int

const (
	viewResults view = iota
	viewTargets
	viewSummary

	numViews = 3
)

// App is the root Bubble Tea model for the monitor.
type App struct {
	coordinator *engine.Coordinator
	engine      *engine.Engine

	targets []model.HostTarget
	creds   model.Credentials

	// Run state
	fetching bool // true while a sweep, host run, fetch, or logon is in-flight
	spin     spinner.Model
	result   *model.AggregationResult
	findings []model.Finding
	history  *model.RunHistory
	lastRun  time.Time
	lastErr  error
	lastNote string

	thresholds Thresholds

	// Views
	activeView view
	results    ResultsTableModel
	hosts      TargetsTableModel

	// Modal overlays
	loginOpen    bool
	loginForm    LoginFormModel
	loginTarget  model.HostTarget
	logoffOpen   bool
	logoffTarget model.HostTarget

	// Live targets file reloads
	reloads        <-chan []model.HostTarget
	pendingTargets []model.HostTarget

	// Layout
	width, height int

	// UI state
	showHelp bool
}

// NewApp creates the root model. reloads may be nil when no targets file
// watcher is running.
func NewApp(coord *engine.Coordinator, eng *engine.Engine, targets []model.HostTarget, creds model.Credentials, reloads <-chan []model.HostTarget) *App {
	spin := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(colorCyan)),
	)
	app := &App{
		coordinator: coord,
		engine:      eng,
		targets:     targets,
		creds:       creds,
		spin:        spin,
		history:     model.NewRunHistory(0),
		thresholds:  DefaultThresholds,
		results:     NewResultsTable(),
		hosts:       NewTargetsTable(),
		reloads:     reloads,
	}
	app.hosts.SetTargets(targets)
	app.results.focused = true
	return app
}

// Init implements tea.Model. Starts the first sweep immediately on launch
// and arms the reload listener.
func (app *App) Init() tea.Cmd {
	cmds := []tea.Cmd{app.startSweep()}
	if app.reloads != nil {
		cmds = append(cmds, waitForReload(app.reloads))
	}
	return tea.Batch(cmds...)
}

// startSweep submits a full run unless one is already in flight.
func (app *App) startSweep() tea.Cmd {
	if app.fetching {
		return nil
	}
	app.fetching = true
	handle := app.coordinator.Submit(app.targets, app.creds)
	return tea.Batch(app.spin.Tick, waitForRun(handle))
}

// startHostRun submits a run restricted to one host.
func (app *App) startHostRun(target model.HostTarget) tea.Cmd {
	if app.fetching {
		return nil
	}
	app.fetching = true
	handle := app.coordinator.Submit([]model.HostTarget{target}, app.creds)
	host := target.Host
	return tea.Batch(app.spin.Tick, func() tea.Msg {
		c := handle.Wait()
		return HostRunMsg{Host: host, Result: c.Result, Err: c.Err}
	})
}

// waitForRun blocks on the handle and forwards the completion.
func waitForRun(h *engine.Handle) tea.Cmd {
	return func() tea.Msg {
		c := h.Wait()
		return RunResultMsg{Result: c.Result, Err: c.Err}
	}
}

// waitForReload forwards the next target set from the watcher channel.
func waitForReload(ch <-chan []model.HostTarget) tea.Cmd {
	return func() tea.Msg {
		targets, ok := <-ch
		if !ok {
			return nil
		}
		return TargetsReloadedMsg{Targets: targets}
	}
}

// Update implements tea.Model, the single state-mutation entry point.
func (app *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		app.width = msg.Width
		app.height = msg.Height

	case spinner.TickMsg:
		if !app.fetching {
			return app, nil
		}
		var cmd tea.Cmd
		app.spin, cmd = app.spin.Update(msg)
		return app, cmd

	case RunResultMsg:
		app.fetching = false
		if msg.Err != nil {
			app.lastErr = msg.Err
			app.lastNote = "sweep failed: " + msg.Err.Error()
		} else {
			app.lastErr = nil
			app.result = msg.Result
			app.findings = engine.Findings(app.targets, app.creds, msg.Result)
			app.lastRun = time.Now()
			app.history.Push(model.RunSample{
				At:            app.lastRun,
				TotalSum:      msg.Result.TotalSum,
				TotalCalls:    msg.Result.TotalCalls,
				FailedRegions: len(msg.Result.FailedRegions),
			})
			app.results.SetResult(msg.Result)
			app.hosts.ApplySums(msg.Result.ByHost)
			app.lastNote = runSummary(msg.Result)
		}
		app.applyPendingTargets()

	case HostRunMsg:
		app.fetching = false
		if msg.Err != nil {
			app.lastErr = msg.Err
			app.lastNote = fmt.Sprintf("%s: run failed: %v", msg.Host, msg.Err)
		} else {
			app.lastErr = nil
			app.hosts.ApplySums(msg.Result.ByHost)
			app.lastNote = fmt.Sprintf("%s: %s", msg.Host, runSummary(msg.Result))
		}
		app.applyPendingTargets()

	case RegionFetchMsg:
		app.fetching = false
		app.lastNote = fmt.Sprintf("%s/%s: %s", msg.Host, msg.Region, msg.Outcome.Describe())
		app.applyPendingTargets()

	case LogonResultMsg:
		app.fetching = false
		if msg.Err != nil {
			app.lastNote = fmt.Sprintf("login %s: %v", msg.Host, msg.Err)
		} else {
			app.lastNote = fmt.Sprintf("login %s: session established", msg.Host)
		}

	case LogoffResultMsg:
		app.fetching = false
		if msg.Err != nil {
			app.lastNote = fmt.Sprintf("logoff %s: %v", msg.Host, msg.Err)
		} else {
			app.lastNote = fmt.Sprintf("logoff %s: session released", msg.Host)
		}

	case TargetsReloadedMsg:
		app.pendingTargets = msg.Targets
		if !app.fetching {
			app.applyPendingTargets()
		}
		if app.reloads != nil {
			return app, waitForReload(app.reloads)
		}

	case tea.KeyMsg:
		return app.handleKey(msg)
	}

	return app, nil
}

// applyPendingTargets installs a reloaded target set. Installation is
// deferred while a run is in flight so a sweep never mixes two generations
// of targets.
func (app *App) applyPendingTargets() {
	if app.pendingTargets == nil {
		return
	}
	app.targets = app.pendingTargets
	app.pendingTargets = nil
	app.hosts.SetTargets(app.targets)
	app.lastNote = fmt.Sprintf("targets reloaded (%d hosts)", len(app.targets))
}

// handleKey routes keyboard input. Modal overlays and a live filter prompt
// capture input before the global bindings apply.
func (app *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return app, tea.Quit
	}

	if app.loginOpen {
		var cmd tea.Cmd
		app.loginForm, cmd = app.loginForm.Update(msg)
		if app.loginForm.cancelled {
			app.loginOpen = false
			return app, nil
		}
		if app.loginForm.submitted {
			app.loginOpen = false
			creds := app.loginForm.credentials()
			if !creds.Valid() {
				app.lastNote = "login needs both user and password"
				return app, nil
			}
			app.creds = creds
			app.fetching = true
			return app, tea.Batch(app.spin.Tick, logonCmd(app.engine.Sessions(), app.loginTarget, creds))
		}
		return app, cmd
	}

	if app.logoffOpen {
		switch msg.String() {
		case "y", "Y":
			app.logoffOpen = false
			app.fetching = true
			return app, tea.Batch(app.spin.Tick, logoffCmd(app.engine.Sessions(), app.logoffTarget))
		case "n", "N", "esc":
			app.logoffOpen = false
		}
		return app, nil
	}

	if app.activeView == viewResults && app.results.searching {
		var cmd tea.Cmd
		app.results, cmd = app.results.Update(msg)
		return app, cmd
	}
	if app.activeView == viewTargets && app.hosts.searching {
		var cmd tea.Cmd
		app.hosts, cmd = app.hosts.Update(msg)
		return app, cmd
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return app, tea.Quit

	case key.Matches(msg, keys.Help):
		app.showHelp = !app.showHelp
		return app, nil

	case key.Matches(msg, keys.Run):
		return app, app.startSweep()

	case key.Matches(msg, keys.Tab):
		app.setView((app.activeView + 1) % numViews)
		return app, nil

	case key.Matches(msg, keys.ShiftTab):
		app.setView((app.activeView + numViews - 1) % numViews)
		return app, nil

	case key.Matches(msg, keys.Login):
		if target, ok := app.hosts.SelectedTarget(); ok {
			app.loginTarget = target
			app.loginForm = newLoginForm(target, app.creds)
			app.loginOpen = true
		}
		return app, nil

	case key.Matches(msg, keys.Logoff):
		if target, ok := app.hosts.SelectedTarget(); ok {
			app.logoffTarget = target
			app.logoffOpen = true
		}
		return app, nil
	}

	// View-scoped keys.
	switch app.activeView {
	case viewTargets:
		switch {
		case key.Matches(msg, keys.Enter):
			if target, ok := app.hosts.SelectedTarget(); ok && target.Queryable() {
				return app, app.startHostRun(target)
			}
			return app, nil
		case key.Matches(msg, keys.Fetch):
			if target, region, ok := app.hosts.SelectedRegion(); ok && !app.fetching {
				app.fetching = true
				return app, tea.Batch(app.spin.Tick, fetchRegionCmd(app.engine, target, region, app.creds))
			}
			return app, nil
		}
		var cmd tea.Cmd
		app.hosts, cmd = app.hosts.Update(msg)
		return app, cmd

	case viewResults:
		var cmd tea.Cmd
		app.results, cmd = app.results.Update(msg)
		return app, cmd
	}

	return app, nil
}

// setView switches the active tab and moves table focus with it.
func (app *App) setView(v view) {
	app.activeView = v
	app.results.focused = v == viewResults
	app.hosts.focused = v == viewTargets
}

// View implements tea.Model. Renders the full TUI.
func (app *App) View() string {
	if app.loginOpen {
		return strings.Join([]string{renderHeader(app), renderLoginForm(app), renderFooter(app)}, "\n")
	}
	if app.logoffOpen {
		return strings.Join([]string{renderHeader(app), renderLogoffConfirm(app), renderFooter(app)}, "\n")
	}

	var body string
	switch app.activeView {
	case viewTargets:
		body = app.hosts.renderTable(app)
	case viewSummary:
		body = renderSummary(app)
	default:
		body = app.results.renderTable(app)
	}

	return strings.Join([]string{renderHeader(app), renderTabs(app), body, renderFooter(app)}, "\n")
}

// renderTabs renders the view switcher line.
func renderTabs(app *App) string {
	names := []string{"Results", "Targets", "Summary"}
	parts := make([]string, len(names))
	for i, name := range names {
		if view(i) == app.activeView {
			parts[i] = lipgloss.NewStyle().Bold(true).Foreground(colorBlue).Render("[" + name + "]")
		} else {
			parts[i] = StyleDim.Render(" " + name + " ")
		}
	}
	return strings.Join(parts, " ")
}

// runSummary builds the footer digest for a finished run.
func runSummary(result *model.AggregationResult) string {
	if result == nil {
		return ""
	}
	note := fmt.Sprintf("%d PCTs, total %s, %d calls",
		len(result.ByPctName), format.FormatCount(result.TotalSum), result.TotalCalls)
	if len(result.FailedRegions) > 0 {
		note += fmt.Sprintf(", %d failed", len(result.FailedRegions))
	}

	digest := make([]string, 0, len(result.ByRegion))
	for _, rc := range model.SortCounts(result.ByRegion) {
		digest = append(digest, rc.Name+"="+format.FormatCompact(rc.Count))
	}
	const maxDigest = 4
	if len(digest) > maxDigest {
		digest = append(digest[:maxDigest], "...")
	}
	if len(digest) > 0 {
		note += "  [" + strings.Join(digest, " ") + "]"
	}
	return note
}

// frame returns the usable terminal dimensions with fallbacks for the state
// before the first WindowSizeMsg arrives.
func (app *App) frame() (int, int) {
	width := app.width
	if width <= 0 {
		width = 80
	}
	height := app.height
	if height <= 0 {
		height = 24
	}
	return width, height
}

// sanitize strips control characters so remote-supplied names cannot break
// the terminal layout.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 32 || r == 127 {
			return -1
		}
		return r
	}, s)
}

// modalTitle renders the dark title bar used by the modal overlays.
func modalTitle(width int, title, hint string) string {
	h := StyleDim.Render(hint)
	innerWidth := width - 2
	gap := innerWidth - lipgloss.Width(title) - lipgloss.Width(h)
	if gap < 1 {
		gap = 1
	}
	return StyleHeader.Width(width).Render(title + strings.Repeat(" ", gap) + h)
}
