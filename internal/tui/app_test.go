package tui

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manufgue/Monitor/internal/auth"
	"github.com/manufgue/Monitor/internal/client"
	"github.com/manufgue/Monitor/internal/engine"
	"github.com/manufgue/Monitor/internal/model"
	"github.com/manufgue/Monitor/internal/session"
)

// ansiRe matches the CSI color sequences lipgloss emits.
var ansiRe = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// stripANSI removes color escape codes so assertions see plain text.
func stripANSI(s string) string {
	return ansiRe.ReplaceAllString(s, "")
}

// stubClient satisfies client.RegionClient with a canned response.
type stubClient struct {
	fn func(ctx context.Context, target model.HostTarget, region, token string) client.Outcome
}

func (s stubClient) ActivePCT(ctx context.Context, target model.HostTarget, region, token string) client.Outcome {
	if s.fn != nil {
		return s.fn(ctx, target, region, token)
	}
	return client.Success(nil)
}

// stubAuth satisfies auth.Authenticator and always succeeds.
type stubAuth struct{}

func (stubAuth) Logon(ctx context.Context, host string, port int, creds model.Credentials) (auth.Session, error) {
	return auth.Session{Cookie: "cookie", IssuedAt: time.Now()}, nil
}

func (stubAuth) Logoff(ctx context.Context, host string, port int, session auth.Session) error {
	return nil
}

// newTestApp wires an App over a stub client and a live coordinator.
func newTestApp(t *testing.T, targets []model.HostTarget) *App {
	t.Helper()
	eng := engine.New(stubClient{}, session.NewManager(session.NewStore(), stubAuth{}))
	coord := engine.NewCoordinator(eng)
	t.Cleanup(coord.Close)
	return NewApp(coord, eng, targets, model.Credentials{}, nil)
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestApp_WindowSize(t *testing.T) {
	app := newTestApp(t, targetFixtures())
	updated, _ := app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	got := updated.(*App)
	assert.Equal(t, 120, got.width)
	assert.Equal(t, 40, got.height)
}

func TestApp_RunResultUpdatesState(t *testing.T) {
	app := newTestApp(t, targetFixtures())
	app.fetching = true

	updated, _ := app.Update(RunResultMsg{Result: makeResult()})
	got := updated.(*App)

	assert.False(t, got.fetching)
	require.NotNil(t, got.result)
	assert.Equal(t, 700, got.result.TotalSum)
	assert.Equal(t, 1, got.history.Len(), "completed run recorded in history")
	assert.False(t, got.lastRun.IsZero())
	assert.Len(t, got.results.displayRows, 3, "results table populated")
	assert.Contains(t, got.lastNote, "3 PCTs")
	assert.Empty(t, got.findings, "healthy run yields no advisories")
}

func TestApp_RunResultError(t *testing.T) {
	app := newTestApp(t, targetFixtures())
	app.fetching = true

	updated, _ := app.Update(RunResultMsg{Err: errors.New("worker crashed")})
	got := updated.(*App)

	assert.False(t, got.fetching)
	assert.Nil(t, got.result)
	assert.EqualError(t, got.lastErr, "worker crashed")
	assert.Zero(t, got.history.Len(), "failed run is not recorded")
}

func TestApp_HostRunUpdatesSums(t *testing.T) {
	app := newTestApp(t, targetFixtures())
	app.fetching = true

	updated, _ := app.Update(HostRunMsg{Host: "mf-prod-01", Result: makeResult()})
	got := updated.(*App)

	assert.False(t, got.fetching)
	assert.Nil(t, got.result, "single-host run must not replace the sweep result")
	assert.Equal(t, "700", got.hosts.sumCell(got.targets[0]), "host sum folded into the targets view")
	assert.Contains(t, got.lastNote, "mf-prod-01")
}

func TestApp_RegionFetchNote(t *testing.T) {
	app := newTestApp(t, targetFixtures())
	app.fetching = true

	outcome := client.Success([]model.PctRecord{{Name: "CICSPROD", Count: 3}})
	updated, _ := app.Update(RegionFetchMsg{Host: "h1", Region: "R1", Outcome: outcome})
	got := updated.(*App)

	assert.False(t, got.fetching)
	assert.Contains(t, got.lastNote, "h1/R1")
}

func TestApp_RunKeySetsFetching(t *testing.T) {
	app := newTestApp(t, targetFixtures())

	updated, cmd := app.Update(keyRune('r'))
	got := updated.(*App)
	assert.True(t, got.fetching)
	assert.NotNil(t, cmd)

	// A second r while in flight is a no-op.
	updated, cmd = got.Update(keyRune('r'))
	got = updated.(*App)
	assert.True(t, got.fetching)
	assert.Nil(t, cmd)
}

func TestApp_TabCyclesViews(t *testing.T) {
	app := newTestApp(t, targetFixtures())
	require.Equal(t, viewResults, app.activeView)

	tab := tea.KeyMsg{Type: tea.KeyTab}

	updated, _ := app.Update(tab)
	got := updated.(*App)
	assert.Equal(t, viewTargets, got.activeView)
	assert.True(t, got.hosts.focused)
	assert.False(t, got.results.focused)

	updated, _ = got.Update(tab)
	got = updated.(*App)
	assert.Equal(t, viewSummary, got.activeView)

	updated, _ = got.Update(tab)
	got = updated.(*App)
	assert.Equal(t, viewResults, got.activeView, "tab wraps around")
	assert.True(t, got.results.focused)
}

func TestApp_HelpToggle(t *testing.T) {
	app := newTestApp(t, targetFixtures())

	updated, _ := app.Update(keyRune('?'))
	got := updated.(*App)
	assert.True(t, got.showHelp)

	updated, _ = got.Update(keyRune('?'))
	got = updated.(*App)
	assert.False(t, got.showHelp)
}

func TestApp_QuitKey(t *testing.T) {
	app := newTestApp(t, targetFixtures())
	_, cmd := app.Update(keyRune('q'))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestApp_TargetsReloadAppliedWhenIdle(t *testing.T) {
	app := newTestApp(t, targetFixtures())

	fresh := []model.HostTarget{{Host: "new-host", Regions: []string{"R1"}}}
	updated, _ := app.Update(TargetsReloadedMsg{Targets: fresh})
	got := updated.(*App)

	require.Len(t, got.targets, 1)
	assert.Equal(t, "new-host", got.targets[0].Host)
	assert.Contains(t, got.lastNote, "targets reloaded")
}

func TestApp_TargetsReloadDeferredWhileFetching(t *testing.T) {
	app := newTestApp(t, targetFixtures())
	app.fetching = true

	fresh := []model.HostTarget{{Host: "new-host", Regions: []string{"R1"}}}
	updated, _ := app.Update(TargetsReloadedMsg{Targets: fresh})
	got := updated.(*App)

	assert.Len(t, got.targets, 3, "reload must wait for the run to finish")
	require.NotNil(t, got.pendingTargets)

	updated, _ = got.Update(RunResultMsg{Result: makeResult()})
	got = updated.(*App)
	require.Len(t, got.targets, 1, "pending targets applied after completion")
	assert.Equal(t, "new-host", got.targets[0].Host)
	assert.Nil(t, got.pendingTargets)
}

func TestApp_LoginFlow(t *testing.T) {
	app := newTestApp(t, targetFixtures())
	app.setView(viewTargets)

	updated, _ := app.Update(keyRune('l'))
	got := updated.(*App)
	require.True(t, got.loginOpen)
	assert.Equal(t, "mf-prod-01", got.loginTarget.Host)

	// Type a user, move to password, type a password, submit.
	for _, r := range "admin" {
		updated, _ = got.Update(keyRune(r))
		got = updated.(*App)
	}
	updated, _ = got.Update(tea.KeyMsg{Type: tea.KeyTab})
	got = updated.(*App)
	for _, r := range "hunter2" {
		updated, _ = got.Update(keyRune(r))
		got = updated.(*App)
	}
	updated, cmd := got.Update(tea.KeyMsg{Type: tea.KeyEnter})
	got = updated.(*App)

	assert.False(t, got.loginOpen)
	assert.True(t, got.fetching, "logon runs in the background")
	assert.NotNil(t, cmd)
	assert.Equal(t, "admin", got.creds.User)
	assert.Equal(t, "hunter2", got.creds.Password)
}

func TestApp_LoginRejectsIncomplete(t *testing.T) {
	app := newTestApp(t, targetFixtures())
	app.setView(viewTargets)

	updated, _ := app.Update(keyRune('l'))
	got := updated.(*App)
	require.True(t, got.loginOpen)

	// Submit with both fields empty.
	updated, _ = got.Update(tea.KeyMsg{Type: tea.KeyEnter})
	got = updated.(*App)

	assert.False(t, got.loginOpen)
	assert.False(t, got.fetching)
	assert.False(t, got.creds.Valid())
	assert.Contains(t, got.lastNote, "user and password")
}

func TestApp_LoginEscapeCancels(t *testing.T) {
	app := newTestApp(t, targetFixtures())
	app.setView(viewTargets)

	updated, _ := app.Update(keyRune('l'))
	got := updated.(*App)
	require.True(t, got.loginOpen)

	updated, _ = got.Update(tea.KeyMsg{Type: tea.KeyEscape})
	got = updated.(*App)
	assert.False(t, got.loginOpen)
	assert.False(t, got.fetching)
}

func TestApp_LogoffConfirm(t *testing.T) {
	app := newTestApp(t, targetFixtures())
	app.setView(viewTargets)

	updated, _ := app.Update(keyRune('L'))
	got := updated.(*App)
	require.True(t, got.logoffOpen)
	assert.Equal(t, "mf-prod-01", got.logoffTarget.Host)

	// n closes without acting.
	updated, _ = got.Update(keyRune('n'))
	got = updated.(*App)
	assert.False(t, got.logoffOpen)
	assert.False(t, got.fetching)

	// y confirms.
	updated, _ = got.Update(keyRune('L'))
	got = updated.(*App)
	updated, cmd := got.Update(keyRune('y'))
	got = updated.(*App)
	assert.False(t, got.logoffOpen)
	assert.True(t, got.fetching)
	assert.NotNil(t, cmd)
}

func TestApp_FetchRegionKey(t *testing.T) {
	app := newTestApp(t, targetFixtures())
	app.setView(viewTargets)

	updated, cmd := app.Update(keyRune('f'))
	got := updated.(*App)
	assert.True(t, got.fetching)
	assert.NotNil(t, cmd)
}

func TestApp_SearchCapturesGlobalKeys(t *testing.T) {
	app := newTestApp(t, targetFixtures())
	app.results.SetResult(makeResult())

	updated, _ := app.Update(keyRune('/'))
	got := updated.(*App)
	require.True(t, got.results.searching)

	// q while the filter prompt is open must type, not quit.
	updated, cmd := got.Update(keyRune('q'))
	got = updated.(*App)
	assert.True(t, got.results.searching)
	if cmd != nil {
		assert.NotEqual(t, tea.Quit(), cmd())
	}
	assert.Equal(t, "q", got.results.input.Value())
}

func TestApp_ViewSmoke(t *testing.T) {
	app := newTestApp(t, targetFixtures())
	app.width = 100
	app.height = 30
	app.results.SetResult(makeResult())
	app.result = makeResult()
	app.findings = engine.Findings(app.targets, app.creds, app.result)

	for _, v := range []view{viewResults, viewTargets, viewSummary} {
		app.setView(v)
		out := stripANSI(app.View())
		assert.NotEmpty(t, out)
		assert.Contains(t, out, "ES Monitor", "header present in view %d", v)
	}

	app.setView(viewTargets)
	app.loginTarget = app.targets[0]
	app.loginForm = newLoginForm(app.targets[0], app.creds)
	app.loginOpen = true
	assert.Contains(t, stripANSI(app.View()), "Login to mf-prod-01")
	app.loginOpen = false

	app.logoffTarget = app.targets[0]
	app.logoffOpen = true
	assert.Contains(t, stripANSI(app.View()), "Logoff Confirmation")
}
