package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/manufgue/Monitor/internal/model"
	"github.com/manufgue/Monitor/internal/session"
)

// LoginFormModel is the two-field credential form shown when the user asks
// for an explicit logon against the selected host.
type LoginFormModel struct {
	host    string
	port    int
	fields  []textinput.Model // 0=user, 1=password
	focused int

	submitted bool
	cancelled bool
}

// newLoginForm builds the form prefilled from the current credentials.
func newLoginForm(target model.HostTarget, creds model.Credentials) LoginFormModel {
	user := textinput.New()
	user.Placeholder = "user"
	user.CharLimit = 64
	user.SetValue(creds.User)
	user.Focus()

	pass := textinput.New()
	pass.Placeholder = "password"
	pass.CharLimit = 64
	pass.EchoMode = textinput.EchoPassword
	pass.EchoCharacter = '•'
	pass.SetValue(creds.Password)

	return LoginFormModel{
		host:   target.Host,
		port:   target.EffectivePort(),
		fields: []textinput.Model{user, pass},
	}
}

// Update handles the form protocol: enter submits, esc cancels, tab and the
// arrows move focus, everything else feeds the focused input.
func (m LoginFormModel) Update(msg tea.Msg) (LoginFormModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.fields[m.focused], cmd = m.fields[m.focused].Update(msg)
		return m, cmd
	}

	switch keyMsg.String() {
	case "esc":
		m.cancelled = true
		return m, nil
	case "enter":
		m.submitted = true
		return m, nil
	case "up", "shift+tab":
		m.fields[m.focused].Blur()
		m.focused = (m.focused + len(m.fields) - 1) % len(m.fields)
		m.fields[m.focused].Focus()
		return m, textinput.Blink
	case "down", "tab":
		m.fields[m.focused].Blur()
		m.focused = (m.focused + 1) % len(m.fields)
		m.fields[m.focused].Focus()
		return m, textinput.Blink
	default:
		var cmd tea.Cmd
		m.fields[m.focused], cmd = m.fields[m.focused].Update(msg)
		return m, cmd
	}
}

// credentials returns the entered user/password pair.
func (m LoginFormModel) credentials() model.Credentials {
	return model.Credentials{User: m.fields[0].Value(), Password: m.fields[1].Value()}
}

// logonCmd performs an explicit logon against one host and reports the
// result.
func logonCmd(sessions *session.Manager, target model.HostTarget, creds model.Credentials) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		_, err := sessions.Logon(ctx, target, creds)
		return LogonResultMsg{Host: target.Host, Err: err}
	}
}

// renderLoginForm renders the credential modal between header and footer.
func renderLoginForm(app *App) string {
	width, height := app.frame()
	form := &app.loginForm

	titleBar := modalTitle(width,
		fmt.Sprintf("Login to %s:%d", sanitize(form.host), form.port),
		"[enter: login  tab: next field  esc: cancel]")

	headerH := lipgloss.Height(renderHeader(app))
	footerH := lipgloss.Height(renderFooter(app))
	availH := height - headerH - lipgloss.Height(titleBar) - footerH
	if availH < 1 {
		availH = 1
	}

	labels := []string{"User", "Password"}
	lines := []string{""}
	for i, f := range form.fields {
		row := fmt.Sprintf("  %-12s%s", labels[i], f.View())
		if i == form.focused {
			row = lipgloss.NewStyle().Background(colorSelectedBg).Width(width - 2).Render(row)
		}
		lines = append(lines, row)
	}
	for len(lines) < availH {
		lines = append(lines, "")
	}
	return titleBar + "\n" + strings.Join(lines[:availH], "\n")
}
