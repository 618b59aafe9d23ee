package tui

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/manufgue/Monitor/internal/model"
	"github.com/manufgue/Monitor/internal/session"
)

// logoffCmd releases the selected host's admin session and reports the
// result.
func logoffCmd(sessions *session.Manager, target model.HostTarget) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		err := sessions.Logoff(ctx, target)
		return LogoffResultMsg{Host: target.Host, Err: err}
	}
}

// renderLogoffConfirm renders the logoff confirmation dialog between header
// and footer.
func renderLogoffConfirm(app *App) string {
	width, height := app.frame()

	titleBar := modalTitle(width, "Logoff Confirmation", "[y: confirm  n/esc: cancel]")

	headerH := lipgloss.Height(renderHeader(app))
	footerH := lipgloss.Height(renderFooter(app))
	availH := height - headerH - lipgloss.Height(titleBar) - footerH
	if availH < 1 {
		availH = 1
	}

	host := sanitize(app.logoffTarget.Host)
	lines := []string{
		"",
		"  Release the admin session for " + StyleBlue.Render(host) + "?",
		"",
		"  " + StyleYellow.Render("Press y to confirm, n or esc to cancel."),
	}
	for len(lines) < availH {
		lines = append(lines, "")
	}
	return titleBar + "\n" + strings.Join(lines[:availH], "\n")
}
