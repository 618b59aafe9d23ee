package tui

// renderFooter renders the status line at full terminal width. When
// app.showHelp is true the full key binding reference replaces it.
func renderFooter(app *App) string {
	width := app.width
	if width <= 0 {
		width = 80
	}
	if app.showHelp {
		return StyleDim.Width(width).Render(helpText)
	}
	text := "? for help"
	if app.lastNote != "" {
		text = sanitize(app.lastNote) + "   (? for help)"
	}
	return StyleDim.Width(width).Render(text)
}
