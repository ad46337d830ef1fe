package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/stockboard/internal/locale"
)

// renderHelp renders the help overlay.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()

	sections := []helpSection{
		{title: locale.Text(locale.HeaderTitle), bindings: []key.Binding{m.keys.Refresh, m.keys.ToggleTheme, m.keys.Products, m.keys.Logs}},
		{title: locale.Text(locale.Scroll), bindings: []key.Binding{m.keys.Up, m.keys.Down, m.keys.Escape}},
		{title: locale.Text(locale.SelectProducts), bindings: []key.Binding{m.keys.Toggle, m.keys.SelectAll, m.keys.ClearAll, m.keys.Confirm}},
		{title: locale.Text(locale.Help), bindings: []key.Binding{m.keys.Suspend, m.keys.Help, m.keys.Quit}},
	}

	var b strings.Builder

	b.WriteString(styles.Text.Bold(true).Render(locale.Text(locale.Help)))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", modalWidth-6)))
	b.WriteString("\n\n")

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.Warning)).
		Width(10)

	for i, section := range sections {
		b.WriteString(styles.AccentText.Bold(true).Render(section.title))
		b.WriteString("\n")

		for _, binding := range section.bindings {
			h := binding.Help()
			b.WriteString(keyStyle.Render(h.Key))
			b.WriteString(styles.Text.Render(h.Desc))
			b.WriteString("\n")
		}

		if i < len(sections)-1 {
			b.WriteString("\n")
		}
	}

	return m.renderModal(b.String())
}

type helpSection struct {
	title    string
	bindings []key.Binding
}
