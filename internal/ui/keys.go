package ui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/five82/stockboard/internal/locale"
	"github.com/five82/stockboard/internal/prefs"
)

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit        key.Binding
	Help        key.Binding
	Refresh     key.Binding
	ToggleTheme key.Binding
	Products    key.Binding
	Logs        key.Binding
	Suspend     key.Binding
	Escape      key.Binding

	// Navigation
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding

	// Product selector
	Toggle    key.Binding
	SelectAll key.Binding
	ClearAll  key.Binding
	Confirm   key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", locale.Text(locale.Quit)),
		),
		Help: key.NewBinding(
			key.WithKeys("h", "?"),
			key.WithHelp("h/?", locale.Text(locale.Help)),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", locale.Text(locale.RefreshData)),
		),
		ToggleTheme: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", locale.Text(locale.ThemeToDark)),
		),
		Products: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", locale.Text(locale.SelectProducts)),
		),
		Logs: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", locale.Text(locale.Diagnostics)),
		),
		Suspend: key.NewBinding(
			key.WithKeys("ctrl+z"),
			key.WithHelp("ctrl+z", locale.Text(locale.Suspend)),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", locale.Text(locale.GoBack)),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", locale.Text(locale.Scroll)),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", locale.Text(locale.Scroll)),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
		),

		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", locale.Text(locale.Toggle)),
		),
		SelectAll: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", locale.Text(locale.SelectAll)),
		),
		ClearAll: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", locale.Text(locale.ClearSelection)),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", locale.Text(locale.Close)),
		),
	}
}

// withThemeLabel points the theme binding's help at the mode it switches to.
func (k keyMap) withThemeLabel(current string) keyMap {
	label := locale.ThemeToDark
	if NextTheme(current) != prefs.ThemeDark {
		label = locale.ThemeToLight
	}
	k.ToggleTheme.SetHelp("t", locale.Text(label))
	return k
}

// ShortHelp returns key bindings for the footer.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Refresh, k.ToggleTheme, k.Products, k.Logs, k.Help, k.Quit}
}

// FullHelp returns key bindings for the help overlay.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Refresh, k.ToggleTheme, k.Products, k.Logs},
		{k.Up, k.Down, k.Escape},
		{k.Toggle, k.SelectAll, k.ClearAll, k.Confirm},
		{k.Suspend, k.Help, k.Quit},
	}
}
