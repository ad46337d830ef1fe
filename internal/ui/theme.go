package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/stockboard/internal/inventory"
	"github.com/five82/stockboard/internal/prefs"
)

// Theme defines colors and styles for the UI.
type Theme struct {
	Name string

	// Base colors
	Background string
	Surface    string
	Border     string

	// Text colors
	Text      string
	Muted     string
	Faint     string
	Accent    string
	AccentAlt string
	Success   string
	Warning   string
	Danger    string

	// Pills maps a status to its foreground/background pair.
	Pills map[inventory.Status]Pill
	// UnknownPill is used for statuses outside the known set.
	UnknownPill Pill
}

// Pill is the colour pair for one status badge.
type Pill struct {
	Fg string
	Bg string
}

// Styles returns Lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	return Styles{
		Background: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Background)),

		Surface: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Text)),

		Text: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Text)),

		MutedText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)),

		FaintText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Faint)),

		AccentText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)),

		SuccessText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Success)).
			Bold(true),

		WarningText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Warning)),

		DangerText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Danger)).
			Bold(true),

		Title: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)).
			Bold(true),

		Header: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Text)).
			Padding(0, 1),

		Footer: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)).
			Padding(0, 1),

		GridHeader: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.AccentAlt)).
			Bold(true).
			Padding(0, 1).
			Align(lipgloss.Center),

		StoreCell: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Text)).
			Bold(true).
			Padding(0, 1),

		Border: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Border)),

		pills:   t.Pills,
		unknown: t.UnknownPill,
	}
}

// Styles contains pre-built Lipgloss styles for the theme.
type Styles struct {
	Background lipgloss.Style
	Surface    lipgloss.Style

	Text        lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	AccentText  lipgloss.Style
	SuccessText lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style

	Title      lipgloss.Style
	Header     lipgloss.Style
	Footer     lipgloss.Style
	GridHeader lipgloss.Style
	StoreCell  lipgloss.Style
	Border     lipgloss.Style

	pills   map[inventory.Status]Pill
	unknown Pill
}

// pillWidth fits the widest label ("SOLD OUT") with padding.
const pillWidth = 10

// StatusStyle returns the badge style for status.
func (s Styles) StatusStyle(status inventory.Status) lipgloss.Style {
	pill, ok := s.pills[status]
	if !ok {
		pill = s.unknown
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(pill.Fg)).
		Background(lipgloss.Color(pill.Bg)).
		Bold(true).
		Width(pillWidth).
		Align(lipgloss.Center)
}

var themes = map[string]Theme{
	prefs.ThemeLight: lightTheme(),
	prefs.ThemeDark:  darkTheme(),
}

// GetTheme returns a theme by name. An unknown or empty name picks one from
// the terminal background.
func GetTheme(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	if lipgloss.HasDarkBackground() {
		return darkTheme()
	}
	return lightTheme()
}

// NextTheme returns the other theme name.
func NextTheme(current string) string {
	if current == prefs.ThemeDark {
		return prefs.ThemeLight
	}
	return prefs.ThemeDark
}

func lightTheme() Theme {
	// Tailwind gray/indigo palette: https://tailwindcss.com/docs/colors
	return Theme{
		Name: prefs.ThemeLight,

		Background: "#FFFFFF",
		Surface:    "#F3F4F6", // gray-100
		Border:     "#E5E7EB", // gray-200

		Text:      "#1F2937", // gray-800
		Muted:     "#6B7280", // gray-500
		Faint:     "#9CA3AF", // gray-400
		Accent:    "#6366F1", // indigo-500
		AccentAlt: "#9333EA", // purple-600
		Success:   "#16A34A", // green-600
		Warning:   "#D97706", // amber-600
		Danger:    "#EF4444", // red-500

		Pills: map[inventory.Status]Pill{
			inventory.InStock: {Fg: "#166534", Bg: "#DCFCE7"}, // green-800 on green-100
			inventory.SoldOut: {Fg: "#991B1B", Bg: "#FEE2E2"}, // red-800 on red-100
			inventory.PreSale: {Fg: "#92400E", Bg: "#FEF3C7"}, // amber-800 on amber-100
		},
		UnknownPill: Pill{Fg: "#4B5563", Bg: "#F3F4F6"},
	}
}

func darkTheme() Theme {
	return Theme{
		Name: prefs.ThemeDark,

		Background: "#111827", // gray-900
		Surface:    "#1F2937", // gray-800
		Border:     "#374151", // gray-700

		Text:      "#E5E7EB", // gray-200
		Muted:     "#9CA3AF", // gray-400
		Faint:     "#4B5563", // gray-600
		Accent:    "#818CF8", // indigo-400
		AccentAlt: "#C084FC", // purple-400
		Success:   "#4ADE80", // green-400
		Warning:   "#FBBF24", // amber-400
		Danger:    "#F87171", // red-400

		Pills: map[inventory.Status]Pill{
			inventory.InStock: {Fg: "#86EFAC", Bg: "#14532D"}, // green-300 on green-900
			inventory.SoldOut: {Fg: "#FCA5A5", Bg: "#7F1D1D"}, // red-300 on red-900
			inventory.PreSale: {Fg: "#FCD34D", Bg: "#78350F"}, // amber-300 on amber-900
		},
		UnknownPill: Pill{Fg: "#9CA3AF", Bg: "#374151"},
	}
}
