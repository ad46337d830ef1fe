package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/stockboard/internal/locale"
	"github.com/five82/stockboard/internal/logtail"
)

// updateLogView renders the diagnostics entries into the log viewport and
// keeps it pinned to the newest line.
func (m *Model) updateLogView() {
	if !m.ready {
		return
	}
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(styles.Title.Render(locale.Text(locale.Diagnostics)))
	if m.logPath != "" {
		b.WriteString("  ")
		b.WriteString(styles.FaintText.Render(truncate(m.logPath, max(m.width-12, 20))))
	}
	b.WriteString("\n")

	switch {
	case m.logErr != nil:
		b.WriteString(styles.DangerText.Render(m.logErr.Error()))
	case len(m.logEntries) == 0:
		b.WriteString(styles.MutedText.Render(locale.Text(locale.NoLogs)))
	default:
		for _, entry := range m.logEntries {
			b.WriteString(formatEntry(entry, styles))
			b.WriteString("\n")
		}
	}

	m.logView.SetContent(b.String())
	m.logView.GotoBottom()
}

// formatEntry colors one log entry by level.
func formatEntry(e logtail.Entry, styles Styles) string {
	var parts []string
	if !e.Time.IsZero() {
		parts = append(parts, styles.FaintText.Render(e.Time.Local().Format("15:04:05")))
	}
	if e.Level != "" {
		parts = append(parts, levelStyle(e.Level, styles).Render(fmt.Sprintf("%-5s", e.Level)))
	}
	parts = append(parts, styles.Text.Render(e.Message))
	for _, f := range e.Fields {
		parts = append(parts, styles.MutedText.Render(f.Key+"=")+styles.AccentText.Render(f.Value))
	}
	return strings.Join(parts, " ")
}

func levelStyle(level string, styles Styles) lipgloss.Style {
	switch level {
	case "ERROR", "DPANIC", "PANIC", "FATAL":
		return styles.DangerText
	case "WARN":
		return styles.WarningText.Bold(true)
	case "INFO":
		return styles.SuccessText
	default:
		return styles.MutedText
	}
}
