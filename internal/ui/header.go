package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/stockboard/internal/locale"
)

// renderMain renders the header, body and footer.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderStatusLine())
	b.WriteString("\n")

	if m.overlay == overlayLogs {
		b.WriteString(m.logView.View())
	} else {
		b.WriteString(m.renderBody())
	}
	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

// renderHeader renders the title bar: title, last-updated label and the
// sync indicator on the right.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Surface)

	left := []string{bg.Render(locale.Text(locale.HeaderTitle), styles.Title)}
	if snap := m.state.Snapshot; snap != nil {
		label := fmt.Sprintf("%s: %s", locale.Text(locale.LastUpdated), snap.LastUpdated)
		left = append(left, bg.Render(label, styles.MutedText))
	}
	leftText := bg.Join(left, 3)

	right := bg.Join(m.syncIndicators(styles, bg), 2)

	gap := m.width - 2 - lipgloss.Width(leftText) - lipgloss.Width(right)
	line := bg.FillLine(leftText+bg.Spaces(gap)+right, max(m.width-2, 0))
	return styles.Header.Width(m.width).Render(line)
}

// syncIndicators lists the header badges for the current sync state.
func (m Model) syncIndicators(styles Styles, bg BgStyle) []string {
	st := m.state
	var parts []string

	if st.Fetching {
		parts = append(parts, m.spinner.View()+bg.Space()+bg.Render(locale.Text(locale.Fetching), styles.AccentText))
	}
	if st.Paused {
		parts = append(parts, bg.Render(locale.Text(locale.Paused), styles.WarningText.Bold(true)))
	}
	switch {
	case st.IsOffline():
		parts = append(parts, bg.Render(locale.Text(locale.Offline), styles.DangerText))
	case st.HasError && st.Snapshot != nil:
		parts = append(parts, bg.Render(truncate(st.LastError, 40), styles.DangerText))
	}
	if st.FromFallback {
		parts = append(parts, bg.Render(locale.Text(locale.SampleData), styles.WarningText))
	}
	return parts
}

// renderStatusLine shows the source, the poll cadence and when the last
// attempt happened. A flash message takes its place briefly.
func (m Model) renderStatusLine() string {
	styles := m.theme.Styles()

	if m.flash != "" {
		return styles.Footer.Render(styles.WarningText.Render(m.flash))
	}

	var parts []string
	if m.sourceURL != "" {
		parts = append(parts, styles.FaintText.Render(truncate(m.sourceURL, max(m.width/2, 20))))
	}
	if m.interval > 0 {
		parts = append(parts, styles.FaintText.Render(fmt.Sprintf("%ds", int(m.interval.Seconds()))))
	}
	if !m.state.LastAttempt.IsZero() {
		ago := humanizeAgo(m.clock.Sub(m.state.LastAttempt))
		parts = append(parts, styles.MutedText.Render(fmt.Sprintf("%s: %s", locale.Text(locale.LastChecked), ago)))
	}
	if m.state.IsOffline() {
		parts = append(parts, styles.DangerText.Render(truncate(m.state.LastError, 60)))
	}
	return styles.Footer.Render(strings.Join(parts, styles.FaintText.Render(" · ")))
}

func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	return styles.Footer.Render(m.help.View(m.keys))
}
