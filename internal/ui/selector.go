package ui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/stockboard/internal/locale"
)

// selectorState is the product picker's cursor and working copy of the
// hidden set. Changes apply to prefs when the picker closes.
type selectorState struct {
	products []string
	hidden   map[string]bool
	cursor   int
}

func (m *Model) openSelector() {
	products := m.state.Snapshot.Products
	hidden := make(map[string]bool, len(m.prefs.HiddenProducts))
	for _, p := range m.prefs.HiddenProducts {
		hidden[p] = true
	}
	m.selector = selectorState{products: products, hidden: hidden}
	m.overlay = overlayProducts
}

func (m Model) handleSelectorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	sel := &m.selector
	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if sel.cursor > 0 {
			sel.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if sel.cursor < len(sel.products)-1 {
			sel.cursor++
		}
	case key.Matches(msg, m.keys.Toggle):
		if sel.cursor < len(sel.products) {
			name := sel.products[sel.cursor]
			sel.hidden[name] = !sel.hidden[name]
		}
	case key.Matches(msg, m.keys.SelectAll):
		clear(sel.hidden)
	case key.Matches(msg, m.keys.ClearAll):
		for _, name := range sel.products {
			sel.hidden[name] = true
		}
	case key.Matches(msg, m.keys.Confirm), key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Products):
		m.closeSelector()
	}
	return m, nil
}

// closeSelector writes the picker's choices back to prefs. Products hidden
// earlier that are absent from the current snapshot stay hidden.
func (m *Model) closeSelector() {
	m.overlay = overlayNone

	inSnapshot := make(map[string]bool, len(m.selector.products))
	for _, name := range m.selector.products {
		inSnapshot[name] = true
	}
	var hidden []string
	for _, name := range m.prefs.HiddenProducts {
		if !inSnapshot[name] {
			hidden = append(hidden, name)
		}
	}
	for _, name := range m.selector.products {
		if m.selector.hidden[name] {
			hidden = append(hidden, name)
		}
	}

	if slices.Equal(hidden, m.prefs.HiddenProducts) {
		return
	}
	m.prefs.HiddenProducts = hidden
	m.updateGrid()
	m.savePrefs()
}

func (m Model) renderSelector() string {
	styles := m.theme.Styles()
	sel := m.selector

	var b strings.Builder
	b.WriteString(styles.Title.Render(locale.Text(locale.SelectProducts)))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", modalWidth-6)))
	b.WriteString("\n\n")

	for i, name := range sel.products {
		mark := "[x]"
		markStyle := styles.SuccessText
		if sel.hidden[name] {
			mark = "[ ]"
			markStyle = styles.FaintText
		}
		label := truncate(singleLine(name), modalWidth-12)
		line := fmt.Sprintf("%s %s", markStyle.Render(mark), styles.Text.Render(label))
		if i == sel.cursor {
			line = styles.AccentText.Render("› ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	hints := []string{
		hint(styles, m.keys.Toggle),
		hint(styles, m.keys.SelectAll),
		hint(styles, m.keys.ClearAll),
		hint(styles, m.keys.Confirm),
	}
	b.WriteString(strings.Join(hints, "  "))

	return m.renderModal(b.String())
}

func hint(styles Styles, b key.Binding) string {
	h := b.Help()
	return styles.AccentText.Render(h.Key) + " " + styles.MutedText.Render(h.Desc)
}

// renderModal centers content in a bordered box over the full screen.
func (m Model) renderModal(content string) string {
	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(1, 2).
		Width(modalWidth)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		modal.Render(content),
		lipgloss.WithWhitespaceChars(" "),
	)
}
