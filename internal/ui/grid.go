package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/five82/stockboard/internal/inventory"
	"github.com/five82/stockboard/internal/locale"
)

// missingCell marks a product a store does not list.
const missingCell = "-"

// renderBody renders whatever is under the header: a spinner until the first
// result, the error when there is nothing to show, or the grid.
func (m Model) renderBody() string {
	styles := m.theme.Styles()
	st := m.state
	height := max(m.height-chromeHeight, 1)

	var content string
	switch {
	case st.Snapshot != nil:
		return m.grid.View()
	case st.HasError:
		content = styles.DangerText.Render("Error: " + st.LastError)
	default:
		content = m.spinner.View() + " " + styles.MutedText.Render(locale.Text(locale.Loading))
	}
	return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, content)
}

// updateGrid re-renders the grid into its viewport.
func (m *Model) updateGrid() {
	if !m.ready || m.state.Snapshot == nil {
		return
	}
	styles := m.theme.Styles()
	products := m.prefs.VisibleProducts(m.state.Snapshot.Products)

	var b strings.Builder
	if len(products) == 0 {
		b.WriteString(styles.MutedText.Render(locale.Text(locale.NoProducts)))
	} else {
		b.WriteString(renderGrid(*m.state.Snapshot, products, styles))
	}
	b.WriteString("\n\n")
	b.WriteString(styles.MutedText.Width(max(m.width-2, 20)).Render(locale.Text(locale.FooterNote)))

	m.grid.SetContent(b.String())
}

// gridCells lays the snapshot out as display rows plus the status behind
// each cell. Stores keep document order; columns follow products.
func gridCells(snap inventory.Snapshot, products []string) ([][]string, [][]*inventory.Status) {
	rows := make([][]string, 0, len(snap.Stores))
	statuses := make([][]*inventory.Status, 0, len(snap.Stores))
	for _, store := range snap.Stores {
		row := make([]string, 0, len(products)+1)
		rowStatus := make([]*inventory.Status, 0, len(products)+1)
		row = append(row, store.Name)
		rowStatus = append(rowStatus, nil)
		for _, product := range products {
			st, ok := store.StatusOf(product)
			if !ok {
				row = append(row, missingCell)
				rowStatus = append(rowStatus, nil)
				continue
			}
			row = append(row, locale.StatusLabel(st))
			rowStatus = append(rowStatus, &st)
		}
		rows = append(rows, row)
		statuses = append(statuses, rowStatus)
	}
	return rows, statuses
}

// renderGrid draws the store × product table with status pills.
func renderGrid(snap inventory.Snapshot, products []string, styles Styles) string {
	headers := append([]string{locale.Text(locale.StoreName)}, products...)
	rows, statuses := gridCells(snap, products)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styles.Border).
		BorderRow(true).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return styles.GridHeader
			case col == 0:
				return styles.StoreCell
			}
			if row < 0 || row >= len(statuses) || col >= len(statuses[row]) {
				return styles.FaintText
			}
			st := statuses[row][col]
			if st == nil {
				return styles.FaintText.Width(pillWidth).Align(lipgloss.Center)
			}
			return styles.StatusStyle(*st)
		})

	return t.Render()
}
