package historyui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/tuilift/internal/model"
	"github.com/verte-zerg/tuilift/internal/stats"
)

var sessionColumnWidths = []int{10, 24, 9, 5, 9, 8}

func buildSessionTableData(sessions []model.WorkoutSession) ([]table.Column, []table.Row) {
	columns := make([]table.Column, len(stats.HistoryHeaders))
	for i, title := range stats.HistoryHeaders {
		columns[i] = table.Column{Title: title, Width: sessionColumnWidths[i]}
	}
	raw := stats.HistoryRows(sessions)
	rows := make([]table.Row, len(raw))
	for i, r := range raw {
		rows[i] = table.Row(r)
	}
	return columns, rows
}

func buildSessionTable(sessions []model.WorkoutSession, width, height int) table.Model {
	cols, rows := buildSessionTableData(sessions)
	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithHeight(max(1, height-1)),
		table.WithFocused(true),
	)
	t.SetWidth(width)
	t.SetStyles(sessionTableStyles())
	return t
}

func (m *Model) applySessionTable(force bool) {
	cols, rows := buildSessionTableData(m.report.Sessions)
	if !force && m.tableLayout.rowCount == len(rows) {
		return
	}
	m.sessionTable.SetColumns(cols)
	m.sessionTable.SetRows(rows)
	if m.sessionTable.Cursor() >= len(rows) {
		m.sessionTable.SetCursor(max(len(rows)-1, 0))
	}
	m.tableLayout.rowCount = len(rows)
	_, bodyHeight, _ := m.layoutHeights()
	m.tableLayout.width = 0
	m.setTableSize(max(m.width, 80), bodyHeight)
}

func (m *Model) setTableSize(width, height int) {
	viewportHeight := max(1, height-1)
	if m.tableLayout.width == width && m.tableLayout.height == viewportHeight {
		return
	}
	m.tableLayout.width = width
	m.tableLayout.height = viewportHeight
	m.sessionTable.SetWidth(width)
	m.sessionTable.SetHeight(viewportHeight)
	viewportHeight = m.adjustTableHeight(height)
	if m.tableLayout.height != viewportHeight {
		m.tableLayout.height = viewportHeight
		m.sessionTable.SetHeight(viewportHeight)
	}
}

func (m *Model) adjustTableHeight(bodyHeight int) int {
	target := max(1, bodyHeight)
	height := m.sessionTable.Height()
	viewHeight := lipgloss.Height(m.sessionTable.View())
	if viewHeight == target {
		return height
	}
	height = max(height+target-viewHeight, 1)
	m.sessionTable.SetHeight(height)
	viewHeight = lipgloss.Height(m.sessionTable.View())
	if viewHeight == target {
		return height
	}
	return max(height+target-viewHeight, 1)
}

func sessionTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}
