package ui

import (
	"fmt"
	"strings"

	"carsync/internal/model"
	"carsync/internal/util"

	"github.com/charmbracelet/lipgloss"
)

type carColumn struct {
	key   string
	label string
	width int
}

// tableState is what the cars table needs from the store to render.
type tableState struct {
	sortKey   model.SortKey
	sortOrder model.SortOrder
	editor    *inlineEditor
	hasDraft  func(model.ID) bool
}

// CarsModel represents the cars list screen. Rows come from the store's
// display projection; the model only tracks the cursor.
type CarsModel struct {
	rows   []model.Car
	cursor int
	offset int

	viewportHeight int

	columns []carColumn
}

// NewCarsModel creates a new cars model.
func NewCarsModel() *CarsModel {
	return &CarsModel{
		columns: []carColumn{
			{key: "id", label: "#", width: 5},
			{key: "name", label: "name", width: 20},
			{key: "model", label: "model", width: 16},
			{key: string(model.SortYear), label: "year", width: 6},
			{key: string(model.SortPrice), label: "price", width: 12},
			{key: "color", label: "color", width: 10},
			{key: "coords", label: "coords", width: 18},
		},
	}
}

// SetRows replaces the rows, keeping the cursor on the same car when it is
// still present.
func (m *CarsModel) SetRows(rows []model.Car) {
	selected, ok := m.Selected()
	m.rows = rows
	if ok {
		for i, r := range rows {
			if r.ID == selected.ID {
				m.cursor = i
				break
			}
		}
	}
	m.clampCursor()
}

// Rows returns the rows in display order.
func (m *CarsModel) Rows() []model.Car {
	return m.rows
}

// Selected returns the car under the cursor.
func (m *CarsModel) Selected() (model.Car, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return model.Car{}, false
	}
	return m.rows[m.cursor], true
}

func (m *CarsModel) clampCursor() {
	if len(m.rows) == 0 {
		m.cursor = 0
		m.offset = 0
		return
	}
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.offset > m.cursor {
		m.offset = m.cursor
	}
	vh := m.viewportHeight
	if vh > 0 && m.cursor >= m.offset+vh {
		m.offset = m.cursor - vh + 1
	}
}

func (m *CarsModel) cell(row model.Car, key string) string {
	switch key {
	case "id":
		return row.ID.String()
	case "name":
		return util.FormatText(row.Name)
	case "model":
		return util.FormatText(row.Model)
	case "year":
		return util.FormatYear(row.Year)
	case "price":
		return util.FormatPrice(row.Price)
	case "color":
		return util.FormatText(row.Color)
	case "coords":
		return util.FormatCoords(row.Latitude, row.Longitude)
	default:
		return ""
	}
}

func formatHeaderLabel(label string) string {
	return strings.ToUpper(label)
}

func sortIndicator(order model.SortOrder) string {
	if order == model.SortDesc {
		return SortIndicatorStyle.Render(" ↓")
	}
	return SortIndicatorStyle.Render(" ↑")
}

func sortLabel(key model.SortKey, order model.SortOrder) string {
	if key == model.SortNone {
		return "unsorted"
	}
	return fmt.Sprintf("sort %s (%s)", strings.ToUpper(string(key)), order)
}

// View renders the cars table.
func (m *CarsModel) View(width, height int, st tableState) string {
	if len(m.rows) == 0 {
		emptyMsg := `    No cars yet.
    Press  a  to add your first car!`
		return EmptyStateStyle.
			Width(width).
			Height(height).
			Render(emptyMsg)
	}

	widths := make([]int, 0, len(m.columns))
	headers := make([]string, 0, len(m.columns))
	totalFixed := 0
	for _, col := range m.columns {
		label := formatHeaderLabel(col.label)
		if st.sortKey != model.SortNone && string(st.sortKey) == col.key {
			label += sortIndicator(st.sortOrder)
		}
		cellWidth := max(col.width+2, lipgloss.Width(label)+4)
		totalFixed += cellWidth
		widths = append(widths, cellWidth)
		headers = append(headers, label)
	}
	if extra := width - totalFixed - 2; extra > 0 {
		widths[len(widths)-1] += extra
	}

	header := renderTableRow(headers, widths, TableHeaderStyle)
	divider := renderTableDivider(widths)

	visibleHeight := max(1, height-3)
	m.viewportHeight = visibleHeight
	m.clampCursor()

	var rows []string
	for i := m.offset; i < len(m.rows) && i < m.offset+visibleHeight; i++ {
		row := m.rows[i]
		style := NormalRowStyle
		if i == m.cursor {
			style = SelectedRowStyle
		}

		editing := st.editor != nil && st.editor.id == row.ID
		cells := make([]string, 0, len(m.columns))
		for _, col := range m.columns {
			switch {
			case editing && col.key == "name":
				cells = append(cells, st.editor.inputs[0].View())
			case editing && col.key == "price":
				cells = append(cells, st.editor.inputs[1].View())
			case col.key == "id" && st.hasDraft != nil && st.hasDraft(row.ID):
				cells = append(cells, row.ID.String()+DraftMarkStyle.Render("*"))
			default:
				cells = append(cells, util.TruncateString(m.cell(row, col.key), col.width))
			}
		}
		rows = append(rows, renderTableRow(cells, widths, style))
	}

	rowPos := ""
	if len(m.rows) > 0 {
		rowPos = fmt.Sprintf("  ·  row %d/%d", m.cursor+1, len(m.rows))
	}
	status := StatusBarStyle.Render(fmt.Sprintf("%d cars%s  ·  %s", len(m.rows), rowPos, sortLabel(st.sortKey, st.sortOrder)))
	if st.editor != nil && st.editor.err != "" {
		status = lipgloss.JoinVertical(lipgloss.Left, ErrorStyle.Render(st.editor.err), status)
	}

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		divider,
		strings.Join(rows, "\n"),
	)
	statusHeight := lipgloss.Height(status)
	contentHeight := lipgloss.Height(content)
	spacerHeight := max(0, height-contentHeight-statusHeight)
	spacer := lipgloss.NewStyle().Height(spacerHeight).Render("")

	return lipgloss.JoinVertical(
		lipgloss.Left,
		content,
		spacer,
		status,
	)
}

func renderTableRow(cells []string, widths []int, style lipgloss.Style) string {
	var parts []string
	for i, cell := range cells {
		if i >= len(widths) {
			continue
		}
		parts = append(parts, style.Width(widths[i]).Render(cell))
	}
	return lipgloss.JoinHorizontal(lipgloss.Left, parts...)
}

func renderTableDivider(widths []int) string {
	total := 0
	for _, w := range widths {
		total += w
	}
	return DividerStyle.Render(strings.Repeat("─", total))
}

// MoveDown moves the cursor down.
func (m *CarsModel) MoveDown() {
	if m.cursor < len(m.rows)-1 {
		m.cursor++
		vh := m.viewportHeight
		if vh == 0 {
			vh = 10
		}
		if m.cursor >= m.offset+vh {
			m.offset++
		}
	}
}

// MoveUp moves the cursor up.
func (m *CarsModel) MoveUp() {
	if m.cursor > 0 {
		m.cursor--
		if m.cursor < m.offset {
			m.offset--
		}
	}
}

// JumpToTop jumps to the first item.
func (m *CarsModel) JumpToTop() {
	m.cursor = 0
	m.offset = 0
}

// JumpToBottom jumps to the last item.
func (m *CarsModel) JumpToBottom() {
	if len(m.rows) > 0 {
		m.cursor = len(m.rows) - 1
		vh := m.viewportHeight
		if vh == 0 {
			vh = 10
		}
		if m.cursor >= vh {
			m.offset = m.cursor - vh + 1
		}
	}
}

// HalfPageDown moves down half a page.
func (m *CarsModel) HalfPageDown(pageSize int) {
	if len(m.rows) == 0 {
		return
	}
	m.cursor += pageSize / 2
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	vh := m.viewportHeight
	if vh == 0 {
		vh = 10
	}
	if m.cursor >= m.offset+vh {
		m.offset = m.cursor - vh + 1
	}
}

// HalfPageUp moves up half a page.
func (m *CarsModel) HalfPageUp(pageSize int) {
	m.cursor -= pageSize / 2
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
}
