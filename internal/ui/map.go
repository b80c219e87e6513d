package ui

import (
	"fmt"
	"strings"

	"carsync/internal/geo"
	"carsync/internal/model"
	"carsync/internal/util"

	"github.com/charmbracelet/lipgloss"
)

// MapModel renders the geolocated cars as an ASCII map with a marker list.
type MapModel struct {
	cursor int
	offset int
}

// NewMapModel creates a new map model.
func NewMapModel() *MapModel {
	return &MapModel{}
}

func (m *MapModel) MoveDown(count int) {
	if m.cursor < count-1 {
		m.cursor++
	}
}

func (m *MapModel) MoveUp() {
	if m.cursor > 0 {
		m.cursor--
	}
}

func markerLabel(c model.Car) string {
	return fmt.Sprintf("%s %s  ·  %s  ·  %s  ·  %s",
		c.Name, c.Model, util.FormatYear(c.Year), util.FormatPrice(c.Price),
		util.FormatCoords(c.Latitude, c.Longitude))
}

// View renders the map tab.
func (m *MapModel) View(cars []model.Car, caps TerminalCapabilities, width, height int) string {
	markers := geo.Markers(cars)
	center := geo.Center(markers)

	summary := StatusBarStyle.Render(fmt.Sprintf("centre %.3f, %.3f  ·  %d of %d cars on map",
		center.Lat, center.Lng, len(markers), len(cars)))

	listHeight := min(len(markers), max(3, height/3))
	plotHeight := max(1, height-listHeight-3)
	plotWidth := max(1, width-2)

	plot := RenderMapImage(geo.Raster(markers, plotWidth*4, plotHeight*8), caps, plotWidth, plotHeight)
	plot = lipgloss.NewStyle().Height(plotHeight).MaxHeight(plotHeight).Render(strings.TrimRight(plot, "\n"))

	if len(markers) == 0 {
		empty := EmptyStateStyle.Render("No cars with coordinates yet.")
		return lipgloss.JoinVertical(lipgloss.Left, summary, plot, empty)
	}

	if m.cursor >= len(markers) {
		m.cursor = len(markers) - 1
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+listHeight {
		m.offset = m.cursor - listHeight + 1
	}

	var lines []string
	for i := m.offset; i < len(markers) && i < m.offset+listHeight; i++ {
		style := NormalRowStyle
		if i == m.cursor {
			style = SelectedRowStyle
		}
		line := MarkerStyle.Render("● ") + style.Render(util.TruncateString(markerLabel(markers[i].Car), max(10, width-4)))
		lines = append(lines, line)
	}

	return lipgloss.JoinVertical(lipgloss.Left, summary, plot, strings.Join(lines, "\n"))
}
