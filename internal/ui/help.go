package ui

import (
	"strings"

	"carsync/internal/model"

	"github.com/charmbracelet/lipgloss"
)

// RenderHelp renders context-sensitive help footer.
func RenderHelp(screen model.Screen, mode model.Mode, width int) string {
	switch mode {
	case model.ModeInsert:
		return renderFormHelp(width)
	case model.ModeInlineEdit:
		return renderInlineEditHelp(width)
	}

	switch screen {
	case model.ScreenCars:
		return renderCarsHelp(width)
	case model.ScreenMap:
		return renderMapHelp(width)
	default:
		return renderDefaultHelp(width)
	}
}

func renderCarsHelp(width int) string {
	keys := []string{
		helpKey("j/k", "navigate"),
		helpKey("y/p", "sort year/price"),
		helpKey("a", "add car"),
		helpKey("e", "edit"),
		helpKey("d", "delete"),
		helpKey("u/ctrl+r", "undo/redo"),
		helpKey("r", "reload"),
		helpKey("tab", "map"),
		helpKey("?", "help"),
	}
	return renderHelpLine(keys, width)
}

func renderMapHelp(width int) string {
	keys := []string{
		helpKey("j/k", "markers"),
		helpKey("tab", "cars"),
		helpKey("r", "reload"),
		helpKey("q", "quit"),
	}
	return renderHelpLine(keys, width)
}

func renderInlineEditHelp(width int) string {
	keys := []string{
		helpKey("tab", "name/price"),
		helpKey("enter/ctrl+s", "save"),
		helpKey("esc", "cancel all edits"),
		helpKey("empty price", "clears it"),
	}
	return renderHelpLine(keys, width)
}

func renderFormHelp(width int) string {
	keys := []string{
		helpKey("tab", "next field"),
		helpKey("shift+tab", "prev field"),
		helpKey("enter/ctrl+s", "add"),
		helpKey("esc", "close"),
	}
	return renderHelpLine(keys, width)
}

func renderDefaultHelp(width int) string {
	keys := []string{
		helpKey("j/k", "navigate"),
		helpKey("q", "quit"),
	}
	return renderHelpLine(keys, width)
}

func helpKey(key, desc string) string {
	return HelpKeyStyle.Render(key) + " " + HelpDescStyle.Render(desc)
}

func renderHelpLine(keys []string, width int) string {
	line := strings.Join(keys, "  ")
	return FooterStyle.Width(width).Render(line)
}

// RenderFullHelp renders the full help screen.
func RenderFullHelp(width, height int) string {
	content := lipgloss.NewStyle().
		Width(max(0, width-4)).
		Height(max(0, height-6)).
		Padding(1, 2)

	sections := []string{
		titleSection("Navigation"),
		helpSection([]helpItem{
			{"j / ↓", "Move down"},
			{"k / ↑", "Move up"},
			{"gg", "Jump to top"},
			{"G", "Jump to bottom"},
			{"ctrl+d", "Half page down"},
			{"ctrl+u", "Half page up"},
			{"tab / ← / →", "Switch between cars and map"},
			{"r", "Reload from the server"},
			{"u / ctrl+r", "Undo / redo delete or save"},
			{"q", "Quit"},
			{"?", "Toggle help"},
		}),
		titleSection("Cars"),
		helpSection([]helpItem{
			{"y", "Sort by year, again to flip order"},
			{"p", "Sort by price, again to flip order"},
			{"a", "Add car"},
			{"e / enter", "Edit name and price in place"},
			{"d", "Delete car"},
		}),
		titleSection("Inline Edit"),
		helpSection([]helpItem{
			{"tab", "Switch name / price"},
			{"enter / ctrl+s", "Save this row"},
			{"esc", "Cancel and discard unsaved edits"},
		}),
		titleSection("Add Form"),
		helpSection([]helpItem{
			{"tab", "Next field"},
			{"shift+tab", "Previous field"},
			{"enter / ctrl+s", "Add car and clear form"},
			{"esc", "Close"},
		}),
	}

	helpText := content.Render(strings.Join(sections, "\n\n"))

	return lipgloss.JoinVertical(
		lipgloss.Left,
		TitleStyle.Width(width).Render("Help"),
		helpText,
		FooterStyle.Width(width).Render(HelpKeyStyle.Render("esc")+" "+HelpDescStyle.Render("close help")),
	)
}

type helpItem struct {
	key  string
	desc string
}

func titleSection(title string) string {
	return LabelStyle.Render(title)
}

func helpSection(items []helpItem) string {
	var lines []string
	for _, item := range items {
		lines = append(lines, "  "+HelpKeyStyle.Render(item.key)+" - "+HelpDescStyle.Render(item.desc))
	}
	return strings.Join(lines, "\n")
}
