package ui

import (
	"strings"

	"carsync/internal/model"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var carFormLabels = []string{
	"Name *",
	"Model *",
	"Year *",
	"Color",
	"Price *",
	"Latitude *",
	"Longitude *",
}

var carFormPlaceholders = []string{
	"Volvo",
	"XC60",
	"2019",
	"black",
	"25000",
	"59.93",
	"30.31",
}

// CarFormModel represents the create car form.
type CarFormModel struct {
	focusedField int
	inputs       []textinput.Model
	error        string
	submitted    int
}

// NewCarFormModel creates a new, empty car form.
func NewCarFormModel() *CarFormModel {
	inputs := make([]textinput.Model, len(carFormLabels))
	for i := range inputs {
		inputs[i] = textinput.New()
		inputs[i].Placeholder = carFormPlaceholders[i]
		inputs[i].CharLimit = 100
	}
	inputs[0].Focus()

	return &CarFormModel{inputs: inputs}
}

// Values returns the raw form input.
func (m *CarFormModel) Values() model.CarForm {
	return model.CarForm{
		Name:      m.inputs[0].Value(),
		Model:     m.inputs[1].Value(),
		Year:      m.inputs[2].Value(),
		Color:     m.inputs[3].Value(),
		Price:     m.inputs[4].Value(),
		Latitude:  m.inputs[5].Value(),
		Longitude: m.inputs[6].Value(),
	}
}

// Reset clears every field and focuses the first one.
func (m *CarFormModel) Reset() {
	for i := range m.inputs {
		m.inputs[i].SetValue("")
		m.inputs[i].Blur()
	}
	m.focusedField = 0
	m.inputs[0].Focus()
	m.error = ""
}

// Update handles input.
func (m CarFormModel) Update(msg tea.KeyMsg) (CarFormModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m, func() tea.Msg {
			return model.FormCancelledMsg{}
		}
	case "ctrl+s", "enter":
		cmd := m.save()
		return m, cmd
	case "tab", "down":
		m.nextField()
		return m, nil
	case "shift+tab", "up":
		m.prevField()
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focusedField], cmd = m.inputs[m.focusedField].Update(msg)
	return m, cmd
}

// View renders the form.
func (m *CarFormModel) View(width, height int) string {
	var fields []string
	for i, label := range carFormLabels {
		fields = append(fields, renderFormField(label, m.inputs[i], m.focusedField == i))
	}

	left := lipgloss.JoinVertical(lipgloss.Left, fields[:4]...)
	right := lipgloss.JoinVertical(lipgloss.Left, fields[4:]...)
	formContent := lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)

	if m.error != "" {
		formContent = lipgloss.JoinVertical(lipgloss.Left, formContent, "", ErrorStyle.Render(m.error))
	}
	if m.submitted > 0 {
		formContent = lipgloss.JoinVertical(lipgloss.Left, formContent, "",
			StatusBarStyle.Render(strings.Repeat("•", min(m.submitted, 20))+" submitted"))
	}

	return PanelStyle.
		Width(max(0, width-4)).
		Height(max(0, height-4)).
		Render(formContent)
}

func (m *CarFormModel) nextField() {
	m.inputs[m.focusedField].Blur()
	m.focusedField = (m.focusedField + 1) % len(m.inputs)
	m.inputs[m.focusedField].Focus()
}

func (m *CarFormModel) prevField() {
	m.inputs[m.focusedField].Blur()
	m.focusedField--
	if m.focusedField < 0 {
		m.focusedField = len(m.inputs) - 1
	}
	m.inputs[m.focusedField].Focus()
}

// save validates the form. A valid form is reset and submitted; an invalid one
// keeps its input and shows the error.
func (m *CarFormModel) save() tea.Cmd {
	draft, err := model.ParseCarForm(m.Values())
	if err != nil {
		m.error = err.Error()
		return nil
	}
	m.Reset()
	m.submitted++
	return func() tea.Msg {
		return model.CarSubmittedMsg{Draft: draft}
	}
}

func renderFormField(label string, input textinput.Model, focused bool) string {
	style := BorderStyle
	if focused {
		style = ActiveBorderStyle
	}

	field := lipgloss.JoinVertical(
		lipgloss.Left,
		LabelStyle.Render(label),
		input.View(),
	)

	return style.Width(32).Render(field)
}
