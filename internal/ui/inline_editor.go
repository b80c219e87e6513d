package ui

import (
	"carsync/internal/model"
	"carsync/internal/util"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// inlineEditor edits the name and price of one row in place.
type inlineEditor struct {
	id      model.ID
	inputs  [2]textinput.Model
	fields  [2]model.Field
	focused int
	err     string
}

func newInlineEditor(car model.Car) *inlineEditor {
	name := textinput.New()
	name.Prompt = ""
	name.CharLimit = 100
	name.Width = 20
	name.SetValue(car.Name)
	name.Focus()

	price := textinput.New()
	price.Prompt = ""
	price.Placeholder = "cleared"
	price.CharLimit = 20
	price.Width = 12
	price.SetValue(util.FormatNumberInput(car.Price))

	return &inlineEditor{
		id:     car.ID,
		inputs: [2]textinput.Model{name, price},
		fields: [2]model.Field{model.FieldName, model.FieldPrice},
	}
}

// Update feeds msg to the focused input and returns the field it edits with
// the input's new value.
func (e *inlineEditor) Update(msg tea.KeyMsg) (model.Field, string, tea.Cmd) {
	var cmd tea.Cmd
	e.inputs[e.focused], cmd = e.inputs[e.focused].Update(msg)
	return e.fields[e.focused], e.inputs[e.focused].Value(), cmd
}

// current returns the focused field and its input value.
func (e *inlineEditor) current() (model.Field, string) {
	return e.fields[e.focused], e.inputs[e.focused].Value()
}

func (e *inlineEditor) nextField() {
	e.inputs[e.focused].Blur()
	e.focused = (e.focused + 1) % len(e.inputs)
	e.inputs[e.focused].Focus()
}
