package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
)

type input struct {
	name  string
	label string
	group string
	model textinput.Model
}

func newTextInput(placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = ""
	ti.CharLimit = limit
	ti.Width = 32
	return ti
}

func newInput(name, label, placeholder string, limit int) input {
	return input{name: name, label: label, model: newTextInput(placeholder, limit)}
}

// form is a titled group of inputs with one submit action
type form struct {
	title  string
	submit string
	inputs []input
}

func (f *form) value(name string) string {
	for _, in := range f.inputs {
		if in.name == name {
			return in.model.Value()
		}
	}
	return ""
}

// set fills the named input, if the form has it
func (f *form) set(name, value string) {
	for i := range f.inputs {
		if f.inputs[i].name == name {
			f.inputs[i].model.SetValue(value)
		}
	}
}

// reset clears every input, like a browser form reset
func (f *form) reset() {
	for i := range f.inputs {
		f.inputs[i].model.Reset()
	}
}
