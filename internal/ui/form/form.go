// Package form is a vertical stack of labelled text inputs followed by a
// submit button, shared by the sign-in, sign-up and change-password screens.
package form

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/kitdeneme/kit/internal/keys"
	"github.com/kitdeneme/kit/internal/ui/styles"
)

// Field describes one input.
type Field struct {
	Key         string
	Label       string
	Placeholder string
	Secret      bool
	CharLimit   int
}

// SubmitMsg is sent when the user submits the form. Values is keyed by
// Field.Key.
type SubmitMsg struct {
	Form   string
	Values map[string]string
}

// Model is the form state. focus == len(inputs) means the button is focused.
type Model struct {
	id       string
	fields   []Field
	inputs   []textinput.Model
	focus    int
	button   string
	disabled bool
	width    int
}

// New creates a form. id namespaces mouse zones and SubmitMsg.Form.
func New(id, button string, fields ...Field) Model {
	m := Model{
		id:     id,
		fields: fields,
		inputs: make([]textinput.Model, len(fields)),
		button: button,
		width:  40,
	}
	for i, f := range fields {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = f.Placeholder
		ti.Width = m.width - 4
		if f.CharLimit > 0 {
			ti.CharLimit = f.CharLimit
		}
		if f.Secret {
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '•'
		}
		m.inputs[i] = ti
	}
	if len(m.inputs) > 0 {
		m.inputs[0].Focus()
	}
	return m
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// ID returns the form id.
func (m Model) ID() string { return m.id }

// Value returns the current value of the field with key.
func (m Model) Value(key string) string {
	for i, f := range m.fields {
		if f.Key == key {
			return m.inputs[i].Value()
		}
	}
	return ""
}

// SetValue sets the field with key, mostly for tests.
func (m Model) SetValue(key, value string) Model {
	for i, f := range m.fields {
		if f.Key == key {
			m.inputs[i].SetValue(value)
		}
	}
	return m
}

// Values returns every field keyed by Field.Key.
func (m Model) Values() map[string]string {
	out := make(map[string]string, len(m.fields))
	for i, f := range m.fields {
		out[f.Key] = m.inputs[i].Value()
	}
	return out
}

// Focused returns the index of the focused field, len(fields) for the button.
func (m Model) Focused() int { return m.focus }

// SetDisabled greys out the button and ignores submits, e.g. while a request
// is in flight.
func (m Model) SetDisabled(disabled bool) Model {
	m.disabled = disabled
	return m
}

// Disabled reports whether submits are ignored.
func (m Model) Disabled() bool { return m.disabled }

// Reset clears every field and focuses the first one.
func (m Model) Reset() Model {
	for i := range m.inputs {
		m.inputs[i].SetValue("")
	}
	return m.focusOn(0)
}

// ClearSecrets empties password fields, leaving the rest.
func (m Model) ClearSecrets() Model {
	for i, f := range m.fields {
		if f.Secret {
			m.inputs[i].SetValue("")
		}
	}
	return m
}

// SetWidth sets the outer width of inputs and button row.
func (m Model) SetWidth(width int) Model {
	if width < 20 {
		width = 20
	}
	m.width = width
	for i := range m.inputs {
		m.inputs[i].Width = width - 4
	}
	return m
}

func (m Model) focusOn(i int) Model {
	n := len(m.inputs) + 1
	i = ((i % n) + n) % n
	for j := range m.inputs {
		m.inputs[j].Blur()
	}
	m.focus = i
	if i < len(m.inputs) {
		m.inputs[i].Focus()
	}
	return m
}

func (m Model) submit() (Model, tea.Cmd) {
	if m.disabled {
		return m, nil
	}
	values := m.Values()
	id := m.id
	return m, func() tea.Msg { return SubmitMsg{Form: id, Values: values} }
}

// Update handles navigation, submission and text entry.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Default.NextField):
			return m.focusOn(m.focus + 1), nil
		case key.Matches(msg, keys.Default.PrevField):
			return m.focusOn(m.focus - 1), nil
		case key.Matches(msg, keys.Default.Submit):
			// Enter on the last input or the button submits; earlier inputs
			// advance.
			if m.focus >= len(m.inputs)-1 {
				return m.submit()
			}
			return m.focusOn(m.focus + 1), nil
		}

	case tea.MouseMsg:
		if msg.Button != tea.MouseButtonLeft || msg.Action != tea.MouseActionRelease {
			return m, nil
		}
		if z := zone.Get(m.zoneSubmit()); z != nil && z.InBounds(msg) {
			m = m.focusOn(len(m.inputs))
			return m.submit()
		}
		for i := range m.inputs {
			if z := zone.Get(m.zoneField(i)); z != nil && z.InBounds(msg) {
				return m.focusOn(i), nil
			}
		}
		return m, nil
	}

	if m.focus < len(m.inputs) {
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) zoneField(i int) string { return fmt.Sprintf("%s-field-%d", m.id, i) }
func (m Model) zoneSubmit() string     { return m.id + "-submit" }

// View renders the inputs and the button.
func (m Model) View() string {
	var b strings.Builder
	for i, f := range m.fields {
		focused := i == m.focus

		labelColor := styles.FormTextInputLabelColor
		borderColor := styles.FormTextInputBorderColor
		if focused {
			labelColor = styles.FormTextInputFocusedLabelColor
			borderColor = styles.FormTextInputFocusedBorderColor
		}

		label := lipgloss.NewStyle().Foreground(labelColor).Render(f.Label)
		box := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor).
			Padding(0, 1).
			Width(m.width - 2).
			Render(m.inputs[i].View())

		b.WriteString(zone.Mark(m.zoneField(i), label+"\n"+box))
		b.WriteString("\n")
	}

	var button string
	if m.disabled {
		button = styles.DisabledButtonStyle.Render(m.button)
	} else {
		button = styles.Button(m.button, false, m.focus == len(m.inputs))
	}
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, zone.Mark(m.zoneSubmit(), button)))

	return b.String()
}
