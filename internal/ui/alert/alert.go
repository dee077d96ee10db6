// Package alert provides a blocking message box with a single OK button,
// used for validation errors and backend failures.
package alert

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/reflow/wordwrap"

	"github.com/kitdeneme/kit/internal/ui/overlay"
	"github.com/kitdeneme/kit/internal/ui/styles"
)

const (
	zoneOK = "alert-ok"

	// minWidth and maxWidth bound the box including border and padding.
	minWidth = 30
	maxWidth = 56
)

// DismissedMsg is emitted when the user closes the alert. Then carries the
// message supplied to Show, if any.
type DismissedMsg struct {
	Then tea.Msg
}

// Model is the alert state. The zero value is a hidden alert.
type Model struct {
	title   string
	message string
	then    tea.Msg
	visible bool
	width   int
	height  int
}

// New creates a hidden alert.
func New() Model {
	return Model{}
}

// Show opens the alert. then, if non-nil, is delivered after dismissal.
func (m Model) Show(title, message string, then tea.Msg) Model {
	m.title = title
	m.message = message
	m.then = then
	m.visible = true
	return m
}

// Visible reports whether the alert is open.
func (m Model) Visible() bool {
	return m.visible
}

// Title returns the current title.
func (m Model) Title() string {
	return m.title
}

// Message returns the current message.
func (m Model) Message() string {
	return m.message
}

// SetSize updates the viewport dimensions for overlay positioning.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	return m
}

// Update handles keys and clicks while the alert is open.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.visible {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter", "esc", " ", "o":
			return m.dismiss()
		}
	case tea.MouseMsg:
		if msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionRelease {
			if z := zone.Get(zoneOK); z != nil && z.InBounds(msg) {
				return m.dismiss()
			}
		}
	}
	return m, nil
}

func (m Model) dismiss() (Model, tea.Cmd) {
	then := m.then
	m.visible = false
	m.then = nil
	return m, func() tea.Msg { return DismissedMsg{Then: then} }
}

func (m Model) boxWidth() int {
	w := maxWidth
	if m.width > 0 && m.width-4 < w {
		w = m.width - 4
	}
	return max(w, minWidth)
}

// View renders the alert box, or "" when hidden.
func (m Model) View() string {
	if !m.visible {
		return ""
	}

	// Border (2) + padding (4).
	inner := m.boxWidth() - 6

	title := lipgloss.NewStyle().Bold(true).Foreground(styles.OverlayTitleColor).Render(m.title)
	body := wordwrap.String(m.message, inner)
	ok := zone.Mark(zoneOK, styles.Button("OK", false, true))

	content := strings.Join([]string{
		title,
		"",
		body,
		"",
		lipgloss.PlaceHorizontal(inner, lipgloss.Center, ok),
	}, "\n")

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.OverlayBorderColor).
		Padding(0, 2).
		Width(inner + 4).
		Render(content)
}

// Overlay renders the alert centered on top of bg.
func (m Model) Overlay(bg string) string {
	if !m.visible {
		return bg
	}
	return overlay.Place(overlay.Config{
		Width:    m.width,
		Height:   m.height,
		Position: overlay.Center,
	}, m.View(), bg)
}
