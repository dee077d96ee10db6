// Package help contains the help overlay component.
package help

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/kitdeneme/kit/internal/keys"
	"github.com/kitdeneme/kit/internal/ui/overlay"
	"github.com/kitdeneme/kit/internal/ui/styles"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.OverlayTitleColor).
			PaddingLeft(2)

	dividerStyle = lipgloss.NewStyle().
			Foreground(styles.OverlayBorderColor)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.OverlayTitleColor).
			MarginTop(1)

	keyStyle = lipgloss.NewStyle().
			Foreground(styles.TextPrimaryColor).
			Width(14)

	descStyle = lipgloss.NewStyle().
			Foreground(styles.TextMutedColor)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(styles.OverlayBorderColor)

	contentStyle = lipgloss.NewStyle().
			Padding(0, 2)

	footerStyle = lipgloss.NewStyle().
			Foreground(styles.TextMutedColor).
			MarginTop(1)
)

// Section is one titled column of bindings.
type Section struct {
	Title    string
	Bindings []key.Binding
}

// Model holds the help view state.
type Model struct {
	title    string
	sections []Section
	visible  bool
	width    int
	height   int
}

// New creates a hidden help view showing sections.
func New(title string, sections ...Section) Model {
	return Model{title: title, sections: sections}
}

// SetSections replaces what the overlay lists.
func (m Model) SetSections(title string, sections ...Section) Model {
	m.title = title
	m.sections = sections
	return m
}

// SetSize updates dimensions.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	return m
}

// Toggle flips visibility.
func (m Model) Toggle() Model {
	m.visible = !m.visible
	return m
}

// Hide closes the overlay.
func (m Model) Hide() Model {
	m.visible = false
	return m
}

// Visible reports whether the overlay is shown.
func (m Model) Visible() bool { return m.visible }

// Title returns the overlay heading.
func (m Model) Title() string { return m.title }

// Sections returns what the overlay lists.
func (m Model) Sections() []Section { return m.sections }

// View renders the help overlay (standalone, no background).
func (m Model) View() string {
	return m.Overlay("")
}

// Overlay renders the help box on top of a background view.
func (m Model) Overlay(background string) string {
	helpBox := m.renderContent()

	if background == "" {
		return lipgloss.Place(
			m.width, m.height,
			lipgloss.Center, lipgloss.Center,
			helpBox,
		)
	}

	return overlay.Place(overlay.Config{
		Width:    m.width,
		Height:   m.height,
		Position: overlay.Center,
	}, helpBox, background)
}

func (m Model) renderContent() string {
	// Column style with right margin for spacing
	columnStyle := lipgloss.NewStyle().MarginRight(4)

	cols := make([]string, 0, len(m.sections))
	for i, s := range m.sections {
		var col strings.Builder
		col.WriteString(sectionStyle.Render(s.Title))
		col.WriteString("\n")
		for _, b := range s.Bindings {
			col.WriteString(renderBinding(b))
		}
		if i < len(m.sections)-1 {
			cols = append(cols, columnStyle.Render(col.String()))
		} else {
			cols = append(cols, col.String())
		}
	}

	columns := lipgloss.JoinHorizontal(lipgloss.Top, cols...)

	closeKey := keys.Default.Help.Help().Key
	boxWidth := max(lipgloss.Width(columns), lipgloss.Width(m.title)+2) + 4
	body := contentStyle.Render(columns + "\n" + footerStyle.Render("Press "+closeKey+" or Esc to close"))
	divider := dividerStyle.Render(strings.Repeat("─", boxWidth))

	var content strings.Builder
	content.WriteString(titleStyle.Render(m.title))
	content.WriteString("\n")
	content.WriteString(divider)
	content.WriteString("\n")
	content.WriteString(body)

	return boxStyle.Width(boxWidth).Render(content.String())
}

func renderBinding(b key.Binding) string {
	h := b.Help()
	return keyStyle.Render(h.Key) + descStyle.Render(h.Desc) + "\n"
}
