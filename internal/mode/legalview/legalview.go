// Package legalview shows a terms or privacy document in a scrollable
// viewport.
package legalview

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kitdeneme/kit/internal/keys"
	"github.com/kitdeneme/kit/internal/legal"
	"github.com/kitdeneme/kit/internal/log"
	"github.com/kitdeneme/kit/internal/mode"
	"github.com/kitdeneme/kit/internal/ui/markdown"
	"github.com/kitdeneme/kit/internal/ui/styles"
)

// chrome is the number of lines used by the header and footer.
const chrome = 5

// Model is the legal document viewer.
type Model struct {
	doc      legal.Document
	err      error
	style    string
	viewport viewport.Model
	ready    bool
	width    int
	height   int
}

// New resolves link and creates the viewer. An unknown link is shown as an
// error inside the viewer rather than failing navigation.
func New(services mode.Services, link string) Model {
	m := Model{style: markdown.StyleDark}
	if services.Legal == nil {
		m.err = legal.ErrUnknownLink
		return m
	}
	m.doc, m.err = services.Legal.Resolve(link)
	if m.err != nil {
		log.ErrorErr(log.CatUI, "Cannot open legal link", m.err, "link", link)
	}
	return m
}

// WithStyle sets the markdown style, e.g. markdown.StyleASCII in tests.
func (m Model) WithStyle(style string) Model {
	m.style = style
	return m
}

// Document returns the resolved document.
func (m Model) Document() legal.Document { return m.doc }

// Init implements mode.Controller.
func (m Model) Init() tea.Cmd { return nil }

// Update implements mode.Controller.
func (m Model) Update(msg tea.Msg) (mode.Controller, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keys.Default.Close):
			return m, mode.Cmd(mode.BackMsg{})
		case key.Matches(msg, keys.Default.Top):
			m.viewport.GotoTop()
			return m, nil
		case key.Matches(msg, keys.Default.Bottom):
			m.viewport.GotoBottom()
			return m, nil
		}
	}

	if !m.ready {
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) render(width int) string {
	if m.err != nil {
		return styles.ErrorStyle.Render(fmt.Sprintf("Cannot open document: %v", m.err))
	}
	r, err := markdown.New(width, m.style)
	if err != nil {
		log.ErrorErr(log.CatUI, "Markdown renderer unavailable", err)
		return m.doc.Markdown
	}
	out, err := r.Render(m.doc.Markdown)
	if err != nil {
		log.ErrorErr(log.CatUI, "Rendering legal document failed", err, "kind", m.doc.Kind.Title())
		return m.doc.Markdown
	}
	return out
}

// View implements mode.Controller.
func (m Model) View() string {
	title := "Document"
	if m.err == nil {
		title = m.doc.Title
	}
	header := lipgloss.JoinVertical(lipgloss.Left,
		styles.TitleStyle.Render(title),
		styles.HintStyle.Render(m.doc.URL),
	)

	body := ""
	scroll := ""
	if m.ready {
		body = m.viewport.View()
		scroll = fmt.Sprintf("%3.f%%", m.viewport.ScrollPercent()*100)
	}
	footer := styles.HintStyle.Render("↑/↓ scroll • g/G top/bottom • esc back  " + scroll)

	return lipgloss.JoinVertical(lipgloss.Left, header, body, "", footer)
}

// SetSize implements mode.Controller. The document is re-rendered at the new
// width.
func (m Model) SetSize(width, height int) mode.Controller {
	m.width = width
	m.height = height

	wrap := max(20, min(100, width-2))
	h := max(1, height-chrome)
	if !m.ready {
		m.viewport = viewport.New(wrap, h)
		m.ready = true
	} else {
		m.viewport.Width = wrap
		m.viewport.Height = h
	}
	m.viewport.SetContent(m.render(wrap))
	return m
}

// Close implements mode.Controller.
func (m Model) Close() {}
