// Package markdown renders the embedded legal documents for the terminal.
package markdown

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// Styles accepted by New.
const (
	StyleDark  = "dark"
	StyleLight = "light"
	// StyleASCII emits no escape sequences.
	StyleASCII = "ascii"
)

// noMarginStyle removes the document margin; the viewer pads itself.
const noMarginStyle = `{
	"document": {
		"margin": 0,
		"block_prefix": "",
		"block_suffix": ""
	}
}`

// Renderer wraps glamour at a fixed word-wrap width.
type Renderer struct {
	renderer *glamour.TermRenderer
	width    int
}

// New creates a renderer. style defaults to StyleDark. A named style is used
// instead of glamour's auto style, which queries the terminal and leaks the
// replies into the input stream.
func New(width int, style string) (*Renderer, error) {
	if style == "" {
		style = StyleDark
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithStylesFromJSONBytes([]byte(noMarginStyle)),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	return &Renderer{renderer: r, width: width}, nil
}

// Width returns the configured word wrap width.
func (r *Renderer) Width() int {
	return r.width
}

// Render transforms markdown to styled terminal output, without the trailing
// blank lines glamour adds.
func (r *Renderer) Render(markdown string) (string, error) {
	out, err := r.renderer.Render(markdown)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(out, "\n "), nil
}
