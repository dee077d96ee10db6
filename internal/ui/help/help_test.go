package help

import (
	"os"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kitdeneme/kit/internal/keys"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

func sections() []Section {
	k := keys.DefaultKeyMap()
	return []Section{
		{Title: "General", Bindings: k.GeneralHelp()},
		{Title: "Sign In", Bindings: k.SignInHelp()},
	}
}

func TestHelp_StartsHidden(t *testing.T) {
	m := New("Keybindings", sections()...)

	assert.False(t, m.Visible())
	assert.Equal(t, "Keybindings", m.Title())
	assert.Len(t, m.Sections(), 2)
}

func TestHelp_ToggleAndHide(t *testing.T) {
	m := New("Keybindings").Toggle()
	require.True(t, m.Visible())

	m = m.Toggle()
	require.False(t, m.Visible())

	m = m.Toggle().Hide()
	require.False(t, m.Visible())
}

func TestHelp_SetSize(t *testing.T) {
	m := New("Keybindings").SetSize(120, 40)

	assert.Equal(t, 120, m.width)
	assert.Equal(t, 40, m.height)

	// SetSize returns a new model
	m2 := m.SetSize(80, 24)
	assert.Equal(t, 80, m2.width)
	assert.Equal(t, 120, m.width, "expected original model width unchanged")
}

func TestHelp_View_ContainsSectionsAndBindings(t *testing.T) {
	m := New("Keybindings", sections()...).SetSize(100, 30)
	view := ansi.Strip(m.View())

	assert.Contains(t, view, "Keybindings")
	assert.Contains(t, view, "General")
	assert.Contains(t, view, "Sign In")
	assert.Contains(t, view, "ctrl+n")
	assert.Contains(t, view, "create account")
	assert.Contains(t, view, "Press F1 or Esc to close")
}

func TestHelp_SetSectionsReplaces(t *testing.T) {
	m := New("Keybindings", sections()...).SetSize(100, 30)
	m = m.SetSections("Document", Section{
		Title:    "Viewer",
		Bindings: []key.Binding{keys.Default.Close},
	})

	view := ansi.Strip(m.View())
	assert.Contains(t, view, "Viewer")
	assert.Contains(t, view, "esc/q")
	assert.NotContains(t, view, "create account")
}

func TestHelp_OverlayKeepsBackground(t *testing.T) {
	bg := strings.Repeat(strings.Repeat("x", 100)+"\n", 29) + strings.Repeat("x", 100)
	m := New("Keybindings", sections()...).SetSize(100, 30)

	out := ansi.Strip(m.Overlay(bg))
	lines := strings.Split(out, "\n")

	require.Len(t, lines, 30)
	assert.Equal(t, strings.Repeat("x", 100), lines[0], "rows above the box are untouched")
	assert.Contains(t, out, "Keybindings")
}
