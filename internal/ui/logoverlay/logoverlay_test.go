package logoverlay

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"

	"github.com/kitdeneme/kit/internal/log"
	"github.com/kitdeneme/kit/internal/pubsub"
)

func entry(s string) log.LogEvent {
	return log.LogEvent{Type: pubsub.CreatedEvent, Payload: s + "\n"}
}

func visible(t *testing.T) Model {
	t.Helper()
	m := New()
	m.SetSize(100, 40)
	m.Toggle()
	require.True(t, m.Visible())
	return m
}

func press(m Model, key string) Model {
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)})
	return m
}

func TestLogOverlay_BuffersEntriesWhileHidden(t *testing.T) {
	m := New()

	m, _ = m.Update(entry("2026-10-18T10:00:00 [INFO] [session] Signed in"))

	require.Equal(t, []string{"2026-10-18T10:00:00 [INFO] [session] Signed in"}, m.Entries())
	require.Empty(t, m.View())
}

func TestLogOverlay_CapsBuffer(t *testing.T) {
	m := New()
	for range maxEntries + 10 {
		m, _ = m.Update(entry("[DEBUG] x"))
	}
	require.Len(t, m.Entries(), maxEntries)
}

func TestLogOverlay_LevelFilter(t *testing.T) {
	m := visible(t)
	m, _ = m.Update(entry("[DEBUG] [ui] noisy"))
	m, _ = m.Update(entry("[ERROR] [auth] broken"))

	view := ansi.Strip(m.View())
	require.Contains(t, view, "noisy")
	require.Contains(t, view, "broken")

	m = press(m, "e")
	view = ansi.Strip(m.View())
	require.NotContains(t, view, "noisy")
	require.Contains(t, view, "broken")
}

func TestLogOverlay_Clear(t *testing.T) {
	m := visible(t)
	m, _ = m.Update(entry("[INFO] something"))

	m = press(m, "c")

	require.Empty(t, m.Entries())
	require.Contains(t, ansi.Strip(m.View()), "No logs to display")
}

func TestLogOverlay_EscCloses(t *testing.T) {
	m := visible(t)

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})

	require.False(t, m.Visible())
	require.Equal(t, CloseMsg{}, cmd())
}

func TestLogOverlay_OverlayHiddenReturnsBackground(t *testing.T) {
	require.Equal(t, "bg", New().Overlay("bg"))
}
