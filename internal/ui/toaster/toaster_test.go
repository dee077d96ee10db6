package toaster

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	m := New()

	assert.False(t, m.Visible())
	assert.Empty(t, m.View())
}

func TestShow(t *testing.T) {
	m, cmd := New().Show("Signed in as ozan", StyleSuccess, time.Millisecond)

	require.NotNil(t, cmd)
	assert.True(t, m.Visible())
	assert.Equal(t, "Signed in as ozan", m.Message())
	assert.Contains(t, m.View(), "Signed in as ozan")
	assert.Contains(t, m.View(), "✅")
	assert.Contains(t, m.View(), "╭")
}

func TestDismiss_OwnToast(t *testing.T) {
	m, cmd := New().Show("Hello", StyleInfo, time.Millisecond)

	m = m.Update(cmd())

	assert.False(t, m.Visible())
	assert.Empty(t, m.View())
}

func TestDismiss_StaleToastIgnored(t *testing.T) {
	m, first := New().Show("First", StyleSuccess, time.Millisecond)
	m, _ = m.Show("Second", StyleError, time.Millisecond)

	m = m.Update(first())

	assert.True(t, m.Visible(), "older dismissal must not hide the newer toast")
	assert.Contains(t, m.View(), "Second")
	assert.NotContains(t, m.View(), "First")
}

func TestView_Styles(t *testing.T) {
	tests := []struct {
		style Style
		emoji string
	}{
		{StyleSuccess, "✅"},
		{StyleError, "❌"},
		{StyleInfo, "ℹ️"},
		{StyleWarn, "⚠️"},
	}
	for _, tt := range tests {
		m, _ := New().Show("msg", tt.style, time.Second)
		assert.Contains(t, m.View(), tt.emoji)
	}
}

func TestOverlay(t *testing.T) {
	bg := strings.TrimSuffix(strings.Repeat(strings.Repeat(".", 40)+"\n", 10), "\n")

	assert.Equal(t, bg, New().Overlay(bg, 40, 10), "hidden toast leaves background untouched")

	m, _ := New().Show("Saved", StyleSuccess, time.Second)
	out := m.Overlay(bg, 40, 10)
	lines := strings.Split(out, "\n")

	require.Len(t, lines, 10)
	assert.Contains(t, lines[7], "Saved", "toast sits above the bottom padding")
	assert.Equal(t, strings.Repeat(".", 40), lines[0])
}
