package styles

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTruncateString(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{"fits", "ozan", 10, "ozan"},
		{"exact", "ozan", 4, "ozan"},
		{"truncated", "ozan@example.com", 10, "ozan@ex..."},
		{"zero width", "ozan", 0, ""},
		{"tiny width", "ozan@example.com", 2, "oz"},
		{"wide runes", "日本語テキスト", 7, "日本..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, TruncateString(tt.in, tt.width))
		})
	}
}

func TestButton_RendersLabel(t *testing.T) {
	require.Contains(t, Button("Logout", true, false), "Logout")
	require.Contains(t, Button("Sign Up", false, true), "Sign Up")
}
