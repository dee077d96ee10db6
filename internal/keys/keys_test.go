package keys

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

func TestKeyAssignments(t *testing.T) {
	k := DefaultKeyMap()

	tests := []struct {
		name     string
		binding  key.Binding
		expected []string
	}{
		{"Help uses F1", k.Help, []string{"f1"}},
		{"Quit uses ctrl+c only", k.Quit, []string{"ctrl+c"}},
		{"SignUp uses ctrl+n", k.SignUp, []string{"ctrl+n"}},
		{"Terms uses ctrl+t", k.Terms, []string{"ctrl+t"}},
		{"Privacy uses ctrl+p", k.Privacy, []string{"ctrl+p"}},
		{"Close uses esc and q", k.Close, []string{"esc", "q"}},
		{"Activate uses enter and space", k.Activate, []string{"enter", " "}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.binding.Keys())
		})
	}
}

func TestAllBindingsHaveHelp(t *testing.T) {
	for _, group := range DefaultKeyMap().FullHelp() {
		for _, b := range group {
			h := b.Help()
			require.NotEmpty(t, h.Key, "binding %v has no help key", b.Keys())
			require.NotEmpty(t, h.Desc, "binding %v has no description", b.Keys())
		}
	}
}

// isPrintable reports whether typing k into a text input would insert text.
func isPrintable(k string) bool {
	return len([]rune(k)) == 1
}

// Forms take printable input, so their screens must not bind printable keys.
func TestFormScreens_BindNoPrintableKeys(t *testing.T) {
	k := DefaultKeyMap()
	for name, group := range map[string][]key.Binding{
		"general":  k.GeneralHelp(),
		"signin":   k.SignInHelp(),
		"register": k.RegisterHelp(),
		"password": k.PasswordHelp(),
	} {
		for _, b := range group {
			for _, s := range b.Keys() {
				require.False(t, isPrintable(s), "%s binds printable key %q", name, s)
			}
		}
	}
}

func TestNoConflictsWithinScreen(t *testing.T) {
	k := DefaultKeyMap()
	for name, group := range map[string][]key.Binding{
		"signin":   append(k.GeneralHelp(), k.SignInHelp()...),
		"register": append(k.GeneralHelp(), k.RegisterHelp()...),
		"settings": append(k.GeneralHelp(), k.SettingsHelp()...),
		"password": append(k.GeneralHelp(), k.PasswordHelp()...),
		"document": append(k.GeneralHelp(), k.DocumentHelp()...),
	} {
		seen := map[string]string{}
		for _, b := range group {
			for _, s := range b.Keys() {
				prev, dup := seen[s]
				require.False(t, dup, "%s: %q bound to both %q and %q", name, s, prev, b.Help().Desc)
				seen[s] = b.Help().Desc
			}
		}
	}
}

func TestMatches(t *testing.T) {
	k := DefaultKeyMap()

	require.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyCtrlN}, k.SignUp))
	require.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyF1}, k.Help))
	require.True(t, key.Matches(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, k.Activate))
	require.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'G'}}, k.Bottom))
	require.False(t, key.Matches(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}, k.Quit))
}

func TestShortHelp(t *testing.T) {
	k := DefaultKeyMap()
	require.Equal(t, []key.Binding{k.Help, k.Quit}, k.ShortHelp())
	require.Len(t, k.FullHelp(), 6)
}
