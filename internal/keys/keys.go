// Package keys contains keybinding definitions.
package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings for the application. Screens with text
// inputs only bind ctrl- and function keys so typing is never intercepted.
type KeyMap struct {
	// General
	Help    key.Binding
	Quit    key.Binding
	Logs    key.Binding
	Recheck key.Binding

	// Forms
	NextField key.Binding
	PrevField key.Binding
	Submit    key.Binding

	// Sign in / create account
	SignUp  key.Binding
	Terms   key.Binding
	Privacy key.Binding
	ToLogin key.Binding

	// Settings
	Next           key.Binding
	Prev           key.Binding
	Activate       key.Binding
	ChangePassword key.Binding
	Cancel         key.Binding

	// Document viewer
	Close  key.Binding
	Top    key.Binding
	Bottom key.Binding
	Scroll key.Binding
}

// Default is the keymap screens match against.
var Default = DefaultKeyMap()

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		// General
		Help: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("F1", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Logs: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("ctrl+x", "debug log (--debug)"),
		),
		Recheck: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "re-check session"),
		),

		// Forms
		NextField: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab/↓", "next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab/↑", "previous field"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "submit"),
		),

		// Sign in / create account
		SignUp: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("ctrl+n", "create account"),
		),
		Terms: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "terms & conditions"),
		),
		Privacy: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("ctrl+p", "privacy policy"),
		),
		ToLogin: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back to sign in"),
		),

		// Settings
		Next: key.NewBinding(
			key.WithKeys("tab", "right", "l", "down", "j"),
			key.WithHelp("tab/→", "next button"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h", "up", "k"),
			key.WithHelp("shift+tab/←", "previous button"),
		),
		Activate: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "press button"),
		),
		ChangePassword: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "change password"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back to settings"),
		),

		// Document viewer
		Close: key.NewBinding(
			key.WithKeys("esc", "q"),
			key.WithHelp("esc/q", "close"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "bottom"),
		),
		Scroll: key.NewBinding(
			key.WithKeys("j", "k", "up", "down", "pgup", "pgdown"),
			key.WithHelp("j/k", "scroll"),
		),
	}
}

// ShortHelp returns keybindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns keybindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		k.GeneralHelp(),
		k.SignInHelp(),
		k.RegisterHelp(),
		k.SettingsHelp(),
		k.PasswordHelp(),
		k.DocumentHelp(),
	}
}

// GeneralHelp lists the bindings that work on every screen.
func (k KeyMap) GeneralHelp() []key.Binding {
	return []key.Binding{k.Help, k.Recheck, k.Logs, k.Quit}
}

// SignInHelp lists the sign-in screen bindings.
func (k KeyMap) SignInHelp() []key.Binding {
	return []key.Binding{k.NextField, k.PrevField, k.Submit, k.SignUp}
}

// RegisterHelp lists the create-account screen bindings.
func (k KeyMap) RegisterHelp() []key.Binding {
	return []key.Binding{k.NextField, k.PrevField, k.Submit, k.Terms, k.Privacy, k.ToLogin}
}

// SettingsHelp lists the settings screen bindings.
func (k KeyMap) SettingsHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.Activate, k.ChangePassword}
}

// PasswordHelp lists the change-password screen bindings.
func (k KeyMap) PasswordHelp() []key.Binding {
	return []key.Binding{k.NextField, k.PrevField, k.Submit, k.Cancel}
}

// DocumentHelp lists the document viewer bindings.
func (k KeyMap) DocumentHelp() []key.Binding {
	return []key.Binding{k.Scroll, k.Top, k.Bottom, k.Close}
}
