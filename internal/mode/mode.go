// Package mode defines the screen controller interface, the services shared
// by every screen and the messages screens use to talk to the root model.
package mode

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kitdeneme/kit/internal/auth"
	"github.com/kitdeneme/kit/internal/config"
	"github.com/kitdeneme/kit/internal/legal"
	"github.com/kitdeneme/kit/internal/mode/shared"
	"github.com/kitdeneme/kit/internal/registration"
	"github.com/kitdeneme/kit/internal/session"
	"github.com/kitdeneme/kit/internal/ui/toaster"
	"github.com/kitdeneme/kit/internal/validator"
)

// Screen identifies the active screen.
type Screen int

const (
	ScreenLoading Screen = iota
	ScreenSignIn
	ScreenRegister
	ScreenSettings
	ScreenPassword
	ScreenLegal
)

func (s Screen) String() string {
	switch s {
	case ScreenLoading:
		return "loading"
	case ScreenSignIn:
		return "signin"
	case ScreenRegister:
		return "register"
	case ScreenSettings:
		return "settings"
	case ScreenPassword:
		return "password"
	case ScreenLegal:
		return "legal"
	default:
		return "unknown"
	}
}

// Controller defines the interface all screens implement.
type Controller interface {
	// Init returns initial commands for the screen.
	Init() tea.Cmd

	// Update handles messages and returns updated model and commands.
	Update(msg tea.Msg) (Controller, tea.Cmd)

	// View renders the screen.
	View() string

	// SetSize handles terminal resize events.
	SetSize(width, height int) Controller

	// Close releases subscriptions and observers. Called when the screen is
	// navigated away from.
	Close()
}

// Services contains shared dependencies injected into screens.
type Services struct {
	Workflow *registration.Workflow
	Session  *session.Controller
	Legal    *legal.Resolver
	Rules    validator.Rules
	Config   *config.Config
	Clock    shared.Clock
}

// NavigateMsg asks the root model to switch screens. Link is the legal link
// to open when To is ScreenLegal.
type NavigateMsg struct {
	To   Screen
	Link string
}

// BackMsg returns from the legal viewer to the screen that opened it.
type BackMsg struct{}

// ShowToastMsg shows a transient notice.
type ShowToastMsg struct {
	Message string
	Style   toaster.Style
}

// ShowAlertMsg opens the modal alert. Then is delivered once it is dismissed.
type ShowAlertMsg struct {
	Title   string
	Message string
	Then    tea.Msg
}

// SignedInMsg reports a successful sign-in.
type SignedInMsg struct {
	User *auth.User
}

// RecheckMsg asks the root model to drop the cached answer and run the
// authentication check again.
type RecheckMsg struct{}

// Cmd wraps a message in a command.
func Cmd(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// Alert is a shorthand for a command opening the alert.
func Alert(title, message string, then tea.Msg) tea.Cmd {
	return Cmd(ShowAlertMsg{Title: title, Message: message, Then: then})
}
