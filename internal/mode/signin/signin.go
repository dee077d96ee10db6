// Package signin is the sign-in screen: username or email plus password,
// with a link to the sign-up screen.
package signin

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/kitdeneme/kit/internal/auth"
	"github.com/kitdeneme/kit/internal/keys"
	"github.com/kitdeneme/kit/internal/log"
	"github.com/kitdeneme/kit/internal/mode"
	"github.com/kitdeneme/kit/internal/ui/form"
	"github.com/kitdeneme/kit/internal/ui/styles"
)

const (
	formID       = "signin"
	zoneRegister = "signin-register"

	keyIdentifier = "identifier"
	keyPassword   = "password"
)

// resultMsg carries the outcome of the sign-in command.
type resultMsg struct {
	user *auth.User
	err  error
}

// Model is the sign-in screen.
type Model struct {
	services   mode.Services
	form       form.Model
	submitting bool
	width      int
	height     int
}

// New creates the sign-in screen.
func New(services mode.Services) Model {
	return Model{
		services: services,
		form: form.New(formID, "Sign In",
			form.Field{Key: keyIdentifier, Label: "Username or email", Placeholder: "ozan or ozan@example.com", CharLimit: 254},
			form.Field{Key: keyPassword, Label: "Password", Secret: true, CharLimit: 128},
		),
	}
}

// Init implements mode.Controller.
func (m Model) Init() tea.Cmd {
	return m.form.Init()
}

// Update implements mode.Controller.
func (m Model) Update(msg tea.Msg) (mode.Controller, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, keys.Default.SignUp) {
			return m, mode.Cmd(mode.NavigateMsg{To: mode.ScreenRegister})
		}

	case tea.MouseMsg:
		if msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionRelease {
			if z := zone.Get(zoneRegister); z != nil && z.InBounds(msg) {
				return m, mode.Cmd(mode.NavigateMsg{To: mode.ScreenRegister})
			}
		}

	case form.SubmitMsg:
		if msg.Form != formID {
			return m, nil
		}
		return m.submit(msg.Values)

	case resultMsg:
		return m.handleResult(msg)
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)
	return m, cmd
}

func (m Model) submit(values map[string]string) (mode.Controller, tea.Cmd) {
	if m.submitting {
		return m, nil
	}

	identifier := strings.TrimSpace(values[keyIdentifier])
	password := values[keyPassword]
	if identifier == "" || password == "" {
		return m, mode.Alert(mode.TitleSignInError, "Please enter your username or email and your password.", nil)
	}

	m.submitting = true
	m.form = m.form.SetDisabled(true)

	session := m.services.Session
	return m, func() tea.Msg {
		u, err := session.SignIn(context.Background(), identifier, password)
		return resultMsg{user: u, err: err}
	}
}

func (m Model) handleResult(msg resultMsg) (mode.Controller, tea.Cmd) {
	m.submitting = false
	m.form = m.form.SetDisabled(false)

	if msg.err == nil {
		m.form = m.form.Reset()
		return m, mode.Cmd(mode.SignedInMsg{User: msg.user})
	}

	m.form = m.form.ClearSecrets()
	log.Debug(log.CatUI, "Sign-in rejected", "error", msg.err)

	switch {
	case errors.Is(msg.err, auth.ErrInvalidCredentials):
		return m, mode.Alert(mode.TitleSignInError, "Incorrect username, email or password.", nil)
	case errors.Is(msg.err, auth.ErrThrottled):
		return m, mode.Alert(mode.TitleSignInError, "Too many attempts. Please wait a moment and try again.", nil)
	default:
		return m, mode.Alert(mode.TitleSignInError, "Failed to sign in. Please try again later.", nil)
	}
}

// View implements mode.Controller.
func (m Model) View() string {
	link := zone.Mark(zoneRegister, styles.LinkStyle.Render("Create an account"))

	body := lipgloss.JoinVertical(lipgloss.Left,
		styles.TitleStyle.Render("Sign In"),
		m.form.View(),
		"",
		"New here? "+link,
		"",
		styles.HintStyle.Render("tab next field • enter submit • ctrl+n sign up • F1 help"),
	)

	if m.width == 0 || m.height == 0 {
		return body
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
}

// SetSize implements mode.Controller.
func (m Model) SetSize(width, height int) mode.Controller {
	m.width = width
	m.height = height
	m.form = m.form.SetWidth(min(48, width-4))
	return m
}

// Close implements mode.Controller.
func (m Model) Close() {}
