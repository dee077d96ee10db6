// Package passwd is the change-password screen.
package passwd

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kitdeneme/kit/internal/auth"
	"github.com/kitdeneme/kit/internal/keys"
	"github.com/kitdeneme/kit/internal/log"
	"github.com/kitdeneme/kit/internal/mode"
	"github.com/kitdeneme/kit/internal/session"
	"github.com/kitdeneme/kit/internal/ui/form"
	"github.com/kitdeneme/kit/internal/ui/styles"
	"github.com/kitdeneme/kit/internal/ui/toaster"
)

const (
	formID = "passwd"

	keyCurrent = "current"
	keyNew     = "new"
	keyConfirm = "confirm"

	// TitlePasswordError is the alert title for every rejection on this screen.
	TitlePasswordError = "Change Password"
	// MsgPasswordChanged is the toast shown after a successful change.
	MsgPasswordChanged = "Password changed"
)

type resultMsg struct {
	err error
}

// Model is the change-password screen.
type Model struct {
	services   mode.Services
	form       form.Model
	submitting bool
	width      int
	height     int
}

// New creates the change-password screen.
func New(services mode.Services) Model {
	return Model{
		services: services,
		form: form.New(formID, "Change Password",
			form.Field{Key: keyCurrent, Label: "Current password", Secret: true, CharLimit: 128},
			form.Field{Key: keyNew, Label: "New password", Secret: true, CharLimit: 128},
			form.Field{Key: keyConfirm, Label: "Confirm new password", Secret: true, CharLimit: 128},
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
		if key.Matches(msg, keys.Default.Cancel) && !m.submitting {
			return m, mode.Cmd(mode.NavigateMsg{To: mode.ScreenSettings})
		}

	case form.SubmitMsg:
		if msg.Form != formID {
			return m, nil
		}
		return m.submit(msg.Values)

	case resultMsg:
		return m.handleResult(msg.err)
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)
	return m, cmd
}

func (m Model) submit(values map[string]string) (mode.Controller, tea.Cmd) {
	if m.submitting {
		return m, nil
	}

	current, next := values[keyCurrent], values[keyNew]
	switch {
	case current == "":
		return m, mode.Alert(TitlePasswordError, "Please enter your current password.", nil)
	case next != values[keyConfirm]:
		m.form = m.form.SetValue(keyConfirm, "")
		return m, mode.Alert(TitlePasswordError, "The new passwords do not match.", nil)
	case !m.services.Rules.Password(next):
		return m, mode.Alert("Invalid Password", mode.PasswordRequirement(m.services.Rules), nil)
	}

	m.submitting = true
	m.form = m.form.SetDisabled(true)

	sess := m.services.Session
	return m, func() tea.Msg {
		return resultMsg{err: sess.ChangePassword(context.Background(), current, next)}
	}
}

func (m Model) handleResult(err error) (mode.Controller, tea.Cmd) {
	m.submitting = false
	m.form = m.form.SetDisabled(false).ClearSecrets()

	if err == nil {
		m.form = m.form.Reset()
		return m, tea.Batch(
			mode.Cmd(mode.ShowToastMsg{Message: MsgPasswordChanged, Style: toaster.StyleSuccess}),
			mode.Cmd(mode.NavigateMsg{To: mode.ScreenSettings}),
		)
	}

	log.Debug(log.CatUI, "Password change rejected", "error", err)

	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return m, mode.Alert(TitlePasswordError, "Current password is incorrect.", nil)
	case errors.Is(err, session.ErrWeakPassword):
		return m, mode.Alert("Invalid Password", mode.PasswordRequirement(m.services.Rules), nil)
	case errors.Is(err, auth.ErrNotSignedIn):
		return m, mode.Alert(TitlePasswordError, "Your session has ended. Please sign in again.", mode.RecheckMsg{})
	default:
		return m, mode.Alert(TitlePasswordError, "Failed to change password. Please try again later.", nil)
	}
}

// View implements mode.Controller.
func (m Model) View() string {
	hint := "tab next field • enter submit • esc back"
	if m.submitting {
		hint = "Changing password..."
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		styles.TitleStyle.Render("Change Password"),
		styles.HintStyle.Render(mode.PasswordRequirement(m.services.Rules)),
		"",
		m.form.View(),
		"",
		styles.HintStyle.Render(hint),
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
