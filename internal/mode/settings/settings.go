// Package settings is the signed-in user's screen: account details plus the
// Change Password and Logout actions.
package settings

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/kitdeneme/kit/internal/auth"
	"github.com/kitdeneme/kit/internal/keys"
	"github.com/kitdeneme/kit/internal/log"
	"github.com/kitdeneme/kit/internal/mode"
	"github.com/kitdeneme/kit/internal/mode/shared"
	"github.com/kitdeneme/kit/internal/ui/styles"
)

// Buttons in focus order.
const (
	buttonPassword = iota
	buttonLogout
	buttonCount
)

const (
	zonePassword = "settings-passwd"
	zoneLogout   = "settings-logout"

	labelWidth = 10
)

// Model is the settings screen.
type Model struct {
	services   mode.Services
	user       auth.User
	focus      int
	signingOut bool
	width      int
	height     int
}

// New creates the settings screen for user.
func New(services mode.Services, user *auth.User) Model {
	m := Model{services: services}
	if user != nil {
		m.user = *user
	}
	return m
}

// User returns the displayed account.
func (m Model) User() auth.User { return m.user }

// SigningOut reports whether a sign-out was started from this screen.
func (m Model) SigningOut() bool { return m.signingOut }

// Init implements mode.Controller.
func (m Model) Init() tea.Cmd { return nil }

// Update implements mode.Controller.
func (m Model) Update(msg tea.Msg) (mode.Controller, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Default.Next):
			m.focus = (m.focus + 1) % buttonCount
		case key.Matches(msg, keys.Default.Prev):
			m.focus = (m.focus + buttonCount - 1) % buttonCount
		case key.Matches(msg, keys.Default.Activate):
			return m.activate(m.focus)
		case key.Matches(msg, keys.Default.ChangePassword):
			return m.activate(buttonPassword)
		case key.Matches(msg, keys.Default.Recheck):
			return m, mode.Cmd(mode.RecheckMsg{})
		}

	case tea.MouseMsg:
		if msg.Button != tea.MouseButtonLeft || msg.Action != tea.MouseActionRelease {
			return m, nil
		}
		if z := zone.Get(zonePassword); z != nil && z.InBounds(msg) {
			return m.activate(buttonPassword)
		}
		if z := zone.Get(zoneLogout); z != nil && z.InBounds(msg) {
			return m.activate(buttonLogout)
		}
	}
	return m, nil
}

func (m Model) activate(button int) (mode.Controller, tea.Cmd) {
	m.focus = button
	if m.signingOut {
		return m, nil
	}

	switch button {
	case buttonPassword:
		return m, mode.Cmd(mode.NavigateMsg{To: mode.ScreenPassword})
	case buttonLogout:
		// The outcome arrives through the session observer owned by the root
		// model, which re-checks authentication and leaves this screen.
		log.Info(log.CatUI, "Logout requested", "user", m.user.Username)
		m.signingOut = true
		m.services.Session.SignOut(context.Background())
	}
	return m, nil
}

func row(label, value string) string {
	return styles.HintStyle.Width(labelWidth).Render(label) + value
}

// View implements mode.Controller.
func (m Model) View() string {
	valueWidth := max(10, min(48, m.width-4)-labelWidth)

	email := styles.TruncateString(m.user.Email, valueWidth)
	if !m.user.EmailVerified {
		email += " " + lipgloss.NewStyle().Foreground(styles.StatusWarningColor).Render("(unverified)")
	}

	clock := m.services.Clock
	if clock == nil {
		clock = shared.RealClock{}
	}

	var buttons, status string
	if m.signingOut {
		buttons = styles.DisabledButtonStyle.Render("Change Password") + "  " +
			styles.DisabledButtonStyle.Render("Logout")
		status = styles.HintStyle.Render("Signing out...")
	} else {
		buttons = zone.Mark(zonePassword, styles.Button("Change Password", false, m.focus == buttonPassword)) + "  " +
			zone.Mark(zoneLogout, styles.Button("Logout", true, m.focus == buttonLogout))
		status = styles.HintStyle.Render("tab switch • enter select • ctrl+r refresh • F1 help")
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		styles.TitleStyle.Render("Account"),
		row("Username", styles.TruncateString(m.user.Username, valueWidth)),
		row("Email", email),
		row("Joined", shared.FormatJoined(m.user.CreatedAt, clock.Now())),
		"",
		buttons,
		"",
		status,
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
	return m
}

// Close implements mode.Controller.
func (m Model) Close() {}
