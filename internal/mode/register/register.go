// Package register is the sign-up screen. Submissions go through the
// registration workflow; its outcome arrives on a broker and is handled on
// the UI loop.
package register

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/reflow/wordwrap"

	"github.com/kitdeneme/kit/internal/keys"
	"github.com/kitdeneme/kit/internal/legal"
	"github.com/kitdeneme/kit/internal/log"
	"github.com/kitdeneme/kit/internal/mode"
	"github.com/kitdeneme/kit/internal/pubsub"
	"github.com/kitdeneme/kit/internal/registration"
	"github.com/kitdeneme/kit/internal/ui/form"
	"github.com/kitdeneme/kit/internal/ui/styles"
)

const (
	formID = "register"

	zoneTerms   = "register-terms"
	zonePrivacy = "register-privacy"
	zoneSignIn  = "register-signin"

	keyUsername = "username"
	keyEmail    = "email"
	keyPassword = "password"
)

// OutcomeEvent is a workflow outcome published for the UI loop.
type OutcomeEvent = pubsub.Event[registration.Outcome]

// Model is the sign-up screen.
type Model struct {
	services   mode.Services
	form       form.Model
	submitting bool
	width      int
	height     int

	broker   *pubsub.Broker[registration.Outcome]
	listener *pubsub.ContinuousListener[registration.Outcome]
	detach   func()
	cancel   context.CancelFunc
}

// New creates the sign-up screen and attaches it as the workflow's observer.
// Close detaches it.
func New(services mode.Services) Model {
	ctx, cancel := context.WithCancel(context.Background())
	broker := pubsub.NewBroker[registration.Outcome]()

	m := Model{
		services: services,
		form: form.New(formID, "Sign Up",
			form.Field{Key: keyUsername, Label: "Username", Placeholder: "ozan", CharLimit: 64},
			form.Field{Key: keyEmail, Label: "Email", Placeholder: "ozan@example.com", CharLimit: 254},
			form.Field{Key: keyPassword, Label: "Password", Secret: true, CharLimit: 128},
		),
		broker:   broker,
		listener: pubsub.NewContinuousListener(ctx, broker),
		cancel:   cancel,
	}
	m.detach = services.Workflow.Observe(registration.ObserverFunc(func(out registration.Outcome) {
		broker.Publish(pubsub.CompletedEvent, out)
	}))
	return m
}

// Init implements mode.Controller.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.form.Init(), m.listener.Listen())
}

// Update implements mode.Controller.
func (m Model) Update(msg tea.Msg) (mode.Controller, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Default.Terms):
			return m, openLegal(legal.TermsLink)
		case key.Matches(msg, keys.Default.Privacy):
			return m, openLegal(legal.PrivacyLink)
		case key.Matches(msg, keys.Default.ToLogin):
			return m, mode.Cmd(mode.NavigateMsg{To: mode.ScreenSignIn})
		}

	case tea.MouseMsg:
		if msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionRelease {
			switch {
			case inZone(zoneTerms, msg):
				return m, openLegal(legal.TermsLink)
			case inZone(zonePrivacy, msg):
				return m, openLegal(legal.PrivacyLink)
			case inZone(zoneSignIn, msg):
				return m, mode.Cmd(mode.NavigateMsg{To: mode.ScreenSignIn})
			}
		}

	case form.SubmitMsg:
		if msg.Form != formID {
			return m, nil
		}
		return m.submit(msg.Values)

	case OutcomeEvent:
		next, cmd := m.handleOutcome(msg.Payload)
		return next, tea.Batch(cmd, next.listener.Listen())
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)
	return m, cmd
}

func inZone(id string, msg tea.MouseMsg) bool {
	z := zone.Get(id)
	return z != nil && z.InBounds(msg)
}

func openLegal(link string) tea.Cmd {
	return mode.Cmd(mode.NavigateMsg{To: mode.ScreenLegal, Link: link})
}

func (m Model) submit(values map[string]string) (Model, tea.Cmd) {
	if m.submitting {
		return m, nil
	}

	req := registration.NewRequest(values[keyUsername], values[keyEmail], values[keyPassword])

	// Submit only validates and starts the gateway call, so it is safe on
	// the UI loop. A validation failure is reported through the observer.
	if err := m.services.Workflow.Submit(context.Background(), req); err != nil {
		return m, nil
	}

	m.submitting = true
	m.form = m.form.SetDisabled(true)
	return m, nil
}

func (m Model) handleOutcome(out registration.Outcome) (Model, tea.Cmd) {
	m.submitting = false
	m.form = m.form.SetDisabled(false)

	if out.OK() {
		m.form = m.form.Reset()
		return m, mode.Alert(mode.TitleEmailVerification, mode.MsgVerificationSent,
			mode.NavigateMsg{To: mode.ScreenSignIn})
	}

	var verr *registration.ValidationError
	if errors.As(out.Err(), &verr) {
		title, message := mode.ValidationAlert(verr.Reason, m.services.Rules)
		return m, mode.Alert(title, message, nil)
	}

	log.Debug(log.CatUI, "Registration failed", "error", out.Err())
	m.form = m.form.ClearSecrets()
	return m, mode.Alert(mode.TitleRegistrationError, mode.MsgRegistrationFailed, nil)
}

// linkGlue joins the words of a link title while the sentence is wrapped so
// a title never breaks across lines.
const linkGlue = "_"

func (m Model) legalText(width int) string {
	termsTitle, privacyTitle := legal.Terms.Title(), legal.Privacy.Title()
	glue := func(title string) string { return strings.ReplaceAll(title, " ", linkGlue) }

	plain := "By creating an account, you agree to our " + glue(termsTitle) +
		" and you acknowledge that you have read our " + glue(privacyTitle) + "."

	terms := zone.Mark(zoneTerms, styles.LinkStyle.Render(termsTitle))
	privacy := zone.Mark(zonePrivacy, styles.LinkStyle.Render(privacyTitle))
	return strings.NewReplacer(glue(termsTitle), terms, glue(privacyTitle), privacy).
		Replace(wordwrap.String(plain, width))
}

// View implements mode.Controller.
func (m Model) View() string {
	width := max(20, min(48, m.width-4))

	status := styles.HintStyle.Render("tab next field • enter submit • ctrl+t terms • ctrl+p privacy • esc back")
	if m.submitting {
		status = styles.HintStyle.Render("Creating your account...")
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		styles.TitleStyle.Render("Create Account"),
		m.form.View(),
		"",
		m.legalText(width),
		"",
		"Already have an account? "+zone.Mark(zoneSignIn, styles.LinkStyle.Render("Sign in")),
		"",
		wordwrap.String(status, width),
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
func (m Model) Close() {
	if m.detach != nil {
		m.detach()
	}
	if m.cancel != nil {
		m.cancel()
	}
	if m.broker != nil {
		m.broker.Close()
	}
}
