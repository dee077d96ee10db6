// Package app contains the root application model.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/kitdeneme/kit/internal/auth"
	"github.com/kitdeneme/kit/internal/keys"
	"github.com/kitdeneme/kit/internal/log"
	"github.com/kitdeneme/kit/internal/mode"
	"github.com/kitdeneme/kit/internal/mode/legalview"
	"github.com/kitdeneme/kit/internal/mode/passwd"
	"github.com/kitdeneme/kit/internal/mode/register"
	"github.com/kitdeneme/kit/internal/mode/settings"
	"github.com/kitdeneme/kit/internal/mode/signin"
	"github.com/kitdeneme/kit/internal/pubsub"
	"github.com/kitdeneme/kit/internal/ui/alert"
	"github.com/kitdeneme/kit/internal/ui/help"
	"github.com/kitdeneme/kit/internal/ui/logoverlay"
	"github.com/kitdeneme/kit/internal/ui/styles"
	"github.com/kitdeneme/kit/internal/ui/toaster"
	"github.com/kitdeneme/kit/internal/watcher"
)

// checkTimeout bounds one authentication check.
const checkTimeout = 15 * time.Second

// MsgLogoutFailed is shown when the remote sign-out failed. The local
// session is re-checked either way.
const MsgLogoutFailed = "Failed to log out. Please try again later."

// AuthStateMsg carries the result of an authentication check.
type AuthStateMsg struct {
	User *auth.User
	Err  error
}

// SessionEventKind distinguishes session observer callbacks.
type SessionEventKind int

const (
	SignOutFailed SessionEventKind = iota
	SessionInvalidated
)

// SessionEvent is a session observer callback marshalled onto the UI loop.
type SessionEvent struct {
	Kind SessionEventKind
	Err  error
}

// sessionObserver publishes session callbacks; it runs on the sign-out
// goroutine.
type sessionObserver struct {
	broker *pubsub.Broker[SessionEvent]
}

func (o sessionObserver) SignOutFailed(err error) {
	o.broker.Publish(pubsub.CompletedEvent, SessionEvent{Kind: SignOutFailed, Err: err})
}

func (o sessionObserver) SessionInvalidated() {
	o.broker.Publish(pubsub.CompletedEvent, SessionEvent{Kind: SessionInvalidated})
}

// Model is the root application state.
type Model struct {
	// Screen management. parked holds the screen the legal viewer was
	// opened from.
	screen       mode.Screen
	active       mode.Controller
	parked       mode.Controller
	parkedScreen mode.Screen

	// Shared services (passed to screen controllers)
	services mode.Services
	user     *auth.User
	checking bool

	// Global state
	width  int
	height int

	spinner spinner.Model
	alert   alert.Model
	toaster toaster.Model
	help    help.Model

	debugMode    bool
	logOverlay   logoverlay.Model
	logListenCmd tea.Cmd

	// Session observer bridge
	ctx             context.Context
	cancel          context.CancelFunc
	sessionBroker   *pubsub.Broker[SessionEvent]
	sessionListener *pubsub.ContinuousListener[SessionEvent]
	sessionDetach   func()

	// File watcher for auto-refresh (pubsub-based)
	watcherHandle   *watcher.Watcher
	watcherListener *pubsub.ContinuousListener[watcher.Change]
}

// New creates the root model. watchPaths are the files whose changes trigger
// a session re-check when auto_refresh is on; debugMode enables the log
// overlay (ctrl+x toggle).
func New(services mode.Services, watchPaths []string, debugMode bool) Model {
	ctx, cancel := context.WithCancel(context.Background())

	broker := pubsub.NewBroker[SessionEvent]()
	detach := services.Session.Observe(sessionObserver{broker: broker})

	var (
		watcherHandle   *watcher.Watcher
		watcherListener *pubsub.ContinuousListener[watcher.Change]
	)
	if services.Config != nil && services.Config.AutoRefresh && len(watchPaths) > 0 {
		w, err := watcher.New(watcher.DefaultConfig(watchPaths...))
		if err == nil {
			err = w.Start()
		}
		if err == nil {
			watcherHandle = w
			watcherListener = pubsub.NewContinuousListener(ctx, w.Broker())
		} else {
			// The app works without auto-refresh.
			log.Warn(log.CatWatcher, "Auto-refresh disabled", "error", err)
			if w != nil {
				_ = w.Stop()
			}
		}
	}

	overlay := logoverlay.New()
	var logListenCmd tea.Cmd
	if debugMode {
		logListenCmd = overlay.StartListening()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.SpinnerColor)

	return Model{
		screen:          mode.ScreenLoading,
		services:        services,
		checking:        true,
		spinner:         sp,
		alert:           alert.New(),
		toaster:         toaster.New(),
		help:            help.New("Keybindings"),
		debugMode:       debugMode,
		logOverlay:      overlay,
		logListenCmd:    logListenCmd,
		ctx:             ctx,
		cancel:          cancel,
		sessionBroker:   broker,
		sessionListener: pubsub.NewContinuousListener(ctx, broker),
		sessionDetach:   detach,
		watcherHandle:   watcherHandle,
		watcherListener: watcherListener,
	}
}

// Init implements tea.Model. It starts the first authentication check.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.spinner.Tick,
		m.checkCmd(),
		m.sessionListener.Listen(),
	}
	if m.watcherListener != nil {
		cmds = append(cmds, m.watcherListener.Listen())
	}
	if m.logListenCmd != nil {
		cmds = append(cmds, m.logListenCmd)
	}
	return tea.Batch(cmds...)
}

// Screen returns the active screen.
func (m Model) Screen() mode.Screen { return m.screen }

// Active returns the active screen controller, nil while loading.
func (m Model) Active() mode.Controller { return m.active }

// User returns the signed-in user from the last check.
func (m Model) User() *auth.User { return m.user }

// Alert returns the alert state.
func (m Model) Alert() alert.Model { return m.alert }

// Toaster returns the toast state.
func (m Model) Toaster() toaster.Model { return m.toaster }

// Help returns the help overlay state.
func (m Model) Help() help.Model { return m.help }

// helpSections lists the general bindings plus those of screen.
func helpSections(screen mode.Screen) []help.Section {
	k := keys.Default
	sections := []help.Section{{Title: "General", Bindings: k.GeneralHelp()}}
	switch screen {
	case mode.ScreenSignIn:
		sections = append(sections, help.Section{Title: "Sign In", Bindings: k.SignInHelp()})
	case mode.ScreenRegister:
		sections = append(sections, help.Section{Title: "Create Account", Bindings: k.RegisterHelp()})
	case mode.ScreenSettings:
		sections = append(sections, help.Section{Title: "Settings", Bindings: k.SettingsHelp()})
	case mode.ScreenPassword:
		sections = append(sections, help.Section{Title: "Change Password", Bindings: k.PasswordHelp()})
	case mode.ScreenLegal:
		sections = append(sections, help.Section{Title: "Document", Bindings: k.DocumentHelp()})
	}
	return sections
}

func (m Model) checkCmd() tea.Cmd {
	sess := m.services.Session
	parent := m.ctx
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, checkTimeout)
		defer cancel()
		u, err := sess.Check(ctx)
		return AuthStateMsg{User: u, Err: err}
	}
}

func (m Model) recheck() (Model, tea.Cmd) {
	m.services.Session.Invalidate(m.ctx)
	m.checking = true
	return m, m.checkCmd()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.active != nil {
			m.active = m.active.SetSize(msg.Width, msg.Height)
		}
		if m.parked != nil {
			m.parked = m.parked.SetSize(msg.Width, msg.Height)
		}
		m.alert = m.alert.SetSize(msg.Width, msg.Height)
		m.help = m.help.SetSize(msg.Width, msg.Height)
		m.logOverlay.SetSize(msg.Width, msg.Height)
		return m, nil

	case log.LogEvent:
		var cmd tea.Cmd
		m.logOverlay, cmd = m.logOverlay.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if key.Matches(msg, keys.Default.Quit) {
			return m, tea.Quit
		}
		if m.debugMode && key.Matches(msg, keys.Default.Logs) {
			m.logOverlay.Toggle()
			return m, nil
		}
		if m.help.Visible() {
			if key.Matches(msg, keys.Default.Help) || msg.Type == tea.KeyEsc {
				m.help = m.help.Hide()
			}
			return m, nil
		}
		if key.Matches(msg, keys.Default.Help) && !m.alert.Visible() && m.screen != mode.ScreenLoading {
			m.help = m.help.SetSections("Keybindings", helpSections(m.screen)...).Toggle()
			return m, nil
		}
		if m.logOverlay.Visible() {
			var cmd tea.Cmd
			m.logOverlay, cmd = m.logOverlay.Update(msg)
			return m, cmd
		}
		if m.alert.Visible() {
			var cmd tea.Cmd
			m.alert, cmd = m.alert.Update(msg)
			return m, cmd
		}

	case tea.MouseMsg:
		if m.logOverlay.Visible() {
			var cmd tea.Cmd
			m.logOverlay, cmd = m.logOverlay.Update(msg)
			return m, cmd
		}
		if m.alert.Visible() {
			var cmd tea.Cmd
			m.alert, cmd = m.alert.Update(msg)
			return m, cmd
		}

	case spinner.TickMsg:
		if m.screen != mode.ScreenLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case AuthStateMsg:
		return m.handleAuthState(msg)

	case pubsub.Event[SessionEvent]:
		return m.handleSessionEvent(msg.Payload)

	case pubsub.Event[watcher.Change]:
		log.Debug(log.CatWatcher, "Session state changed on disk, re-checking", "paths", msg.Payload.Paths)
		m, cmd := m.recheck()
		return m, tea.Batch(cmd, m.watcherListener.Listen())

	case mode.RecheckMsg:
		return m.recheck()

	case mode.NavigateMsg:
		return m.navigate(msg.To, msg.Link)

	case mode.BackMsg:
		return m.back()

	case mode.SignedInMsg:
		m.user = msg.User
		m, cmd := m.navigate(mode.ScreenSettings, "")
		var toast tea.Cmd
		m.toaster, toast = m.toaster.Show(fmt.Sprintf("Signed in as %s", msg.User.Username), toaster.StyleSuccess, toaster.DefaultDuration)
		return m, tea.Batch(cmd, toast)

	case mode.ShowAlertMsg:
		m.alert = m.alert.Show(msg.Title, msg.Message, msg.Then)
		return m, nil

	case alert.DismissedMsg:
		if msg.Then != nil {
			return m, mode.Cmd(msg.Then)
		}
		return m, nil

	case mode.ShowToastMsg:
		var cmd tea.Cmd
		m.toaster, cmd = m.toaster.Show(msg.Message, msg.Style, toaster.DefaultDuration)
		return m, cmd

	case toaster.DismissMsg:
		m.toaster = m.toaster.Update(msg)
		return m, nil

	case logoverlay.CloseMsg:
		m.logOverlay.Hide()
		return m, nil
	}

	// Delegate everything else to the active screen. Outcome events for a
	// screen that was closed are dropped here.
	if m.active == nil {
		return m, nil
	}
	var cmd tea.Cmd
	m.active, cmd = m.active.Update(msg)
	return m, cmd
}

func (m Model) handleAuthState(msg AuthStateMsg) (tea.Model, tea.Cmd) {
	m.checking = false

	if msg.Err == nil && msg.User != nil {
		prev := m.user
		m.user = msg.User
		switch m.screen {
		case mode.ScreenSettings, mode.ScreenPassword:
			if prev != nil && prev.ID == msg.User.ID {
				if m.screen == mode.ScreenSettings && *prev != *msg.User {
					return m.navigate(mode.ScreenSettings, "")
				}
				return m, nil
			}
		}
		log.Info(log.CatUI, "Authenticated", "user", msg.User.Username)
		return m.navigate(mode.ScreenSettings, "")
	}

	m.user = nil
	var toast tea.Cmd
	if msg.Err != nil && !errors.Is(msg.Err, auth.ErrNotSignedIn) {
		m.toaster, toast = m.toaster.Show("Could not reach the account backend", toaster.StyleError, toaster.DefaultDuration)
	}

	switch {
	case m.screen == mode.ScreenSignIn, m.screen == mode.ScreenRegister:
		return m, toast
	case m.screen == mode.ScreenLegal && m.parked != nil &&
		(m.parkedScreen == mode.ScreenSignIn || m.parkedScreen == mode.ScreenRegister):
		return m, toast
	}
	m, cmd := m.navigate(mode.ScreenSignIn, "")
	return m, tea.Batch(cmd, toast)
}

func (m Model) handleSessionEvent(ev SessionEvent) (tea.Model, tea.Cmd) {
	listen := m.sessionListener.Listen()
	switch ev.Kind {
	case SignOutFailed:
		log.Warn(log.CatUI, "Showing sign-out failure", "error", ev.Err)
		m.alert = m.alert.Show(mode.TitleLogoutError, MsgLogoutFailed, nil)
		return m, listen
	default:
		m, cmd := m.recheck()
		return m, tea.Batch(cmd, listen)
	}
}

func (m Model) build(to mode.Screen, link string) (mode.Controller, bool) {
	switch to {
	case mode.ScreenSignIn:
		return signin.New(m.services), true
	case mode.ScreenRegister:
		return register.New(m.services), true
	case mode.ScreenSettings:
		if m.user == nil {
			return nil, false
		}
		return settings.New(m.services, m.user), true
	case mode.ScreenPassword:
		if m.user == nil {
			return nil, false
		}
		return passwd.New(m.services), true
	case mode.ScreenLegal:
		return legalview.New(m.services, link), true
	}
	return nil, false
}

// navigate switches screens. Opening the legal viewer parks the current
// screen so BackMsg can restore it with its typed input.
func (m Model) navigate(to mode.Screen, link string) (Model, tea.Cmd) {
	next, ok := m.build(to, link)
	if !ok {
		log.Warn(log.CatUI, "Cannot navigate", "to", to)
		return m, nil
	}

	log.Info(log.CatUI, "Switching screen", "from", m.screen, "to", to)
	m.help = m.help.Hide()

	if to == mode.ScreenLegal {
		if m.screen == mode.ScreenLegal && m.active != nil {
			m.active.Close()
		} else if m.active != nil {
			m.parked, m.parkedScreen = m.active, m.screen
		}
	} else {
		m.closeScreens()
	}

	m.screen = to
	m.active = next
	if m.width > 0 && m.height > 0 {
		m.active = m.active.SetSize(m.width, m.height)
	}
	return m, m.active.Init()
}

func (m Model) back() (Model, tea.Cmd) {
	if m.screen != mode.ScreenLegal || m.parked == nil {
		return m, nil
	}
	m.active.Close()
	m.active, m.screen = m.parked, m.parkedScreen
	m.parked = nil
	if m.width > 0 && m.height > 0 {
		m.active = m.active.SetSize(m.width, m.height)
	}
	return m, nil
}

func (m *Model) closeScreens() {
	if m.active != nil {
		m.active.Close()
		m.active = nil
	}
	if m.parked != nil {
		m.parked.Close()
		m.parked = nil
	}
}

// View implements tea.Model.
func (m Model) View() string {
	var view string
	if m.screen == mode.ScreenLoading || m.active == nil {
		view = m.spinner.View() + " Checking session..."
		if m.width > 0 && m.height > 0 {
			view = lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, view)
		}
	} else {
		view = m.active.View()
	}

	if m.toaster.Visible() {
		view = m.toaster.Overlay(view, m.width, m.height)
	}
	if m.alert.Visible() {
		view = m.alert.Overlay(view)
	}
	if m.help.Visible() {
		view = m.help.Overlay(view)
	}
	if m.debugMode && m.logOverlay.Visible() {
		view = m.logOverlay.Overlay(view)
	}

	return zone.Scan(view)
}

// Close releases resources held by the application.
func (m *Model) Close() error {
	m.logOverlay.StopListening()
	m.closeScreens()

	if m.sessionDetach != nil {
		m.sessionDetach()
	}
	m.cancel()
	m.sessionBroker.Close()

	if m.watcherHandle != nil {
		if err := m.watcherHandle.Stop(); err != nil {
			return err
		}
	}
	return nil
}
