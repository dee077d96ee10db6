package app

import (
	"errors"
	"os"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kitdeneme/kit/internal/auth"
	"github.com/kitdeneme/kit/internal/legal"
	"github.com/kitdeneme/kit/internal/mocks"
	"github.com/kitdeneme/kit/internal/mode"
	"github.com/kitdeneme/kit/internal/mode/register"
	"github.com/kitdeneme/kit/internal/mode/settings"
	"github.com/kitdeneme/kit/internal/pubsub"
	"github.com/kitdeneme/kit/internal/testutil"
	"github.com/kitdeneme/kit/internal/ui/toaster"
)

func TestMain(m *testing.M) {
	zone.NewGlobal()
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

var ozan = &auth.User{ID: "u-1", Username: "ozan", Email: "ozan@example.com"}

// createTestModel creates a sized Model over a mock gateway.
func createTestModel(t *testing.T) (Model, *mocks.MockGateway) {
	t.Helper()
	gw := mocks.NewMockGateway(t)
	m := New(testutil.Services(t, gw), nil, false)
	t.Cleanup(func() { _ = m.Close() })

	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return next.(Model), gw
}

func step(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out, cmd
}

// firstMsgOf runs cmd and returns the first message of type T. Batched
// commands run in order, so blocking listeners must come after the match.
func firstMsgOf[T any](t *testing.T, cmd tea.Cmd) T {
	t.Helper()
	require.NotNil(t, cmd)
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			if c == nil {
				continue
			}
			if out, ok := c().(T); ok {
				return out
			}
		}
		t.Fatalf("no %T in batch", *new(T))
	}
	out, ok := msg.(T)
	require.True(t, ok, "got %T", msg)
	return out
}

func TestApp_StartsLoading(t *testing.T) {
	m, _ := createTestModel(t)

	assert.Equal(t, mode.ScreenLoading, m.Screen())
	assert.Nil(t, m.Active())
	assert.Contains(t, m.View(), "Checking session...")
}

func TestApp_CheckRoutesSignedInUserToSettings(t *testing.T) {
	m, gw := createTestModel(t)
	gw.EXPECT().CurrentUser(mock.Anything).Return(ozan, nil).Once()

	state := m.checkCmd()().(AuthStateMsg)
	m, _ = step(t, m, state)

	assert.Equal(t, mode.ScreenSettings, m.Screen())
	assert.Equal(t, "ozan", m.User().Username)
	assert.Contains(t, m.View(), "ozan@example.com")
}

func TestApp_CheckRoutesSignedOutUserToSignIn(t *testing.T) {
	m, gw := createTestModel(t)
	gw.EXPECT().CurrentUser(mock.Anything).Return(nil, auth.ErrNotSignedIn).Once()

	m, _ = step(t, m, m.checkCmd()())

	assert.Equal(t, mode.ScreenSignIn, m.Screen())
	assert.Nil(t, m.User())
	assert.False(t, m.Toaster().Visible())
}

func TestApp_CheckFailureShowsToast(t *testing.T) {
	m, _ := createTestModel(t)

	m, _ = step(t, m, AuthStateMsg{Err: errors.New("connection refused")})

	assert.Equal(t, mode.ScreenSignIn, m.Screen())
	assert.True(t, m.Toaster().Visible())
}

func TestApp_SignedOutCheckKeepsRegisterScreen(t *testing.T) {
	m, _ := createTestModel(t)
	m, _ = step(t, m, mode.NavigateMsg{To: mode.ScreenRegister})

	m, _ = step(t, m, AuthStateMsg{Err: auth.ErrNotSignedIn})

	assert.Equal(t, mode.ScreenRegister, m.Screen())
}

func TestApp_SignedInMsgShowsToastAndSettings(t *testing.T) {
	m, _ := createTestModel(t)

	m, cmd := step(t, m, mode.SignedInMsg{User: ozan})

	assert.NotNil(t, cmd)
	assert.Equal(t, mode.ScreenSettings, m.Screen())
	assert.Equal(t, "Signed in as ozan", m.Toaster().Message())
}

func TestApp_SettingsNeedsUser(t *testing.T) {
	m, _ := createTestModel(t)

	m, cmd := step(t, m, mode.NavigateMsg{To: mode.ScreenSettings})

	assert.Nil(t, cmd)
	assert.Equal(t, mode.ScreenLoading, m.Screen())
}

func TestApp_LegalViewerReturnsToParkedScreen(t *testing.T) {
	m, _ := createTestModel(t)
	m, _ = step(t, m, mode.NavigateMsg{To: mode.ScreenRegister})
	reg := m.Active()

	m, _ = step(t, m, mode.NavigateMsg{To: mode.ScreenLegal, Link: legal.TermsLink})
	assert.Equal(t, mode.ScreenLegal, m.Screen())
	assert.Contains(t, m.View(), "Terms & Conditions")

	m, _ = step(t, m, mode.BackMsg{})
	assert.Equal(t, mode.ScreenRegister, m.Screen())
	_, ok := m.Active().(register.Model)
	assert.True(t, ok)
	assert.NotNil(t, reg)
}

func TestApp_BackOutsideLegalViewerIgnored(t *testing.T) {
	m, _ := createTestModel(t)
	m, _ = step(t, m, mode.NavigateMsg{To: mode.ScreenSignIn})

	m, _ = step(t, m, mode.BackMsg{})

	assert.Equal(t, mode.ScreenSignIn, m.Screen())
}

func TestApp_AlertBlocksScreenAndDeliversThen(t *testing.T) {
	m, _ := createTestModel(t)
	m, _ = step(t, m, mode.NavigateMsg{To: mode.ScreenRegister})
	m, _ = step(t, m, mode.ShowAlertMsg{
		Title:   mode.TitleEmailVerification,
		Message: mode.MsgVerificationSent,
		Then:    mode.NavigateMsg{To: mode.ScreenSignIn},
	})
	require.True(t, m.Alert().Visible())
	assert.Contains(t, m.View(), "Verification mail sent")

	// Esc would leave the register screen if it reached it.
	m, cmd := step(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.Alert().Visible())
	assert.Equal(t, mode.ScreenRegister, m.Screen())

	dismissed := cmd()
	m, cmd = step(t, m, dismissed)
	m, _ = step(t, m, cmd())
	assert.Equal(t, mode.ScreenSignIn, m.Screen())
}

func TestApp_ToastDismissal(t *testing.T) {
	m, _ := createTestModel(t)

	m, cmd := step(t, m, mode.ShowToastMsg{Message: "Password changed", Style: toaster.StyleSuccess})
	require.True(t, m.Toaster().Visible())

	m, _ = step(t, m, cmd())
	assert.False(t, m.Toaster().Visible())
}

func TestApp_SignOutFailureAlertsThenRechecks(t *testing.T) {
	m, gw := createTestModel(t)
	gw.EXPECT().SignOut(mock.Anything).Return(errors.New("revoke failed")).Once()
	gw.EXPECT().CurrentUser(mock.Anything).Return(nil, auth.ErrNotSignedIn).Once()

	m, _ = step(t, m, mode.SignedInMsg{User: ozan})
	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, m.Active().(settings.Model).SigningOut())

	failed, ok := m.sessionListener.Listen()().(pubsub.Event[SessionEvent])
	require.True(t, ok)
	require.Equal(t, SignOutFailed, failed.Payload.Kind)
	m, _ = step(t, m, failed)
	require.True(t, m.Alert().Visible())
	assert.Equal(t, mode.TitleLogoutError, m.Alert().Title())

	invalidated, ok := m.sessionListener.Listen()().(pubsub.Event[SessionEvent])
	require.True(t, ok)
	require.Equal(t, SessionInvalidated, invalidated.Payload.Kind)
	m, cmd := step(t, m, invalidated)

	state := firstMsgOf[AuthStateMsg](t, cmd)
	m, _ = step(t, m, state)
	assert.Equal(t, mode.ScreenSignIn, m.Screen())
	assert.True(t, m.Alert().Visible(), "the alert stays up across the re-check")
}

func TestApp_RecheckKeepsSettingsForSameUser(t *testing.T) {
	m, gw := createTestModel(t)
	gw.EXPECT().CurrentUser(mock.Anything).Return(ozan, nil).Once()
	m, _ = step(t, m, mode.SignedInMsg{User: ozan})
	before := m.Active()

	m, cmd := step(t, m, mode.RecheckMsg{})
	m, _ = step(t, m, cmd())

	assert.Equal(t, mode.ScreenSettings, m.Screen())
	assert.Equal(t, before, m.Active())
}

func TestApp_CtrlCQuits(t *testing.T) {
	m, _ := createTestModel(t)

	_, cmd := step(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})

	assert.Equal(t, tea.Quit(), cmd())
}

func TestApp_HelpOverlayListsScreenBindings(t *testing.T) {
	m, _ := createTestModel(t)

	// Nothing to explain while loading.
	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyF1})
	require.False(t, m.Help().Visible())

	m, _ = step(t, m, AuthStateMsg{Err: auth.ErrNotSignedIn})
	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyF1})
	require.True(t, m.Help().Visible())

	titles := []string{}
	for _, s := range m.Help().Sections() {
		titles = append(titles, s.Title)
	}
	assert.Equal(t, []string{"General", "Sign In"}, titles)
	assert.Contains(t, m.View(), "create account")

	// Keys go to the overlay, not the screen.
	m, cmd := step(t, m, tea.KeyMsg{Type: tea.KeyCtrlN})
	assert.Nil(t, cmd)
	assert.Equal(t, mode.ScreenSignIn, m.Screen())

	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.Help().Visible())
}

func TestApp_NavigationClosesHelp(t *testing.T) {
	m, _ := createTestModel(t)
	m, _ = step(t, m, AuthStateMsg{Err: auth.ErrNotSignedIn})
	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyF1})
	require.True(t, m.Help().Visible())

	m, _ = step(t, m, mode.NavigateMsg{To: mode.ScreenRegister})

	assert.Equal(t, mode.ScreenRegister, m.Screen())
	assert.False(t, m.Help().Visible())
}
