package app

import (
	"bytes"
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/stretchr/testify/require"

	"github.com/kitdeneme/kit/internal/mode"
	"github.com/kitdeneme/kit/internal/testutil"
)

const waitFor = 5 * time.Second

func startProgram(t *testing.T, s *testutil.Stack) *teatest.TestModel {
	t.Helper()
	m := New(s.Services(t), nil, false)
	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(100, 40))
	t.Cleanup(func() {
		_ = tm.Quit()
		final, ok := tm.FinalModel(t, teatest.WithFinalTimeout(waitFor)).(Model)
		if ok {
			_ = final.Close()
		}
	})
	return tm
}

func waitForText(t *testing.T, tm *teatest.TestModel, text string) {
	t.Helper()
	teatest.WaitFor(t, tm.Output(), func(b []byte) bool {
		return bytes.Contains(b, []byte(text))
	}, teatest.WithDuration(waitFor))
}

func sendKey(tm *teatest.TestModel, k tea.KeyType) {
	tm.Send(tea.KeyMsg{Type: k})
}

func TestFlow_SignIn(t *testing.T) {
	s := testutil.NewStack(t)
	s.Accounts(t).WithAccount("ozan", testutil.Verified()).Build()
	tm := startProgram(t, s)

	waitForText(t, tm, "New here?")
	tm.Type("ozan")
	sendKey(tm, tea.KeyTab)
	tm.Type(testutil.DefaultPassword)
	sendKey(tm, tea.KeyEnter)

	waitForText(t, tm, "ozan@example.com")

	token, err := s.Tokens.Load()
	require.NoError(t, err)
	require.NotEmpty(t, token)
}

func TestFlow_RegisterThenVerificationAlert(t *testing.T) {
	s := testutil.NewStack(t)
	tm := startProgram(t, s)

	waitForText(t, tm, "New here?")
	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlN})
	waitForText(t, tm, "Create Account")

	tm.Type("deniz")
	sendKey(tm, tea.KeyTab)
	tm.Type("deniz@example.com")
	sendKey(tm, tea.KeyTab)
	tm.Type("password1")
	sendKey(tm, tea.KeyEnter)

	// The alert wraps its message; the title always fits on one line.
	waitForText(t, tm, mode.TitleEmailVerification)
	sendKey(tm, tea.KeyEnter)
	waitForText(t, tm, "New here?")

	acc, err := s.DB.Accounts().AccountByUsername(context.Background(), "deniz")
	require.NoError(t, err)
	require.False(t, acc.EmailVerified)
}

func TestFlow_RegisterRejectsBadEmail(t *testing.T) {
	s := testutil.NewStack(t)
	tm := startProgram(t, s)

	waitForText(t, tm, "New here?")
	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlN})
	waitForText(t, tm, "Create Account")

	tm.Type("deniz")
	sendKey(tm, tea.KeyTab)
	tm.Type("not-an-email")
	sendKey(tm, tea.KeyTab)
	tm.Type("password1")
	sendKey(tm, tea.KeyEnter)

	waitForText(t, tm, "Invalid Email")

	_, err := s.DB.Accounts().AccountByUsername(context.Background(), "deniz")
	require.Error(t, err)
}

func TestFlow_Logout(t *testing.T) {
	s := testutil.NewStack(t)
	s.Accounts(t).WithAccount("ozan").Build()
	s.SignIn(t, "ozan")
	tm := startProgram(t, s)

	waitForText(t, tm, "(unverified)")
	sendKey(tm, tea.KeyTab)
	sendKey(tm, tea.KeyEnter)

	waitForText(t, tm, "New here?")

	token, err := s.Tokens.Load()
	require.NoError(t, err)
	require.Empty(t, token)
}
