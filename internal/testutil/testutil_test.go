package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kitdeneme/kit/internal/auth"
)

func TestBuilder_WithAccountDefaults(t *testing.T) {
	db := NewTestDB(t)

	built := NewBuilder(t, db.Accounts()).
		WithAccount("ozan").
		Build()

	got, err := db.Accounts().AccountByUsername(context.Background(), "ozan")
	require.NoError(t, err)
	require.Equal(t, built["ozan"].ID, got.ID)
	require.Equal(t, "ozan@example.com", got.Email)
	require.False(t, got.EmailVerified)
}

func TestBuilder_WithAccountOptions(t *testing.T) {
	db := NewTestDB(t)
	joined := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	NewBuilder(t, db.Accounts()).
		WithAccount("deniz", ID("u-1"), Email("d@example.org"), Verified(), CreatedAt(joined)).
		Build()

	got, err := db.Accounts().AccountByID(context.Background(), "u-1")
	require.NoError(t, err)
	require.Equal(t, "d@example.org", got.Email)
	require.True(t, got.EmailVerified)
	require.True(t, joined.Equal(got.CreatedAt))
}

func TestStack_SignInWithBuiltAccount(t *testing.T) {
	s := NewStack(t)
	s.Accounts(t).WithAccount("ozan", Password("hunter22")).Build()

	_, err := s.Gateway.SignIn(context.Background(), "ozan", DefaultPassword)
	require.ErrorIs(t, err, auth.ErrInvalidCredentials)

	u, err := s.Gateway.SignIn(context.Background(), "ozan@example.com", "hunter22")
	require.NoError(t, err)
	require.Equal(t, "ozan", u.Username)

	token, err := s.Tokens.Load()
	require.NoError(t, err)
	require.NotEmpty(t, token)
}

func TestServices_Wired(t *testing.T) {
	s := NewStack(t)
	s.Accounts(t).WithAccount("ozan").Build()
	s.SignIn(t, "ozan")

	svc := s.Services(t)
	require.NotNil(t, svc.Workflow)
	require.Equal(t, Now, svc.Clock.Now())

	u, err := svc.Session.Check(context.Background())
	require.NoError(t, err)
	require.Equal(t, "ozan", u.Username)
}
