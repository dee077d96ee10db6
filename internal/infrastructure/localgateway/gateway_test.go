package localgateway

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/kitdeneme/kit/internal/accounts"
	"github.com/kitdeneme/kit/internal/auth"
	"github.com/kitdeneme/kit/internal/infrastructure/sqlite"
	"github.com/kitdeneme/kit/internal/infrastructure/tokenfile"
	"github.com/kitdeneme/kit/internal/mocks"
	"github.com/kitdeneme/kit/internal/registration"
)

type fixture struct {
	db     *sqlite.DB
	tokens *tokenfile.Store
	gw     *Gateway
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()

	db, err := sqlite.NewDB(filepath.Join(dir, "kit.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	svc := accounts.NewService(db.Accounts(), accounts.WithBcryptCost(bcrypt.MinCost))
	tokens := tokenfile.New(filepath.Join(dir, "token"))
	return &fixture{db: db, tokens: tokens, gw: New(svc, tokens)}
}

var ozan = auth.Credentials{Username: "ozan", Email: "ozan@example.com", Password: "password1"}

func TestGateway_RegisterSignInCurrentUserSignOut(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.gw.Register(ctx, ozan))

	_, err := f.gw.CurrentUser(ctx)
	require.ErrorIs(t, err, auth.ErrNotSignedIn, "register does not sign in")

	u, err := f.gw.SignIn(ctx, "ozan@example.com", "password1")
	require.NoError(t, err)
	require.Equal(t, "ozan", u.Username)

	tok, err := f.tokens.Load()
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	cur, err := f.gw.CurrentUser(ctx)
	require.NoError(t, err)
	require.Equal(t, u.ID, cur.ID)

	require.NoError(t, f.gw.SignOut(ctx))
	_, err = f.gw.CurrentUser(ctx)
	require.ErrorIs(t, err, auth.ErrNotSignedIn)
}

func TestGateway_DuplicateRegistrationThroughWorkflow(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.gw.Register(context.Background(), ozan))

	var got error
	wf := registration.New(f.gw)
	wf.Observe(registration.ObserverFunc(func(o registration.Outcome) { got = o.Err() }))

	require.NoError(t, wf.Submit(context.Background(),
		registration.NewRequest("someone", "ozan@example.com", "password1")))
	wf.Wait()

	var rerr *registration.RemoteError
	require.ErrorAs(t, got, &rerr)
	require.ErrorIs(t, got, auth.ErrDuplicateEmail)

	require.NoError(t, wf.Submit(context.Background(),
		registration.NewRequest("ozan", "other@example.com", "password1")))
	wf.Wait()
	require.ErrorIs(t, got, auth.ErrDuplicateUsername)
}

func TestGateway_SignInReplacesPreviousSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.gw.Register(ctx, ozan))

	_, err := f.gw.SignIn(ctx, "ozan", "password1")
	require.NoError(t, err)
	first, _ := f.tokens.Load()

	_, err = f.gw.SignIn(ctx, "ozan", "password1")
	require.NoError(t, err)
	second, _ := f.tokens.Load()
	require.NotEqual(t, first, second)

	var sessions int
	require.NoError(t, f.db.Connection().QueryRow(`SELECT COUNT(*) FROM sessions`).Scan(&sessions))
	require.Equal(t, 1, sessions)
}

func TestGateway_SignInWrongPassword(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.gw.Register(context.Background(), ozan))

	_, err := f.gw.SignIn(context.Background(), "ozan", "nope")
	require.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestGateway_SignOutClearsTokenWhenRevokeFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.gw.Register(ctx, ozan))
	_, err := f.gw.SignIn(ctx, "ozan", "password1")
	require.NoError(t, err)

	require.NoError(t, f.db.Close())

	err = f.gw.SignOut(ctx)
	require.Error(t, err)

	tok, err := f.tokens.Load()
	require.NoError(t, err)
	require.Empty(t, tok)
}

func TestGateway_SignOutReportsClearFailure(t *testing.T) {
	f := newFixture(t)
	store := mocks.NewMockTokenStore(t)
	store.EXPECT().Load().Return("", nil).Once()
	store.EXPECT().Clear().Return(errors.New("read-only filesystem")).Once()
	gw := New(accounts.NewService(f.db.Accounts()), store)

	err := gw.SignOut(context.Background())
	require.ErrorContains(t, err, "read-only filesystem")
}

func TestGateway_StaleTokenIsCleared(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.tokens.Save("not-a-session"))

	_, err := f.gw.CurrentUser(context.Background())
	require.ErrorIs(t, err, auth.ErrNotSignedIn)

	tok, _ := f.tokens.Load()
	require.Empty(t, tok)
}

func TestGateway_ChangePassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.gw.Register(ctx, ozan))

	require.ErrorIs(t, f.gw.ChangePassword(ctx, "password1", "password2"), auth.ErrNotSignedIn)

	_, err := f.gw.SignIn(ctx, "ozan", "password1")
	require.NoError(t, err)
	require.NoError(t, f.gw.ChangePassword(ctx, "password1", "password2"))

	_, err = f.gw.SignIn(ctx, "ozan", "password2")
	require.NoError(t, err)
}
