package httpgateway

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/kitdeneme/kit/internal/accounts"
	"github.com/kitdeneme/kit/internal/auth"
	"github.com/kitdeneme/kit/internal/authserver"
	"github.com/kitdeneme/kit/internal/infrastructure/ratelimit"
	"github.com/kitdeneme/kit/internal/infrastructure/sqlite"
	"github.com/kitdeneme/kit/internal/infrastructure/tokenfile"
)

func newPair(t *testing.T, opts ...authserver.Option) (*Gateway, *tokenfile.Store) {
	t.Helper()
	dir := t.TempDir()

	db, err := sqlite.NewDB(filepath.Join(dir, "kit.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	svc := accounts.NewService(db.Accounts(), accounts.WithBcryptCost(bcrypt.MinCost))
	srv := httptest.NewServer(authserver.New(svc, opts...).Handler())
	t.Cleanup(srv.Close)

	tokens := tokenfile.New(filepath.Join(dir, "token"))
	return New(srv.URL+"/", tokens, WithHTTPClient(srv.Client())), tokens
}

var ozan = auth.Credentials{Username: "ozan", Email: "ozan@example.com", Password: "password1"}

func TestGateway_RoundTrip(t *testing.T) {
	gw, tokens := newPair(t)
	ctx := context.Background()

	require.NoError(t, gw.Register(ctx, ozan))

	_, err := gw.CurrentUser(ctx)
	require.ErrorIs(t, err, auth.ErrNotSignedIn)

	u, err := gw.SignIn(ctx, "ozan", "password1")
	require.NoError(t, err)
	require.Equal(t, "ozan", u.Username)

	tok, _ := tokens.Load()
	require.NotEmpty(t, tok)

	cur, err := gw.CurrentUser(ctx)
	require.NoError(t, err)
	require.Equal(t, u.ID, cur.ID)

	require.NoError(t, gw.ChangePassword(ctx, "password1", "password2"))
	require.ErrorIs(t, gw.ChangePassword(ctx, "password1", "password3"), auth.ErrInvalidCredentials)

	require.NoError(t, gw.SignOut(ctx))
	tok, _ = tokens.Load()
	require.Empty(t, tok)

	_, err = gw.CurrentUser(ctx)
	require.ErrorIs(t, err, auth.ErrNotSignedIn)
}

func TestGateway_MapsDuplicateErrors(t *testing.T) {
	gw, _ := newPair(t)
	ctx := context.Background()
	require.NoError(t, gw.Register(ctx, ozan))

	err := gw.Register(ctx, auth.Credentials{Username: "ozan", Email: "x@example.com", Password: "password1"})
	require.ErrorIs(t, err, auth.ErrDuplicateUsername)

	err = gw.Register(ctx, auth.Credentials{Username: "other", Email: "ozan@example.com", Password: "password1"})
	require.ErrorIs(t, err, auth.ErrDuplicateEmail)
}

func TestGateway_MapsInvalidCredentials(t *testing.T) {
	gw, _ := newPair(t)
	_, err := gw.SignIn(context.Background(), "nobody", "password1")
	require.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestGateway_MapsThrottled(t *testing.T) {
	gw, _ := newPair(t, authserver.WithLimiter(ratelimit.NewLimiter(0.001, 1)))
	ctx := context.Background()

	_, err := gw.SignIn(ctx, "nobody", "x")
	require.ErrorIs(t, err, auth.ErrInvalidCredentials)
	_, err = gw.SignIn(ctx, "nobody", "x")
	require.ErrorIs(t, err, auth.ErrThrottled)
}

func TestGateway_ValidationRejectionIsStatusError(t *testing.T) {
	gw, _ := newPair(t)

	err := gw.Register(context.Background(), auth.Credentials{Username: "ab", Email: "ozan@example.com", Password: "password1"})
	var serr *StatusError
	require.ErrorAs(t, err, &serr)
	require.Equal(t, http.StatusBadRequest, serr.Status)
	require.Contains(t, serr.Error(), "invalid username")
}

func TestGateway_SignOutClearsTokenWhenServerFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	tokens := tokenfile.New(filepath.Join(t.TempDir(), "token"))
	require.NoError(t, tokens.Save("abc"))
	gw := New(srv.URL, tokens)

	err := gw.SignOut(context.Background())
	var serr *StatusError
	require.ErrorAs(t, err, &serr)
	require.Equal(t, http.StatusBadGateway, serr.Status)

	tok, _ := tokens.Load()
	require.Empty(t, tok)
}

func TestGateway_Unreachable(t *testing.T) {
	tokens := tokenfile.New(filepath.Join(t.TempDir(), "token"))
	gw := New("http://127.0.0.1:1", tokens)

	err := gw.Register(context.Background(), ozan)
	require.Error(t, err)
	require.False(t, errors.Is(err, auth.ErrThrottled))
}
