package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kitdeneme/kit/internal/accounts"
	"github.com/kitdeneme/kit/internal/auth"
)

var created = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func seedAccount(t *testing.T, repo accounts.Repository, id, username, email string) accounts.Account {
	t.Helper()
	a := accounts.Account{
		ID:           id,
		Username:     username,
		Email:        email,
		PasswordHash: "hash-" + id,
		CreatedAt:    created,
		UpdatedAt:    created,
	}
	require.NoError(t, repo.CreateAccount(context.Background(), a))
	return a
}

func TestAccountRepository_CreateAndLookup(t *testing.T) {
	repo := newTestDB(t).Accounts()
	ctx := context.Background()
	want := seedAccount(t, repo, "u1", "Ozan", "ozan@example.com")

	got, err := repo.AccountByID(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, want, got)

	got, err = repo.AccountByUsername(ctx, "ozan")
	require.NoError(t, err, "username lookup ignores case")
	require.Equal(t, "u1", got.ID)

	got, err = repo.AccountByEmail(ctx, "OZAN@example.com")
	require.NoError(t, err)
	require.Equal(t, "u1", got.ID)

	_, err = repo.AccountByID(ctx, "missing")
	require.ErrorIs(t, err, accounts.ErrNotFound)
}

func TestAccountRepository_Duplicates(t *testing.T) {
	repo := newTestDB(t).Accounts()
	seedAccount(t, repo, "u1", "ozan", "ozan@example.com")

	err := repo.CreateAccount(context.Background(), accounts.Account{
		ID: "u2", Username: "OZAN", Email: "other@example.com", PasswordHash: "x", CreatedAt: created, UpdatedAt: created,
	})
	require.ErrorIs(t, err, auth.ErrDuplicateUsername)

	err = repo.CreateAccount(context.Background(), accounts.Account{
		ID: "u3", Username: "other", Email: "ozan@example.com", PasswordHash: "x", CreatedAt: created, UpdatedAt: created,
	})
	require.ErrorIs(t, err, auth.ErrDuplicateEmail)
}

func TestAccountRepository_DuplicateBothReportsUsername(t *testing.T) {
	repo := newTestDB(t).Accounts()
	seedAccount(t, repo, "u1", "ozan", "ozan@example.com")
	seedAccount(t, repo, "u2", "deniz", "deniz@example.com")

	for _, a := range []accounts.Account{
		{ID: "u3", Username: "ozan", Email: "ozan@example.com"},
		{ID: "u4", Username: "Ozan", Email: "DENIZ@example.com"},
	} {
		a.PasswordHash, a.CreatedAt, a.UpdatedAt = "x", created, created
		err := repo.CreateAccount(context.Background(), a)
		require.ErrorIs(t, err, auth.ErrDuplicateUsername, "username %q email %q", a.Username, a.Email)
	}
}

func TestAccountRepository_Updates(t *testing.T) {
	repo := newTestDB(t).Accounts()
	ctx := context.Background()
	seedAccount(t, repo, "u1", "ozan", "ozan@example.com")
	later := created.Add(time.Hour)

	require.NoError(t, repo.UpdatePasswordHash(ctx, "u1", "new-hash", later))
	require.NoError(t, repo.MarkEmailVerified(ctx, "u1", later))

	got, err := repo.AccountByID(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, "new-hash", got.PasswordHash)
	require.True(t, got.EmailVerified)
	require.Equal(t, later, got.UpdatedAt)

	require.ErrorIs(t, repo.UpdatePasswordHash(ctx, "missing", "x", later), accounts.ErrNotFound)
	require.ErrorIs(t, repo.MarkEmailVerified(ctx, "missing", later), accounts.ErrNotFound)
}

func TestAccountRepository_Sessions(t *testing.T) {
	repo := newTestDB(t).Accounts()
	ctx := context.Background()
	seedAccount(t, repo, "u1", "ozan", "ozan@example.com")

	for _, tok := range []string{"t1", "t2", "t3"} {
		require.NoError(t, repo.CreateSession(ctx, accounts.Session{
			Token: tok, UserID: "u1", CreatedAt: created, ExpiresAt: created.Add(time.Hour),
		}))
	}

	s, err := repo.SessionByToken(ctx, "t1")
	require.NoError(t, err)
	require.Equal(t, "u1", s.UserID)
	require.Equal(t, created.Add(time.Hour), s.ExpiresAt)

	require.NoError(t, repo.DeleteSession(ctx, "t1"))
	require.ErrorIs(t, repo.DeleteSession(ctx, "t1"), accounts.ErrNotFound)
	_, err = repo.SessionByToken(ctx, "t1")
	require.ErrorIs(t, err, accounts.ErrNotFound)

	require.NoError(t, repo.DeleteSessionsExcept(ctx, "u1", "t2"))
	_, err = repo.SessionByToken(ctx, "t2")
	require.NoError(t, err)
	_, err = repo.SessionByToken(ctx, "t3")
	require.ErrorIs(t, err, accounts.ErrNotFound)
}

func TestAccountRepository_SessionRequiresUser(t *testing.T) {
	repo := newTestDB(t).Accounts()

	err := repo.CreateSession(context.Background(), accounts.Session{
		Token: "t1", UserID: "ghost", CreatedAt: created, ExpiresAt: created,
	})
	require.Error(t, err, "foreign key on user_id")
}

func TestAccountRepository_Verifications(t *testing.T) {
	repo := newTestDB(t).Accounts()
	ctx := context.Background()
	seedAccount(t, repo, "u1", "ozan", "ozan@example.com")

	require.NoError(t, repo.CreateVerification(ctx, accounts.Verification{
		Token: "v1", UserID: "u1", CreatedAt: created, ExpiresAt: created.Add(48 * time.Hour),
	}))

	v, err := repo.ConsumeVerification(ctx, "v1")
	require.NoError(t, err)
	require.Equal(t, "u1", v.UserID)

	_, err = repo.ConsumeVerification(ctx, "v1")
	require.ErrorIs(t, err, accounts.ErrNotFound)
}
