package session

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kitdeneme/kit/internal/auth"
	"github.com/kitdeneme/kit/internal/mocks"
	"github.com/kitdeneme/kit/internal/stats"
)

type recordingObserver struct {
	mu     sync.Mutex
	events []string
	errs   []error
}

func (o *recordingObserver) SignOutFailed(err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, "failed")
	o.errs = append(o.errs, err)
}

func (o *recordingObserver) SessionInvalidated() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, "invalidated")
}

func (o *recordingObserver) snapshot() ([]string, []error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.events...), append([]error(nil), o.errs...)
}

var ozan = &auth.User{ID: "u-1", Username: "ozan", Email: "ozan@example.com"}

func TestSignOut_SuccessInvalidatesOnce(t *testing.T) {
	gw := mocks.NewMockGateway(t)
	gw.EXPECT().SignOut(mock.Anything).Return(nil).Once()

	c := NewController(gw)
	obs := &recordingObserver{}
	c.Observe(obs)

	c.SignOut(context.Background())
	c.Wait()

	events, _ := obs.snapshot()
	require.Equal(t, []string{"invalidated"}, events)
}

func TestSignOut_FailureReportsThenInvalidates(t *testing.T) {
	netErr := errors.New("network unreachable")
	gw := mocks.NewMockGateway(t)
	gw.EXPECT().SignOut(mock.Anything).Return(netErr).Once()

	c := NewController(gw)
	obs := &recordingObserver{}
	c.Observe(obs)

	c.SignOut(context.Background())
	c.Wait()

	events, errs := obs.snapshot()
	require.Equal(t, []string{"failed", "invalidated"}, events)
	require.Len(t, errs, 1)
	require.ErrorIs(t, errs[0], netErr)
}

func TestSignOut_DropsCachedUser(t *testing.T) {
	gw := mocks.NewMockGateway(t)
	gw.EXPECT().CurrentUser(mock.Anything).Return(ozan, nil).Once()
	gw.EXPECT().SignOut(mock.Anything).Return(errors.New("offline")).Once()
	gw.EXPECT().CurrentUser(mock.Anything).Return(nil, auth.ErrNotSignedIn).Once()

	c := NewController(gw)
	c.Observe(&recordingObserver{})

	u, err := c.Check(context.Background())
	require.NoError(t, err)
	require.Equal(t, "ozan", u.Username)

	c.SignOut(context.Background())
	c.Wait()

	_, err = c.Check(context.Background())
	require.ErrorIs(t, err, auth.ErrNotSignedIn)
}

func TestSignOut_DetachedObserverNotCalled(t *testing.T) {
	release := make(chan struct{})
	gw := mocks.NewMockGateway(t)
	gw.EXPECT().SignOut(mock.Anything).
		RunAndReturn(func(context.Context) error {
			<-release
			return nil
		}).
		Once()

	c := NewController(gw)
	obs := &recordingObserver{}
	detach := c.Observe(obs)

	c.SignOut(context.Background())
	detach()
	close(release)
	c.Wait()

	events, _ := obs.snapshot()
	require.Empty(t, events)
}

func TestObserve_StaleDetach(t *testing.T) {
	gw := mocks.NewMockGateway(t)
	gw.EXPECT().SignOut(mock.Anything).Return(nil).Once()

	c := NewController(gw)
	first := &recordingObserver{}
	second := &recordingObserver{}
	detach := c.Observe(first)
	c.Observe(second)
	detach()

	c.SignOut(context.Background())
	c.Wait()

	events, _ := first.snapshot()
	require.Empty(t, events)
	events, _ = second.snapshot()
	require.Equal(t, []string{"invalidated"}, events)
}

func TestCheck_CachesPositiveAnswer(t *testing.T) {
	gw := mocks.NewMockGateway(t)
	gw.EXPECT().CurrentUser(mock.Anything).Return(ozan, nil).Once()

	c := NewController(gw)
	for i := 0; i < 3; i++ {
		u, err := c.Check(context.Background())
		require.NoError(t, err)
		require.Same(t, ozan, u)
	}
}

func TestCheck_NotSignedInIsNotCached(t *testing.T) {
	gw := mocks.NewMockGateway(t)
	gw.EXPECT().CurrentUser(mock.Anything).Return(nil, auth.ErrNotSignedIn).Twice()

	c := NewController(gw)
	_, err := c.Check(context.Background())
	require.ErrorIs(t, err, auth.ErrNotSignedIn)
	_, err = c.Check(context.Background())
	require.ErrorIs(t, err, auth.ErrNotSignedIn)
}

func TestCheck_ZeroTTLAlwaysAsks(t *testing.T) {
	gw := mocks.NewMockGateway(t)
	gw.EXPECT().CurrentUser(mock.Anything).Return(ozan, nil).Twice()

	c := NewController(gw, WithCacheTTL(0))
	_, _ = c.Check(context.Background())
	_, _ = c.Check(context.Background())
}

func TestSignIn_PrimesCache(t *testing.T) {
	gw := mocks.NewMockGateway(t)
	gw.EXPECT().SignIn(mock.Anything, "ozan", "password1").Return(ozan, nil).Once()

	rec := stats.NewMemoryStore()
	c := NewController(gw, WithRecorder(rec))

	u, err := c.SignIn(context.Background(), "ozan", "password1")
	require.NoError(t, err)
	require.Same(t, ozan, u)

	u, err = c.Check(context.Background())
	require.NoError(t, err)
	require.Same(t, ozan, u)
	require.Equal(t, int64(1), rec.Get(stats.OpSignIn).Succeeded)
}

func TestSignIn_Failure(t *testing.T) {
	gw := mocks.NewMockGateway(t)
	gw.EXPECT().SignIn(mock.Anything, "ozan", "nope").Return(nil, auth.ErrInvalidCredentials).Once()

	c := NewController(gw)
	_, err := c.SignIn(context.Background(), "ozan", "nope")
	require.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestChangePassword(t *testing.T) {
	gw := mocks.NewMockGateway(t)
	gw.EXPECT().ChangePassword(mock.Anything, "password1", "password2").Return(nil).Once()

	c := NewController(gw)

	require.ErrorIs(t, c.ChangePassword(context.Background(), "password1", "weak"), ErrWeakPassword)
	require.NoError(t, c.ChangePassword(context.Background(), "password1", "password2"))
}

func TestSignOut_RecordsOutcome(t *testing.T) {
	gw := mocks.NewMockGateway(t)
	gw.EXPECT().SignOut(mock.Anything).Return(errors.New("boom")).Once()

	rec := stats.NewMemoryStore()
	c := NewController(gw, WithRecorder(rec))
	c.SignOut(context.Background())
	c.Wait()

	require.Equal(t, stats.Counters{Failed: 1}, rec.Get(stats.OpSignOut))
}
