// Package session owns the signed-in state: sign-in, the cached answer to
// "who is signed in", password changes and the asynchronous sign-out path.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/kitdeneme/kit/internal/auth"
	"github.com/kitdeneme/kit/internal/cachemanager"
	"github.com/kitdeneme/kit/internal/log"
	"github.com/kitdeneme/kit/internal/stats"
	"github.com/kitdeneme/kit/internal/validator"
)

// DefaultCacheTTL is how long a positive Check answer is reused.
const DefaultCacheTTL = 30 * time.Second

const currentUserKey = "current_user"

// ErrWeakPassword is returned by ChangePassword when the new password does
// not satisfy the password rules. The gateway is not called.
var ErrWeakPassword = errors.New("new password does not meet requirements")

// Observer is told about the end of a sign-out. Both methods run on the
// controller's goroutine.
type Observer interface {
	// SignOutFailed is called before SessionInvalidated when the backend
	// reported an error.
	SignOutFailed(err error)
	// SessionInvalidated is called exactly once per SignOut, whatever the
	// outcome. Re-run Check to learn the new state.
	SessionInvalidated()
}

// Controller coordinates session operations against a gateway.
type Controller struct {
	gateway  auth.Gateway
	current  *cachemanager.ReadThrough[*auth.User]
	rules    validator.Rules
	recorder stats.Recorder

	mu       sync.Mutex
	observer Observer
	gen      uint64

	inflight sync.WaitGroup
}

type options struct {
	cache    cachemanager.CacheManager[*auth.User]
	ttl      time.Duration
	rules    validator.Rules
	recorder stats.Recorder
}

// Option configures a Controller.
type Option func(*options)

// WithCacheTTL sets how long Check reuses a positive answer. Zero disables
// caching.
func WithCacheTTL(ttl time.Duration) Option {
	return func(o *options) { o.ttl = ttl }
}

// WithCache replaces the in-memory cache, mostly for tests.
func WithCache(c cachemanager.CacheManager[*auth.User]) Option {
	return func(o *options) { o.cache = c }
}

// WithRules sets the rules ChangePassword checks the new password against.
func WithRules(r validator.Rules) Option {
	return func(o *options) { o.rules = r }
}

// WithRecorder records sign-in and sign-out outcomes.
func WithRecorder(r stats.Recorder) Option {
	return func(o *options) {
		if r != nil {
			o.recorder = r
		}
	}
}

// NewController creates a Controller over gw.
func NewController(gw auth.Gateway, opts ...Option) *Controller {
	o := options{
		ttl:      DefaultCacheTTL,
		rules:    validator.DefaultRules(),
		recorder: stats.Nop{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.cache == nil {
		o.cache = cachemanager.NewInMemory[*auth.User]("session", o.ttl, cachemanager.DefaultCleanupInterval)
	}

	return &Controller{
		gateway:  gw,
		current:  cachemanager.NewReadThrough(o.cache, o.ttl, gw.CurrentUser),
		rules:    o.rules,
		recorder: o.recorder,
	}
}

// Observe attaches o, replacing any previous observer. The returned func
// detaches it; a stale detach never removes a newer observer.
func (c *Controller) Observe(o Observer) (detach func()) {
	c.mu.Lock()
	c.gen++
	id := c.gen
	c.observer = o
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			if c.gen == id {
				c.observer = nil
			}
			c.mu.Unlock()
		})
	}
}

// Check returns the signed-in user, or auth.ErrNotSignedIn.
func (c *Controller) Check(ctx context.Context) (*auth.User, error) {
	u, err := c.current.Get(ctx, currentUserKey)
	if err != nil {
		if !errors.Is(err, auth.ErrNotSignedIn) {
			log.ErrorErr(log.CatSession, "Authentication check failed", err)
		}
		return nil, err
	}
	return u, nil
}

// SignIn authenticates and primes the Check cache with the result.
func (c *Controller) SignIn(ctx context.Context, identifier, password string) (*auth.User, error) {
	c.current.Invalidate(ctx, currentUserKey)

	u, err := c.gateway.SignIn(ctx, identifier, password)
	if err != nil {
		log.ErrorErr(log.CatSession, "Sign-in failed", err, "identifier", identifier)
		c.record(ctx, stats.OpSignIn, stats.ResultFailed)
		return nil, err
	}

	log.Info(log.CatSession, "Signed in", "user", u.Username)
	c.record(ctx, stats.OpSignIn, stats.ResultSucceeded)
	c.current.Put(ctx, currentUserKey, u)
	return u, nil
}

// ChangePassword checks next against the password rules and forwards the
// change to the gateway.
func (c *Controller) ChangePassword(ctx context.Context, current, next string) error {
	if !c.rules.Password(next) {
		return ErrWeakPassword
	}
	if err := c.gateway.ChangePassword(ctx, current, next); err != nil {
		log.ErrorErr(log.CatSession, "Password change failed", err)
		return err
	}
	log.Info(log.CatSession, "Password changed")
	return nil
}

// Invalidate drops the cached Check answer, e.g. after the session store
// changed underneath us.
func (c *Controller) Invalidate(ctx context.Context) {
	c.current.Invalidate(ctx, currentUserKey)
}

// SignOut starts a sign-out and returns immediately. When the gateway call
// completes the cached user is dropped, then the observer gets SignOutFailed
// (only on error) followed by SessionInvalidated.
func (c *Controller) SignOut(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)

	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()

		err := c.gateway.SignOut(ctx)
		c.current.Invalidate(ctx, currentUserKey)

		if err != nil {
			log.ErrorErr(log.CatSession, "Sign-out failed", err)
			c.record(ctx, stats.OpSignOut, stats.ResultFailed)
		} else {
			log.Info(log.CatSession, "Signed out")
			c.record(ctx, stats.OpSignOut, stats.ResultSucceeded)
		}

		c.mu.Lock()
		o := c.observer
		c.mu.Unlock()

		if o == nil {
			log.Warn(log.CatSession, "No observer attached, dropping sign-out outcome")
			return
		}
		if err != nil {
			o.SignOutFailed(err)
		}
		o.SessionInvalidated()
	}()
}

// Wait blocks until in-flight sign-outs have completed and notified.
func (c *Controller) Wait() {
	c.inflight.Wait()
}

func (c *Controller) record(ctx context.Context, op stats.Operation, result stats.Result) {
	err := c.recorder.Record(ctx, stats.Event{Operation: op, Result: result, At: time.Now()})
	if err != nil {
		log.ErrorErr(log.CatStats, "Recording session outcome failed", err, "op", op)
	}
}
