// Package registration implements the sign-up submission: local validation
// gating a single asynchronous call to the auth gateway, with exactly one
// outcome delivered to the attached observer.
package registration

import (
	"context"
	"sync"
	"time"

	"github.com/kitdeneme/kit/internal/auth"
	"github.com/kitdeneme/kit/internal/log"
	"github.com/kitdeneme/kit/internal/stats"
	"github.com/kitdeneme/kit/internal/validator"
)

// Workflow validates registration requests and forwards valid ones to the
// gateway. It holds at most one observer.
//
// Overlapping submissions are not serialized; each gets its own outcome.
type Workflow struct {
	gateway  auth.Gateway
	rules    validator.Rules
	recorder stats.Recorder

	mu       sync.Mutex
	observer Observer
	gen      uint64

	inflight sync.WaitGroup
}

// Option configures a Workflow.
type Option func(*Workflow)

// WithRules replaces the default validation rules.
func WithRules(r validator.Rules) Option {
	return func(w *Workflow) { w.rules = r }
}

// WithRecorder records every outcome. Recorder errors are logged and ignored.
func WithRecorder(r stats.Recorder) Option {
	return func(w *Workflow) {
		if r != nil {
			w.recorder = r
		}
	}
}

// New creates a Workflow calling gw.
func New(gw auth.Gateway, opts ...Option) *Workflow {
	w := &Workflow{
		gateway:  gw,
		rules:    validator.DefaultRules(),
		recorder: stats.Nop{},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Observe attaches o, replacing any previous observer. The returned func
// detaches it; calling it more than once, or after another observer was
// attached, does nothing.
func (w *Workflow) Observe(o Observer) (detach func()) {
	w.mu.Lock()
	w.gen++
	id := w.gen
	w.observer = o
	w.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			w.mu.Lock()
			if w.gen == id {
				w.observer = nil
			}
			w.mu.Unlock()
		})
	}
}

// Submit validates req and, if it is valid, starts the registration.
//
// A validation failure is delivered to the observer before Submit returns and
// is also returned as a *ValidationError. Otherwise Submit returns nil and the
// outcome arrives later on another goroutine. The gateway call is not tied to
// ctx's cancellation.
func (w *Workflow) Submit(ctx context.Context, req Request) error {
	if reason, ok := reasonFor(w.rules.Check(req.username, req.email, req.password)); ok {
		err := &ValidationError{Reason: reason}
		log.Info(log.CatRegistration, "Rejected registration", "username", req.username, "reason", reason)
		w.record(ctx, stats.ResultRejected, reason.Field().String())
		w.deliver(Failed(err))
		return err
	}

	log.Debug(log.CatRegistration, "Submitting registration", "username", req.username)

	ctx = context.WithoutCancel(ctx)
	w.inflight.Add(1)
	go func() {
		defer w.inflight.Done()

		start := time.Now()
		err := w.gateway.Register(ctx, req.credentials())
		if err != nil {
			log.ErrorErr(log.CatRegistration, "Registration failed", err,
				"username", req.username, "duration", time.Since(start))
			w.record(ctx, stats.ResultFailed, "")
			w.deliver(Failed(&RemoteError{Cause: err}))
			return
		}

		log.Info(log.CatRegistration, "Registration succeeded",
			"username", req.username, "duration", time.Since(start))
		w.record(ctx, stats.ResultSucceeded, "")
		w.deliver(Succeeded())
	}()
	return nil
}

// Wait blocks until every started gateway call has returned and its outcome
// has been delivered.
func (w *Workflow) Wait() {
	w.inflight.Wait()
}

func (w *Workflow) deliver(out Outcome) {
	w.mu.Lock()
	o := w.observer
	w.mu.Unlock()

	if o == nil {
		log.Warn(log.CatRegistration, "No observer attached, dropping outcome", "ok", out.OK())
		return
	}
	if out.OK() {
		o.Succeeded()
		return
	}
	o.Failed(out.Err())
}

func (w *Workflow) record(ctx context.Context, result stats.Result, reason string) {
	err := w.recorder.Record(ctx, stats.Event{
		Operation: stats.OpRegister,
		Result:    result,
		Reason:    reason,
		At:        time.Now(),
	})
	if err != nil {
		log.ErrorErr(log.CatStats, "Recording registration outcome failed", err)
	}
}
