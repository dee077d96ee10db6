// Package authserver exposes the account service over a small JSON API. It
// is what `kit serve` runs and what the HTTP gateway talks to.
package authserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/kitdeneme/kit/internal/accounts"
	"github.com/kitdeneme/kit/internal/authapi"
	"github.com/kitdeneme/kit/internal/infrastructure/ratelimit"
	"github.com/kitdeneme/kit/internal/log"
	"github.com/kitdeneme/kit/internal/validator"
)

// Server routes API requests to an accounts.Service.
type Server struct {
	svc     *accounts.Service
	rules   validator.Rules
	limiter *ratelimit.Limiter
	router  *mux.Router
}

// Option configures a Server.
type Option func(*Server)

// WithRules sets the validation rules applied to registrations.
func WithRules(r validator.Rules) Option {
	return func(s *Server) { s.rules = r }
}

// WithLimiter throttles each client (by remote address) on the account and
// session creation routes.
func WithLimiter(l *ratelimit.Limiter) Option {
	return func(s *Server) { s.limiter = l }
}

// New creates a Server.
func New(svc *accounts.Service, opts ...Option) *Server {
	s := &Server{
		svc:   svc,
		rules: validator.DefaultRules(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(logRequests)

	r.HandleFunc(authapi.PathHealth, s.handleHealth).Methods(http.MethodGet)

	r.Handle(authapi.PathAccounts, s.throttled(s.handleRegister)).Methods(http.MethodPost)
	r.Handle(authapi.PathSessions, s.throttled(s.handleSignIn)).Methods(http.MethodPost)

	r.HandleFunc(authapi.PathCurrentSession, s.handleCurrentUser).Methods(http.MethodGet)
	r.HandleFunc(authapi.PathCurrentSession, s.handleSignOut).Methods(http.MethodDelete)
	r.HandleFunc(authapi.PathCurrentPassword, s.handleChangePassword).Methods(http.MethodPut)
	r.HandleFunc(authapi.PathVerifications+"/{token}", s.handleVerify).Methods(http.MethodPost, http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, authapi.ErrorResponse{Code: authapi.CodeBadRequest, Message: "no such route"})
	})
	return r
}

func (s *Server) throttled(h http.HandlerFunc) http.Handler {
	if s.limiter == nil {
		return h
	}
	return throttle(s.limiter, ClientKey)(h)
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(log.CatHTTP, "Auth server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	log.Info(log.CatHTTP, "Auth server stopped")
	return nil
}
