package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kitdeneme/kit/internal/accounts"
	"github.com/kitdeneme/kit/internal/auth"
	"github.com/kitdeneme/kit/internal/config"
	"github.com/kitdeneme/kit/internal/infrastructure/httpgateway"
	"github.com/kitdeneme/kit/internal/infrastructure/localgateway"
	"github.com/kitdeneme/kit/internal/infrastructure/ratelimit"
	"github.com/kitdeneme/kit/internal/infrastructure/sqlite"
	"github.com/kitdeneme/kit/internal/infrastructure/tokenfile"
	"github.com/kitdeneme/kit/internal/legal"
	"github.com/kitdeneme/kit/internal/log"
	"github.com/kitdeneme/kit/internal/mode"
	"github.com/kitdeneme/kit/internal/mode/shared"
	"github.com/kitdeneme/kit/internal/registration"
	"github.com/kitdeneme/kit/internal/session"
	"github.com/kitdeneme/kit/internal/stats"
	"github.com/kitdeneme/kit/internal/tracing"
	"github.com/kitdeneme/kit/internal/validator"
)

// stack is everything a command needs to talk to the configured backend.
type stack struct {
	cfg      config.Config
	rules    validator.Rules
	recorder stats.Recorder
	gateway  auth.Gateway
	session  *session.Controller
	workflow *registration.Workflow

	// Local backend only.
	db      *sqlite.DB
	service *accounts.Service

	dbPath    string
	tokenPath string
	closers   []func() error
}

// withPaths fills the database and token paths left empty in the config.
func withPaths(c config.Config) config.Config {
	if c.Backend.DBPath == "" {
		c.Backend.DBPath = config.DefaultDBPath()
	}
	if c.Session.TokenPath == "" {
		c.Session.TokenPath = config.DefaultTokenPath()
	}
	return c
}

// openStack validates c and builds the gateway chain
// (tracing, then throttle, then the concrete backend) plus the session
// controller and registration workflow on top of it.
func openStack(c config.Config) (*stack, error) {
	if err := config.Validate(c); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	c = withPaths(c)
	if c.Backend.DBPath == "" || c.Session.TokenPath == "" {
		return nil, errors.New("cannot determine data directory; set backend.db_path and session.token_path")
	}

	rules, err := c.Validation.Rules()
	if err != nil {
		return nil, err
	}

	s := &stack{
		cfg:       c,
		rules:     rules,
		dbPath:    c.Backend.DBPath,
		tokenPath: c.Session.TokenPath,
	}

	s.recorder = s.openRecorder()

	provider, err := tracing.NewProvider(c.Tracing.ProviderConfig())
	if err != nil {
		_ = s.Close()
		return nil, err
	}
	s.closers = append(s.closers, func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return provider.Shutdown(ctx)
	})

	base, err := s.openBackend()
	if err != nil {
		_ = s.Close()
		return nil, err
	}

	var mws []auth.Middleware
	if provider.Enabled() {
		mws = append(mws, tracing.Middleware(provider.Tracer()))
	}
	if c.Throttle.Enabled {
		mws = append(mws, ratelimit.Middleware(ratelimit.NewLimiter(c.Throttle.RPS, c.Throttle.Burst)))
	}
	s.gateway = auth.Chain(base, mws...)

	s.session = session.NewController(s.gateway,
		session.WithCacheTTL(c.Session.CacheTTL),
		session.WithRules(rules),
		session.WithRecorder(s.recorder),
	)
	s.workflow = registration.New(s.gateway,
		registration.WithRules(rules),
		registration.WithRecorder(s.recorder),
	)

	log.Info(log.CatConfig, "Backend ready", "kind", c.Backend.Kind,
		"tracing", provider.Enabled(), "throttle", c.Throttle.Enabled)
	return s, nil
}

func (s *stack) openRecorder() stats.Recorder {
	st := s.cfg.Stats
	if !st.Enabled {
		return stats.Nop{}
	}
	if st.RedisAddr == "" {
		return stats.NewMemoryStore()
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     st.RedisAddr,
		Password: st.RedisPassword,
		DB:       st.RedisDB,
	})
	s.closers = append(s.closers, rdb.Close)
	return stats.NewRedisStore(rdb, stats.WithPrefix(st.Prefix), stats.WithTTL(st.TTL))
}

func (s *stack) openBackend() (auth.Gateway, error) {
	tokens := tokenfile.New(s.tokenPath)

	if s.cfg.Backend.Kind == config.BackendHTTP {
		var opts []httpgateway.Option
		if s.cfg.Backend.Timeout > 0 {
			opts = append(opts, httpgateway.WithTimeout(s.cfg.Backend.Timeout))
		}
		return httpgateway.New(s.cfg.Backend.BaseURL, tokens, opts...), nil
	}

	if err := s.openAccounts(); err != nil {
		return nil, err
	}
	return localgateway.New(s.service, tokens), nil
}

func (s *stack) openAccounts() error {
	db, err := sqlite.NewDB(s.dbPath)
	if err != nil {
		return fmt.Errorf("opening account database: %w", err)
	}
	s.db = db
	s.closers = append(s.closers, db.Close)
	s.service = accounts.NewService(db.Accounts())
	return nil
}

// services builds what the TUI screens need.
func (s *stack) services() mode.Services {
	return mode.Services{
		Workflow: s.workflow,
		Session:  s.session,
		Legal:    legal.NewResolver(s.cfg.Legal.TermsURL, s.cfg.Legal.PrivacyURL),
		Rules:    s.rules,
		Config:   &s.cfg,
		Clock:    shared.RealClock{},
	}
}

// watchPaths lists the files whose changes mean the session may have changed
// in another process.
func (s *stack) watchPaths() []string {
	if s.db != nil {
		return []string{s.dbPath, s.tokenPath}
	}
	return []string{s.tokenPath}
}

// Close waits for pending backend calls, then releases resources in reverse
// order of acquisition.
func (s *stack) Close() error {
	if s.session != nil {
		s.session.Wait()
	}
	if s.workflow != nil {
		s.workflow.Wait()
	}

	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}
