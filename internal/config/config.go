// Package config provides configuration types, defaults, and persistence for kit.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kitdeneme/kit/internal/legal"
	"github.com/kitdeneme/kit/internal/log"
	"github.com/kitdeneme/kit/internal/tracing"
	"github.com/kitdeneme/kit/internal/validator"
)

// Backend kinds.
const (
	BackendLocal = "local"
	BackendHTTP  = "http"
)

// Config holds all kit configuration.
type Config struct {
	Backend     BackendConfig    `mapstructure:"backend"`
	Session     SessionConfig    `mapstructure:"session"`
	Validation  ValidationConfig `mapstructure:"validation"`
	Throttle    ThrottleConfig   `mapstructure:"throttle"`
	Stats       StatsConfig      `mapstructure:"stats"`
	Tracing     TracingConfig    `mapstructure:"tracing"`
	Legal       LegalConfig      `mapstructure:"legal"`
	Server      ServerConfig     `mapstructure:"server"`
	AutoRefresh bool             `mapstructure:"auto_refresh"`
}

// BackendConfig selects the account backend.
type BackendConfig struct {
	Kind    string        `mapstructure:"kind"`     // "local" or "http"
	DBPath  string        `mapstructure:"db_path"`  // local: SQLite database file
	BaseURL string        `mapstructure:"base_url"` // http: kit serve address
	Timeout time.Duration `mapstructure:"timeout"`  // http: per-request timeout
}

// SessionConfig controls the device session.
type SessionConfig struct {
	TokenPath string        `mapstructure:"token_path"`
	CacheTTL  time.Duration `mapstructure:"cache_ttl"`
}

// ValidationConfig overrides the validator's defaults. Zero values keep the
// built-in rule.
type ValidationConfig struct {
	UsernameMin          int    `mapstructure:"username_min"`
	UsernameMax          int    `mapstructure:"username_max"`
	UsernamePattern      string `mapstructure:"username_pattern"`
	PasswordMin          int    `mapstructure:"password_min"`
	PasswordRequireDigit *bool  `mapstructure:"password_require_digit"`
}

// ThrottleConfig limits registration and sign-in attempts per identity.
type ThrottleConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	RPS     float64 `mapstructure:"rps"`
	Burst   int     `mapstructure:"burst"`
}

// StatsConfig controls outcome counters. Without a redis_addr counters are
// kept in memory for the life of the process.
type StatsConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
	Prefix        string        `mapstructure:"prefix"`
	TTL           time.Duration `mapstructure:"ttl"`
}

// TracingConfig holds distributed tracing configuration.
type TracingConfig struct {
	// Enabled turns on tracing (default: false).
	Enabled bool `mapstructure:"enabled"`

	// Exporter: "none", "file", "stdout" or "otlp" (default: "file").
	Exporter string `mapstructure:"exporter"`

	// FilePath for the file exporter.
	// Default: ~/.config/kit/traces/traces.jsonl
	FilePath string `mapstructure:"file_path"`

	// OTLPEndpoint for the otlp exporter (default: localhost:4317).
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`

	// SampleRate between 0.0 and 1.0 (default: 1.0).
	SampleRate float64 `mapstructure:"sample_rate"`
}

// LegalConfig maps the terms:// and privacy:// links to documents.
type LegalConfig struct {
	TermsURL   string `mapstructure:"terms_url"`
	PrivacyURL string `mapstructure:"privacy_url"`
}

// ServerConfig configures kit serve.
type ServerConfig struct {
	ListenAddr string `mapstructure:"listen_addr"`
}

// Dir returns ~/.config/kit, or "" if the home dir is unavailable.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "kit")
}

func inDir(parts ...string) string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(append([]string{dir}, parts...)...)
}

// DefaultDBPath returns ~/.config/kit/kit.db.
func DefaultDBPath() string { return inDir("kit.db") }

// DefaultTokenPath returns ~/.config/kit/session.
func DefaultTokenPath() string { return inDir("session") }

// DefaultTracesFilePath returns the default path for trace file export.
// Returns ~/.config/kit/traces/traces.jsonl or empty string if home dir unavailable.
func DefaultTracesFilePath() string { return inDir("traces", "traces.jsonl") }

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Backend: BackendConfig{
			Kind:    BackendLocal,
			DBPath:  DefaultDBPath(),
			BaseURL: "http://localhost:8787",
			Timeout: 10 * time.Second,
		},
		Session: SessionConfig{
			TokenPath: DefaultTokenPath(),
			CacheTTL:  30 * time.Second,
		},
		Throttle: ThrottleConfig{
			Enabled: true,
			RPS:     0.5,
			Burst:   5,
		},
		Stats: StatsConfig{
			Enabled: false,
			Prefix:  "kit:stats",
			TTL:     7 * 24 * time.Hour,
		},
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     tracing.ExporterFile,
			FilePath:     "", // Derived from config dir at runtime
			OTLPEndpoint: tracing.DefaultOTLPEndpoint,
			SampleRate:   1.0,
		},
		Legal: LegalConfig{
			TermsURL:   legal.DefaultTermsURL,
			PrivacyURL: legal.DefaultPrivacyURL,
		},
		Server: ServerConfig{
			ListenAddr: ":8787",
		},
		AutoRefresh: true,
	}
}

// Validate checks every section and returns the first problem found.
func Validate(cfg Config) error {
	checks := []func() error{
		func() error { return ValidateBackend(cfg.Backend) },
		func() error { return ValidateSession(cfg.Session) },
		func() error { return ValidateValidation(cfg.Validation) },
		func() error { return ValidateThrottle(cfg.Throttle) },
		func() error { return ValidateStats(cfg.Stats) },
		func() error { return ValidateTracing(cfg.Tracing) },
	}
	for _, check := range checks {
		if err := check(); err != nil {
			log.Warn(log.CatConfig, "Invalid configuration", "error", err)
			return err
		}
	}
	return nil
}

// ValidateBackend checks backend configuration for errors.
func ValidateBackend(b BackendConfig) error {
	switch b.Kind {
	case "", BackendLocal:
		// db_path may be empty; the CLI falls back to DefaultDBPath.
	case BackendHTTP:
		if b.BaseURL == "" {
			return fmt.Errorf("backend.base_url is required when kind is %q", BackendHTTP)
		}
	default:
		return fmt.Errorf("backend.kind must be %q or %q, got %q", BackendLocal, BackendHTTP, b.Kind)
	}
	if b.Timeout < 0 {
		return fmt.Errorf("backend.timeout must not be negative, got %v", b.Timeout)
	}
	return nil
}

// ValidateSession checks session configuration for errors.
func ValidateSession(s SessionConfig) error {
	if s.CacheTTL < 0 {
		return fmt.Errorf("session.cache_ttl must not be negative, got %v", s.CacheTTL)
	}
	return nil
}

// ValidateValidation checks that the validator overrides compile.
func ValidateValidation(v ValidationConfig) error {
	if _, err := v.Rules(); err != nil {
		return fmt.Errorf("validation: %w", err)
	}
	return nil
}

// ValidateThrottle checks throttle configuration for errors.
func ValidateThrottle(t ThrottleConfig) error {
	if !t.Enabled {
		return nil
	}
	if t.RPS <= 0 {
		return fmt.Errorf("throttle.rps must be positive, got %v", t.RPS)
	}
	if t.Burst < 1 {
		return fmt.Errorf("throttle.burst must be at least 1, got %d", t.Burst)
	}
	return nil
}

// ValidateStats checks stats configuration for errors.
func ValidateStats(s StatsConfig) error {
	if s.RedisDB < 0 {
		return fmt.Errorf("stats.redis_db must not be negative, got %d", s.RedisDB)
	}
	if s.TTL < 0 {
		return fmt.Errorf("stats.ttl must not be negative, got %v", s.TTL)
	}
	return nil
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(t TracingConfig) error {
	if t.SampleRate < 0.0 || t.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", t.SampleRate)
	}

	if t.Exporter != "" {
		switch t.Exporter {
		case tracing.ExporterNone, tracing.ExporterFile, tracing.ExporterStdout, tracing.ExporterOTLP:
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", t.Exporter)
		}
	}

	// file_path falls back to DefaultTracesFilePath, so only otlp needs a value.
	if t.Enabled && t.Exporter == tracing.ExporterOTLP && t.OTLPEndpoint == "" {
		return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
	}

	return nil
}

// Rules compiles the configured validator rules.
func (v ValidationConfig) Rules() (validator.Rules, error) {
	return validator.NewRules(validator.Options{
		UsernameMin:          v.UsernameMin,
		UsernameMax:          v.UsernameMax,
		UsernamePattern:      v.UsernamePattern,
		PasswordMin:          v.PasswordMin,
		PasswordRequireDigit: v.PasswordRequireDigit,
	})
}

// ProviderConfig converts to the tracing package's Config, filling defaults.
func (t TracingConfig) ProviderConfig() tracing.Config {
	out := tracing.DefaultConfig()
	out.Enabled = t.Enabled
	if t.Exporter != "" {
		out.Exporter = t.Exporter
	}
	out.FilePath = t.FilePath
	if out.FilePath == "" {
		out.FilePath = DefaultTracesFilePath()
	}
	if t.OTLPEndpoint != "" {
		out.OTLPEndpoint = t.OTLPEndpoint
	}
	if t.SampleRate > 0 {
		out.SampleRate = t.SampleRate
	}
	return out
}
