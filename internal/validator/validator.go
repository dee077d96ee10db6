// Package validator holds the field rules for account input: username,
// email and password. Every predicate is pure; the thresholds are named
// constants so they can be asserted on directly and overridden from config.
package validator

import (
	"fmt"
	"regexp"
	"unicode"
	"unicode/utf8"
)

const (
	// MinUsernameLength is the shortest accepted username, in runes.
	MinUsernameLength = 3
	// MaxUsernameLength is the longest accepted username, in runes.
	MaxUsernameLength = 24
	// UsernamePattern restricts usernames to letters, digits, dot, underscore
	// and hyphen.
	UsernamePattern = `^[A-Za-z0-9._-]+$`

	// EmailPattern is the local@domain.tld shape check.
	EmailPattern = `^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,64}$`

	// MinPasswordLength is the shortest accepted password, in runes.
	MinPasswordLength = 8
	// PasswordRequiresDigit requires at least one decimal digit.
	PasswordRequiresDigit = true
)

var (
	defaultUsernameRe = regexp.MustCompile(UsernamePattern)
	emailRe           = regexp.MustCompile(EmailPattern)
)

// Field names the input a check failed on.
type Field int

const (
	FieldNone Field = iota
	FieldUsername
	FieldEmail
	FieldPassword
)

func (f Field) String() string {
	switch f {
	case FieldNone:
		return "none"
	case FieldUsername:
		return "username"
	case FieldEmail:
		return "email"
	case FieldPassword:
		return "password"
	default:
		return "unknown"
	}
}

// Rules is a compiled rule set. The zero value is not usable; build one with
// DefaultRules or NewRules.
type Rules struct {
	usernameMin   int
	usernameMax   int
	usernameRe    *regexp.Regexp
	passwordMin   int
	passwordDigit bool
}

// Options overrides the defaults. Zero values keep the default.
type Options struct {
	UsernameMin          int
	UsernameMax          int
	UsernamePattern      string
	PasswordMin          int
	PasswordRequireDigit *bool
}

// DefaultRules returns the rules built from the package constants.
func DefaultRules() Rules {
	return Rules{
		usernameMin:   MinUsernameLength,
		usernameMax:   MaxUsernameLength,
		usernameRe:    defaultUsernameRe,
		passwordMin:   MinPasswordLength,
		passwordDigit: PasswordRequiresDigit,
	}
}

// NewRules compiles opts on top of DefaultRules.
func NewRules(opts Options) (Rules, error) {
	r := DefaultRules()
	if opts.UsernameMin > 0 {
		r.usernameMin = opts.UsernameMin
	}
	if opts.UsernameMax > 0 {
		r.usernameMax = opts.UsernameMax
	}
	if r.usernameMin > r.usernameMax {
		return Rules{}, fmt.Errorf("username min length %d exceeds max length %d", r.usernameMin, r.usernameMax)
	}
	if opts.UsernamePattern != "" {
		re, err := regexp.Compile(opts.UsernamePattern)
		if err != nil {
			return Rules{}, fmt.Errorf("compiling username pattern: %w", err)
		}
		r.usernameRe = re
	}
	if opts.PasswordMin > 0 {
		r.passwordMin = opts.PasswordMin
	}
	if opts.PasswordRequireDigit != nil {
		r.passwordDigit = *opts.PasswordRequireDigit
	}
	return r, nil
}

// Username reports whether s is an acceptable username.
func (r Rules) Username(s string) bool {
	n := utf8.RuneCountInString(s)
	if n < r.usernameMin || n > r.usernameMax {
		return false
	}
	return r.usernameRe.MatchString(s)
}

// Email reports whether s has the local@domain.tld shape.
func (r Rules) Email(s string) bool {
	return emailRe.MatchString(s)
}

// Password reports whether s satisfies the length and complexity policy.
func (r Rules) Password(s string) bool {
	if utf8.RuneCountInString(s) < r.passwordMin {
		return false
	}
	if !r.passwordDigit {
		return true
	}
	for _, c := range s {
		if unicode.IsDigit(c) {
			return true
		}
	}
	return false
}

// Check runs the three predicates in order (username, email, password) and
// returns the first field that fails, or FieldNone.
func (r Rules) Check(username, email, password string) Field {
	switch {
	case !r.Username(username):
		return FieldUsername
	case !r.Email(email):
		return FieldEmail
	case !r.Password(password):
		return FieldPassword
	default:
		return FieldNone
	}
}

// MinPasswordLength returns the configured minimum password length.
func (r Rules) MinPasswordLength() int { return r.passwordMin }

// RequiresDigit reports whether passwords must contain a digit.
func (r Rules) RequiresDigit() bool { return r.passwordDigit }

// UsernameBounds returns the configured username length bounds.
func (r Rules) UsernameBounds() (lo, hi int) { return r.usernameMin, r.usernameMax }

// IsValidUsername checks s against the default rules.
func IsValidUsername(s string) bool { return DefaultRules().Username(s) }

// IsValidEmail checks s against EmailPattern.
func IsValidEmail(s string) bool { return emailRe.MatchString(s) }

// IsPasswordValid checks s against the default password policy.
func IsPasswordValid(s string) bool { return DefaultRules().Password(s) }
