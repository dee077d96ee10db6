package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kitdeneme/kit/internal/app"
	"github.com/kitdeneme/kit/internal/auth"
	"github.com/kitdeneme/kit/internal/config"
	"github.com/kitdeneme/kit/internal/mode"
	"github.com/kitdeneme/kit/internal/mode/shared"
	"github.com/kitdeneme/kit/internal/registration"
	"github.com/kitdeneme/kit/internal/session"
	"github.com/kitdeneme/kit/internal/validator"
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account",
	Long: `Create an account on the configured backend.

The password is prompted for when --password is not given. On success a
verification mail is sent; the account can sign in right away.

Examples:
  kit register -u ozan -e ozan@example.com
  kit register -u ozan -e ozan@example.com -p 'password1'`,
	Args: cobra.NoArgs,
	RunE: runRegister,
}

var signinCmd = &cobra.Command{
	Use:   "signin [username-or-email]",
	Short: "Sign in and store the session on this device",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSignIn,
}

var signoutCmd = &cobra.Command{
	Use:   "signout",
	Short: "End the session on this device",
	Args:  cobra.NoArgs,
	RunE:  runSignOut,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

var passwdCmd = &cobra.Command{
	Use:   "passwd",
	Short: "Change the password of the signed-in account",
	Args:  cobra.NoArgs,
	RunE:  runPasswd,
}

var verifyCmd = &cobra.Command{
	Use:   "verify <token>",
	Short: "Mark an email address as verified",
	Long: `Consume a verification token from a verification mail.

Only the local backend keeps verification tokens on this machine; with the
http backend open the link from the mail instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

var (
	regUsername string
	regEmail    string
	regPassword string

	signinPassword string

	passwdCurrent string
	passwdNew     string
)

func init() {
	registerCmd.Flags().StringVarP(&regUsername, "username", "u", "", "username")
	registerCmd.Flags().StringVarP(&regEmail, "email", "e", "", "email address")
	registerCmd.Flags().StringVarP(&regPassword, "password", "p", "", "password (prompted when omitted)")

	signinCmd.Flags().StringVarP(&signinPassword, "password", "p", "", "password (prompted when omitted)")

	passwdCmd.Flags().StringVar(&passwdCurrent, "current", "", "current password (prompted when omitted)")
	passwdCmd.Flags().StringVar(&passwdNew, "new", "", "new password (prompted when omitted)")

	rootCmd.AddCommand(registerCmd, signinCmd, signoutCmd, whoamiCmd, passwdCmd, verifyCmd)
}

// withStack opens the configured backend for the duration of fn.
func withStack(fn func(s *stack) error) (err error) {
	s, err := openStack(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := s.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	return fn(s)
}

func runRegister(cmd *cobra.Command, _ []string) error {
	password, err := promptSecret(cmd, "Password", regPassword)
	if err != nil {
		return err
	}

	return withStack(func(s *stack) error {
		outcomes := make(chan registration.Outcome, 1)
		detach := s.workflow.Observe(registration.ObserverFunc(func(o registration.Outcome) {
			outcomes <- o
		}))
		defer detach()

		req := registration.NewRequest(regUsername, regEmail, password)
		if err := s.workflow.Submit(cmd.Context(), req); err != nil {
			return registerError(err, s.rules)
		}

		out := <-outcomes
		if !out.OK() {
			return registerError(out.Err(), s.rules)
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), mode.MsgVerificationSent)
		return nil
	})
}

// registerError turns a failed submission into the message the sign-up
// screen would show.
func registerError(err error, rules validator.Rules) error {
	var verr *registration.ValidationError
	if errors.As(err, &verr) {
		title, msg := mode.ValidationAlert(verr.Reason, rules)
		return fmt.Errorf("%s: %s", title, msg)
	}
	return errors.New(mode.MsgRegistrationFailed)
}

func runSignIn(cmd *cobra.Command, args []string) error {
	var identifier string
	if len(args) == 1 {
		identifier = args[0]
	}
	if identifier == "" {
		return errors.New("username or email is required")
	}
	password, err := promptSecret(cmd, "Password", signinPassword)
	if err != nil {
		return err
	}

	return withStack(func(s *stack) error {
		u, err := s.session.SignIn(cmd.Context(), identifier, password)
		if err != nil {
			return signInError(err)
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", u.Username)
		return nil
	})
}

func signInError(err error) error {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return errors.New("wrong username, email or password")
	case errors.Is(err, auth.ErrThrottled):
		return err
	default:
		return fmt.Errorf("signing in: %w", err)
	}
}

// signOutResult collects the sign-out notifications.
type signOutResult struct {
	failed chan error
	done   chan struct{}
}

func (r signOutResult) SignOutFailed(err error) { r.failed <- err }
func (r signOutResult) SessionInvalidated()     { close(r.done) }

var _ session.Observer = signOutResult{}

func runSignOut(cmd *cobra.Command, _ []string) error {
	return withStack(func(s *stack) error {
		res := signOutResult{failed: make(chan error, 1), done: make(chan struct{})}
		detach := s.session.Observe(res)
		defer detach()

		s.session.SignOut(cmd.Context())
		<-res.done

		select {
		case err := <-res.failed:
			if errors.Is(err, auth.ErrNotSignedIn) {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Not signed in")
				return nil
			}
			return fmt.Errorf("%s (%w)", app.MsgLogoutFailed, err)
		default:
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
		return nil
	})
}

func runWhoami(cmd *cobra.Command, _ []string) error {
	return withStack(func(s *stack) error {
		u, err := s.session.Check(cmd.Context())
		if errors.Is(err, auth.ErrNotSignedIn) {
			return errors.New("not signed in")
		}
		if err != nil {
			return fmt.Errorf("checking session: %w", err)
		}
		printUser(cmd, u, shared.RealClock{}.Now())
		return nil
	})
}

func printUser(cmd *cobra.Command, u *auth.User, now time.Time) {
	out := cmd.OutOrStdout()
	verified := "yes"
	if !u.EmailVerified {
		verified = "no"
	}
	_, _ = fmt.Fprintf(out, "Username: %s\n", u.Username)
	_, _ = fmt.Fprintf(out, "Email:    %s (verified: %s)\n", u.Email, verified)
	_, _ = fmt.Fprintf(out, "Joined:   %s\n", shared.FormatJoined(u.CreatedAt, now))
}

func runPasswd(cmd *cobra.Command, _ []string) error {
	current, err := promptSecret(cmd, "Current password", passwdCurrent)
	if err != nil {
		return err
	}
	next, err := promptSecret(cmd, "New password", passwdNew)
	if err != nil {
		return err
	}

	return withStack(func(s *stack) error {
		err := s.session.ChangePassword(cmd.Context(), current, next)
		switch {
		case err == nil:
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Password changed")
			return nil
		case errors.Is(err, session.ErrWeakPassword):
			return errors.New(mode.PasswordRequirement(s.rules))
		case errors.Is(err, auth.ErrInvalidCredentials):
			return errors.New("current password is incorrect")
		case errors.Is(err, auth.ErrNotSignedIn):
			return errors.New("not signed in")
		default:
			return fmt.Errorf("changing password: %w", err)
		}
	})
}

func runVerify(cmd *cobra.Command, args []string) error {
	if cfg.Backend.Kind == config.BackendHTTP {
		return errors.New("verify needs the local backend; open the link from the verification mail instead")
	}
	return withStack(func(s *stack) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()

		u, err := s.service.VerifyEmail(ctx, args[0])
		if err != nil {
			return fmt.Errorf("verifying email: %w", err)
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Verified %s for %s\n", u.Email, u.Username)
		return nil
	})
}
