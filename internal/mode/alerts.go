package mode

import (
	"fmt"

	"github.com/kitdeneme/kit/internal/registration"
	"github.com/kitdeneme/kit/internal/validator"
)

// Alert titles and messages shown by more than one screen.
const (
	TitleEmailVerification = "Email Verification"
	MsgVerificationSent    = "Verification mail sent, please verify your email address"

	TitleRegistrationError = "Registration Error"
	MsgRegistrationFailed  = "Failed to register. Please try again later."

	TitleSignInError = "Sign In Error"
	TitleLogoutError = "Log Out Error"
)

// ValidationAlert returns the alert for a rejected registration field.
func ValidationAlert(reason registration.Reason, rules validator.Rules) (title, message string) {
	switch reason {
	case registration.UsernameInvalid:
		lo, hi := rules.UsernameBounds()
		return "Invalid Username", fmt.Sprintf(
			"Please enter a valid username. Use %d to %d letters, digits, dots, dashes or underscores.", lo, hi)
	case registration.EmailInvalid:
		return "Invalid Email", "Please enter a valid email."
	default:
		return "Invalid Password", PasswordRequirement(rules)
	}
}

// PasswordRequirement describes the password rule in a sentence.
func PasswordRequirement(rules validator.Rules) string {
	if rules.RequiresDigit() {
		return fmt.Sprintf("Please enter a valid password. It needs at least %d characters, including a digit.", rules.MinPasswordLength())
	}
	return fmt.Sprintf("Please enter a valid password. It needs at least %d characters.", rules.MinPasswordLength())
}
