package accounts

import (
	"context"
	"strings"

	"github.com/kitdeneme/kit/internal/log"
)

// Mailer delivers verification links.
type Mailer interface {
	SendVerification(ctx context.Context, to, username, token string) error
}

// LogMailer writes the verification link to the log instead of sending mail.
// BaseURL is the public address of the auth server; the link points at its
// verification endpoint.
type LogMailer struct {
	BaseURL string
}

// SendVerification implements Mailer.
func (m LogMailer) SendVerification(_ context.Context, to, username, token string) error {
	log.Info(log.CatAuth, "Verification mail", "to", to, "username", username, "link", m.Link(token))
	return nil
}

// Link returns the verification URL for token.
func (m LogMailer) Link(token string) string {
	base := strings.TrimRight(m.BaseURL, "/")
	if base == "" {
		base = "http://localhost:8787"
	}
	return base + "/v1/verifications/" + token
}
