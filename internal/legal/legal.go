// Package legal resolves the terms:// and privacy:// links shown on the
// sign-up screen to the documents they stand for.
package legal

import (
	"embed"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Links embedded in the sign-up legal text.
const (
	TermsLink   = "terms://termsAndConditions"
	PrivacyLink = "privacy://privacyPolicy"
)

// Default document locations.
const (
	DefaultTermsURL   = "https://policies.google.com/terms?hl=en"
	DefaultPrivacyURL = "https://policies.google.com/privacy?hl=en"
)

// ErrUnknownLink is returned for links that are neither terms:// nor privacy://.
var ErrUnknownLink = errors.New("unknown legal link")

//go:embed docs/*.md
var docs embed.FS

// Kind identifies a legal document.
type Kind int

const (
	Terms Kind = iota
	Privacy
)

// Title returns the human readable document name.
func (k Kind) Title() string {
	switch k {
	case Terms:
		return "Terms & Conditions"
	case Privacy:
		return "Privacy Policy"
	default:
		return "Unknown"
	}
}

func (k Kind) file() string {
	if k == Privacy {
		return "docs/privacy.md"
	}
	return "docs/terms.md"
}

// Document is a resolved legal link.
type Document struct {
	Kind  Kind
	Title string
	// URL is the canonical online location.
	URL string
	// Markdown is the bundled summary followed by a pointer to URL.
	Markdown string
}

// Resolver maps link schemes to configured URLs.
type Resolver struct {
	termsURL   string
	privacyURL string
}

// NewResolver returns a Resolver. Empty URLs fall back to the defaults.
func NewResolver(termsURL, privacyURL string) *Resolver {
	if termsURL == "" {
		termsURL = DefaultTermsURL
	}
	if privacyURL == "" {
		privacyURL = DefaultPrivacyURL
	}
	return &Resolver{termsURL: termsURL, privacyURL: privacyURL}
}

// KindOf classifies a link by its scheme.
func KindOf(link string) (Kind, error) {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrUnknownLink, link)
	}
	switch strings.ToLower(u.Scheme) {
	case "terms":
		return Terms, nil
	case "privacy":
		return Privacy, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownLink, link)
	}
}

// URL returns the configured location for kind.
func (r *Resolver) URL(kind Kind) string {
	if kind == Privacy {
		return r.privacyURL
	}
	return r.termsURL
}

// Resolve turns a terms:// or privacy:// link into its Document.
func (r *Resolver) Resolve(link string) (Document, error) {
	kind, err := KindOf(link)
	if err != nil {
		return Document{}, err
	}
	return r.Document(kind)
}

// Document loads the bundled text for kind.
func (r *Resolver) Document(kind Kind) (Document, error) {
	body, err := docs.ReadFile(kind.file())
	if err != nil {
		return Document{}, fmt.Errorf("reading %s: %w", kind.Title(), err)
	}

	u := r.URL(kind)
	md := strings.TrimRight(string(body), "\n") +
		fmt.Sprintf("\n\n---\n\nThe full, current text is published at <%s>.\n", u)

	return Document{Kind: kind, Title: kind.Title(), URL: u, Markdown: md}, nil
}
