package calendar

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/oauth2"
)

var ErrConsentDenied = errors.New("calendar consent denied")

// Consenter produces an access token for the end user. Tokens are used for a
// single request and never stored.
type Consenter interface {
	RequestToken(ctx context.Context, cfg *oauth2.Config) (*oauth2.Token, error)
}

// CodeExchange trades the authorization code from the consent redirect for a token.
type CodeExchange struct {
	Code string
}

func (c CodeExchange) RequestToken(ctx context.Context, cfg *oauth2.Config) (*oauth2.Token, error) {
	if c.Code == "" {
		return nil, ErrConsentDenied
	}
	tok, err := cfg.Exchange(ctx, c.Code)
	if err != nil {
		return nil, fmt.Errorf("exchanging authorization code: %w", err)
	}
	return tok, nil
}

// Denied is the consent result when the provider redirects back with an error.
type Denied struct {
	Reason string
}

func (d Denied) RequestToken(context.Context, *oauth2.Config) (*oauth2.Token, error) {
	return nil, fmt.Errorf("%w: %s", ErrConsentDenied, d.Reason)
}

// ConsentURL is where the user grants the events scope. prompt=consent makes
// the provider ask every time, matching the no-persistence policy.
func ConsentURL(cfg *oauth2.Config, state string) string {
	return cfg.AuthCodeURL(state, oauth2.SetAuthURLParam("prompt", "consent"))
}
