package identity

import "context"

// Claims is the assertion the provider hands back after a successful
// code exchange.
type Claims struct {
	ExternalID string
	Email      string
	Name       string
	Picture    string
}

// Provider is injected into the auth handlers so tests can substitute a
// fake without touching Google.
type Provider interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (*Claims, error)
}
