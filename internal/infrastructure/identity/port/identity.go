package port

import (
	"context"
	"errors"
)

// User is the authenticated identity the messaging core works with. Name is
// the display name carried on message payloads and broadcast events.
type User struct {
	ID   string
	Name string
}

// Provider resolves identities. The marketplace owns users; this port is the
// contract the messaging core requires from it.
type Provider interface {
	// Authenticate resolves a bearer token to a user, returning
	// ErrUnauthenticated for unknown or revoked tokens.
	Authenticate(ctx context.Context, token string) (User, error)

	// Lookup resolves a user id to its identity summary, returning
	// ErrUnknownUser when no such user exists.
	Lookup(ctx context.Context, userID string) (User, error)
}

var (
	ErrUnauthenticated = errors.New("identity: invalid or expired token")
	ErrUnknownUser     = errors.New("identity: unknown user")
)
