// Package session stores the logged-in identity behind an opaque
// token. The token is the only thing that leaves the server (in a
// cookie); everything it maps to stays in the backing store.
package session

import (
	"context"

	"github.com/google/uuid"
)

type Store interface {
	// Create issues a fresh token bound to userID.
	Create(ctx context.Context, userID string) (string, error)
	// Get resolves a token to the user it was issued for, or
	// models.ErrSessionNotFound for unknown or expired tokens.
	Get(ctx context.Context, token string) (string, error)
	// Destroy invalidates a token. Destroying an unknown token is
	// not an error.
	Destroy(ctx context.Context, token string) error
}

func newToken() string {
	return uuid.NewString()
}
