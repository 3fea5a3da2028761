package auth

import (
	"context"

	"github.com/google/uuid"

	"clinicrbac/internal/model"
)

// Identity is the authenticated caller, as re-read from the store.
type Identity struct {
	ID   uuid.UUID
	Role model.Role
}

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the identity attached by the authentication gate.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
