package utils

import (
	"context"
)

// Identity is the resolved caller placed on the request context by the
// token middleware. Role stays a plain string here so the shared
// packages carry no domain imports; the users package owns the closed
// role enum.
type Identity struct {
	UserID uint
	OpenID string
	Role   string
}

type contextKey string

const ContextIdentityKey contextKey = "identity"

func GetIdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(ContextIdentityKey).(Identity)
	return identity, ok
}
