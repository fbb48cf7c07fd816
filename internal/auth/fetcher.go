package auth

import (
	"context"

	"github.com/fenrir-gym/fenrir-backend/internal/codes"
	"github.com/fenrir-gym/fenrir-backend/internal/users"
	"github.com/fenrir-gym/fenrir-backend/internal/utils"
)

// Resolver implements middleware.TokenResolver: it verifies the token
// and loads the caller from the user store. The role comes from the
// store, not the claim, so a role change takes effect on the next
// request rather than at token expiry.
type Resolver struct {
	tokens *Tokens
	store  users.Store
}

func NewResolver(tokens *Tokens, store users.Store) *Resolver {
	return &Resolver{tokens: tokens, store: store}
}

func (r *Resolver) Resolve(ctx context.Context, token string) (utils.Identity, error) {
	if token == "" {
		return utils.Identity{}, codes.ErrMissingToken
	}
	claims, err := r.tokens.Parse(token)
	if err != nil {
		return utils.Identity{}, codes.ErrInvalidToken
	}
	user, err := r.store.ByOpenID(ctx, claims.OpenID)
	if err != nil {
		return utils.Identity{}, codes.ErrNoSuchUser
	}
	return utils.Identity{
		UserID: user.ID,
		OpenID: user.OpenID,
		Role:   string(user.Role),
	}, nil
}
