package internal

import (
	"context"

	"github.com/frahmantamala/community-ops/internal/accesscontrol"
)

// Principal is the request-scoped identity handed to the core by the session
// provider. The core never authenticates; it trusts whatever principal it is
// given and resolves visibility from the role and config snapshot.
type Principal struct {
	UserID string
	Email  string
	Name   string
	Role   accesscontrol.Role
	Config accesscontrol.Config
}

const contextPrincipalKey ctxKey = "principal"

func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(contextPrincipalKey).(*Principal)
	return p, ok && p != nil
}

func ContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, contextPrincipalKey, p)
}
