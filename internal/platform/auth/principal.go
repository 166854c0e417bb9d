package auth

import (
	"context"

	"github.com/gin-gonic/gin"
)

const (
	RoleAdmin  = "ADMIN"
	RoleIntern = "INTERN"
)

// Principal はリクエスト単位の認証済みユーザー。
type Principal struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func (p Principal) IsAdmin() bool  { return p.Role == RoleAdmin }
func (p Principal) IsIntern() bool { return p.Role == RoleIntern }

type principalKey struct{}

// gin.Context 側のキー
const CtxPrincipalKey = "principal"

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// FromGin は RequireAuth が詰めた Principal を取り出す。
func FromGin(c *gin.Context) (Principal, bool) {
	if v, ok := c.Get(CtxPrincipalKey); ok {
		if p, ok := v.(Principal); ok {
			return p, true
		}
	}
	return FromContext(c.Request.Context())
}
