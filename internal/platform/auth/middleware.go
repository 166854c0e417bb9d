package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"MAGANG-backend/internal/platform/apierr"
)

// RequireAuth: Authorization: Bearer <token> を検証して Principal を context に詰める
func RequireAuth(issuer *TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" {
			abort(c, http.StatusUnauthorized, apierr.CodeUnauthenticated, "missing Authorization header")
			return
		}

		parts := strings.SplitN(h, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abort(c, http.StatusUnauthorized, apierr.CodeUnauthenticated, "invalid Authorization header")
			return
		}

		tokenStr := strings.TrimSpace(parts[1])
		if tokenStr == "" {
			abort(c, http.StatusUnauthorized, apierr.CodeUnauthenticated, "empty token")
			return
		}

		p, err := issuer.Parse(tokenStr)
		if err != nil {
			abort(c, http.StatusUnauthorized, apierr.CodeUnauthenticated, "invalid token")
			return
		}

		c.Set(CtxPrincipalKey, p)
		c.Request = c.Request.WithContext(WithPrincipal(c.Request.Context(), p))
		c.Next()
	}
}

// RequireRole: 例) ADMIN のみ許可したい時に追加
func RequireRole(roles ...string) gin.HandlerFunc {
	roleSet := make(map[string]struct{})
	for _, r := range roles {
		if r == "" {
			continue
		}
		roleSet[r] = struct{}{}
	}

	return func(c *gin.Context) {
		p, ok := FromGin(c)
		if !ok {
			abort(c, http.StatusUnauthorized, apierr.CodeUnauthenticated, "not authenticated")
			return
		}

		if _, allowed := roleSet[p.Role]; !allowed {
			abort(c, http.StatusForbidden, apierr.CodeForbidden, "forbidden")
			return
		}

		c.Next()
	}
}

func abort(c *gin.Context, status int, code apierr.Code, msg string) {
	c.AbortWithStatusJSON(status, apierr.NewBody(code, msg))
}
