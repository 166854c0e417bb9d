package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"MAGANG-backend/internal/platform/apierr"
)

type Handler struct{ svc *Service }

// RegisterRoutes は /auth/login（公開）と /auth/me（要ログイン）を登録する。
func RegisterRoutes(r gin.IRoutes, svc *Service, issuer *TokenIssuer) {
	h := &Handler{svc: svc}
	r.POST("/auth/login", h.Login)
	r.GET("/auth/me", RequireAuth(issuer), h.Me)
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apierr.NewBody(apierr.CodeInvalidArgument, "username and password are required"))
		return
	}

	res, err := h.svc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		c.JSON(apierr.HTTPStatus(err), apierr.BodyFrom(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) Me(c *gin.Context) {
	p, ok := FromGin(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, apierr.NewBody(apierr.CodeUnauthenticated, "not authenticated"))
		return
	}
	prof, err := h.svc.Me(c.Request.Context(), p)
	if err != nil {
		c.JSON(apierr.HTTPStatus(err), apierr.BodyFrom(err))
		return
	}
	c.JSON(http.StatusOK, prof)
}
