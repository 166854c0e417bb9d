package dashboard

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"MAGANG-backend/internal/platform/apierr"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}
	r.GET("/dashboard/summary", h.Summary)
}

// GET /dashboard/summary
func (h *Handler) Summary(c *gin.Context) {
	res, err := h.svc.Summary(c.Request.Context())
	if err != nil {
		c.JSON(apierr.HTTPStatus(err), apierr.BodyFrom(err))
		return
	}
	c.JSON(http.StatusOK, res)
}
