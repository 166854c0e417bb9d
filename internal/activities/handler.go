package activities

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"MAGANG-backend/internal/platform/apierr"
	"MAGANG-backend/internal/platform/auth"
)

type Handler struct{ svc *Service }

// 管理者用
func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}
	r.GET("/activities", h.List)
	r.POST("/activities", h.AdminUpsert)
	r.PATCH("/activities/:id", h.AdminPatch)
}

// インターン用
func RegisterInternRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}
	r.GET("/intern/activities", h.Today)
	r.POST("/intern/activities", h.SubmitToday)
	r.PATCH("/intern/activities/:id", h.PatchMine)
}

// GET /activities?userId=&from=&to=
func (h *Handler) List(c *gin.Context) {
	uid, err := strconv.ParseInt(c.Query("userId"), 10, 64)
	if err != nil || uid <= 0 {
		c.JSON(http.StatusBadRequest, apierr.NewBody(apierr.CodeInvalidArgument, "userId is required"))
		return
	}
	q := ListQuery{UserID: uid}
	if v := c.Query("from"); v != "" {
		q.From = &v
	}
	if v := c.Query("to"); v != "" {
		q.To = &v
	}
	res, err := h.svc.List(c.Request.Context(), q)
	if err != nil {
		c.JSON(apierr.HTTPStatus(err), apierr.BodyFrom(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

// POST /activities
func (h *Handler) AdminUpsert(c *gin.Context) {
	var req AdminActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apierr.NewBody(apierr.CodeInvalidArgument, "userId, date (YYYY-MM-DD), description and status are required"))
		return
	}
	res, created, err := h.svc.AdminUpsert(c.Request.Context(), req)
	if err != nil {
		c.JSON(apierr.HTTPStatus(err), apierr.BodyFrom(err))
		return
	}
	c.JSON(createdOrOK(created), res)
}

// PATCH /activities/:id
func (h *Handler) AdminPatch(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req PatchActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apierr.NewBody(apierr.CodeInvalidArgument, "invalid json"))
		return
	}
	res, err := h.svc.AdminPatch(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(apierr.HTTPStatus(err), apierr.BodyFrom(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

// GET /intern/activities
func (h *Handler) Today(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	res, err := h.svc.Today(c.Request.Context(), p)
	if err != nil {
		c.JSON(apierr.HTTPStatus(err), apierr.BodyFrom(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"activity": res})
}

// POST /intern/activities
func (h *Handler) SubmitToday(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req ActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apierr.NewBody(apierr.CodeInvalidArgument, "description and status are required"))
		return
	}
	res, created, err := h.svc.SubmitToday(c.Request.Context(), p, req)
	if err != nil {
		c.JSON(apierr.HTTPStatus(err), apierr.BodyFrom(err))
		return
	}
	c.JSON(createdOrOK(created), res)
}

// PATCH /intern/activities/:id
func (h *Handler) PatchMine(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req PatchActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apierr.NewBody(apierr.CodeInvalidArgument, "invalid json"))
		return
	}
	res, err := h.svc.PatchMine(c.Request.Context(), p, id, req)
	if err != nil {
		c.JSON(apierr.HTTPStatus(err), apierr.BodyFrom(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func createdOrOK(created bool) int {
	if created {
		return http.StatusCreated
	}
	return http.StatusOK
}

func principal(c *gin.Context) (auth.Principal, bool) {
	p, ok := auth.FromGin(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, apierr.NewBody(apierr.CodeUnauthenticated, "not authenticated"))
	}
	return p, ok
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, apierr.NewBody(apierr.CodeInvalidArgument, "invalid id"))
		return 0, false
	}
	return id, true
}
