package tasks

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
	r.GET("/tasks", h.List)
	r.GET("/tasks/:id", h.Get)
	r.POST("/tasks", h.Create)
	r.PUT("/tasks/:id", h.Update)
	r.DELETE("/tasks/:id", h.Delete)
}

// インターン用
func RegisterInternRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}
	r.GET("/intern/tasks", h.ListMine)
	r.PATCH("/intern/tasks/:id", h.UpdateMyStatus)
}

// GET /tasks?status=&assignedTo=
func (h *Handler) List(c *gin.Context) {
	var q ListQuery
	if v := c.Query("status"); v != "" {
		q.Status = &v
	}
	if v := c.Query("assignedTo"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, apierr.NewBody(apierr.CodeInvalidArgument, "assignedTo must be a positive integer"))
			return
		}
		q.AssignedTo = &id
	}
	res, err := h.svc.List(c.Request.Context(), q)
	if err != nil {
		c.JSON(apierr.HTTPStatus(err), apierr.BodyFrom(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	res, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(apierr.HTTPStatus(err), apierr.BodyFrom(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) Create(c *gin.Context) {
	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apierr.NewBody(apierr.CodeInvalidArgument, "title, description, deadline (YYYY-MM-DD) and status are required"))
		return
	}
	res, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		c.JSON(apierr.HTTPStatus(err), apierr.BodyFrom(err))
		return
	}
	c.Header("Location", "/api/v1/tasks/"+strconv.FormatInt(res.ID, 10))
	c.JSON(http.StatusCreated, res)
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apierr.NewBody(apierr.CodeInvalidArgument, "title, description, deadline (YYYY-MM-DD) and status are required"))
		return
	}
	res, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(apierr.HTTPStatus(err), apierr.BodyFrom(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		c.JSON(apierr.HTTPStatus(err), apierr.BodyFrom(err))
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /intern/tasks
func (h *Handler) ListMine(c *gin.Context) {
	p, ok := auth.FromGin(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, apierr.NewBody(apierr.CodeUnauthenticated, "not authenticated"))
		return
	}
	res, err := h.svc.ListMine(c.Request.Context(), p)
	if err != nil {
		c.JSON(apierr.HTTPStatus(err), apierr.BodyFrom(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

// PATCH /intern/tasks/:id
func (h *Handler) UpdateMyStatus(c *gin.Context) {
	p, ok := auth.FromGin(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, apierr.NewBody(apierr.CodeUnauthenticated, "not authenticated"))
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apierr.NewBody(apierr.CodeInvalidArgument, "status is required"))
		return
	}
	res, err := h.svc.UpdateMyStatus(c.Request.Context(), p, id, req.Status)
	if err != nil {
		c.JSON(apierr.HTTPStatus(err), apierr.BodyFrom(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, apierr.NewBody(apierr.CodeInvalidArgument, "invalid id"))
		return 0, false
	}
	return id, true
}
