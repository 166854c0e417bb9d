package attendance

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"MAGANG-backend/internal/platform/apierr"
)

type Handler struct{ svc *Service }

// 管理者グループに登録する
func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}
	r.GET("/attendance", h.List)
	r.POST("/attendance", h.Upsert)
	r.GET("/attendance/stats", h.Stats)
	r.DELETE("/attendance/:id", h.Delete)
}

// POST /attendance
func (h *Handler) Upsert(c *gin.Context) {
	var req UpsertAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apierr.NewBody(apierr.CodeInvalidArgument, "userId, date (YYYY-MM-DD) and status are required"))
		return
	}

	res, created, err := h.svc.Upsert(c.Request.Context(), req)
	if err != nil {
		c.JSON(apierr.HTTPStatus(err), apierr.BodyFrom(err))
		return
	}
	if created {
		c.JSON(http.StatusCreated, res)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GET /attendance?userId=&on=&from=&to=&status=&limit=&offset=&sort=
func (h *Handler) List(c *gin.Context) {
	var q ListQuery
	if v := c.Query("userId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, apierr.NewBody(apierr.CodeInvalidArgument, "userId must be a positive integer"))
			return
		}
		q.UserID = &id
	}
	if v := c.Query("on"); v != "" {
		q.On = &v
	}
	if v := c.Query("from"); v != "" {
		q.From = &v
	}
	if v := c.Query("to"); v != "" {
		q.To = &v
	}
	if v := c.Query("status"); v != "" {
		q.Status = &v
	}
	q.Limit = parseIntDefault(c.Query("limit"), DefaultPageLimit)
	q.Offset = parseIntDefault(c.Query("offset"), 0)
	q.Sort = c.Query("sort")

	res, err := h.svc.List(c.Request.Context(), q)
	if err != nil {
		c.JSON(apierr.HTTPStatus(err), apierr.BodyFrom(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

// GET /attendance/stats?from=&to=&limit=
func (h *Handler) Stats(c *gin.Context) {
	req := StatsRequest{
		From:  c.Query("from"),
		To:    c.Query("to"),
		Limit: parseIntDefault(c.Query("limit"), 10),
	}
	rows, err := h.svc.Stats(c.Request.Context(), req)
	if err != nil {
		c.JSON(apierr.HTTPStatus(err), apierr.BodyFrom(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": rows})
}

// DELETE /attendance/:id
func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, apierr.NewBody(apierr.CodeInvalidArgument, "invalid id"))
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		c.JSON(apierr.HTTPStatus(err), apierr.BodyFrom(err))
		return
	}
	c.Status(http.StatusNoContent)
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
