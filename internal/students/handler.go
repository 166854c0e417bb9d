package students

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
	r.GET("/students", h.List)
	r.GET("/students/:id", h.Get)
	r.POST("/students", h.Create)
	r.PUT("/students/:id", h.Update)
	r.DELETE("/students/:id", h.Delete)
}

// インターン用
func RegisterInternRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}
	r.GET("/intern/profile", h.Profile)
}

// GET /students?role=&q=&limit=&offset=
func (h *Handler) List(c *gin.Context) {
	q := ListQuery{
		Role:   c.Query("role"),
		Q:      c.Query("q"),
		Limit:  parseIntDefault(c.Query("limit"), DefaultPageLimit),
		Offset: parseIntDefault(c.Query("offset"), 0),
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
	var req CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apierr.NewBody(apierr.CodeInvalidArgument, "username, sekolah, jurusan, dateOfBirth and tanggalMasuk (YYYY-MM-DD) are required"))
		return
	}
	res, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		c.JSON(apierr.HTTPStatus(err), apierr.BodyFrom(err))
		return
	}
	c.Header("Location", "/api/v1/students/"+strconv.FormatInt(res.ID, 10))
	c.JSON(http.StatusCreated, res)
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apierr.NewBody(apierr.CodeInvalidArgument, "username, sekolah, jurusan, dateOfBirth and tanggalMasuk (YYYY-MM-DD) are required"))
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

// GET /intern/profile
func (h *Handler) Profile(c *gin.Context) {
	p, ok := auth.FromGin(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, apierr.NewBody(apierr.CodeUnauthenticated, "not authenticated"))
		return
	}
	res, err := h.svc.Profile(c.Request.Context(), p)
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
