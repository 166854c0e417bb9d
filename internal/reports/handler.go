package reports

import (
	"bytes"
	"fmt"
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
	r.GET("/reports/data", h.Data)
	r.GET("/reports/export", h.Export)
}

// インターン用
func RegisterInternRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}
	r.GET("/intern/reports/:id", h.InternReport)
}

// GET /reports/data?userId=&year=&month=&lang=
func (h *Handler) Data(c *gin.Context) {
	uid, p, ok := bindQuery(c, c.Query("userId"))
	if !ok {
		return
	}
	rep, err := h.svc.Monthly(c.Request.Context(), uid, p, SentinelsFor(c.Query("lang")))
	if err != nil {
		c.JSON(apierr.HTTPStatus(err), apierr.BodyFrom(err))
		return
	}
	c.JSON(http.StatusOK, rep)
}

// GET /intern/reports/:id?year=&month=&lang=
func (h *Handler) InternReport(c *gin.Context) {
	caller, ok := auth.FromGin(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, apierr.NewBody(apierr.CodeUnauthenticated, "not authenticated"))
		return
	}
	uid, p, ok := bindQuery(c, c.Param("id"))
	if !ok {
		return
	}
	rep, err := h.svc.ForIntern(c.Request.Context(), caller, uid, p, SentinelsFor(c.Query("lang")))
	if err != nil {
		c.JSON(apierr.HTTPStatus(err), apierr.BodyFrom(err))
		return
	}
	c.JSON(http.StatusOK, rep)
}

// GET /reports/export?userId=&year=&month=&format=xlsx|pdf|csv&lang=
func (h *Handler) Export(c *gin.Context) {
	exp, err := ExporterFor(c.Query("format"))
	if err != nil {
		c.JSON(apierr.HTTPStatus(err), apierr.BodyFrom(err))
		return
	}
	uid, p, ok := bindQuery(c, c.Query("userId"))
	if !ok {
		return
	}
	rep, err := h.svc.Monthly(c.Request.Context(), uid, p, SentinelsFor(c.Query("lang")))
	if err != nil {
		c.JSON(apierr.HTTPStatus(err), apierr.BodyFrom(err))
		return
	}

	// 途中で失敗したとき JSON を返せるよう、いったんバッファに書く
	var buf bytes.Buffer
	if err := exp.Write(&buf, rep); err != nil {
		c.JSON(http.StatusInternalServerError, apierr.BodyFrom(fmt.Errorf("export %s: %w", exp.Ext, err)))
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, Filename(rep, exp.Ext)))
	c.Data(http.StatusOK, exp.ContentType, buf.Bytes())
}

func bindQuery(c *gin.Context, rawID string) (int64, Period, bool) {
	uid, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || uid <= 0 {
		c.JSON(http.StatusBadRequest, apierr.NewBody(apierr.CodeInvalidArgument, "userId must be a positive integer"))
		return 0, Period{}, false
	}
	p, err := ParsePeriod(c.Query("year"), c.Query("month"))
	if err != nil {
		c.JSON(apierr.HTTPStatus(err), apierr.BodyFrom(err))
		return 0, Period{}, false
	}
	return uid, p, true
}
