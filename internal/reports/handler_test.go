package reports

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MAGANG-backend/internal/platform/auth"
)

func newTestRouter(svc *Service, p auth.Principal) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(auth.CtxPrincipalKey, p)
		c.Next()
	})
	RegisterRoutes(r, svc)
	RegisterInternRoutes(r, svc)
	return r
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHandlerRejectsBadPeriodWithoutTouchingDB(t *testing.T) {
	svc, mock, _ := newMockService(t)
	r := newTestRouter(svc, auth.Principal{UserID: 1, Role: auth.RoleAdmin})

	for _, path := range []string{
		"/reports/data?userId=4&year=2025&month=13",
		"/reports/data?userId=4&year=2025&month=0",
		"/reports/data?userId=4&year=25&month=2",
		"/reports/data?userId=abc&year=2025&month=2",
		"/reports/export?userId=4&year=2025&month=2&format=docx",
	} {
		w := get(r, path)
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
		assert.Contains(t, w.Body.String(), `"error"`, path)
	}
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHandlerData(t *testing.T) {
	svc, mock, _ := newMockService(t)
	expectFebruary(mock)
	r := newTestRouter(svc, auth.Principal{UserID: 1, Role: auth.RoleAdmin})

	w := get(r, "/reports/data?userId=4&year=2025&month=2")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"activityDescription":"Fixed bug","attendanceStatus":"TIDAK HADIR"`)
}

func TestHandlerExportCSV(t *testing.T) {
	svc, mock, _ := newMockService(t)
	expectFebruary(mock)
	r := newTestRouter(svc, auth.Principal{UserID: 1, Role: auth.RoleAdmin})

	w := get(r, "/reports/export?userId=4&year=2025&month=2&format=csv")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="laporan-budi-2025-02.csv"`, w.Header().Get("Content-Disposition"))
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
}

func TestHandlerInternForbiddenForOthers(t *testing.T) {
	svc, _, _ := newMockService(t)
	r := newTestRouter(svc, auth.Principal{UserID: 5, Role: auth.RoleIntern})

	w := get(r, "/intern/reports/4?year=2025&month=2")
	assert.Equal(t, http.StatusForbidden, w.Code)
}
