package activities

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"MAGANG-backend/internal/platform/auth"
	"MAGANG-backend/internal/platform/validate"
)

func newTestRouter(svc *Service, p auth.Principal) *gin.Engine {
	gin.SetMode(gin.TestMode)
	validate.Register()
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(auth.CtxPrincipalKey, p)
		c.Next()
	})
	RegisterRoutes(r, svc)
	RegisterInternRoutes(r, svc)
	return r
}

func send(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandlerInternSubmitCreatedThenOK(t *testing.T) {
	r := newTestRouter(newSvc(newMemRepo()), auth.Principal{UserID: 4, Role: auth.RoleIntern})

	w := send(r, http.MethodPost, "/intern/activities", `{"description":"a","status":"Done"}`)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = send(r, http.MethodPost, "/intern/activities", `{"description":"b","status":"Done"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"description":"b"`)

	w = send(r, http.MethodPost, "/intern/activities", `{"status":"Done"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = send(r, http.MethodGet, "/intern/activities", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"date":"2025-02-12"`)
}

func TestHandlerAdminListNeedsUserID(t *testing.T) {
	r := newTestRouter(newSvc(newMemRepo()), auth.Principal{UserID: 1, Role: auth.RoleAdmin})

	w := send(r, http.MethodGet, "/activities", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = send(r, http.MethodPost, "/activities", `{"userId":4,"date":"2025-02-03","description":"d","status":"s"}`)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = send(r, http.MethodGet, "/activities?userId=4", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"date":"2025-02-03"`)
}
