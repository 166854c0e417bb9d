package dashboard

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MAGANG-backend/internal/platform/clock"
)

func newMockService(t *testing.T) (*Service, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	jakarta := time.FixedZone("WIB", 7*60*60)
	// UTC では 3/2 だがジャカルタでは 3/3
	now := clock.Fixed(time.Date(2025, 3, 2, 18, 30, 0, 0, time.UTC))
	return NewService(sqlDB, jakarta).WithClock(now), mock
}

func expectCounts(mock sqlmock.Sqlmock) {
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users WHERE role = \?`).WithArgs("INTERN").
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(12))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM attendances WHERE attended_on = \?`).WithArgs("2025-03-03").
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(9))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM activities WHERE reported_on = \?`).WithArgs("2025-03-03").
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(7))
	mock.ExpectQuery(`SELECT status, COUNT\(\*\) FROM tasks GROUP BY status`).
		WillReturnRows(sqlmock.NewRows([]string{"status", "n"}).
			AddRow("Completed", 4).
			AddRow("In Progress", 2).
			AddRow("Pending", 5))
	mock.ExpectCommit()
}

func TestSummaryCountsTodayInConfiguredZone(t *testing.T) {
	svc, mock := newMockService(t)
	expectCounts(mock)

	res, err := svc.Summary(context.Background())
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	assert.Equal(t, "2025-03-03", res.Date)
	assert.Equal(t, int64(12), res.TotalInterns)
	assert.Equal(t, int64(9), res.AttendanceToday)
	assert.Equal(t, int64(7), res.ActivitiesToday)
	assert.Equal(t, int64(11), res.TotalTasks)
	require.Len(t, res.TasksByStatus, 3)
}

func TestSummaryRollsBackOnError(t *testing.T) {
	svc, mock := newMockService(t)
	mock.ExpectBegin()
	mock.ExpectQuery(`FROM users`).WillReturnError(errors.New("boom"))
	mock.ExpectRollback()

	_, err := svc.Summary(context.Background())
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHandlerSummary(t *testing.T) {
	svc, mock := newMockService(t)
	expectCounts(mock)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard/summary", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"totalInterns":12`)
	assert.Contains(t, w.Body.String(), `"totalTasks":11`)
}
