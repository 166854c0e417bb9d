package attendance

import (
	"context"
	"fmt"
	"testing"
	"time"

	mysql "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MAGANG-backend/internal/platform/apierr"
	"MAGANG-backend/internal/platform/clock"
)

// memRepo は UNIQUE(user_id, attended_on) を map で再現する
type memRepo struct {
	rows     map[string]Attendance
	nextID   int64
	forceErr error
}

func newMemRepo() *memRepo { return &memRepo{rows: map[string]Attendance{}} }

func key(userID int64, day string) string { return fmt.Sprintf("%d|%s", userID, day) }

func (m *memRepo) Upsert(_ context.Context, userID int64, day, status string) (Attendance, bool, error) {
	if m.forceErr != nil {
		return Attendance{}, false, m.forceErr
	}
	k := key(userID, day)
	if a, ok := m.rows[k]; ok {
		a.Status = status
		m.rows[k] = a
		return a, false, nil
	}
	m.nextID++
	a := Attendance{ID: m.nextID, UserID: userID, Date: day, Status: status}
	m.rows[k] = a
	return a, true, nil
}

func (m *memRepo) InsertIfAbsent(_ context.Context, userID int64, day, status string) (bool, error) {
	if m.forceErr != nil {
		return false, m.forceErr
	}
	k := key(userID, day)
	if _, ok := m.rows[k]; ok {
		return false, nil
	}
	m.nextID++
	m.rows[k] = Attendance{ID: m.nextID, UserID: userID, Date: day, Status: status}
	return true, nil
}

func (m *memRepo) List(_ context.Context, q ListQuery) ([]Attendance, int64, error) {
	var out []Attendance
	for _, a := range m.rows {
		out = append(out, a)
	}
	return out, int64(len(out)), nil
}

func (m *memRepo) Delete(_ context.Context, id int64) (int64, error) {
	for k, a := range m.rows {
		if a.ID == id {
			delete(m.rows, k)
			return 1, nil
		}
	}
	return 0, nil
}

func (m *memRepo) Stats(_ context.Context, from, to string, limit int) ([]StatsRow, error) {
	return nil, nil
}

var wib = time.FixedZone("WIB", 7*60*60)

func at(y int, mo time.Month, d, h int) clock.Clock {
	return clock.Fixed(time.Date(y, mo, d, h, 0, 0, 0, wib))
}

func TestRecordLoginOncePerWeekday(t *testing.T) {
	repo := newMemRepo()
	// 2025-07-07 は月曜
	svc := NewServiceWithRepo(repo, wib).WithClock(at(2025, time.July, 7, 8))

	created, err := svc.RecordLogin(context.Background(), 3)
	require.NoError(t, err)
	assert.True(t, created)

	for i := 0; i < 3; i++ {
		created, err = svc.RecordLogin(context.Background(), 3)
		require.NoError(t, err)
		assert.False(t, created)
	}

	require.Len(t, repo.rows, 1)
	a := repo.rows[key(3, "2025-07-07")]
	assert.Equal(t, StatusPresent, a.Status)
}

func TestRecordLoginSkipsWeekend(t *testing.T) {
	repo := newMemRepo()
	for _, c := range []clock.Clock{at(2025, time.July, 5, 9), at(2025, time.July, 6, 9)} {
		svc := NewServiceWithRepo(repo, wib).WithClock(c)
		created, err := svc.RecordLogin(context.Background(), 3)
		require.NoError(t, err)
		assert.False(t, created)
	}
	assert.Empty(t, repo.rows)
}

func TestRecordLoginUsesServerTimezone(t *testing.T) {
	repo := newMemRepo()
	// UTC では日曜 20:00 だが WIB では月曜 03:00
	now := clock.Fixed(time.Date(2025, time.July, 6, 20, 0, 0, 0, time.UTC))
	svc := NewServiceWithRepo(repo, wib).WithClock(now)

	created, err := svc.RecordLogin(context.Background(), 3)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Contains(t, repo.rows, key(3, "2025-07-07"))
}

func TestRecordLoginKeepsExistingRow(t *testing.T) {
	repo := newMemRepo()
	svc := NewServiceWithRepo(repo, wib).WithClock(at(2025, time.July, 8, 8))
	_, _, err := svc.Upsert(context.Background(), UpsertAttendanceRequest{UserID: 3, Date: "2025-07-08", Status: StatusAbsent})
	require.NoError(t, err)

	created, err := svc.RecordLogin(context.Background(), 3)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, StatusAbsent, repo.rows[key(3, "2025-07-08")].Status)
}

func TestRecordLoginSwallowsDuplicateKey(t *testing.T) {
	repo := newMemRepo()
	repo.forceErr = &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}
	svc := NewServiceWithRepo(repo, wib).WithClock(at(2025, time.July, 8, 8))

	created, err := svc.RecordLogin(context.Background(), 3)
	require.NoError(t, err)
	assert.False(t, created)
}

func TestUpsertSecondWriteWins(t *testing.T) {
	repo := newMemRepo()
	svc := NewServiceWithRepo(repo, wib)

	_, created, err := svc.Upsert(context.Background(), UpsertAttendanceRequest{UserID: 1, Date: "2025-02-03", Status: StatusAbsent})
	require.NoError(t, err)
	assert.True(t, created)

	res, created, err := svc.Upsert(context.Background(), UpsertAttendanceRequest{UserID: 1, Date: "2025-02-03", Status: StatusPresent})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, StatusPresent, res.Status)
	assert.Len(t, repo.rows, 1)
}

func TestUpsertUnknownUserIsInvalid(t *testing.T) {
	repo := newMemRepo()
	repo.forceErr = &mysql.MySQLError{Number: 1452, Message: "Cannot add or update a child row"}
	svc := NewServiceWithRepo(repo, wib)

	_, _, err := svc.Upsert(context.Background(), UpsertAttendanceRequest{UserID: 99, Date: "2025-02-03", Status: StatusPresent})
	assert.True(t, apierr.Is(err, apierr.CodeInvalidArgument))
}

func TestStatsValidatesRange(t *testing.T) {
	svc := NewServiceWithRepo(newMemRepo(), wib)

	_, err := svc.Stats(context.Background(), StatsRequest{From: "2025-02-10", To: "2025-02-01"})
	assert.True(t, apierr.Is(err, apierr.CodeInvalidArgument))

	_, err = svc.Stats(context.Background(), StatsRequest{From: "bad", To: "2025-02-01"})
	assert.True(t, apierr.Is(err, apierr.CodeInvalidArgument))
}

func TestListRejectsUnknownSort(t *testing.T) {
	svc := NewServiceWithRepo(newMemRepo(), wib)
	_, err := svc.List(context.Background(), ListQuery{Sort: "clocked_at_desc"})
	assert.True(t, apierr.Is(err, apierr.CodeInvalidArgument))
}

func TestDeleteMissing(t *testing.T) {
	svc := NewServiceWithRepo(newMemRepo(), wib)
	err := svc.Delete(context.Background(), 42)
	assert.True(t, apierr.Is(err, apierr.CodeNotFound))
}
