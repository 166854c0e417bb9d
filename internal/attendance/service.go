package attendance

import (
	"context"
	"database/sql"
	"log"
	"strings"
	"time"

	"MAGANG-backend/internal/platform/apierr"
	"MAGANG-backend/internal/platform/clock"
	"MAGANG-backend/internal/platform/db"
)

// Repository は Service が使う永続化の口（*Store が実装）。
type Repository interface {
	Upsert(ctx context.Context, userID int64, day, status string) (Attendance, bool, error)
	InsertIfAbsent(ctx context.Context, userID int64, day, status string) (bool, error)
	List(ctx context.Context, q ListQuery) ([]Attendance, int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
	Stats(ctx context.Context, from, to string, limit int) ([]StatsRow, error)
}

type Service struct {
	repo  Repository
	clock clock.Clock
	loc   *time.Location
}

func NewService(sqlDB *sql.DB, loc *time.Location) *Service {
	return NewServiceWithRepo(NewStore(sqlDB), loc)
}

func NewServiceWithRepo(repo Repository, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{repo: repo, clock: clock.Real(), loc: loc}
}

func (s *Service) WithClock(c clock.Clock) *Service {
	s.clock = c
	return s
}

// POST /attendance
func (s *Service) Upsert(ctx context.Context, in UpsertAttendanceRequest) (AttendanceResponse, bool, error) {
	if in.UserID <= 0 {
		return AttendanceResponse{}, false, apierr.Invalid("userId is required")
	}
	if _, err := time.Parse(db.DateLayout, in.Date); err != nil {
		return AttendanceResponse{}, false, apierr.Invalid("date must be YYYY-MM-DD")
	}
	status := strings.TrimSpace(in.Status)
	if status == "" {
		return AttendanceResponse{}, false, apierr.Invalid("status is required")
	}

	row, created, err := s.repo.Upsert(ctx, in.UserID, in.Date, status)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return AttendanceResponse{}, false, apierr.Invalid("userId does not reference an existing user")
		}
		return AttendanceResponse{}, false, err
	}
	return row.toDTO(), created, nil
}

// GET /attendance
func (s *Service) List(ctx context.Context, q ListQuery) (ListResponse, error) {
	for name, v := range map[string]*string{"on": q.On, "from": q.From, "to": q.To} {
		if v != nil && *v != "" {
			if _, err := time.Parse(db.DateLayout, *v); err != nil {
				return ListResponse{}, apierr.Invalid(name + " must be YYYY-MM-DD")
			}
		}
	}
	switch q.Sort {
	case "":
		q.Sort = DefaultSort
	case SortDateDesc, SortDateAsc, SortUsernameAsc:
	default:
		return ListResponse{}, apierr.Invalid("unknown sort: " + q.Sort)
	}
	if q.Limit <= 0 {
		q.Limit = DefaultPageLimit
	}
	if q.Limit > MaxPageLimit {
		q.Limit = MaxPageLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}

	rows, total, err := s.repo.List(ctx, q)
	if err != nil {
		return ListResponse{}, err
	}
	out := make([]AttendanceResponse, 0, len(rows))
	for i := 0; i < len(rows); i++ {
		out = append(out, rows[i].toDTO())
	}
	return ListResponse{Count: total, Items: out}, nil
}

// DELETE /attendance/:id
func (s *Service) Delete(ctx context.Context, id int64) error {
	n, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return apierr.NotFound("attendance not found")
	}
	return nil
}

// GET /attendance/stats
func (s *Service) Stats(ctx context.Context, req StatsRequest) ([]StatsRow, error) {
	from, err := time.Parse(db.DateLayout, req.From)
	if err != nil {
		return nil, apierr.Invalid("from must be YYYY-MM-DD")
	}
	to, err := time.Parse(db.DateLayout, req.To)
	if err != nil {
		return nil, apierr.Invalid("to must be YYYY-MM-DD")
	}
	if to.Before(from) {
		return nil, apierr.Invalid("to must be >= from")
	}
	if req.Limit <= 0 {
		req.Limit = 10
	}
	if req.Limit > MaxPageLimit {
		req.Limit = MaxPageLimit
	}
	return s.repo.Stats(ctx, req.From, req.To, req.Limit)
}

// RecordLogin はインターンのログイン時に当日の PRESENT を1行だけ作る。
// 土日は何もしない。既存行（手動で ABSENT にした等）はそのまま。
func (s *Service) RecordLogin(ctx context.Context, userID int64) (bool, error) {
	today := clock.Today(s.clock.Now(), s.loc)
	if clock.IsWeekend(today) {
		return false, nil
	}

	day := today.Format(db.DateLayout)
	created, err := s.repo.InsertIfAbsent(ctx, userID, day, StatusPresent)
	if err != nil {
		if db.IsDuplicateKey(err) {
			return false, nil
		}
		return false, err
	}
	if created {
		log.Printf("[INFO] attendance recorded user_id=%d on=%s", userID, day)
	}
	return created, nil
}
