package dashboard

import (
	"context"
	"database/sql"
	"time"

	"MAGANG-backend/internal/activities"
	"MAGANG-backend/internal/attendance"
	"MAGANG-backend/internal/platform/auth"
	"MAGANG-backend/internal/platform/clock"
	"MAGANG-backend/internal/platform/db"
	"MAGANG-backend/internal/students"
	"MAGANG-backend/internal/tasks"
)

type Summary struct {
	Date            string              `json:"date"` // YYYY-MM-DD（app.timezone 基準）
	TotalInterns    int64               `json:"totalInterns"`
	AttendanceToday int64               `json:"attendanceToday"`
	ActivitiesToday int64               `json:"activitiesToday"`
	TotalTasks      int64               `json:"totalTasks"`
	TasksByStatus   []tasks.StatusCount `json:"tasksByStatus"`
}

type Service struct {
	db    *sql.DB
	clock clock.Clock
	loc   *time.Location
}

func NewService(sqlDB *sql.DB, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{db: sqlDB, clock: clock.Real(), loc: loc}
}

func (s *Service) WithClock(c clock.Clock) *Service {
	s.clock = c
	return s
}

// Summary は各テーブルの件数を同じ読み取り専用Txで集計する。
func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	day := clock.Today(s.clock.Now(), s.loc).Format(db.DateLayout)
	out := &Summary{Date: day}

	err := db.ReadOnly(ctx, s.db, func(ctx context.Context, tx db.DBTX) error {
		var err error
		if out.TotalInterns, err = students.NewStore(tx).CountByRole(ctx, auth.RoleIntern); err != nil {
			return err
		}
		if out.AttendanceToday, err = attendance.NewStore(tx).CountOn(ctx, day); err != nil {
			return err
		}
		if out.ActivitiesToday, err = activities.NewStore(tx).CountOn(ctx, day); err != nil {
			return err
		}
		if out.TasksByStatus, err = tasks.NewStore(tx).CountByStatus(ctx); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, sc := range out.TasksByStatus {
		out.TotalTasks += sc.Count
	}
	return out, nil
}
