package reports

import (
	"context"
	"database/sql"
	"time"

	"MAGANG-backend/internal/activities"
	"MAGANG-backend/internal/attendance"
	"MAGANG-backend/internal/platform/apierr"
	"MAGANG-backend/internal/platform/auth"
	"MAGANG-backend/internal/platform/clock"
	"MAGANG-backend/internal/platform/db"
)

type MonthlyReport struct {
	UserID          int64         `json:"userId"`
	Username        string        `json:"username"`
	Role            string        `json:"role"`
	Sekolah         string        `json:"sekolah"`
	Jurusan         string        `json:"jurusan"`
	Reports         []DailyRecord `json:"reports"`
	AvailableMonths []MonthOption `json:"availableMonths"`
	CurrentMonth    Period        `json:"currentMonth"`
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

// Monthly はユーザー・出席・活動を同じ読み取り専用Txで読み、1日1行に突き合わせる。
func (s *Service) Monthly(ctx context.Context, userID int64, p Period, sent Sentinels) (*MonthlyReport, error) {
	if userID <= 0 {
		return nil, apierr.Invalid("userId is required")
	}
	first, last := MonthRange(p)
	from, to := first.Format(db.DateLayout), last.Format(db.DateLayout)

	var rep *MonthlyReport
	err := db.ReadOnly(ctx, s.db, func(ctx context.Context, tx db.DBTX) error {
		u, err := auth.NewStore(tx).GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if u == nil {
			return apierr.NotFound("user not found")
		}

		atts, err := attendance.NewStore(tx).ListForUser(ctx, userID, from, to)
		if err != nil {
			return err
		}
		acts, err := activities.NewStore(tx).ListForUser(ctx, userID, from, to)
		if err != nil {
			return err
		}

		attEntries := make([]AttendanceEntry, 0, len(atts))
		for _, a := range atts {
			attEntries = append(attEntries, AttendanceEntry{Date: a.Date, Status: a.Status})
		}
		actEntries := make([]ActivityEntry, 0, len(acts))
		for _, a := range acts {
			e := ActivityEntry{Date: a.Date, Description: a.Description, Status: a.Status}
			if a.TaskTitle.Valid {
				title := a.TaskTitle.String
				e.TaskTitle = &title
			}
			actEntries = append(actEntries, e)
		}

		rep = &MonthlyReport{
			UserID:          u.ID,
			Username:        u.Username,
			Role:            u.Role,
			Sekolah:         u.Sekolah,
			Jurusan:         u.Jurusan,
			Reports:         Reconcile(first, last, attEntries, actEntries, sent),
			AvailableMonths: AvailableMonths(u.TanggalMasuk, u.TanggalKeluar, s.clock.Now().In(s.loc)),
			CurrentMonth:    p,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rep, nil
}

// ForIntern: インターンは自分のレポートのみ
func (s *Service) ForIntern(ctx context.Context, caller auth.Principal, userID int64, p Period, sent Sentinels) (*MonthlyReport, error) {
	if caller.UserID != userID {
		return nil, apierr.Forbidden("interns can only view their own report")
	}
	return s.Monthly(ctx, userID, p, sent)
}
