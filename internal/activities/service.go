package activities

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"MAGANG-backend/internal/platform/apierr"
	"MAGANG-backend/internal/platform/auth"
	"MAGANG-backend/internal/platform/clock"
	"MAGANG-backend/internal/platform/db"
)

type Repository interface {
	Upsert(ctx context.Context, userID int64, day, description, status string, taskID *int64) (Activity, bool, error)
	GetByUserDay(ctx context.Context, userID int64, day string) (*Activity, error)
	Get(ctx context.Context, id int64) (*Activity, error)
	List(ctx context.Context, q ListQuery) ([]Activity, error)
	Patch(ctx context.Context, id, ownerID int64, in PatchActivityRequest) (int64, error)
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

func (s *Service) today() string {
	return clock.Today(s.clock.Now(), s.loc).Format(db.DateLayout)
}

// ===== 管理者 =====

// GET /activities?userId=&from=&to=
func (s *Service) List(ctx context.Context, q ListQuery) ([]ActivityResponse, error) {
	if q.UserID <= 0 {
		return nil, apierr.Invalid("userId is required")
	}
	if err := checkDate("from", q.From); err != nil {
		return nil, err
	}
	if err := checkDate("to", q.To); err != nil {
		return nil, err
	}
	rows, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	out := make([]ActivityResponse, 0, len(rows))
	for _, a := range rows {
		out = append(out, a.toDTO())
	}
	return out, nil
}

// POST /activities
func (s *Service) AdminUpsert(ctx context.Context, in AdminActivityRequest) (ActivityResponse, bool, error) {
	if in.UserID <= 0 {
		return ActivityResponse{}, false, apierr.Invalid("userId is required")
	}
	if err := checkDate("date", &in.Date); err != nil {
		return ActivityResponse{}, false, err
	}
	return s.upsert(ctx, in.UserID, in.Date, in.Description, in.Status, in.TaskID)
}

// PATCH /activities/:id
func (s *Service) AdminPatch(ctx context.Context, id int64, in PatchActivityRequest) (ActivityResponse, error) {
	return s.patch(ctx, id, 0, in)
}

// ===== インターン =====

// GET /intern/activities（当日分。未提出なら nil）
func (s *Service) Today(ctx context.Context, p auth.Principal) (*ActivityResponse, error) {
	a, err := s.repo.GetByUserDay(ctx, p.UserID, s.today())
	if err != nil || a == nil {
		return nil, err
	}
	res := a.toDTO()
	return &res, nil
}

// POST /intern/activities
func (s *Service) SubmitToday(ctx context.Context, p auth.Principal, in ActivityRequest) (ActivityResponse, bool, error) {
	return s.upsert(ctx, p.UserID, s.today(), in.Description, in.Status, in.TaskID)
}

// PATCH /intern/activities/:id（本人の行のみ。他人の行は 404）
func (s *Service) PatchMine(ctx context.Context, p auth.Principal, id int64, in PatchActivityRequest) (ActivityResponse, error) {
	return s.patch(ctx, id, p.UserID, in)
}

func (s *Service) upsert(ctx context.Context, userID int64, day, description, status string, taskID *int64) (ActivityResponse, bool, error) {
	description = strings.TrimSpace(description)
	status = strings.TrimSpace(status)
	if description == "" || status == "" {
		return ActivityResponse{}, false, apierr.Invalid("description and status are required")
	}

	a, created, err := s.repo.Upsert(ctx, userID, day, description, status, taskID)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return ActivityResponse{}, false, apierr.Invalid("userId or taskId does not reference an existing row")
		}
		return ActivityResponse{}, false, err
	}
	return a.toDTO(), created, nil
}

func (s *Service) patch(ctx context.Context, id, ownerID int64, in PatchActivityRequest) (ActivityResponse, error) {
	if in.Description == nil && in.Status == nil && in.TaskID == nil {
		return ActivityResponse{}, apierr.Invalid("nothing to update")
	}
	if _, err := s.repo.Patch(ctx, id, ownerID, in); err != nil {
		if db.IsForeignKeyViolation(err) {
			return ActivityResponse{}, apierr.Invalid("taskId does not reference an existing task")
		}
		return ActivityResponse{}, err
	}

	a, err := s.repo.Get(ctx, id)
	if err != nil {
		return ActivityResponse{}, err
	}
	if a == nil || (ownerID > 0 && a.UserID != ownerID) {
		return ActivityResponse{}, apierr.NotFound("activity not found")
	}
	return a.toDTO(), nil
}

func checkDate(name string, v *string) error {
	if v == nil || *v == "" {
		return nil
	}
	if _, err := time.Parse(db.DateLayout, *v); err != nil {
		return apierr.Invalid(name + " must be YYYY-MM-DD")
	}
	return nil
}
