package tasks

import (
	"context"
	"database/sql"
	"strings"

	"MAGANG-backend/internal/platform/apierr"
	"MAGANG-backend/internal/platform/auth"
	"MAGANG-backend/internal/platform/db"
)

type Repository interface {
	List(ctx context.Context, q ListQuery) ([]TaskResponse, error)
	Get(ctx context.Context, id int64) (*TaskResponse, error)
	Create(ctx context.Context, in TaskRequest) (int64, error)
	Update(ctx context.Context, id int64, in TaskRequest) (int64, error)
	UpdateStatusFor(ctx context.Context, id, userID int64, status string) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

type Service struct {
	repo Repository
}

func NewService(sqlDB *sql.DB) *Service {
	return NewServiceWithRepo(NewStore(sqlDB))
}

func NewServiceWithRepo(repo Repository) *Service {
	return &Service{repo: repo}
}

var errUnknownAssignee = apierr.Invalid("assignedTo does not reference an existing user")

func (s *Service) List(ctx context.Context, q ListQuery) ([]TaskResponse, error) {
	return s.repo.List(ctx, q)
}

func (s *Service) Get(ctx context.Context, id int64) (*TaskResponse, error) {
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, apierr.NotFound("task not found")
	}
	return t, nil
}

func (s *Service) Create(ctx context.Context, in TaskRequest) (*TaskResponse, error) {
	if err := normalize(&in); err != nil {
		return nil, err
	}
	id, err := s.repo.Create(ctx, in)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return nil, errUnknownAssignee
		}
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, id int64, in TaskRequest) (*TaskResponse, error) {
	if err := normalize(&in); err != nil {
		return nil, err
	}
	// 値が同じだと RowsAffected は 0 になるので、存在確認は Get に任せる
	if _, err := s.repo.Update(ctx, id, in); err != nil {
		if db.IsForeignKeyViolation(err) {
			return nil, errUnknownAssignee
		}
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	n, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return apierr.NotFound("task not found")
	}
	return nil
}

// ===== インターン用 =====

func (s *Service) ListMine(ctx context.Context, p auth.Principal) ([]TaskResponse, error) {
	uid := p.UserID
	return s.repo.List(ctx, ListQuery{AssignedTo: &uid})
}

// UpdateMyStatus: 自分に割り当てられたタスクのみ。他人のタスクは存在しない扱い（404）。
func (s *Service) UpdateMyStatus(ctx context.Context, p auth.Principal, id int64, status string) (*TaskResponse, error) {
	status = strings.TrimSpace(status)
	if status == "" {
		return nil, apierr.Invalid("status is required")
	}
	if _, err := s.repo.UpdateStatusFor(ctx, id, p.UserID, status); err != nil {
		return nil, err
	}
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil || t.AssignedTo == nil || *t.AssignedTo != p.UserID {
		return nil, apierr.NotFound("task not found")
	}
	return t, nil
}

func normalize(in *TaskRequest) error {
	in.Title = strings.TrimSpace(in.Title)
	in.Status = strings.TrimSpace(in.Status)
	if in.Title == "" {
		return apierr.Invalid("title is required")
	}
	if in.Status == "" {
		return apierr.Invalid("status is required")
	}
	if in.AssignedTo != nil && *in.AssignedTo <= 0 {
		return apierr.Invalid("assignedTo must be a positive id")
	}
	return nil
}
