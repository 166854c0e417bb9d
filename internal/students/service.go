package students

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"MAGANG-backend/internal/activities"
	"MAGANG-backend/internal/platform/apierr"
	"MAGANG-backend/internal/platform/auth"
	"MAGANG-backend/internal/platform/db"
	"MAGANG-backend/internal/tasks"
)

type Repository interface {
	List(ctx context.Context, q ListQuery) ([]StudentResponse, int64, error)
	Get(ctx context.Context, id int64) (*StudentResponse, error)
	Create(ctx context.Context, st Student) (int64, error)
	Update(ctx context.Context, id int64, st Student) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

// プロフィール画面用に他機能から借りる読み取り
type TaskLister interface {
	ListMine(ctx context.Context, p auth.Principal) ([]tasks.TaskResponse, error)
}

type ActivityReader interface {
	Today(ctx context.Context, p auth.Principal) (*activities.ActivityResponse, error)
}

type Service struct {
	repo       Repository
	tasks      TaskLister
	activities ActivityReader
	cost       int
}

func NewService(sqlDB *sql.DB, tl TaskLister, ar ActivityReader) *Service {
	return NewServiceWithRepo(NewStore(sqlDB), tl, ar)
}

func NewServiceWithRepo(repo Repository, tl TaskLister, ar ActivityReader) *Service {
	return &Service{repo: repo, tasks: tl, activities: ar, cost: bcrypt.DefaultCost}
}

var errDuplicateUsername = apierr.Conflict("username already exists")

// GET /students
func (s *Service) List(ctx context.Context, q ListQuery) (ListResponse, error) {
	switch strings.ToUpper(q.Role) {
	case "":
		q.Role = auth.RoleIntern
	case "ALL":
		q.Role = ""
	case auth.RoleIntern, auth.RoleAdmin:
		q.Role = strings.ToUpper(q.Role)
	default:
		return ListResponse{}, apierr.Invalid("role must be INTERN, ADMIN or ALL")
	}
	q.Q = strings.TrimSpace(q.Q)
	if q.Limit <= 0 {
		q.Limit = DefaultPageLimit
	}
	if q.Limit > MaxPageLimit {
		q.Limit = MaxPageLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}

	items, total, err := s.repo.List(ctx, q)
	if err != nil {
		return ListResponse{}, err
	}
	return ListResponse{Count: total, Items: items}, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*StudentResponse, error) {
	st, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, apierr.NotFound("student not found")
	}
	return st, nil
}

// POST /students
func (s *Service) Create(ctx context.Context, in CreateStudentRequest) (*StudentResponse, error) {
	dob, err := checkDates(in.DateOfBirth, in.TanggalMasuk, in.TanggalKeluar)
	if err != nil {
		return nil, err
	}
	// ログインは生年月日で行うので、未指定なら同じ値を保存しておく
	plain := auth.InternPassword(dob)
	if in.Password != nil && *in.Password != "" {
		plain = *in.Password
	}
	hash, err := s.hash(plain)
	if err != nil {
		return nil, err
	}

	id, err := s.repo.Create(ctx, Student{
		Username:      strings.TrimSpace(in.Username),
		PasswordHash:  &hash,
		Role:          auth.RoleIntern,
		DateOfBirth:   in.DateOfBirth,
		Sekolah:       strings.TrimSpace(in.Sekolah),
		Jurusan:       strings.TrimSpace(in.Jurusan),
		TanggalMasuk:  in.TanggalMasuk,
		TanggalKeluar: in.TanggalKeluar,
	})
	if err != nil {
		if db.IsDuplicateKey(err) {
			return nil, errDuplicateUsername
		}
		return nil, err
	}
	return s.Get(ctx, id)
}

// PUT /students/:id
func (s *Service) Update(ctx context.Context, id int64, in UpdateStudentRequest) (*StudentResponse, error) {
	cur, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := checkDates(in.DateOfBirth, in.TanggalMasuk, in.TanggalKeluar); err != nil {
		return nil, err
	}

	st := Student{
		Username:      strings.TrimSpace(in.Username),
		Role:          cur.Role,
		DateOfBirth:   in.DateOfBirth,
		Sekolah:       strings.TrimSpace(in.Sekolah),
		Jurusan:       strings.TrimSpace(in.Jurusan),
		TanggalMasuk:  in.TanggalMasuk,
		TanggalKeluar: in.TanggalKeluar,
	}
	if in.Role != "" {
		st.Role = in.Role
	}
	if in.Password != nil && *in.Password != "" {
		hash, err := s.hash(*in.Password)
		if err != nil {
			return nil, err
		}
		st.PasswordHash = &hash
	}

	if _, err := s.repo.Update(ctx, id, st); err != nil {
		if db.IsDuplicateKey(err) {
			return nil, errDuplicateUsername
		}
		return nil, err
	}
	return s.Get(ctx, id)
}

// DELETE /students/:id
func (s *Service) Delete(ctx context.Context, id int64) error {
	n, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return apierr.NotFound("student not found")
	}
	return nil
}

// GET /intern/profile
func (s *Service) Profile(ctx context.Context, p auth.Principal) (*ProfileResponse, error) {
	st, err := s.Get(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	out := &ProfileResponse{StudentResponse: *st, Tasks: []tasks.TaskResponse{}}
	if s.tasks != nil {
		if out.Tasks, err = s.tasks.ListMine(ctx, p); err != nil {
			return nil, err
		}
	}
	if s.activities != nil {
		if out.TodayActivity, err = s.activities.Today(ctx, p); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *Service) hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), s.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// checkDates は日付形式と 在籍終了 >= 在籍開始 を確認し、生年月日を返す。
func checkDates(dob, masuk string, keluar *string) (time.Time, error) {
	d, err := time.Parse(db.DateLayout, dob)
	if err != nil {
		return time.Time{}, apierr.Invalid("dateOfBirth must be YYYY-MM-DD")
	}
	m, err := time.Parse(db.DateLayout, masuk)
	if err != nil {
		return time.Time{}, apierr.Invalid("tanggalMasuk must be YYYY-MM-DD")
	}
	if keluar != nil && *keluar != "" {
		k, err := time.Parse(db.DateLayout, *keluar)
		if err != nil {
			return time.Time{}, apierr.Invalid("tanggalKeluar must be YYYY-MM-DD")
		}
		if k.Before(m) {
			return time.Time{}, apierr.Invalid("tanggalKeluar must not be before tanggalMasuk")
		}
	}
	return d, nil
}
