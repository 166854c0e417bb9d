package auth

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"MAGANG-backend/internal/platform/apierr"
	"MAGANG-backend/internal/platform/db"
)

// AttendanceRecorder はインターンのログイン時に当日の出席を記録する。
type AttendanceRecorder interface {
	RecordLogin(ctx context.Context, userID int64) (bool, error)
}

type Service struct {
	store    UserStore
	issuer   *TokenIssuer
	recorder AttendanceRecorder
}

func NewService(sqlDB *sql.DB, issuer *TokenIssuer, recorder AttendanceRecorder) *Service {
	return NewServiceWithStore(NewStore(sqlDB), issuer, recorder)
}

func NewServiceWithStore(store UserStore, issuer *TokenIssuer, recorder AttendanceRecorder) *Service {
	return &Service{store: store, issuer: issuer, recorder: recorder}
}

// InternPassword はインターンのパスワード（生年月日 DDMMYY）。
func InternPassword(dob time.Time) string {
	return dob.Format("020106")
}

var errBadCredentials = apierr.Unauthenticated("invalid username or password")

func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	u, err := s.store.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, errBadCredentials
	}

	recorded := false
	switch u.Role {
	case RoleIntern:
		if u.DateOfBirth == nil {
			return nil, errBadCredentials
		}
		want := InternPassword(*u.DateOfBirth)
		if subtle.ConstantTimeCompare([]byte(want), []byte(password)) != 1 {
			return nil, errBadCredentials
		}
		if s.recorder != nil {
			recorded, err = s.recorder.RecordLogin(ctx, u.ID)
			if err != nil {
				// 同時ログインで一意制約に当たっただけなら出席は記録済み
				if !db.IsDuplicateKey(err) {
					return nil, err
				}
				log.Printf("[WARN] attendance already recorded user_id=%d: %v", u.ID, err)
				recorded = false
			}
		}
	case RoleAdmin:
		if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
			return nil, errBadCredentials
		}
	default:
		return nil, errBadCredentials
	}

	p := Principal{UserID: u.ID, Username: u.Username, Role: u.Role}
	token, exp, err := s.issuer.Issue(p)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		Token:              token,
		ExpiresAt:          exp,
		User:               p,
		AttendanceRecorded: recorded,
	}, nil
}

// Me はログイン中ユーザーのプロフィール。
func (s *Service) Me(ctx context.Context, p Principal) (*Profile, error) {
	u, err := s.store.GetByID(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apierr.NotFound("user not found")
	}
	prof := toProfile(u)
	return &prof, nil
}

// SeedAdmin は ADMIN が1人もいなければ初期管理者を作る。
func (s *Service) SeedAdmin(ctx context.Context, username, password string) error {
	n, err := s.store.CountByRole(ctx, RoleAdmin)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	if password == "" {
		log.Println("[WARN] no ADMIN account and admin.password is empty, skip seeding")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	id, err := s.store.Create(ctx, &User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         RoleAdmin,
	})
	if err != nil {
		if db.IsDuplicateKey(err) {
			return apierr.Conflict("username already exists: " + username)
		}
		return err
	}
	log.Printf("[INFO] seeded admin account id=%d username=%s", id, username)
	return nil
}
