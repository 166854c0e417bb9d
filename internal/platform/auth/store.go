package auth

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"MAGANG-backend/internal/platform/db"
)

type UserStore interface {
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	CountByRole(ctx context.Context, role string) (int64, error)
	Create(ctx context.Context, u *User) (int64, error)
}

type Store struct{ db db.DBTX }

func NewStore(db db.DBTX) *Store {
	return &Store{db: db}
}

const selectUser = `
SELECT id, username, password, role,
       DATE_FORMAT(date_of_birth, '%Y-%m-%d'),
       sekolah, jurusan,
       DATE_FORMAT(tanggal_masuk, '%Y-%m-%d'),
       DATE_FORMAT(tanggal_keluar, '%Y-%m-%d')
FROM users
`

// 見つからなければ (nil, nil)
func (s *Store) GetByUsername(ctx context.Context, username string) (*User, error) {
	return s.getOne(ctx, selectUser+`WHERE username = ? LIMIT 1`, username)
}

func (s *Store) GetByID(ctx context.Context, id int64) (*User, error) {
	return s.getOne(ctx, selectUser+`WHERE id = ? LIMIT 1`, id)
}

func (s *Store) getOne(ctx context.Context, q string, arg any) (*User, error) {
	var (
		u                  User
		dob, masuk, keluar sql.NullString
	)
	err := s.db.QueryRowContext(ctx, q, arg).Scan(
		&u.ID, &u.Username, &u.PasswordHash, &u.Role,
		&dob, &u.Sekolah, &u.Jurusan, &masuk, &keluar,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if u.DateOfBirth, err = parseNullDate(dob); err != nil {
		return nil, err
	}
	if u.TanggalMasuk, err = parseNullDate(masuk); err != nil {
		return nil, err
	}
	if u.TanggalKeluar, err = parseNullDate(keluar); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) CountByRole(ctx context.Context, role string) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE role = ?`, role).Scan(&n)
	return n, err
}

func (s *Store) Create(ctx context.Context, u *User) (int64, error) {
	const q = `
INSERT INTO users (username, password, role, sekolah, jurusan, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, NOW(), NOW())
`
	res, err := s.db.ExecContext(ctx, q, u.Username, u.PasswordHash, u.Role, u.Sekolah, u.Jurusan)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func parseNullDate(ns sql.NullString) (*time.Time, error) {
	if !ns.Valid || ns.String == "" {
		return nil, nil
	}
	t, err := time.Parse(db.DateLayout, ns.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
