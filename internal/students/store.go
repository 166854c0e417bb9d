package students

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"MAGANG-backend/internal/platform/db"
)

type Store struct{ db db.DBTX }

func NewStore(db db.DBTX) *Store { return &Store{db: db} }

const selectStudent = `
SELECT id, username, role,
       DATE_FORMAT(date_of_birth, '%Y-%m-%d'),
       sekolah, jurusan,
       DATE_FORMAT(tanggal_masuk, '%Y-%m-%d'),
       DATE_FORMAT(tanggal_keluar, '%Y-%m-%d')
FROM users
`

func scanStudent(sc interface{ Scan(...any) error }) (studentRow, error) {
	var r studentRow
	err := sc.Scan(&r.ID, &r.Username, &r.Role, &r.DateOfBirth, &r.Sekolah, &r.Jurusan, &r.TanggalMasuk, &r.TanggalKeluar)
	return r, err
}

func (s *Store) List(ctx context.Context, q ListQuery) ([]StudentResponse, int64, error) {
	var (
		wheres []string
		args   []any
	)
	if q.Role != "" {
		wheres = append(wheres, "role = ?")
		args = append(args, q.Role)
	}
	if q.Q != "" {
		wheres = append(wheres, "username LIKE ?")
		args = append(args, "%"+escapeLike(q.Q)+"%")
	}
	where := ""
	if len(wheres) > 0 {
		where = " WHERE " + strings.Join(wheres, " AND ")
	}

	rows, err := s.db.QueryContext(ctx,
		selectStudent+where+fmt.Sprintf(" ORDER BY username ASC LIMIT %d OFFSET %d", q.Limit, q.Offset), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []StudentResponse{}
	for rows.Next() {
		r, err := scanStudent(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, r.toDTO())
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// 見つからなければ (nil, nil)
func (s *Store) Get(ctx context.Context, id int64) (*StudentResponse, error) {
	r, err := scanStudent(s.db.QueryRowContext(ctx, selectStudent+`WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	res := r.toDTO()
	return &res, nil
}

func (s *Store) Create(ctx context.Context, st Student) (int64, error) {
	hash := ""
	if st.PasswordHash != nil {
		hash = *st.PasswordHash
	}
	res, err := s.db.ExecContext(ctx, `
	INSERT INTO users (username, password, role, date_of_birth, sekolah, jurusan, tanggal_masuk, tanggal_keluar, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, NOW(), NOW())`,
		st.Username, hash, st.Role, st.DateOfBirth, st.Sekolah, st.Jurusan, st.TanggalMasuk, nullable(st.TanggalKeluar))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *Store) Update(ctx context.Context, id int64, st Student) (int64, error) {
	sets := []string{
		"username = ?", "role = ?", "date_of_birth = ?", "sekolah = ?", "jurusan = ?",
		"tanggal_masuk = ?", "tanggal_keluar = ?", "updated_at = NOW()",
	}
	args := []any{st.Username, st.Role, st.DateOfBirth, st.Sekolah, st.Jurusan, st.TanggalMasuk, nullable(st.TanggalKeluar)}
	if st.PasswordHash != nil {
		sets = append(sets, "password = ?")
		args = append(args, *st.PasswordHash)
	}
	args = append(args, id)

	res, err := s.db.ExecContext(ctx, "UPDATE users SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Delete: attendances / activities は ON DELETE CASCADE、tasks.assigned_to は NULL になる
func (s *Store) Delete(ctx context.Context, id int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *Store) CountByRole(ctx context.Context, role string) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE role = ?`, role).Scan(&n)
	return n, err
}

func nullable(s *string) any {
	if s == nil || *s == "" {
		return nil
	}
	return *s
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
