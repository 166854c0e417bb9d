package attendance

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"MAGANG-backend/internal/platform/apierr"
	"MAGANG-backend/internal/platform/db"
)

type Store struct{ db db.DBTX }

func NewStore(db db.DBTX) *Store { return &Store{db: db} }

const selectJoined = `
SELECT a.id, a.user_id, u.username, DATE_FORMAT(a.attended_on, '%Y-%m-%d') AS attended_on, a.status
FROM attendances a
JOIN users u ON u.id = a.user_id
`

// Upsert: user_id + attended_on（UNIQUE）でINSERTまたはUPDATE。
// 返り値: 確定行、created=true（新規）/false（更新）
func (s *Store) Upsert(ctx context.Context, userID int64, day, status string) (Attendance, bool, error) {
	// INSERT ... ON DUPLICATE KEY UPDATE
	// - 新規: RowsAffected = 1
	// - 既存更新: RowsAffected = 2（値が同じなら 0）
	const q = `
	INSERT INTO attendances (user_id, attended_on, status, created_at, updated_at)
	VALUES (?, ?, ?, NOW(), NOW())
	ON DUPLICATE KEY UPDATE
	status     = VALUES(status),
	updated_at = VALUES(updated_at)`

	res, err := s.db.ExecContext(ctx, q, userID, day, status)
	if err != nil {
		return Attendance{}, false, err
	}
	aff, _ := res.RowsAffected()
	created := aff == 1

	a, err := s.getByUserDay(ctx, userID, day)
	if err != nil {
		return Attendance{}, created, err
	}
	return a, created, nil
}

// InsertIfAbsent: 行がなければ作る。既存行には触らない（id = id は何も変えない）。
func (s *Store) InsertIfAbsent(ctx context.Context, userID int64, day, status string) (bool, error) {
	const q = `
	INSERT INTO attendances (user_id, attended_on, status, created_at, updated_at)
	VALUES (?, ?, ?, NOW(), NOW())
	ON DUPLICATE KEY UPDATE id = id`

	res, err := s.db.ExecContext(ctx, q, userID, day, status)
	if err != nil {
		return false, err
	}
	aff, _ := res.RowsAffected()
	return aff == 1, nil
}

func (s *Store) getByUserDay(ctx context.Context, userID int64, day string) (Attendance, error) {
	var a Attendance
	err := s.db.QueryRowContext(ctx, selectJoined+`WHERE a.user_id = ? AND a.attended_on = ?`, userID, day).
		Scan(&a.ID, &a.UserID, &a.Username, &a.Date, &a.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return Attendance{}, apierr.Internal("upserted but not found")
	}
	return a, err
}

// List: 条件に応じて動的WHERE + ORDER + LIMIT/OFFSET
func (s *Store) List(ctx context.Context, q ListQuery) ([]Attendance, int64, error) {
	var (
		buf    bytes.Buffer
		args   []any
		wheres []string
	)

	buf.WriteString(selectJoined)
	// WHERE
	if q.UserID != nil {
		wheres = append(wheres, "a.user_id = ?")
		args = append(args, *q.UserID)
	}
	if q.On != nil && *q.On != "" {
		wheres = append(wheres, "a.attended_on = ?")
		args = append(args, *q.On)
	} else {
		if q.From != nil && *q.From != "" {
			wheres = append(wheres, "a.attended_on >= ?")
			args = append(args, *q.From)
		}
		if q.To != nil && *q.To != "" {
			wheres = append(wheres, "a.attended_on <= ?")
			args = append(args, *q.To)
		}
	}
	if q.Status != nil && *q.Status != "" {
		wheres = append(wheres, "a.status = ?")
		args = append(args, *q.Status)
	}
	where := ""
	if len(wheres) > 0 {
		where = " WHERE " + strings.Join(wheres, " AND ")
	}
	buf.WriteString(where)

	// ORDER
	switch q.Sort {
	case SortDateAsc:
		buf.WriteString(" ORDER BY a.attended_on ASC, a.id ASC")
	case SortUsernameAsc:
		buf.WriteString(" ORDER BY u.username ASC, a.attended_on DESC")
	default:
		buf.WriteString(" ORDER BY a.attended_on DESC, a.id DESC")
	}

	// LIMIT/OFFSET（Service 側で丸め済み）
	buf.WriteString(fmt.Sprintf(" LIMIT %d OFFSET %d", q.Limit, q.Offset))

	rows, err := s.db.QueryContext(ctx, buf.String(), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []Attendance{}
	for rows.Next() {
		var a Attendance
		if err := rows.Scan(&a.ID, &a.UserID, &a.Username, &a.Date, &a.Status); err != nil {
			return nil, 0, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	// COUNT（WHERE だけ流用）
	var total int64
	cntQ := "SELECT COUNT(*) FROM attendances a JOIN users u ON u.id = a.user_id" + where
	if err := s.db.QueryRowContext(ctx, cntQ, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// ListForUser: 1ユーザーの期間内（両端含む）の行を日付昇順で
func (s *Store) ListForUser(ctx context.Context, userID int64, from, to string) ([]Attendance, error) {
	rows, err := s.db.QueryContext(ctx, selectJoined+`
	WHERE a.user_id = ? AND a.attended_on BETWEEN ? AND ?
	ORDER BY a.attended_on ASC`, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Attendance
	for rows.Next() {
		var a Attendance
		if err := rows.Scan(&a.ID, &a.UserID, &a.Username, &a.Date, &a.Status); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) Delete(ctx context.Context, id int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM attendances WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Stats: 期間の PRESENT 日数をユーザ別合計（TOP N）
func (s *Store) Stats(ctx context.Context, from, to string, limit int) ([]StatsRow, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT a.user_id, u.username, COUNT(*) AS cnt
	FROM attendances a
	JOIN users u ON u.id = a.user_id
	WHERE a.attended_on BETWEEN ? AND ? AND a.status = ?
	GROUP BY a.user_id, u.username
	ORDER BY cnt DESC, u.username ASC
	LIMIT ?`, from, to, StatusPresent, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []StatsRow{}
	for rows.Next() {
		var row StatsRow
		if err := rows.Scan(&row.UserID, &row.Username, &row.PresentDays); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// CountOn: 指定日の出席行数（ダッシュボード用）
func (s *Store) CountOn(ctx context.Context, day string) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM attendances WHERE attended_on = ?`, day).Scan(&n)
	return n, err
}
