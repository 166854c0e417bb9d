package activities

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"MAGANG-backend/internal/platform/apierr"
	"MAGANG-backend/internal/platform/db"
)

type Store struct{ db db.DBTX }

func NewStore(db db.DBTX) *Store { return &Store{db: db} }

const selectActivity = `
SELECT a.id, a.user_id, u.username, DATE_FORMAT(a.reported_on, '%Y-%m-%d'), a.description, a.status, a.task_id, t.title
FROM activities a
JOIN users u ON u.id = a.user_id
LEFT JOIN tasks t ON t.id = a.task_id
`

func scanOne(row *sql.Row) (*Activity, error) {
	var a Activity
	err := row.Scan(&a.ID, &a.UserID, &a.Username, &a.Date, &a.Description, &a.Status, &a.TaskID, &a.TaskTitle)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Upsert: user_id + reported_on（UNIQUE）で1日1行。2回目の提出は内容を上書き。
func (s *Store) Upsert(ctx context.Context, userID int64, day, description, status string, taskID *int64) (Activity, bool, error) {
	const q = `
	INSERT INTO activities (user_id, reported_on, description, status, task_id, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, NOW(), NOW())
	ON DUPLICATE KEY UPDATE
	description = VALUES(description),
	status      = VALUES(status),
	task_id     = VALUES(task_id),
	updated_at  = VALUES(updated_at)`

	res, err := s.db.ExecContext(ctx, q, userID, day, description, status, nullableID(taskID))
	if err != nil {
		return Activity{}, false, err
	}
	aff, _ := res.RowsAffected()
	created := aff == 1

	a, err := s.GetByUserDay(ctx, userID, day)
	if err != nil {
		return Activity{}, created, err
	}
	if a == nil {
		return Activity{}, created, apierr.Internal("upserted but not found")
	}
	return *a, created, nil
}

func (s *Store) GetByUserDay(ctx context.Context, userID int64, day string) (*Activity, error) {
	return scanOne(s.db.QueryRowContext(ctx, selectActivity+`WHERE a.user_id = ? AND a.reported_on = ?`, userID, day))
}

func (s *Store) Get(ctx context.Context, id int64) (*Activity, error) {
	return scanOne(s.db.QueryRowContext(ctx, selectActivity+`WHERE a.id = ?`, id))
}

// List: 1ユーザー分を日付昇順。from/to は両端含む（省略可）。
func (s *Store) List(ctx context.Context, q ListQuery) ([]Activity, error) {
	wheres := []string{"a.user_id = ?"}
	args := []any{q.UserID}
	if q.From != nil && *q.From != "" {
		wheres = append(wheres, "a.reported_on >= ?")
		args = append(args, *q.From)
	}
	if q.To != nil && *q.To != "" {
		wheres = append(wheres, "a.reported_on <= ?")
		args = append(args, *q.To)
	}

	rows, err := s.db.QueryContext(ctx,
		selectActivity+" WHERE "+strings.Join(wheres, " AND ")+" ORDER BY a.reported_on ASC", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Activity{}
	for rows.Next() {
		var a Activity
		if err := rows.Scan(&a.ID, &a.UserID, &a.Username, &a.Date, &a.Description, &a.Status, &a.TaskID, &a.TaskTitle); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ListForUser: 期間内（両端含む）
func (s *Store) ListForUser(ctx context.Context, userID int64, from, to string) ([]Activity, error) {
	return s.List(ctx, ListQuery{UserID: userID, From: &from, To: &to})
}

// Patch: nil の項目は変更しない。ownerID > 0 なら本人の行に限定する。
func (s *Store) Patch(ctx context.Context, id, ownerID int64, in PatchActivityRequest) (int64, error) {
	var (
		sets []string
		args []any
	)
	if in.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *in.Description)
	}
	if in.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *in.Status)
	}
	if in.TaskID != nil {
		sets = append(sets, "task_id = ?")
		args = append(args, *in.TaskID)
	}
	if len(sets) == 0 {
		return 0, nil
	}
	sets = append(sets, "updated_at = NOW()")

	q := "UPDATE activities SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	args = append(args, id)
	if ownerID > 0 {
		q += " AND user_id = ?"
		args = append(args, ownerID)
	}

	res, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// CountOn: 指定日の提出数（ダッシュボード用）
func (s *Store) CountOn(ctx context.Context, day string) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM activities WHERE reported_on = ?`, day).Scan(&n)
	return n, err
}

func nullableID(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}
