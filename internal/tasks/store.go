package tasks

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"MAGANG-backend/internal/platform/db"
)

type Store struct{ db db.DBTX }

func NewStore(db db.DBTX) *Store { return &Store{db: db} }

const selectTask = `
SELECT t.id, t.title, t.description, DATE_FORMAT(t.deadline, '%Y-%m-%d'), t.status, t.assigned_to, u.username
FROM tasks t
LEFT JOIN users u ON u.id = t.assigned_to
`

func scanTasks(rows *sql.Rows) ([]TaskResponse, error) {
	defer rows.Close()
	out := []TaskResponse{}
	for rows.Next() {
		var r taskRow
		if err := rows.Scan(&r.ID, &r.Title, &r.Description, &r.Deadline, &r.Status, &r.AssignedTo, &r.Username); err != nil {
			return nil, err
		}
		out = append(out, r.toDTO())
	}
	return out, rows.Err()
}

func (s *Store) List(ctx context.Context, q ListQuery) ([]TaskResponse, error) {
	var (
		wheres []string
		args   []any
	)
	if q.Status != nil && *q.Status != "" {
		wheres = append(wheres, "t.status = ?")
		args = append(args, *q.Status)
	}
	if q.AssignedTo != nil {
		wheres = append(wheres, "t.assigned_to = ?")
		args = append(args, *q.AssignedTo)
	}
	query := selectTask
	if len(wheres) > 0 {
		query += " WHERE " + strings.Join(wheres, " AND ")
	}
	query += " ORDER BY t.deadline ASC, t.id ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return scanTasks(rows)
}

// 見つからなければ (nil, nil)
func (s *Store) Get(ctx context.Context, id int64) (*TaskResponse, error) {
	var r taskRow
	err := s.db.QueryRowContext(ctx, selectTask+`WHERE t.id = ?`, id).
		Scan(&r.ID, &r.Title, &r.Description, &r.Deadline, &r.Status, &r.AssignedTo, &r.Username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	t := r.toDTO()
	return &t, nil
}

func (s *Store) Create(ctx context.Context, in TaskRequest) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
	INSERT INTO tasks (title, description, deadline, status, assigned_to, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, NOW(), NOW())`,
		in.Title, in.Description, in.Deadline, in.Status, nullableID(in.AssignedTo))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *Store) Update(ctx context.Context, id int64, in TaskRequest) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
	UPDATE tasks
	SET title = ?, description = ?, deadline = ?, status = ?, assigned_to = ?, updated_at = NOW()
	WHERE id = ?`,
		in.Title, in.Description, in.Deadline, in.Status, nullableID(in.AssignedTo), id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// UpdateStatusFor: 割り当て先が userID のタスクだけ更新する
func (s *Store) UpdateStatusFor(ctx context.Context, id, userID int64, status string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
	UPDATE tasks SET status = ?, updated_at = NOW()
	WHERE id = ? AND assigned_to = ?`, status, id, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *Store) Delete(ctx context.Context, id int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// CountByStatus: ダッシュボード用
func (s *Store) CountByStatus(ctx context.Context) ([]StatusCount, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT status, COUNT(*) FROM tasks GROUP BY status ORDER BY status ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []StatusCount{}
	for rows.Next() {
		var sc StatusCount
		if err := rows.Scan(&sc.Status, &sc.Count); err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

func nullableID(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}
