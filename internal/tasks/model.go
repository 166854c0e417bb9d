package tasks

import "database/sql"

// DB行（users を LEFT JOIN）
type taskRow struct {
	ID          int64
	Title       string
	Description string
	Deadline    string
	Status      string
	AssignedTo  sql.NullInt64
	Username    sql.NullString
}

func (r taskRow) toDTO() TaskResponse {
	out := TaskResponse{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Deadline:    r.Deadline,
		Status:      r.Status,
	}
	if r.AssignedTo.Valid {
		id := r.AssignedTo.Int64
		out.AssignedTo = &id
	}
	if r.Username.Valid {
		name := r.Username.String
		out.AssignedToUsername = &name
	}
	return out
}
