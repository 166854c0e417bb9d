package activities

import "database/sql"

// DB行（users JOIN, tasks LEFT JOIN）
type Activity struct {
	ID          int64
	UserID      int64
	Username    string
	Date        string
	Description string
	Status      string
	TaskID      sql.NullInt64
	TaskTitle   sql.NullString
}

func (a Activity) toDTO() ActivityResponse {
	out := ActivityResponse{
		ID:          a.ID,
		UserID:      a.UserID,
		Username:    a.Username,
		Date:        a.Date,
		Description: a.Description,
		Status:      a.Status,
	}
	if a.TaskID.Valid {
		id := a.TaskID.Int64
		out.TaskID = &id
	}
	if a.TaskTitle.Valid {
		title := a.TaskTitle.String
		out.TaskTitle = &title
	}
	return out
}
