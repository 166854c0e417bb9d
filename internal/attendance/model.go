package attendance

// DB行に対応（users と JOIN 済み）
type Attendance struct {
	ID       int64
	UserID   int64
	Username string
	Date     string // DATE → "YYYY-MM-DD"
	Status   string
}

func (a Attendance) toDTO() AttendanceResponse {
	return AttendanceResponse{
		ID:       a.ID,
		UserID:   a.UserID,
		Username: a.Username,
		Date:     a.Date,
		Status:   a.Status,
	}
}
