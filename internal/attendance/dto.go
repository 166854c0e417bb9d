package attendance

const (
	SortDateDesc     = "date_desc"
	SortDateAsc      = "date_asc"
	SortUsernameAsc  = "username_asc"
	DefaultSort      = SortDateDesc
	DefaultPageLimit = 50
	MaxPageLimit     = 200

	StatusPresent = "PRESENT"
	StatusAbsent  = "ABSENT"
)

// POST /attendance（管理者による手動登録。同じ日付なら上書き）
type UpsertAttendanceRequest struct {
	UserID int64  `json:"userId" binding:"required,gt=0"`
	Date   string `json:"date" binding:"required,ymd"`
	Status string `json:"status" binding:"required,max=32"`
}

type AttendanceResponse struct {
	ID       int64  `json:"id"`
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	Date     string `json:"date"` // YYYY-MM-DD
	Status   string `json:"status"`
}

type ListQuery struct {
	UserID *int64
	On     *string
	From   *string
	To     *string
	Status *string
	Limit  int
	Offset int
	Sort   string
}

type ListResponse struct {
	Count int64                `json:"count"`
	Items []AttendanceResponse `json:"items"`
}

type StatsRequest struct {
	From  string // YYYY-MM-DD
	To    string // YYYY-MM-DD
	Limit int
}

type StatsRow struct {
	UserID      int64  `json:"userId"`
	Username    string `json:"username"`
	PresentDays int64  `json:"presentDays"`
}
