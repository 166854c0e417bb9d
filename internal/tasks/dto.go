package tasks

const (
	StatusPending    = "Pending"
	StatusInProgress = "In Progress"
	StatusCompleted  = "Completed"
)

// POST /tasks, PUT /tasks/:id
type TaskRequest struct {
	Title       string `json:"title" binding:"required,max=255"`
	Description string `json:"description" binding:"required"`
	Deadline    string `json:"deadline" binding:"required,ymd"`
	Status      string `json:"status" binding:"required,max=32"`
	AssignedTo  *int64 `json:"assignedTo" binding:"omitempty,gt=0"` // null で未割り当て
}

// PATCH /intern/tasks/:id
type StatusRequest struct {
	Status string `json:"status" binding:"required,max=32"`
}

type TaskResponse struct {
	ID                 int64   `json:"id"`
	Title              string  `json:"title"`
	Description        string  `json:"description"`
	Deadline           string  `json:"deadline"` // YYYY-MM-DD
	Status             string  `json:"status"`
	AssignedTo         *int64  `json:"assignedTo"`
	AssignedToUsername *string `json:"assignedToUsername"` // 表示用
}

type ListQuery struct {
	Status     *string
	AssignedTo *int64
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}
