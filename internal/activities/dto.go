package activities

// POST /activities（管理者。userId と日付を指定して登録／上書き）
type AdminActivityRequest struct {
	UserID      int64  `json:"userId" binding:"required,gt=0"`
	Date        string `json:"date" binding:"required,ymd"`
	Description string `json:"description" binding:"required"`
	Status      string `json:"status" binding:"required,max=32"`
	TaskID      *int64 `json:"taskId" binding:"omitempty,gt=0"`
}

// POST /intern/activities（当日分）
type ActivityRequest struct {
	Description string `json:"description" binding:"required"`
	Status      string `json:"status" binding:"required,max=32"`
	TaskID      *int64 `json:"taskId" binding:"omitempty,gt=0"`
}

// PATCH /activities/:id, /intern/activities/:id（指定した項目だけ更新）
type PatchActivityRequest struct {
	Description *string `json:"description" binding:"omitempty,min=1"`
	Status      *string `json:"status" binding:"omitempty,min=1,max=32"`
	TaskID      *int64  `json:"taskId" binding:"omitempty,gt=0"`
}

type ActivityResponse struct {
	ID          int64   `json:"id"`
	UserID      int64   `json:"userId"`
	Username    string  `json:"username"`
	Date        string  `json:"date"` // YYYY-MM-DD
	Description string  `json:"description"`
	Status      string  `json:"status"`
	TaskID      *int64  `json:"taskId"`
	TaskTitle   *string `json:"taskTitle"`
}

type ListQuery struct {
	UserID int64
	From   *string
	To     *string
}
