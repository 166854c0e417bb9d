package students

import (
	"MAGANG-backend/internal/activities"
	"MAGANG-backend/internal/tasks"
)

const (
	DefaultPageLimit = 100
	MaxPageLimit     = 500
)

// POST /students（インターンを登録）
type CreateStudentRequest struct {
	Username      string  `json:"username" binding:"required,min=3,max=64"`
	Password      *string `json:"password" binding:"omitempty,min=6,max=72"`
	Sekolah       string  `json:"sekolah" binding:"required,max=128"`
	Jurusan       string  `json:"jurusan" binding:"required,max=128"`
	DateOfBirth   string  `json:"dateOfBirth" binding:"required,ymd"`
	TanggalMasuk  string  `json:"tanggalMasuk" binding:"required,ymd"`
	TanggalKeluar *string `json:"tanggalKeluar" binding:"omitempty,ymd"`
}

// PUT /students/:id（全項目更新。tanggalKeluar は null で未設定に戻せる）
type UpdateStudentRequest struct {
	Username      string  `json:"username" binding:"required,min=3,max=64"`
	Password      *string `json:"password" binding:"omitempty,min=6,max=72"` // 省略時は変更しない
	Role          string  `json:"role" binding:"omitempty,role"`
	Sekolah       string  `json:"sekolah" binding:"required,max=128"`
	Jurusan       string  `json:"jurusan" binding:"required,max=128"`
	DateOfBirth   string  `json:"dateOfBirth" binding:"required,ymd"`
	TanggalMasuk  string  `json:"tanggalMasuk" binding:"required,ymd"`
	TanggalKeluar *string `json:"tanggalKeluar" binding:"omitempty,ymd"`
}

type StudentResponse struct {
	ID            int64   `json:"id"`
	Username      string  `json:"username"`
	Role          string  `json:"role"`
	DateOfBirth   *string `json:"dateOfBirth"`
	Sekolah       string  `json:"sekolah"`
	Jurusan       string  `json:"jurusan"`
	TanggalMasuk  *string `json:"tanggalMasuk"`
	TanggalKeluar *string `json:"tanggalKeluar"`
}

type ListQuery struct {
	Role   string // 既定 INTERN、"ALL" で全員
	Q      string // username 部分一致
	Limit  int
	Offset int
}

type ListResponse struct {
	Count int64             `json:"count"`
	Items []StudentResponse `json:"items"`
}

// GET /intern/profile
type ProfileResponse struct {
	StudentResponse
	Tasks         []tasks.TaskResponse         `json:"tasks"`
	TodayActivity *activities.ActivityResponse `json:"todayActivity"`
}
