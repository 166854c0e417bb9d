package auth

import "time"

type User struct {
	ID            int64
	Username      string
	PasswordHash  string
	Role          string
	DateOfBirth   *time.Time
	Sekolah       string
	Jurusan       string
	TanggalMasuk  *time.Time
	TanggalKeluar *time.Time
}

// ===== DTO =====

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResult struct {
	Token              string    `json:"token"`
	ExpiresAt          time.Time `json:"expiresAt"`
	User               Principal `json:"user"`
	AttendanceRecorded bool      `json:"attendanceRecorded"`
}

type Profile struct {
	ID            int64   `json:"id"`
	Username      string  `json:"username"`
	Role          string  `json:"role"`
	DateOfBirth   *string `json:"dateOfBirth"`
	Sekolah       string  `json:"sekolah"`
	Jurusan       string  `json:"jurusan"`
	TanggalMasuk  *string `json:"tanggalMasuk"`
	TanggalKeluar *string `json:"tanggalKeluar"`
}

func toProfile(u *User) Profile {
	return Profile{
		ID:            u.ID,
		Username:      u.Username,
		Role:          u.Role,
		DateOfBirth:   ymdPtr(u.DateOfBirth),
		Sekolah:       u.Sekolah,
		Jurusan:       u.Jurusan,
		TanggalMasuk:  ymdPtr(u.TanggalMasuk),
		TanggalKeluar: ymdPtr(u.TanggalKeluar),
	}
}

func ymdPtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("2006-01-02")
	return &s
}
