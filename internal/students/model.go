package students

import "database/sql"

// users テーブルの1行
type studentRow struct {
	ID            int64
	Username      string
	Role          string
	DateOfBirth   sql.NullString
	Sekolah       string
	Jurusan       string
	TanggalMasuk  sql.NullString
	TanggalKeluar sql.NullString
}

// Service → Store に渡す書き込み用
type Student struct {
	Username      string
	PasswordHash  *string // nil なら変更しない（更新時）
	Role          string
	DateOfBirth   string
	Sekolah       string
	Jurusan       string
	TanggalMasuk  string
	TanggalKeluar *string
}

func (r studentRow) toDTO() StudentResponse {
	return StudentResponse{
		ID:            r.ID,
		Username:      r.Username,
		Role:          r.Role,
		DateOfBirth:   strPtr(r.DateOfBirth),
		Sekolah:       r.Sekolah,
		Jurusan:       r.Jurusan,
		TanggalMasuk:  strPtr(r.TanggalMasuk),
		TanggalKeluar: strPtr(r.TanggalKeluar),
	}
}

func strPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
