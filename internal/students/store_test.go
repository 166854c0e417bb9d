package students

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var studentCols = []string{"id", "username", "role", "date_of_birth", "sekolah", "jurusan", "tanggal_masuk", "tanggal_keluar"}

func TestStoreListFiltersByRoleAndName(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	mock.ExpectQuery(`FROM users WHERE role = \? AND username LIKE \? ORDER BY username ASC LIMIT 20 OFFSET 0`).
		WithArgs("INTERN", `%bu\_di%`).
		WillReturnRows(sqlmock.NewRows(studentCols).
			AddRow(2, "bu_di", "INTERN", "2006-03-15", "SMK 1", "RPL", "2025-01-06", nil))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users WHERE role = \? AND username LIKE \?`).
		WithArgs("INTERN", `%bu\_di%`).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))

	items, total, err := NewStore(sqlDB).List(context.Background(), ListQuery{Role: "INTERN", Q: "bu_di", Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, "2006-03-15", *items[0].DateOfBirth)
	assert.Nil(t, items[0].TanggalKeluar)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreGetMissingReturnsNil(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	mock.ExpectQuery(`FROM users WHERE id = \?`).WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows(studentCols))

	got, err := NewStore(sqlDB).Get(context.Background(), 9)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStoreUpdateWithoutPasswordLeavesColumn(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	mock.ExpectExec(`UPDATE users SET username = \?, role = \?, date_of_birth = \?, sekolah = \?, jurusan = \?, tanggal_masuk = \?, tanggal_keluar = \?, updated_at = NOW\(\) WHERE id = \?`).
		WithArgs("budi", "INTERN", "2006-03-15", "SMK 1", "RPL", "2025-01-06", nil, int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := NewStore(sqlDB).Update(context.Background(), 2, Student{
		Username: "budi", Role: "INTERN", DateOfBirth: "2006-03-15",
		Sekolah: "SMK 1", Jurusan: "RPL", TanggalMasuk: "2025-01-06",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreCreateAndCount(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	hash := "$2a$10$hash"
	keluar := "2025-06-30"
	mock.ExpectExec(`INSERT INTO users`).
		WithArgs("budi", hash, "INTERN", "2006-03-15", "SMK 1", "RPL", "2025-01-06", keluar).
		WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users WHERE role = \?`).WithArgs("INTERN").
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(12))

	s := NewStore(sqlDB)
	id, err := s.Create(context.Background(), Student{
		Username: "budi", PasswordHash: &hash, Role: "INTERN", DateOfBirth: "2006-03-15",
		Sekolah: "SMK 1", Jurusan: "RPL", TanggalMasuk: "2025-01-06", TanggalKeluar: &keluar,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), id)

	n, err := s.CountByRole(context.Background(), "INTERN")
	require.NoError(t, err)
	assert.Equal(t, int64(12), n)
	require.NoError(t, mock.ExpectationsWereMet())
}
