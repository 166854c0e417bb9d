package db

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	mysql "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MAGANG-backend/internal/platform/config"
)

func TestDSNKeepsSpecialCharacters(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{
		Host:     "db",
		Port:     3306,
		Username: "magang",
		Password: "p@ss:w/rd",
		DBName:   "absensi_magang",
	})

	parsed, err := mysql.ParseDSN(dsn)
	require.NoError(t, err)
	assert.Equal(t, "magang", parsed.User)
	assert.Equal(t, "p@ss:w/rd", parsed.Passwd)
	assert.Equal(t, "db:3306", parsed.Addr)
	assert.Equal(t, "absensi_magang", parsed.DBName)
	assert.True(t, parsed.ParseTime)
}

func TestMySQLErrorClassification(t *testing.T) {
	dup := fmt.Errorf("insert: %w", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
	fk := &mysql.MySQLError{Number: 1452, Message: "Cannot add or update a child row"}
	ref := &mysql.MySQLError{Number: 1451, Message: "Cannot delete or update a parent row"}

	assert.True(t, IsDuplicateKey(dup))
	assert.False(t, IsDuplicateKey(fk))
	assert.True(t, IsForeignKeyViolation(fk))
	assert.True(t, IsForeignKeyViolation(ref))
	assert.False(t, IsForeignKeyViolation(errors.New("boom")))
	assert.False(t, IsDuplicateKey(nil))
}

func TestRunInTxCommitsOnSuccess(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE tasks").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = RunInTx(context.Background(), sqlDB, nil, func(ctx context.Context, tx DBTX) error {
		_, err := tx.ExecContext(ctx, "UPDATE tasks SET status = ? WHERE id = ?", "Completed", 1)
		return err
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunInTxRollsBackOnError(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	mock.ExpectBegin()
	mock.ExpectRollback()

	want := errors.New("stop")
	err = RunInTx(context.Background(), sqlDB, nil, func(ctx context.Context, tx DBTX) error {
		return want
	})
	require.ErrorIs(t, err, want)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunInTxRollsBackOnPanic(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.Panics(t, func() {
		_ = RunInTx(context.Background(), sqlDB, nil, func(ctx context.Context, tx DBTX) error {
			panic("boom")
		})
	})
	require.NoError(t, mock.ExpectationsWereMet())
}
