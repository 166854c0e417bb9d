package db

import (
	"errors"

	mysql "github.com/go-sql-driver/mysql"
)

const (
	errDuplicateEntry  = 1062
	errRowIsReferenced = 1451
	errNoReferencedRow = 1452
)

// IsDuplicateKey は UNIQUE 制約違反か。
func IsDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == errDuplicateEntry
}

// IsForeignKeyViolation は外部キー制約違反（参照先なし／参照されている行の削除）か。
func IsForeignKeyViolation(err error) bool {
	var me *mysql.MySQLError
	if !errors.As(err, &me) {
		return false
	}
	return me.Number == errNoReferencedRow || me.Number == errRowIsReferenced
}
