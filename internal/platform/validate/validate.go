// Package validate は gin の binding に独自タグを登録する。
package validate

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const dateLayout = "2006-01-02"

var once sync.Once

// Register は ymd / role タグを登録する（何度呼んでもよい）。
func Register() {
	once.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("ymd", ymd)
		_ = v.RegisterValidation("role", role)
	})
}

// IsYMD は "2006-01-02" 形式で実在する日付か。
func IsYMD(s string) bool {
	_, err := time.Parse(dateLayout, s)
	return err == nil
}

func ymd(fl validator.FieldLevel) bool {
	return IsYMD(fl.Field().String())
}

func role(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "ADMIN", "INTERN":
		return true
	}
	return false
}
