// Package apierr は全機能で共有するエラーモデル。
// 以前は機能ごとに同じ APIError を複製していたのをここに集約した。
package apierr

import (
	"errors"
	"fmt"
	"log"
	"net/http"
)

type Code string

const (
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeUnauthenticated Code = "UNAUTHENTICATED"
	CodeForbidden       Code = "FORBIDDEN"
	CodeNotFound        Code = "NOT_FOUND"
	CodeConflict        Code = "CONFLICT"
	CodeInternal        Code = "INTERNAL"
)

type APIError struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string { return fmt.Sprintf("%s: %s", e.Code, e.Message) }

func Invalid(msg string) *APIError         { return &APIError{Code: CodeInvalidArgument, Message: msg} }
func Unauthenticated(msg string) *APIError { return &APIError{Code: CodeUnauthenticated, Message: msg} }
func Forbidden(msg string) *APIError       { return &APIError{Code: CodeForbidden, Message: msg} }
func NotFound(msg string) *APIError        { return &APIError{Code: CodeNotFound, Message: msg} }
func Conflict(msg string) *APIError        { return &APIError{Code: CodeConflict, Message: msg} }
func Internal(msg string) *APIError        { return &APIError{Code: CodeInternal, Message: msg} }

// Is は err が code の APIError かどうか。
func Is(err error, code Code) bool {
	var api *APIError
	return errors.As(err, &api) && api.Code == code
}

func HTTPStatus(err error) int {
	var api *APIError
	if errors.As(err, &api) {
		switch api.Code {
		case CodeInvalidArgument:
			return http.StatusBadRequest
		case CodeUnauthenticated:
			return http.StatusUnauthorized
		case CodeForbidden:
			return http.StatusForbidden
		case CodeNotFound:
			return http.StatusNotFound
		case CodeConflict:
			return http.StatusConflict
		default:
			return http.StatusInternalServerError
		}
	}
	return http.StatusInternalServerError
}

// Body はレスポンスの共通エラー形。フロントは "error" の文字列をそのまま表示する。
type Body struct {
	Error string `json:"error"`
	Code  Code   `json:"code"`
}

// BodyFrom は err をレスポンス用に変換する。
// APIError 以外（DB障害など）は中身を出さずにログだけ残す。
func BodyFrom(err error) Body {
	var api *APIError
	if errors.As(err, &api) {
		return Body{Error: api.Message, Code: api.Code}
	}
	log.Printf("[ERROR] %v", err)
	return Body{Error: "internal server error", Code: CodeInternal}
}

func NewBody(code Code, msg string) Body { return Body{Error: msg, Code: code} }
