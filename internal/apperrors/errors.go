// Package apperrors はAPIのエラー分類とHTTPステータスへの対応を定義します。
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind はエラーの種類です。
type Kind int

const (
	KindDatabase Kind = iota
	KindEncoding
	KindInvalidID
	KindTodoNotFound
	KindInvalidJSON
)

func (k Kind) String() string {
	switch k {
	case KindDatabase:
		return "DatabaseError"
	case KindEncoding:
		return "EncodingError"
	case KindInvalidID:
		return "InvalidID"
	case KindTodoNotFound:
		return "TodoNotFound"
	case KindInvalidJSON:
		return "InvalidJsonBody"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error はクライアントに返すメッセージと元のエラーを保持します。
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Err }

// Is は Kind が同じ *Error を同一とみなします。
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// errors.Is で種類を判定するための番兵
var (
	ErrDatabase     = &Error{Kind: KindDatabase}
	ErrEncoding     = &Error{Kind: KindEncoding}
	ErrInvalidID    = &Error{Kind: KindInvalidID}
	ErrTodoNotFound = &Error{Kind: KindTodoNotFound}
	ErrInvalidJSON  = &Error{Kind: KindInvalidJSON}
)

// Database はストレージ層の失敗を包みます。詳細はクライアントに見せません。
func Database(err error) *Error {
	return &Error{Kind: KindDatabase, Msg: "Internal server error", Err: err}
}

// Encoding はドキュメントへのシリアライズ失敗を包みます。
func Encoding(err error) *Error {
	return &Error{Kind: KindEncoding, Msg: "Invalid document", Err: err}
}

// InvalidID は不正な形式のIDを表します。
func InvalidID(err error) *Error {
	return &Error{Kind: KindInvalidID, Msg: "Invalid ID", Err: err}
}

// NotFound は id に一致するTodoが無いことを表します。
func NotFound(id string) *Error {
	return &Error{Kind: KindTodoNotFound, Msg: fmt.Sprintf("Todo with id %s could not be found", id)}
}

// InvalidJSON はリクエストボディ (またはクエリ) の解析・検証失敗を包みます。
func InvalidJSON(err error) *Error {
	return &Error{Kind: KindInvalidJSON, Msg: err.Error(), Err: err}
}

// StatusCode はエラーに対応するHTTPステータスを返します。
// 分類されていないエラーは 500 です。
func StatusCode(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case KindTodoNotFound:
		return http.StatusNotFound
	case KindEncoding, KindInvalidID, KindInvalidJSON:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Message はクライアントに返すメッセージを返します。
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	return "Internal server error"
}
