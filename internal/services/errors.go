package services

import (
	"errors"
	"fmt"
)

// ErrorKind エラーの分類
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindNotFound
	KindUnauthorized
	KindForbidden
	KindConditionNotMet
	KindValidation
	KindConflict
)

// ServiceError サービス層が返す分類付きエラー
type ServiceError struct {
	Kind    ErrorKind
	Code    string
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// Is 同じコードのエラーを同一視する
func (e *ServiceError) Is(target error) bool {
	t, ok := target.(*ServiceError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithMessage 同じ分類・コードでメッセージだけ差し替える
func (e *ServiceError) WithMessage(msg string) *ServiceError {
	return &ServiceError{Kind: e.Kind, Code: e.Code, Message: msg}
}

// Wrap 原因エラーを付けて返す
func (e *ServiceError) Wrap(err error) *ServiceError {
	return &ServiceError{Kind: e.Kind, Code: e.Code, Message: e.Message, Err: err}
}

func newError(kind ErrorKind, code, message string) *ServiceError {
	return &ServiceError{Kind: kind, Code: code, Message: message}
}

var (
	ErrMemberNotFound = newError(KindNotFound, "MEMBER_NOT_FOUND", "該当する会員が存在しません")
	ErrPostNotFound   = newError(KindNotFound, "POST_NOT_FOUND", "該当する投稿が存在しません")

	ErrUnauthorized       = newError(KindUnauthorized, "UNAUTHORIZED", "このサービスを利用するにはログインが必要です")
	ErrInvalidToken       = newError(KindUnauthorized, "INVALID_TOKEN", "無効なトークンです")
	ErrInvalidCredentials = newError(KindUnauthorized, "INVALID_CREDENTIALS", "IDまたはパスワードが一致しません")

	ErrForbidden = newError(KindForbidden, "FORBIDDEN", "この操作を行う権限がありません")

	ErrConditionNotMet  = newError(KindConditionNotMet, "CONDITION_NOT_MET", "条件を満たしていません")
	ErrEmptyField       = newError(KindConditionNotMet, "EMPTY_FIELD", "必須項目が入力されていません")
	ErrPasswordMismatch = newError(KindConditionNotMet, "PASSWORD_MISMATCH", "パスワードが一致しません")
	ErrEmailNotVerified = newError(KindConditionNotMet, "EMAIL_NOT_VERIFIED", "先にメール認証を行ってください")
	ErrInvalidFile      = newError(KindConditionNotMet, "INVALID_FILE", "アップロードできないファイルです")

	ErrNicknameInUse = newError(KindConflict, "NICKNAME_ALREADY_IN_USE", "既に使用されているニックネームです")
	ErrLoginIDInUse  = newError(KindConflict, "LOGIN_ID_ALREADY_IN_USE", "既に使用されているログインIDです")
	ErrEmailInUse    = newError(KindConflict, "EMAIL_ALREADY_IN_USE", "既に使用されているメールアドレスです")

	ErrSentinelMissing = newError(KindInternal, "DELETED_MEMBER_NOT_CONFIGURED", "退会処理ができません。管理者にお問い合わせください")
)

// 画像枚数の制約
const (
	MinPostImages = 1
	MaxPostImages = 3
)

var (
	ErrTooFewImages  = ErrConditionNotMet.WithMessage(fmt.Sprintf("画像は最低%d枚アップロードする必要があります", MinPostImages))
	ErrTooManyImages = ErrConditionNotMet.WithMessage(fmt.Sprintf("画像は最大%d枚までアップロードできます", MaxPostImages))
)

// FieldError 項目ごとの検証エラー
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError 検証エラーの一覧
type ValidationError struct {
	Errors []FieldError `json:"errors"`
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "入力値が不正です"
	}
	return fmt.Sprintf("%s: %s", e.Errors[0].Field, e.Errors[0].Message)
}

// Add 検証エラーを追加
func (e *ValidationError) Add(field, message string) {
	e.Errors = append(e.Errors, FieldError{Field: field, Message: message})
}

// OrNil エラーが無ければ nil を返す
func (e *ValidationError) OrNil() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}

// KindOf エラーの分類を返す
func KindOf(err error) ErrorKind {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return KindValidation
	}
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindInternal
}
