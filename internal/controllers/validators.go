package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/SketchShifter/midpoint_backend/internal/services"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var registerOnce sync.Once

// RegisterValidators ginのバリデーターに独自ルールとJSON名での項目表示を登録
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("notblank", validators.NotBlank)
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

// validationError バインドや検証のエラーを項目ごとのエラーに変換
func validationError(err error) error {
	verr := &services.ValidationError{}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			verr.Add(fieldName(fe), fieldMessage(fe))
		}
		return verr
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxErr):
		verr.Add("body", "JSONの形式が正しくありません")
	case errors.As(err, &typeErr):
		verr.Add(typeErr.Field, "値の型が正しくありません")
	default:
		verr.Add("body", err.Error())
	}
	return verr
}

// fieldName 構造体名を除いた項目のパス
func fieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "必須項目です"
	case "notblank":
		return "空白のみは入力できません"
	case "email":
		return "メールアドレスの形式が正しくありません"
	case "min":
		return fmt.Sprintf("%s文字以上で入力してください", fe.Param())
	case "max":
		return fmt.Sprintf("%s文字以下で入力してください", fe.Param())
	case "len":
		return fmt.Sprintf("%s個指定してください", fe.Param())
	case "unique":
		return "重複しない値を指定してください"
	default:
		return fmt.Sprintf("%s の条件を満たしていません", fe.Tag())
	}
}
