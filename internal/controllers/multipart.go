package controllers

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"strings"

	"github.com/SketchShifter/midpoint_backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// bindJSONPart マルチパートのJSONパートを読み取り検証する。文字列のフィールドとファイルパートのどちらにも対応
func bindJSONPart(ctx *gin.Context, name string, obj interface{}) error {
	raw := ctx.PostForm(name)
	if raw == "" {
		if fh, err := ctx.FormFile(name); err == nil {
			data, err := readFileHeader(fh)
			if err != nil {
				return err
			}
			raw = string(data)
		}
	}
	if strings.TrimSpace(raw) == "" {
		verr := &services.ValidationError{}
		verr.Add(name, "必須項目です")
		return verr
	}

	if err := json.Unmarshal([]byte(raw), obj); err != nil {
		return validationError(err)
	}
	if err := binding.Validator.ValidateStruct(obj); err != nil {
		return validationError(err)
	}
	return nil
}

func readFileHeader(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// formFiles マルチパートのファイルを取得。返した関数で開いたファイルを閉じる
func formFiles(ctx *gin.Context, name string) ([]*services.FileUpload, func(), error) {
	noop := func() {}

	form, err := ctx.MultipartForm()
	if err != nil {
		return nil, noop, err
	}

	var files []*services.FileUpload
	var opened []multipart.File
	closeAll := func() {
		for _, f := range opened {
			f.Close()
		}
	}
	for _, fh := range form.File[name] {
		f, err := fh.Open()
		if err != nil {
			closeAll()
			return nil, noop, err
		}
		opened = append(opened, f)
		files = append(files, &services.FileUpload{
			FileName:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Content:     f,
		})
	}
	return files, closeAll, nil
}

// formFile 任意のファイルをひとつ取得。空の場合は nil を返す
func formFile(ctx *gin.Context, name string) (*services.FileUpload, func(), error) {
	files, closeAll, err := formFiles(ctx, name)
	if err != nil {
		return nil, closeAll, err
	}
	for _, f := range files {
		if f.Size > 0 {
			return f, closeAll, nil
		}
	}
	return nil, closeAll, nil
}
