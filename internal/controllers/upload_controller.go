package controllers

import (
	"log"
	"net/http"

	"github.com/SketchShifter/midpoint_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// UploadController ストレージ動作確認用のコントローラー
type UploadController struct {
	storage services.StorageService
}

// NewUploadController UploadControllerを作成
func NewUploadController(storage services.StorageService) *UploadController {
	return &UploadController{
		storage: storage,
	}
}

// UploadFile テスト用ファイルをアップロード
func (c *UploadController) UploadFile(ctx *gin.Context) {
	file, closeFiles, err := formFile(ctx, "testFile")
	defer closeFiles()
	if err != nil || file == nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   services.ErrInvalidFile.Code,
			"message": "ファイルが必要です",
		})
		return
	}

	url, err := c.storage.Upload(ctx.Request.Context(), services.DirTest, file)
	if err != nil {
		respondError(ctx, err, "ファイルのアップロードに失敗しました")
		return
	}

	log.Printf("テストファイルをアップロードしました: %s", url)
	ctx.String(http.StatusOK, "testFile URL: %s", url)
}

// DeleteFile fileUrl で指定したファイルを削除
func (c *UploadController) DeleteFile(ctx *gin.Context) {
	fileURL := ctx.Query("fileUrl")
	if fileURL == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   services.ErrInvalidFile.Code,
			"message": "fileUrl を指定してください",
		})
		return
	}

	if err := c.storage.Delete(ctx.Request.Context(), fileURL); err != nil {
		log.Printf("ファイルの削除に失敗しました: %s: %v", fileURL, err)
		ctx.String(http.StatusInternalServerError, "Failed to delete file")
		return
	}

	ctx.String(http.StatusOK, "File deleted successfully")
}
