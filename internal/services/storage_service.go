package services

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/SketchShifter/midpoint_backend/internal/config"
	"github.com/SketchShifter/midpoint_backend/internal/utils"
)

// アップロード先ディレクトリ
const (
	DirProfileImages = "profile-images"
	DirPostImages    = "post-images"
	DirTest          = "mytest"
)

// FileUpload アップロードするファイル
type FileUpload struct {
	FileName    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// StorageService オブジェクトストレージとの連携を管理するサービス
type StorageService interface {
	// Upload dir 配下にファイルを保存し公開URLを返す
	Upload(ctx context.Context, dir string, file *FileUpload) (string, error)
	// Delete 公開URLが指すファイルを削除
	Delete(ctx context.Context, fileURL string) error
}

// NewStorageService 設定されたドライバーのStorageServiceを作成
func NewStorageService(cfg *config.Config) (StorageService, error) {
	var (
		backend StorageService
		err     error
	)

	switch cfg.Storage.Driver {
	case "s3":
		backend, err = NewS3StorageService(cfg)
	case "cloudinary":
		backend, err = NewCloudinaryService(cfg)
	case "minio":
		backend, err = NewMinioStorageService(cfg)
	default:
		return nil, fmt.Errorf("未対応のストレージドライバーです: %s", cfg.Storage.Driver)
	}
	if err != nil {
		return nil, err
	}

	return &validatingStorage{
		StorageService: backend,
		allowedTypes:   cfg.Storage.AllowedTypes,
		maxSize:        cfg.Storage.MaxUploadBytes(),
	}, nil
}

// validatingStorage 拡張子とサイズを確認してからアップロードする
type validatingStorage struct {
	StorageService
	allowedTypes []string
	maxSize      int64
}

func (s *validatingStorage) Upload(ctx context.Context, dir string, file *FileUpload) (string, error) {
	if file == nil || file.Content == nil {
		return "", ErrInvalidFile.WithMessage("ファイルが必要です")
	}
	if !utils.IsAllowedExtension(file.FileName, s.allowedTypes) {
		return "", ErrInvalidFile.WithMessage(fmt.Sprintf("許可されていないファイル形式です: %s", file.FileName))
	}
	if s.maxSize > 0 && file.Size > s.maxSize {
		return "", ErrInvalidFile.WithMessage(fmt.Sprintf("ファイルサイズが大きすぎます (最大 %d MB)", s.maxSize/1024/1024))
	}
	return s.StorageService.Upload(ctx, dir, file)
}

// contentType Content-Typeが空の場合の既定値
func contentType(file *FileUpload) string {
	if file.ContentType == "" {
		return "application/octet-stream"
	}
	return file.ContentType
}

// removeObjects コミット後に不要になったファイルを削除する。失敗はログに残すのみ
func removeObjects(ctx context.Context, storage StorageService, urls ...string) {
	for _, u := range urls {
		if u == "" {
			continue
		}
		if err := storage.Delete(ctx, u); err != nil {
			log.Printf("ファイルの削除に失敗しました (%s): %v", u, err)
		}
	}
}
