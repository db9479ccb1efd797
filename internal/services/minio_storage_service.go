package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/SketchShifter/midpoint_backend/internal/config"
	"github.com/SketchShifter/midpoint_backend/internal/utils"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type minioStorageService struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

// NewMinioStorageService MinIOを使うStorageServiceを作成
func NewMinioStorageService(cfg *config.Config) (StorageService, error) {
	client, err := minio.New(cfg.MinIO.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIO.User, cfg.MinIO.Password, ""),
		Secure: cfg.MinIO.Secure,
	})
	if err != nil {
		return nil, fmt.Errorf("MinIOクライアントの初期化に失敗しました: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// バケットが無ければ作成
	exists, err := client.BucketExists(ctx, cfg.MinIO.Bucket)
	if err != nil {
		return nil, fmt.Errorf("バケットの確認に失敗しました: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinIO.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("バケットの作成に失敗しました: %w", err)
		}
		log.Printf("MinIOバケットを作成しました: %s", cfg.MinIO.Bucket)
	}

	scheme := "http"
	if cfg.MinIO.Secure {
		scheme = "https"
	}

	return &minioStorageService{
		client:  client,
		bucket:  cfg.MinIO.Bucket,
		baseURL: fmt.Sprintf("%s://%s/%s", scheme, cfg.MinIO.Endpoint, cfg.MinIO.Bucket),
	}, nil
}

// Upload ファイルをMinIOにアップロード
func (s *minioStorageService) Upload(ctx context.Context, dir string, file *FileUpload) (string, error) {
	key := utils.BuildObjectKey(dir, file.FileName)

	size := file.Size
	if size <= 0 {
		size = -1
	}

	if _, err := s.client.PutObject(ctx, s.bucket, key, file.Content, size,
		minio.PutObjectOptions{ContentType: contentType(file)}); err != nil {
		return "", fmt.Errorf("MinIOへのアップロードに失敗しました: %w", err)
	}

	return s.baseURL + "/" + key, nil
}

// Delete MinIOからファイルを削除
func (s *minioStorageService) Delete(ctx context.Context, fileURL string) error {
	key, err := utils.ObjectKeyFromURL(fileURL, s.bucket)
	if err != nil {
		return err
	}

	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("MinIOからの削除に失敗しました: %w", err)
	}

	return nil
}
