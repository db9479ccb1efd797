package services

import (
	"context"
	"fmt"

	"github.com/SketchShifter/midpoint_backend/internal/config"
	"github.com/SketchShifter/midpoint_backend/internal/utils"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

type s3StorageService struct {
	bucket   string
	uploader *s3manager.Uploader
	client   *s3.S3
}

// NewS3StorageService S3を使うStorageServiceを作成
func NewS3StorageService(cfg *config.Config) (StorageService, error) {
	awsConfig := &aws.Config{
		Region: aws.String(cfg.AWS.Region),
	}
	// キーが未設定なら既定の認証情報チェーン（IAMロールなど）を使う
	if cfg.AWS.AccessKeyID != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(cfg.AWS.AccessKeyID, cfg.AWS.SecretAccessKey, "")
	}

	awsSession, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("AWSセッションの初期化に失敗しました: %w", err)
	}

	return &s3StorageService{
		bucket:   cfg.AWS.Bucket,
		uploader: s3manager.NewUploader(awsSession),
		client:   s3.New(awsSession),
	}, nil
}

// Upload ファイルをS3にアップロード
func (s *s3StorageService) Upload(ctx context.Context, dir string, file *FileUpload) (string, error) {
	key := utils.BuildObjectKey(dir, file.FileName)

	out, err := s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        file.Content,
		ContentType: aws.String(contentType(file)),
	})
	if err != nil {
		return "", fmt.Errorf("S3へのアップロードに失敗しました: %w", err)
	}

	return out.Location, nil
}

// Delete S3からファイルを削除
func (s *s3StorageService) Delete(ctx context.Context, fileURL string) error {
	key, err := utils.ObjectKeyFromURL(fileURL, s.bucket)
	if err != nil {
		return err
	}

	if _, err := s.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return fmt.Errorf("S3からの削除に失敗しました: %w", err)
	}

	return nil
}
