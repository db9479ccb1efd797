package services

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/SketchShifter/midpoint_backend/internal/config"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

// cloudinaryService Cloudinaryを使うStorageService
type cloudinaryService struct {
	cld    *cloudinary.Cloudinary
	folder string
}

// NewCloudinaryService CloudinaryServiceを作成
func NewCloudinaryService(cfg *config.Config) (StorageService, error) {
	cld, err := cloudinary.NewFromParams(
		cfg.Cloudinary.CloudName,
		cfg.Cloudinary.APIKey,
		cfg.Cloudinary.APISecret,
	)
	if err != nil {
		return nil, err
	}

	return &cloudinaryService{
		cld:    cld,
		folder: cfg.Cloudinary.Folder,
	}, nil
}

// Upload 画像をアップロード
func (s *cloudinaryService) Upload(ctx context.Context, dir string, file *FileUpload) (string, error) {
	uploadParams := uploader.UploadParams{
		Folder:       path.Join(s.folder, dir),
		PublicID:     uuid.NewString(),
		ResourceType: "image",
	}

	result, err := s.cld.Upload.Upload(ctx, file.Content, uploadParams)
	if err != nil {
		return "", fmt.Errorf("Cloudinaryへのアップロードに失敗しました: %w", err)
	}

	return result.SecureURL, nil
}

// Delete 画像を削除
func (s *cloudinaryService) Delete(ctx context.Context, fileURL string) error {
	publicID, err := cloudinaryPublicID(fileURL)
	if err != nil {
		return err
	}

	if _, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID: publicID,
	}); err != nil {
		return fmt.Errorf("Cloudinaryからの削除に失敗しました: %w", err)
	}

	return nil
}

var versionSegment = regexp.MustCompile(`^v\d+/`)

// cloudinaryPublicID 配信URLからpublic_idを取り出す
// 例: https://res.cloudinary.com/demo/image/upload/v1712/midpoint/post-images/abc.jpg -> midpoint/post-images/abc
func cloudinaryPublicID(fileURL string) (string, error) {
	u, err := url.Parse(fileURL)
	if err != nil {
		return "", err
	}

	const marker = "/upload/"
	idx := strings.Index(u.Path, marker)
	if idx < 0 {
		return "", fmt.Errorf("CloudinaryのURLではありません: %s", fileURL)
	}

	id := versionSegment.ReplaceAllString(u.Path[idx+len(marker):], "")
	id = strings.TrimSuffix(id, path.Ext(id))
	if id == "" {
		return "", fmt.Errorf("public_idを取得できません: %s", fileURL)
	}

	return id, nil
}
