package repository

import (
	"github.com/SketchShifter/midpoint_backend/internal/models"

	"gorm.io/gorm"
)

// ImageRepository 画像に関するデータベース操作を行うインターフェース
type ImageRepository interface {
	// プロフィール画像
	FindProfileImage(memberID uint) (*models.ProfileImage, error)
	SaveProfileImage(image *models.ProfileImage) error
	DeleteProfileImage(id uint) error

	// 投稿画像
	CreatePostImages(images []models.PostImage) error
	FindPostImages(postID uint) ([]models.PostImage, error)
	DeletePostImagesByURLs(postID uint, urls []string) error
	DeletePostImagesByPost(postID uint) error
	ReassignPostImages(fromMemberID, toMemberID uint) error
}

// imageRepository ImageRepositoryの実装
type imageRepository struct {
	db *gorm.DB
}

// NewImageRepository ImageRepositoryを作成
func NewImageRepository(db *gorm.DB) ImageRepository {
	return &imageRepository{db: db}
}

// FindProfileImage 会員のプロフィール画像を取得
func (r *imageRepository) FindProfileImage(memberID uint) (*models.ProfileImage, error) {
	var image models.ProfileImage
	if err := r.db.Where("member_id = ?", memberID).First(&image).Error; err != nil {
		return nil, translate(err)
	}
	return &image, nil
}

// SaveProfileImage プロフィール画像を作成または更新
func (r *imageRepository) SaveProfileImage(image *models.ProfileImage) error {
	return translate(r.db.Save(image).Error)
}

// DeleteProfileImage プロフィール画像レコードを削除
func (r *imageRepository) DeleteProfileImage(id uint) error {
	return r.db.Delete(&models.ProfileImage{}, id).Error
}

// CreatePostImages 投稿画像レコードを一括作成
func (r *imageRepository) CreatePostImages(images []models.PostImage) error {
	if len(images) == 0 {
		return nil
	}
	return r.db.Create(&images).Error
}

// FindPostImages 投稿の画像を登録順に取得
func (r *imageRepository) FindPostImages(postID uint) ([]models.PostImage, error) {
	var images []models.PostImage
	if err := r.db.Where("post_id = ?", postID).Order("id ASC").Find(&images).Error; err != nil {
		return nil, err
	}
	return images, nil
}

// DeletePostImagesByURLs 指定したURLの投稿画像レコードを削除
func (r *imageRepository) DeletePostImagesByURLs(postID uint, urls []string) error {
	if len(urls) == 0 {
		return nil
	}
	return r.db.Where("post_id = ? AND image_url IN ?", postID, urls).Delete(&models.PostImage{}).Error
}

// DeletePostImagesByPost 投稿のすべての画像レコードを削除
func (r *imageRepository) DeletePostImagesByPost(postID uint) error {
	return r.db.Where("post_id = ?", postID).Delete(&models.PostImage{}).Error
}

// ReassignPostImages 投稿画像の所有者を付け替える
func (r *imageRepository) ReassignPostImages(fromMemberID, toMemberID uint) error {
	return r.db.Model(&models.PostImage{}).
		Where("member_id = ?", fromMemberID).
		Update("member_id", toMemberID).Error
}
