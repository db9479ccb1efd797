package repository

import (
	"github.com/SketchShifter/midpoint_backend/internal/models"

	"gorm.io/gorm"
)

// PostRepository 投稿に関するデータベース操作を行うインターフェース
type PostRepository interface {
	Create(post *models.Post) error
	FindByID(id uint) (*models.Post, error)
	Exists(id uint) (bool, error)
	UpdateText(post *models.Post) error
	Delete(id uint) error
	List() ([]models.Post, error)
	ListByMember(memberID uint) ([]models.Post, error)
	ReassignMember(fromMemberID, toMemberID uint) error
}

// postRepository PostRepositoryの実装
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository PostRepositoryを作成
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// withRelations 投稿の表示に必要な関連を読み込む
func (r *postRepository) withRelations() *gorm.DB {
	return r.db.
		Preload("Member").
		Preload("Member.ProfileImage").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Preload("PostHashtags", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Preload("PostHashtags.Hashtag")
}

// Create 新しい投稿を作成
func (r *postRepository) Create(post *models.Post) error {
	// 関連はそれぞれのリポジトリで保存する
	return r.db.Omit("Member", "Images", "PostHashtags").Create(post).Error
}

// FindByID IDで投稿を検索
func (r *postRepository) FindByID(id uint) (*models.Post, error) {
	var post models.Post
	if err := r.withRelations().First(&post, id).Error; err != nil {
		return nil, translate(err)
	}
	return &post, nil
}

// Exists 投稿が存在するか確認
func (r *postRepository) Exists(id uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Post{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateText タイトルと本文を更新
func (r *postRepository) UpdateText(post *models.Post) error {
	return r.db.Model(&models.Post{}).
		Where("id = ?", post.ID).
		Updates(map[string]interface{}{
			"title":   post.Title,
			"content": post.Content,
		}).Error
}

// Delete 投稿を削除
func (r *postRepository) Delete(id uint) error {
	return r.db.Delete(&models.Post{}, id).Error
}

// List すべての投稿を新着順に取得
func (r *postRepository) List() ([]models.Post, error) {
	var posts []models.Post
	if err := r.withRelations().
		Order("created_at DESC").
		Order("id DESC").
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// ListByMember 会員の投稿を新着順に取得
func (r *postRepository) ListByMember(memberID uint) ([]models.Post, error) {
	var posts []models.Post
	if err := r.withRelations().
		Where("member_id = ?", memberID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// ReassignMember 投稿の所有者を付け替える
func (r *postRepository) ReassignMember(fromMemberID, toMemberID uint) error {
	return r.db.Model(&models.Post{}).
		Where("member_id = ?", fromMemberID).
		Update("member_id", toMemberID).Error
}
