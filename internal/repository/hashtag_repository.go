package repository

import (
	"errors"
	"strings"

	"github.com/SketchShifter/midpoint_backend/internal/models"

	"gorm.io/gorm"
)

// HashtagRepository ハッシュタグに関するデータベース操作を行うインターフェース
type HashtagRepository interface {
	FindOrCreate(name string) (*models.Hashtag, error)
	AttachToPost(postID uint, hashtagIDs []uint) error
	DetachFromPost(postID uint) error
}

// hashtagRepository HashtagRepositoryの実装
type hashtagRepository struct {
	db *gorm.DB
}

// NewHashtagRepository HashtagRepositoryを作成
func NewHashtagRepository(db *gorm.DB) HashtagRepository {
	return &hashtagRepository{db: db}
}

// FindOrCreate ハッシュタグを検索または作成
func (r *hashtagRepository) FindOrCreate(name string) (*models.Hashtag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("ハッシュタグ名は空にできません")
	}

	var hashtag models.Hashtag
	if err := r.db.Where("name = ?", name).First(&hashtag).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 見つからない場合は新規作成
			hashtag.Name = name
			if err := r.db.Create(&hashtag).Error; err != nil {
				return nil, err
			}
			return &hashtag, nil
		}
		return nil, err
	}
	return &hashtag, nil
}

// AttachToPost 投稿のハッシュタグを指定したものに置き換える
func (r *hashtagRepository) AttachToPost(postID uint, hashtagIDs []uint) error {
	// 既存の関連付けをすべて削除
	if err := r.DetachFromPost(postID); err != nil {
		return err
	}

	for _, hashtagID := range hashtagIDs {
		if err := r.db.Create(&models.PostHashtag{PostID: postID, HashtagID: hashtagID}).Error; err != nil {
			return translate(err)
		}
	}

	return nil
}

// DetachFromPost 投稿からすべてのハッシュタグの関連付けを解除
func (r *hashtagRepository) DetachFromPost(postID uint) error {
	return r.db.Where("post_id = ?", postID).Delete(&models.PostHashtag{}).Error
}
