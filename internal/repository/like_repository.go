package repository

import (
	"github.com/SketchShifter/midpoint_backend/internal/models"

	"gorm.io/gorm"
)

// LikeRepository いいねに関するデータベース操作を行うインターフェース
type LikeRepository interface {
	Exists(memberID, postID uint) (bool, error)
	Create(memberID, postID uint) error
	Delete(memberID, postID uint) error
	DeleteByMember(memberID uint) error
	DeleteByPost(postID uint) error
	CountByPosts(postIDs []uint) (map[uint]int64, error)
	LikedPostIDs(memberID uint, postIDs []uint) (map[uint]bool, error)
}

// likeRepository LikeRepositoryの実装
type likeRepository struct {
	db *gorm.DB
}

// NewLikeRepository LikeRepositoryを作成
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

// Exists 会員が投稿にいいねしているか確認
func (r *likeRepository) Exists(memberID, postID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Like{}).
		Where("member_id = ? AND post_id = ?", memberID, postID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create いいねを追加
func (r *likeRepository) Create(memberID, postID uint) error {
	return translate(r.db.Create(&models.Like{MemberID: memberID, PostID: postID}).Error)
}

// Delete いいねを削除
func (r *likeRepository) Delete(memberID, postID uint) error {
	return r.db.Where("member_id = ? AND post_id = ?", memberID, postID).Delete(&models.Like{}).Error
}

// DeleteByMember 会員のいいねを一括削除
func (r *likeRepository) DeleteByMember(memberID uint) error {
	return r.db.Where("member_id = ?", memberID).Delete(&models.Like{}).Error
}

// DeleteByPost 投稿へのいいねを一括削除
func (r *likeRepository) DeleteByPost(postID uint) error {
	return r.db.Where("post_id = ?", postID).Delete(&models.Like{}).Error
}

// CountByPosts 投稿ごとのいいね数を取得
func (r *likeRepository) CountByPosts(postIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(postIDs))
	if len(postIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		PostID uint
		Count  int64
	}
	if err := r.db.Model(&models.Like{}).
		Select("post_id, COUNT(*) AS count").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.PostID] = row.Count
	}
	return counts, nil
}

// LikedPostIDs 指定した投稿のうち会員がいいねしているものを返す
func (r *likeRepository) LikedPostIDs(memberID uint, postIDs []uint) (map[uint]bool, error) {
	liked := make(map[uint]bool, len(postIDs))
	if len(postIDs) == 0 {
		return liked, nil
	}

	var ids []uint
	if err := r.db.Model(&models.Like{}).
		Where("member_id = ? AND post_id IN ?", memberID, postIDs).
		Pluck("post_id", &ids).Error; err != nil {
		return nil, err
	}

	for _, id := range ids {
		liked[id] = true
	}
	return liked, nil
}
