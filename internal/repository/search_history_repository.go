package repository

import (
	"github.com/SketchShifter/midpoint_backend/internal/models"

	"gorm.io/gorm"
)

// SearchHistoryRepository 検索履歴に関するデータベース操作を行うインターフェース
type SearchHistoryRepository interface {
	Create(history *models.SearchHistory) error
	ListByMember(memberID uint) ([]models.SearchHistory, error)
	DeleteByMember(memberID uint) error
}

// searchHistoryRepository SearchHistoryRepositoryの実装
type searchHistoryRepository struct {
	db *gorm.DB
}

// NewSearchHistoryRepository SearchHistoryRepositoryを作成
func NewSearchHistoryRepository(db *gorm.DB) SearchHistoryRepository {
	return &searchHistoryRepository{db: db}
}

// Create 検索履歴を場所情報とともに保存
func (r *searchHistoryRepository) Create(history *models.SearchHistory) error {
	return r.db.Create(history).Error
}

// ListByMember 会員の検索履歴を新しい順に取得
func (r *searchHistoryRepository) ListByMember(memberID uint) ([]models.SearchHistory, error) {
	var histories []models.SearchHistory
	if err := r.db.
		Preload("Places", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("member_id = ?", memberID).
		Order("search_date DESC").
		Order("id DESC").
		Find(&histories).Error; err != nil {
		return nil, err
	}
	return histories, nil
}

// DeleteByMember 会員の検索履歴を場所情報から順に削除
func (r *searchHistoryRepository) DeleteByMember(memberID uint) error {
	var ids []uint
	if err := r.db.Model(&models.SearchHistory{}).
		Where("member_id = ?", memberID).
		Pluck("id", &ids).Error; err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	if err := r.db.Where("search_history_id IN ?", ids).Delete(&models.PlaceInfo{}).Error; err != nil {
		return err
	}
	return r.db.Where("id IN ?", ids).Delete(&models.SearchHistory{}).Error
}
