package repository

import (
	"github.com/SketchShifter/midpoint_backend/internal/models"

	"gorm.io/gorm"
)

// MemberRepository 会員に関するデータベース操作を行うインターフェース
type MemberRepository interface {
	Create(member *models.Member) error
	FindByID(id uint) (*models.Member, error)
	FindByEmail(email string) (*models.Member, error)
	FindByNickname(nickname string) (*models.Member, error)
	FindByLoginID(loginID string) (*models.Member, error)
	FindByEmailOrLoginID(identifier string) (*models.Member, error)
	ExistsByEmail(email string) (bool, error)
	ExistsByNickname(nickname string) (bool, error)
	ExistsByLoginID(loginID string) (bool, error)
	Update(member *models.Member) error
	Delete(id uint) error
}

// memberRepository MemberRepositoryの実装
type memberRepository struct {
	db *gorm.DB
}

// NewMemberRepository MemberRepositoryを作成
func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &memberRepository{db: db}
}

// Create 新しい会員を作成
func (r *memberRepository) Create(member *models.Member) error {
	return translate(r.db.Create(member).Error)
}

// FindByID IDで会員を検索
func (r *memberRepository) FindByID(id uint) (*models.Member, error) {
	var member models.Member
	if err := r.db.First(&member, id).Error; err != nil {
		return nil, translate(err)
	}
	return &member, nil
}

// FindByEmail メールアドレスで会員を検索
func (r *memberRepository) FindByEmail(email string) (*models.Member, error) {
	return r.findBy("email = ?", email)
}

// FindByNickname ニックネームで会員を検索
func (r *memberRepository) FindByNickname(nickname string) (*models.Member, error) {
	return r.findBy("nickname = ?", nickname)
}

// FindByLoginID ログインIDで会員を検索
func (r *memberRepository) FindByLoginID(loginID string) (*models.Member, error) {
	return r.findBy("login_id = ?", loginID)
}

// FindByEmailOrLoginID メールアドレスまたはログインIDで会員を検索
func (r *memberRepository) FindByEmailOrLoginID(identifier string) (*models.Member, error) {
	return r.findBy("email = ? OR login_id = ?", identifier, identifier)
}

func (r *memberRepository) findBy(query string, args ...interface{}) (*models.Member, error) {
	var member models.Member
	if err := r.db.Where(query, args...).First(&member).Error; err != nil {
		return nil, translate(err)
	}
	return &member, nil
}

// ExistsByEmail メールアドレスが使用中か確認
func (r *memberRepository) ExistsByEmail(email string) (bool, error) {
	return r.exists("email = ?", email)
}

// ExistsByNickname ニックネームが使用中か確認
func (r *memberRepository) ExistsByNickname(nickname string) (bool, error) {
	return r.exists("nickname = ?", nickname)
}

// ExistsByLoginID ログインIDが使用中か確認
func (r *memberRepository) ExistsByLoginID(loginID string) (bool, error) {
	return r.exists("login_id = ?", loginID)
}

func (r *memberRepository) exists(query string, args ...interface{}) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Member{}).Where(query, args...).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Update 会員情報を更新
func (r *memberRepository) Update(member *models.Member) error {
	return translate(r.db.Save(member).Error)
}

// Delete 会員を削除
func (r *memberRepository) Delete(id uint) error {
	return r.db.Delete(&models.Member{}, id).Error
}
