package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	// ErrNotFound レコードが存在しない
	ErrNotFound = errors.New("レコードが見つかりません")
	// ErrDuplicated 一意制約違反
	ErrDuplicated = errors.New("一意制約に違反しています")
)

// Store リポジトリをまとめ、トランザクション境界を提供する
type Store interface {
	Members() MemberRepository
	Images() ImageRepository
	Posts() PostRepository
	Hashtags() HashtagRepository
	Likes() LikeRepository
	SearchHistories() SearchHistoryRepository

	// WithContext コンテキストを紐付けたStoreを返す
	WithContext(ctx context.Context) Store
	// Transaction fn をひとつのトランザクション内で実行する。fn がエラーを返すとロールバックされる
	Transaction(fn func(tx Store) error) error
}

// store Storeの実装
type store struct {
	db *gorm.DB
}

// NewStore Storeを作成
func NewStore(db *gorm.DB) Store {
	return &store{db: db}
}

func (s *store) Members() MemberRepository {
	return &memberRepository{db: s.db}
}

func (s *store) Images() ImageRepository {
	return &imageRepository{db: s.db}
}

func (s *store) Posts() PostRepository {
	return &postRepository{db: s.db}
}

func (s *store) Hashtags() HashtagRepository {
	return &hashtagRepository{db: s.db}
}

func (s *store) Likes() LikeRepository {
	return &likeRepository{db: s.db}
}

func (s *store) SearchHistories() SearchHistoryRepository {
	return &searchHistoryRepository{db: s.db}
}

func (s *store) WithContext(ctx context.Context) Store {
	return &store{db: s.db.WithContext(ctx)}
}

func (s *store) Transaction(fn func(tx Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&store{db: tx})
	})
}

// translate gormのエラーをリポジトリのエラーに変換
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", ErrDuplicated, err)
	default:
		return err
	}
}
