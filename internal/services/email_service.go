package services

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

const emailVerifiedKeyPrefix = "email_verified:"

// EmailService メール認証の状態を参照するサービス
type EmailService interface {
	IsEmailVerified(ctx context.Context, email string) (bool, error)
}

// emailService 認証フローがRedisに書き込んだフラグを参照する
type emailService struct {
	rdb *redis.Client
}

// NewEmailService EmailServiceを作成
func NewEmailService(rdb *redis.Client) EmailService {
	return &emailService{rdb: rdb}
}

// IsEmailVerified メールアドレスが認証済みか確認
func (s *emailService) IsEmailVerified(ctx context.Context, email string) (bool, error) {
	v, err := s.rdb.Get(ctx, emailVerifiedKeyPrefix+email).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return v == "true", nil
}
