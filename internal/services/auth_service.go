package services

import (
	"context"
	"errors"

	"github.com/SketchShifter/midpoint_backend/internal/models"
	"github.com/SketchShifter/midpoint_backend/internal/repository"
	"github.com/SketchShifter/midpoint_backend/internal/utils"

	"golang.org/x/crypto/bcrypt"
)

// AuthService 認証に関するサービスインターフェース
type AuthService interface {
	Login(ctx context.Context, identifier, password string) (*TokenPair, error)
	RefreshAccessToken(ctx context.Context, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	MemberFromAccessToken(ctx context.Context, accessToken string) (*models.Member, error)
}

// authService AuthServiceの実装
type authService struct {
	store  repository.Store
	tokens TokenService
}

// NewAuthService AuthServiceを作成
func NewAuthService(store repository.Store, tokens TokenService) AuthService {
	return &authService{
		store:  store,
		tokens: tokens,
	}
}

// Login ログイン（メールアドレスまたはログインID）
func (s *authService) Login(ctx context.Context, identifier, password string) (*TokenPair, error) {
	member, err := s.store.WithContext(ctx).Members().FindByEmailOrLoginID(identifier)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	// 会員が存在しない場合と同じエラーを返す
	if !checkPassword(member.Password, password) {
		return nil, ErrInvalidCredentials
	}

	return s.tokens.IssueTokenPair(ctx, member.Email)
}

// RefreshAccessToken リフレッシュトークンを検証し、新しいトークンの組を発行する
func (s *authService) RefreshAccessToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	blacklisted, err := s.tokens.IsInBlacklist(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if blacklisted {
		return nil, ErrInvalidToken
	}

	claims, err := s.parseRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	stored, err := s.tokens.IsRefreshTokenStored(ctx, claims, refreshToken)
	if err != nil {
		return nil, err
	}
	if !stored {
		return nil, ErrInvalidToken
	}

	member, err := s.store.WithContext(ctx).Members().FindByEmail(claims.Subject)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrMemberNotFound
	}
	if err != nil {
		return nil, err
	}

	// 同時に使われた場合は先に削除した方だけが新しいトークンを得る
	deleted, err := s.tokens.DeleteRefreshToken(ctx, claims)
	if err != nil {
		return nil, err
	}
	if !deleted {
		return nil, ErrInvalidToken
	}

	return s.tokens.IssueTokenPair(ctx, member.Email)
}

// Logout リフレッシュトークンを削除してブラックリストに登録
func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.parseRefreshToken(refreshToken)
	if err != nil {
		return err
	}

	blacklisted, err := s.tokens.IsInBlacklist(ctx, refreshToken)
	if err != nil {
		return err
	}
	if blacklisted {
		return ErrInvalidToken
	}

	if _, err := s.tokens.DeleteRefreshToken(ctx, claims); err != nil {
		return err
	}

	return s.tokens.AddToBlacklist(ctx, claims, refreshToken)
}

// MemberFromAccessToken アクセストークンから会員を取得
func (s *authService) MemberFromAccessToken(ctx context.Context, accessToken string) (*models.Member, error) {
	claims, err := s.tokens.ParseToken(accessToken)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != utils.TokenTypeAccess {
		return nil, ErrInvalidToken
	}

	member, err := s.store.WithContext(ctx).Members().FindByEmail(claims.Subject)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}

	return member, nil
}

func (s *authService) parseRefreshToken(token string) (*utils.TokenClaims, error) {
	claims, err := s.tokens.ParseToken(token)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != utils.TokenTypeRefresh {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// hashPassword パスワードをハッシュ化
func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// checkPassword ハッシュとパスワードを比較
func checkPassword(hashed, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)) == nil
}
