package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/SketchShifter/midpoint_backend/internal/config"
	"github.com/SketchShifter/midpoint_backend/internal/utils"

	"github.com/redis/go-redis/v9"
)

const (
	refreshTokenKeyPrefix = "refresh_token:"
	blacklistKeyPrefix    = "blacklist:"
)

// TokenPair 発行したトークンの組
type TokenPair struct {
	GrantType    string `json:"grantType"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// TokenService JWTの発行・検証とリフレッシュトークンの保管を行うサービス
type TokenService interface {
	CreateAccessToken(email string) (string, error)
	CreateRefreshToken(ctx context.Context, email string) (string, error)
	IssueTokenPair(ctx context.Context, email string) (*TokenPair, error)
	ValidateToken(token string) bool
	ParseToken(token string) (*utils.TokenClaims, error)
	IsInBlacklist(ctx context.Context, token string) (bool, error)
	IsRefreshTokenStored(ctx context.Context, claims *utils.TokenClaims, token string) (bool, error)
	DeleteRefreshToken(ctx context.Context, claims *utils.TokenClaims) (bool, error)
	AddToBlacklist(ctx context.Context, claims *utils.TokenClaims, token string) error
	RevokeAll(ctx context.Context, email string) error
}

// tokenService TokenServiceの実装
type tokenService struct {
	rdb        *redis.Client
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenService TokenServiceを作成
func NewTokenService(rdb *redis.Client, cfg *config.Config) TokenService {
	return &tokenService{
		rdb:        rdb,
		secret:     []byte(cfg.Auth.JWTSecret),
		accessTTL:  cfg.Auth.AccessTokenExpiry,
		refreshTTL: cfg.Auth.RefreshTokenExpiry,
	}
}

// CreateAccessToken アクセストークンを生成
func (s *tokenService) CreateAccessToken(email string) (string, error) {
	token, _, err := utils.GenerateJWT(s.secret, email, utils.TokenTypeAccess, s.accessTTL)
	return token, err
}

// CreateRefreshToken リフレッシュトークンを生成してRedisに保存
func (s *tokenService) CreateRefreshToken(ctx context.Context, email string) (string, error) {
	token, claims, err := utils.GenerateJWT(s.secret, email, utils.TokenTypeRefresh, s.refreshTTL)
	if err != nil {
		return "", err
	}

	if err := s.rdb.Set(ctx, refreshTokenKey(claims), token, s.refreshTTL).Err(); err != nil {
		return "", err
	}

	return token, nil
}

// IssueTokenPair アクセストークンとリフレッシュトークンを発行
func (s *tokenService) IssueTokenPair(ctx context.Context, email string) (*TokenPair, error) {
	accessToken, err := s.CreateAccessToken(email)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.CreateRefreshToken(ctx, email)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		GrantType:    "Bearer",
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// ValidateToken 署名と有効期限を確認
func (s *tokenService) ValidateToken(token string) bool {
	_, err := utils.ParseJWT(s.secret, token)
	return err == nil
}

// ParseToken トークンを検証してクレームを返す
func (s *tokenService) ParseToken(token string) (*utils.TokenClaims, error) {
	claims, err := utils.ParseJWT(s.secret, token)
	if err != nil {
		return nil, ErrInvalidToken.Wrap(err)
	}
	return claims, nil
}

// IsInBlacklist トークンが失効済みか確認
func (s *tokenService) IsInBlacklist(ctx context.Context, token string) (bool, error) {
	n, err := s.rdb.Exists(ctx, blacklistKey(token)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// IsRefreshTokenStored リフレッシュトークンがサーバー側に保存されているか確認
func (s *tokenService) IsRefreshTokenStored(ctx context.Context, claims *utils.TokenClaims, token string) (bool, error) {
	stored, err := s.rdb.Get(ctx, refreshTokenKey(claims)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return stored == token, nil
}

// DeleteRefreshToken 保存済みのリフレッシュトークンを削除し、削除できたかを返す
func (s *tokenService) DeleteRefreshToken(ctx context.Context, claims *utils.TokenClaims) (bool, error) {
	n, err := s.rdb.Del(ctx, refreshTokenKey(claims)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// AddToBlacklist トークンを有効期限までブラックリストに登録
func (s *tokenService) AddToBlacklist(ctx context.Context, claims *utils.TokenClaims, token string) error {
	ttl := time.Until(time.Unix(claims.ExpiresAt, 0))
	if ttl <= 0 {
		// 既に期限切れなら再利用されることはない
		return nil
	}
	return s.rdb.Set(ctx, blacklistKey(token), claims.Subject, ttl).Err()
}

// RevokeAll 会員のリフレッシュトークンをすべて削除
func (s *tokenService) RevokeAll(ctx context.Context, email string) error {
	pattern := refreshTokenKeyPrefix + escapeGlob(email) + ":*"

	iter := s.rdb.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return s.rdb.Del(ctx, keys...).Err()
}

func refreshTokenKey(claims *utils.TokenClaims) string {
	return refreshTokenKeyPrefix + claims.Subject + ":" + claims.Id
}

func blacklistKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return blacklistKeyPrefix + hex.EncodeToString(sum[:])
}

var globEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)

func escapeGlob(s string) string {
	return globEscaper.Replace(s)
}
