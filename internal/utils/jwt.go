package utils

import (
	"errors"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
)

// トークン種別
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// TokenClaims JWTトークンのペイロード（Subjectは会員のメールアドレス）
type TokenClaims struct {
	TokenType string `json:"token_type"`
	jwt.StandardClaims
}

// GenerateJWT メールアドレスを主体とする署名付きトークンを生成する
func GenerateJWT(secret []byte, email, tokenType string, ttl time.Duration) (string, *TokenClaims, error) {
	now := time.Now()

	// クレームを作成
	claims := &TokenClaims{
		TokenType: tokenType,
		StandardClaims: jwt.StandardClaims{
			Id:        uuid.NewString(),
			Subject:   email,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(ttl).Unix(),
		},
	}

	// 署名して文字列化
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(secret)
	if err != nil {
		return "", nil, err
	}

	return tokenString, claims, nil
}

// ParseJWT 署名と有効期限を検証してクレームを返す
func ParseJWT(secret []byte, tokenString string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		// 署名方法を確認
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Subject == "" || claims.Id == "" {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}
