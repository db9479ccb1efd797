package utils

import (
	"testing"
	"time"
)

var testSecret = []byte("test-secret")

func TestGenerateAndParseJWT(t *testing.T) {
	token, claims, err := GenerateJWT(testSecret, "user@example.com", TokenTypeRefresh, time.Hour)
	if err != nil {
		t.Fatalf("トークンの生成に失敗しました: %v", err)
	}

	parsed, err := ParseJWT(testSecret, token)
	if err != nil {
		t.Fatalf("トークンの検証に失敗しました: %v", err)
	}

	if parsed.Subject != "user@example.com" {
		t.Errorf("Subject が一致しません: %s", parsed.Subject)
	}
	if parsed.TokenType != TokenTypeRefresh {
		t.Errorf("TokenType が一致しません: %s", parsed.TokenType)
	}
	if parsed.Id != claims.Id {
		t.Errorf("jti が一致しません: %s != %s", parsed.Id, claims.Id)
	}
}

func TestGenerateJWTUniqueIDs(t *testing.T) {
	a, _, _ := GenerateJWT(testSecret, "user@example.com", TokenTypeAccess, time.Hour)
	b, _, _ := GenerateJWT(testSecret, "user@example.com", TokenTypeAccess, time.Hour)
	if a == b {
		t.Error("同時に発行したトークンが同一になっています")
	}
}

func TestParseJWTRejectsExpired(t *testing.T) {
	token, _, err := GenerateJWT(testSecret, "user@example.com", TokenTypeAccess, -time.Minute)
	if err != nil {
		t.Fatalf("トークンの生成に失敗しました: %v", err)
	}

	if _, err := ParseJWT(testSecret, token); err == nil {
		t.Error("期限切れのトークンが受理されました")
	}
}

func TestParseJWTRejectsWrongSecret(t *testing.T) {
	token, _, _ := GenerateJWT(testSecret, "user@example.com", TokenTypeAccess, time.Hour)

	if _, err := ParseJWT([]byte("other-secret"), token); err == nil {
		t.Error("異なる鍵で署名されたトークンが受理されました")
	}
}

func TestParseJWTRejectsGarbage(t *testing.T) {
	if _, err := ParseJWT(testSecret, "not-a-token"); err == nil {
		t.Error("不正な文字列が受理されました")
	}
}
