package services

import (
	"context"
	"errors"
	"testing"

	"github.com/SketchShifter/midpoint_backend/internal/mock"
)

func TestLoginByEmailOrLoginID(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	member := mock.SeedMember(t, env.db, mock.Members[0])

	for _, identifier := range []string{member.Email, member.LoginID} {
		pair, err := env.auth.Login(ctx, identifier, mock.Password)
		if err != nil {
			t.Fatalf("%s でログインできません: %v", identifier, err)
		}

		got, err := env.auth.MemberFromAccessToken(ctx, pair.AccessToken)
		if err != nil {
			t.Fatalf("アクセストークンから会員を取得できません: %v", err)
		}
		if got.ID != member.ID {
			t.Errorf("別の会員が返されました: %d != %d", got.ID, member.ID)
		}
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	member := mock.SeedMember(t, env.db, mock.Members[0])

	_, wrongPassword := env.auth.Login(ctx, member.Email, "wrong-password")
	_, unknownMember := env.auth.Login(ctx, "nobody@example.com", mock.Password)

	for _, err := range []error{wrongPassword, unknownMember} {
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("ErrInvalidCredentials になるべきです: %v", err)
		}
	}
	if wrongPassword.Error() != unknownMember.Error() {
		t.Error("会員の有無でエラーメッセージが異なります")
	}
}

func TestRefreshAccessTokenRotates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	member := mock.SeedMember(t, env.db, mock.Members[0])

	pair, err := env.auth.Login(ctx, member.Email, mock.Password)
	if err != nil {
		t.Fatalf("ログインに失敗しました: %v", err)
	}

	refreshed, err := env.auth.RefreshAccessToken(ctx, pair.RefreshToken)
	if err != nil {
		t.Fatalf("トークンの再発行に失敗しました: %v", err)
	}
	if refreshed.RefreshToken == pair.RefreshToken {
		t.Error("リフレッシュトークンが更新されていません")
	}

	if _, err := env.auth.RefreshAccessToken(ctx, pair.RefreshToken); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("使用済みのトークンは ErrInvalidToken になるべきです: %v", err)
	}
	if _, err := env.auth.RefreshAccessToken(ctx, refreshed.RefreshToken); err != nil {
		t.Errorf("新しいトークンで再発行できません: %v", err)
	}
}

func TestRefreshAccessTokenRejectsAccessToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	member := mock.SeedMember(t, env.db, mock.Members[0])

	pair, _ := env.auth.Login(ctx, member.Email, mock.Password)

	if _, err := env.auth.RefreshAccessToken(ctx, pair.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("アクセストークンでは再発行できないはずです: %v", err)
	}
	if _, err := env.auth.MemberFromAccessToken(ctx, pair.RefreshToken); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("リフレッシュトークンでは認証できないはずです: %v", err)
	}
}

func TestRefreshAccessTokenMemberNotFound(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	pair, err := env.tokens.IssueTokenPair(ctx, "ghost@example.com")
	if err != nil {
		t.Fatalf("トークンの発行に失敗しました: %v", err)
	}

	if _, err := env.auth.RefreshAccessToken(ctx, pair.RefreshToken); !errors.Is(err, ErrMemberNotFound) {
		t.Errorf("ErrMemberNotFound になるべきです: %v", err)
	}
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	member := mock.SeedMember(t, env.db, mock.Members[0])

	pair, _ := env.auth.Login(ctx, member.Email, mock.Password)

	if err := env.auth.Logout(ctx, pair.RefreshToken); err != nil {
		t.Fatalf("ログアウトに失敗しました: %v", err)
	}
	if blacklisted, _ := env.tokens.IsInBlacklist(ctx, pair.RefreshToken); !blacklisted {
		t.Error("ブラックリストに登録されていません")
	}
	if _, err := env.auth.RefreshAccessToken(ctx, pair.RefreshToken); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("ログアウト後は再発行できないはずです: %v", err)
	}
	if err := env.auth.Logout(ctx, pair.RefreshToken); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("二重のログアウトは ErrInvalidToken になるべきです: %v", err)
	}
	if err := env.auth.Logout(ctx, "garbage"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("不正なトークンは ErrInvalidToken になるべきです: %v", err)
	}
}
