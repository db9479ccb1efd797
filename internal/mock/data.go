package mock

import (
	"testing"
	"time"

	"github.com/SketchShifter/midpoint_backend/internal/config"
	"github.com/SketchShifter/midpoint_backend/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Password モック会員の共通パスワード
const Password = "password1234"

// DefaultProfileImageURL テスト用の既定プロフィール画像
const DefaultProfileImageURL = "https://midpoint-bucket.s3.ap-northeast-2.amazonaws.com/profile-images/default_image.png"

// モック会員
var Members = []models.Member{
	{
		Email:    "john@example.com",
		LoginID:  "johndoe",
		Nickname: "john",
		Name:     "John Doe",
	},
	{
		Email:    "jane@example.com",
		LoginID:  "janesmith",
		Nickname: "jane",
		Name:     "Jane Smith",
	},
}

// 退会会員用アカウント
var DeletedMember = models.Member{
	Email:    "deleted@midpoint.invalid",
	LoginID:  "deleted_member",
	Nickname: "退会した会員",
	Name:     "delete_member",
}

// モックハッシュタグ
var Hashtags = []string{"カフェ", "公園", "レストラン", "映画館"}

// Config テスト用の設定
func Config() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:          "test-secret",
			AccessTokenExpiry:  30 * time.Minute,
			RefreshTokenExpiry: 14 * 24 * time.Hour,
		},
		Storage: config.StorageConfig{
			Driver:                 "s3",
			MaxUploadSize:          10,
			AllowedTypes:           []string{".png", ".jpg", ".jpeg", ".gif", ".webp"},
			DefaultProfileImageURL: DefaultProfileImageURL,
		},
		AWS: config.AWSConfig{
			Region: "ap-northeast-2",
			Bucket: "midpoint-bucket",
		},
		Member: config.MemberConfig{
			DeletedMemberLoginID: DeletedMember.LoginID,
		},
	}
}

// SeedMember 会員を既定のプロフィール画像付きで登録
func SeedMember(t testing.TB, db *gorm.DB, m models.Member) *models.Member {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("パスワードのハッシュ化に失敗しました: %v", err)
	}
	m.Password = string(hashed)

	if err := db.Create(&m).Error; err != nil {
		t.Fatalf("会員の登録に失敗しました: %v", err)
	}
	if err := db.Create(&models.ProfileImage{MemberID: m.ID, ImageURL: DefaultProfileImageURL}).Error; err != nil {
		t.Fatalf("プロフィール画像の登録に失敗しました: %v", err)
	}
	return &m
}

// SeedPost ハッシュタグと画像付きの投稿を登録
func SeedPost(t testing.TB, db *gorm.DB, owner *models.Member, title string, imageURLs ...string) *models.Post {
	t.Helper()

	post := &models.Post{
		MemberID: owner.ID,
		Title:    title,
		Content:  title + " の本文",
	}
	if err := db.Omit("Member", "Images", "PostHashtags").Create(post).Error; err != nil {
		t.Fatalf("投稿の登録に失敗しました: %v", err)
	}

	for _, name := range Hashtags[:2] {
		var hashtag models.Hashtag
		if err := db.Where(models.Hashtag{Name: name}).FirstOrCreate(&hashtag).Error; err != nil {
			t.Fatalf("ハッシュタグの登録に失敗しました: %v", err)
		}
		if err := db.Create(&models.PostHashtag{PostID: post.ID, HashtagID: hashtag.ID}).Error; err != nil {
			t.Fatalf("ハッシュタグの関連付けに失敗しました: %v", err)
		}
	}

	for _, u := range imageURLs {
		if err := db.Create(&models.PostImage{PostID: post.ID, MemberID: owner.ID, ImageURL: u}).Error; err != nil {
			t.Fatalf("投稿画像の登録に失敗しました: %v", err)
		}
	}
	return post
}
