package models

import (
	"time"
)

// ProfileImage 会員のプロフィール画像（会員ごとに1件）
type ProfileImage struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	MemberID  uint      `json:"member_id" gorm:"uniqueIndex;not null"`
	ImageURL  string    `json:"image_url" gorm:"size:512;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PostImage 投稿に添付された画像
type PostImage struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    uint      `json:"post_id" gorm:"index;not null"`
	MemberID  uint      `json:"member_id" gorm:"index;not null"`
	ImageURL  string    `json:"image_url" gorm:"size:512;not null"`
	CreatedAt time.Time `json:"created_at"`
}
