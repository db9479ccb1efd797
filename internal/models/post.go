package models

import (
	"time"
)

// Post 投稿モデル
type Post struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	MemberID  uint      `json:"member_id" gorm:"index;not null"`
	Title     string    `json:"title" gorm:"size:255;not null"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`

	// リレーション
	Member       Member        `json:"-" gorm:"foreignKey:MemberID"`
	Images       []PostImage   `json:"-" gorm:"foreignKey:PostID"`
	PostHashtags []PostHashtag `json:"-" gorm:"foreignKey:PostID"`
}
