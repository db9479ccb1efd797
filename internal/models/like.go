package models

import (
	"time"
)

// Like いいねモデル（会員と投稿の組につき1件）
type Like struct {
	MemberID  uint      `json:"member_id" gorm:"primaryKey"`
	PostID    uint      `json:"post_id" gorm:"primaryKey;index"`
	CreatedAt time.Time `json:"created_at"`
}
