package models

import (
	"time"
)

// Member 会員モデル
type Member struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Email     string    `json:"email" gorm:"size:255;uniqueIndex;not null"`
	LoginID   string    `json:"login_id" gorm:"size:100;uniqueIndex;not null"`
	Nickname  string    `json:"nickname" gorm:"size:100;uniqueIndex;not null"`
	Name      string    `json:"name" gorm:"size:100;not null"`
	Password  string    `json:"-" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// リレーション
	ProfileImage *ProfileImage `json:"-"`
	Posts        []Post        `json:"-"`
}
