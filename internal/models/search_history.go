package models

import (
	"time"
)

// SearchHistory 会員の場所検索履歴
type SearchHistory struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	MemberID     uint      `json:"member_id" gorm:"index;not null"`
	Neighborhood string    `json:"neighborhood" gorm:"size:100;not null"`
	SearchDate   time.Time `json:"search_date" gorm:"index;not null"`

	// リレーション
	Places []PlaceInfo `json:"places" gorm:"foreignKey:SearchHistoryID"`
}

// PlaceInfo 検索履歴に含まれる場所
type PlaceInfo struct {
	ID              uint    `json:"id" gorm:"primaryKey"`
	SearchHistoryID uint    `json:"search_history_id" gorm:"index;not null"`
	Position        int     `json:"position" gorm:"not null"`
	PlaceName       string  `json:"place_name" gorm:"size:255;not null"`
	PlaceAddress    string  `json:"place_address" gorm:"size:255;not null"`
	Latitude        float64 `json:"latitude"`
	Longitude       float64 `json:"longitude"`
	ImageURL        string  `json:"image_url" gorm:"size:512"`
}
