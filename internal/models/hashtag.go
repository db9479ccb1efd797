package models

// Hashtag ハッシュタグモデル（全投稿で共有される語彙）
type Hashtag struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"size:100;uniqueIndex;not null"`
}

// PostHashtag 投稿とハッシュタグの中間テーブル
type PostHashtag struct {
	ID        uint `gorm:"primaryKey"`
	PostID    uint `gorm:"uniqueIndex:idx_post_hashtag;not null"`
	HashtagID uint `gorm:"uniqueIndex:idx_post_hashtag;not null"`

	Hashtag Hashtag `gorm:"foreignKey:HashtagID"`
}

// TableName テーブル名指定
func (PostHashtag) TableName() string {
	return "post_hashtag"
}
