package models

// All マイグレーション対象のモデル一覧（依存される側が先）
func All() []interface{} {
	return []interface{}{
		&Member{},
		&ProfileImage{},
		&Hashtag{},
		&Post{},
		&PostImage{},
		&PostHashtag{},
		&Like{},
		&SearchHistory{},
		&PlaceInfo{},
	}
}
